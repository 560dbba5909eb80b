package printing

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PageSetup is the paper a document prints on, in millimetres.
// A zero Height prints one continuous page, as thermal receipt printers do.
type PageSetup struct {
	Width  float64
	Height float64
	Margin float64
}

var (
	PageA4      = PageSetup{Width: 210, Height: 297, Margin: 12}
	PageReceipt = PageSetup{Width: 80, Margin: 4}
)

// PDFBackend converts a complete HTML document to PDF
type PDFBackend interface {
	Render(ctx context.Context, html string, page PageSetup) ([]byte, error)
	Close() error
}

// DocumentRenderer renders named templates to PDF
type DocumentRenderer struct {
	engine  *TemplateEngine
	backend PDFBackend
	pages   map[string]PageSetup
	logger  *zap.Logger
}

// NewDocumentRenderer combines the template engine with a PDF backend
func NewDocumentRenderer(engine *TemplateEngine, backend PDFBackend, logger *zap.Logger) *DocumentRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentRenderer{
		engine:  engine,
		backend: backend,
		pages: map[string]PageSetup{
			TemplateSaleReceipt:  PageReceipt,
			TemplateServiceOrder: PageA4,
		},
		logger: logger,
	}
}

// RenderPDF renders template with data. Templates without a page setup print on A4.
func (r *DocumentRenderer) RenderPDF(ctx context.Context, template string, data interface{}) ([]byte, error) {
	start := time.Now()
	html, err := r.engine.Render(template, data)
	if err != nil {
		return nil, err
	}
	page, ok := r.pages[template]
	if !ok {
		page = PageA4
	}
	pdf, err := r.backend.Render(ctx, html, page)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Document rendered",
		zap.String("template", template),
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)))
	return pdf, nil
}

// Close releases the PDF backend
func (r *DocumentRenderer) Close() error {
	return r.backend.Close()
}

// RenderError is a failure while producing a document
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

const (
	ErrCodeRenderTimeout   = "RENDER_TIMEOUT"
	ErrCodeRenderFailed    = "RENDER_FAILED"
	ErrCodeInvalidHTML     = "INVALID_HTML"
	ErrCodeUnknownTemplate = "UNKNOWN_TEMPLATE"
)

func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}
