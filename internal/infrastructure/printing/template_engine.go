package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names
const (
	TemplateSaleReceipt  = "sale_receipt"
	TemplateServiceOrder = "service_order"
)

// TemplateEngine renders the embedded document templates to HTML
type TemplateEngine struct {
	templates *template.Template
	shopName  string
}

// NewTemplateEngine parses every embedded template. shopName is exposed to templates as {{shop}}.
func NewTemplateEngine(shopName string) (*TemplateEngine, error) {
	e := &TemplateEngine{shopName: shopName}
	tmpl, err := template.New("documents").Funcs(e.funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse document templates: %w", err)
	}
	e.templates = tmpl
	return e, nil
}

// Has reports whether a template with that name exists
func (e *TemplateEngine) Has(name string) bool {
	return e.templates.Lookup(name+".html") != nil
}

// Render executes the named template with data
func (e *TemplateEngine) Render(name string, data interface{}) (string, error) {
	tmpl := e.templates.Lookup(name + ".html")
	if tmpl == nil {
		return "", NewRenderError(ErrCodeUnknownTemplate, "unknown template "+name, nil)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template "+name, err)
	}
	return buf.String(), nil
}

func (e *TemplateEngine) funcMap() template.FuncMap {
	return template.FuncMap{
		"shop":           func() string { return e.shopName },
		"formatMoney":    formatMoney,
		"formatQuantity": formatQuantity,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"label":          label,
		"upper":          strings.ToUpper,
		"shortID":        shortID,
		"default":        defaultString,
		"notZero":        func(v interface{}) bool { return !toDecimal(v).IsZero() },
	}
}

// formatMoney renders 1234.5 as "R$ 1.234,50"
func formatMoney(v interface{}) string {
	d := toDecimal(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	intPart, decPart, _ := strings.Cut(d.StringFixed(2), ".")
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	return sign + "R$ " + b.String() + "," + decPart
}

// formatQuantity drops trailing zeros: 2.0000 -> "2", 1.5 -> "1,5"
func formatQuantity(v interface{}) string {
	return strings.Replace(toDecimal(v).String(), ".", ",", 1)
}

func formatDate(v interface{}) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func formatDateTime(v interface{}) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

// label turns a status code like "awaiting_approval" into "Awaiting Approval"
func label(code string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(code, "_", " "))
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func defaultString(fallback, s string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func toDecimal(v interface{}) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

func toTime(v interface{}) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	default:
		return time.Time{}
	}
}
