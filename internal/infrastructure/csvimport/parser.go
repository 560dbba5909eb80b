// Package csvimport reads spreadsheet exports into header keyed rows
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser reads CSV rows keyed by their normalized header
type Parser struct {
	reader     *csv.Reader
	headers    []string
	headerMap  map[string]int
	delimiter  rune
	currentRow int
	maxRows    int
	dataRows   int
}

// Option configures a Parser
type Option func(*Parser)

// WithDelimiter forces the field delimiter instead of detecting it from the header line
func WithDelimiter(d rune) Option {
	return func(p *Parser) { p.delimiter = d }
}

// WithMaxRows makes ReadRow fail with ErrTooManyRows after n data rows
func WithMaxRows(n int) Option {
	return func(p *Parser) { p.maxRows = n }
}

// NewParser reads the whole input, strips a UTF-8 BOM, decodes Windows-1252 content
// that is not valid UTF-8 and parses the header row.
func NewParser(r io.Reader, opts ...Option) (*Parser, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, ErrInvalidEncoding
		}
		data = decoded
	}

	p := &Parser{headerMap: make(map[string]int)}
	for _, opt := range opts {
		opt(p)
	}
	if p.delimiter == 0 {
		p.delimiter = detectDelimiter(data)
	}

	p.reader = csv.NewReader(bytes.NewReader(data))
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1

	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// detectDelimiter picks ';' when the first line has more semicolons than commas,
// as spreadsheets do in locales with a decimal comma
func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

func (p *Parser) parseHeader() error {
	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	p.currentRow = 1
	for i, h := range record {
		name := NormalizeHeader(h)
		if name == "" {
			continue
		}
		if _, dup := p.headerMap[name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateHeader, name)
		}
		p.headerMap[name] = i
		p.headers = append(p.headers, name)
	}
	if len(p.headers) == 0 {
		return ErrMissingHeader
	}
	return nil
}

// NormalizeHeader lowercases h and turns spaces and dashes into underscores
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

// Headers returns the normalized header names in file order
func (p *Parser) Headers() []string {
	return p.headers
}

// Delimiter returns the delimiter in use
func (p *Parser) Delimiter() rune {
	return p.delimiter
}

// Missing returns the required headers absent from the file
func (p *Parser) Missing(required ...string) []string {
	var missing []string
	for _, h := range required {
		if _, ok := p.headerMap[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one data line; Line counts the header as line 1
type Row struct {
	Line int
	Data map[string]string
}

// Get returns the trimmed value of a column, empty when absent
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty reports whether every cell is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow returns the next row or io.EOF. Blank lines are skipped.
func (p *Parser) ReadRow() (*Row, error) {
	for {
		record, err := p.reader.Read()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				p.currentRow = perr.StartLine
			}
			return nil, NewRowError(p.currentRow, "", ErrCodeMalformedRow, err.Error())
		}
		p.currentRow, _ = p.reader.FieldPos(0)

		row := &Row{Line: p.currentRow, Data: make(map[string]string, len(p.headers))}
		for name, idx := range p.headerMap {
			if idx < len(record) {
				row.Data[name] = strings.TrimSpace(record[idx])
			} else {
				row.Data[name] = ""
			}
		}
		if row.IsEmpty() {
			continue
		}
		p.dataRows++
		if p.maxRows > 0 && p.dataRows > p.maxRows {
			return nil, ErrTooManyRows
		}
		return row, nil
	}
}

// ReadAll returns every remaining row, stopping at the first read error
func (p *Parser) ReadAll() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}
