package csvimport

import (
	"errors"
	"fmt"
)

// Row error codes
const (
	ErrCodeMalformedRow  = "MALFORMED_ROW"
	ErrCodeRequired      = "REQUIRED_FIELD"
	ErrCodeInvalidNumber = "INVALID_NUMBER"
	ErrCodeInvalidValue  = "INVALID_VALUE"
	ErrCodeDuplicate     = "DUPLICATE_IN_FILE"
	ErrCodeConflict      = "ALREADY_EXISTS"
	ErrCodeRejected      = "REJECTED"
)

var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrInvalidEncoding = errors.New("file is neither UTF-8 nor Windows-1252")
	ErrMissingHeader   = errors.New("CSV file has no header row")
	ErrDuplicateHeader = errors.New("duplicate column")
	ErrTooManyRows     = errors.New("CSV file has too many rows")
)

// RowError is a problem with one cell or line of the file
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a RowError
func NewRowError(row int, column, code, message string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message}
}

// WithValue attaches the offending cell value
func (e RowError) WithValue(v string) RowError {
	e.Value = v
	return e
}

// ErrorCollector keeps the first max row errors and counts the rest
type ErrorCollector struct {
	max    int
	errors []RowError
	total  int
	rows   map[int]bool
}

// NewErrorCollector keeps at most max errors; max <= 0 keeps all of them
func NewErrorCollector(max int) *ErrorCollector {
	return &ErrorCollector{max: max, rows: make(map[int]bool)}
}

// Add records err
func (c *ErrorCollector) Add(err RowError) {
	c.total++
	c.rows[err.Row] = true
	if c.max <= 0 || len(c.errors) < c.max {
		c.errors = append(c.errors, err)
	}
}

// Errors returns the kept errors
func (c *ErrorCollector) Errors() []RowError {
	return c.errors
}

// Total counts every error added
func (c *ErrorCollector) Total() int {
	return c.total
}

// Truncated reports whether errors were dropped
func (c *ErrorCollector) Truncated() bool {
	return c.total > len(c.errors)
}

// FailedRows counts distinct rows with at least one error
func (c *ErrorCollector) FailedRows() int {
	return len(c.rows)
}

// HasRow reports whether row has an error
func (c *ErrorCollector) HasRow(row int) bool {
	return c.rows[row]
}
