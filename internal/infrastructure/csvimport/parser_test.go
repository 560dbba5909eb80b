package csvimport

import (
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_CommaFile(t *testing.T) {
	p, err := NewParser(strings.NewReader("SKU,Name,Sale Price\nCAP-1, Capa A54 ,49.90\n\nCAP-2,Capa A34,39\n"))
	require.NoError(t, err)
	assert.Equal(t, ',', p.Delimiter())
	assert.Equal(t, []string{"sku", "name", "sale_price"}, p.Headers())
	assert.Empty(t, p.Missing("sku", "name"))
	assert.Equal(t, []string{"unit"}, p.Missing("sku", "unit"))

	rows, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Capa A54", rows[0].Get("name"))
	assert.Equal(t, 4, rows[1].Line)
	assert.Equal(t, "", rows[1].Get("unknown"))
}

func TestParser_SemicolonWindows1252(t *testing.T) {
	// 0xED is "í" in Windows-1252 and invalid as UTF-8
	data := append([]byte("sku;name;sale_price\nPEL-1;Pel"), 0xED)
	data = append(data, []byte("cula 3D;19,90\n")...)

	p, err := NewParser(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, ';', p.Delimiter())

	row, err := p.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, "Película 3D", row.Get("name"))
	assert.Equal(t, "19,90", row.Get("sale_price"))

	_, err = p.ReadRow()
	assert.ErrorIs(t, err, io.EOF)
}

func TestParser_BOMAndShortRows(t *testing.T) {
	p, err := NewParser(strings.NewReader("\xEF\xBB\xBFsku,name,brand\nX1,Cabo\n"))
	require.NoError(t, err)
	assert.Equal(t, "sku", p.Headers()[0])

	row, err := p.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, "", row.Get("brand"))
}

func TestParser_Errors(t *testing.T) {
	_, err := NewParser(strings.NewReader("  \n"))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = NewParser(strings.NewReader("sku,SKU\n1,2\n"))
	assert.ErrorIs(t, err, ErrDuplicateHeader)

	p, err := NewParser(strings.NewReader("sku\nA\nB\nC\n"), WithMaxRows(2))
	require.NoError(t, err)
	_, err = p.ReadAll()
	assert.ErrorIs(t, err, ErrTooManyRows)

	p, err = NewParser(strings.NewReader("a;b\n1;2\n"), WithDelimiter(','))
	require.NoError(t, err)
	assert.Equal(t, []string{"a;b"}, p.Headers())
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"49.90", "49.9"},
		{"19,90", "19.9"},
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"R$ 1.050,00", "1050"},
		{"-3", "-3"},
	}
	for _, tt := range tests {
		got, err := ParseDecimal(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "%s -> %s", tt.in, got)
	}

	_, err := ParseDecimal("")
	assert.Error(t, err)
	_, err = ParseDecimal("abc")
	assert.Error(t, err)
}

func TestParseBool(t *testing.T) {
	for _, in := range []string{"true", "Sim", "X", "1", "yes"} {
		v, err := ParseBool(in)
		require.NoError(t, err)
		assert.True(t, v, in)
	}
	for _, in := range []string{"", "não", "0", "No"} {
		v, err := ParseBool(in)
		require.NoError(t, err)
		assert.False(t, v, in)
	}
	_, err := ParseBool("maybe")
	assert.Error(t, err)
}

func TestErrorCollector(t *testing.T) {
	c := NewErrorCollector(2)
	c.Add(NewRowError(2, "sku", ErrCodeRequired, "sku is required"))
	c.Add(NewRowError(2, "name", ErrCodeRequired, "name is required"))
	c.Add(NewRowError(5, "sale_price", ErrCodeInvalidNumber, "bad").WithValue("abc"))

	assert.Len(t, c.Errors(), 2)
	assert.Equal(t, 3, c.Total())
	assert.True(t, c.Truncated())
	assert.Equal(t, 2, c.FailedRows())
	assert.True(t, c.HasRow(5))
	assert.False(t, c.HasRow(3))
	assert.Equal(t, "row 2, column 'sku': sku is required", c.Errors()[0].Error())
}
