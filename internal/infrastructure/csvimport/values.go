package csvimport

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal reads numbers written with either decimal separator, such as
// "1234.5", "1.234,50" or "R$ 12,90". The separator that comes last is the decimal one.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty number")
	}
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case dot > comma && comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	return d, nil
}

// ParseBool accepts true/false, yes/no, sim/não, 1/0 and x for checked spreadsheet cells.
// An empty cell is false.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "no", "n", "nao", "não", "0":
		return false, nil
	case "true", "yes", "y", "sim", "s", "1", "x":
		return true, nil
	}
	return false, fmt.Errorf("%q is not a yes/no value", s)
}
