package employee

import (
	"strings"

	"github.com/shopspring/decimal"
)

// averageNumeric is the only place salary strings are read as numbers.
// Blank or non-numeric values are skipped; no numeric values yields 0.
func averageNumeric(values []string) float64 {
	sum := decimal.Zero
	n := int64(0)
	for _, v := range values {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			continue
		}
		sum = sum.Add(d)
		n++
	}
	if n == 0 {
		return 0
	}

	avg, _ := sum.Div(decimal.NewFromInt(n)).Float64()
	return avg
}
