package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverageNumeric(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   float64
	}{
		{name: "mean", values: []string{"50000", "60000"}, want: 55000},
		{name: "empty", values: nil, want: 0},
		{name: "skips non numeric", values: []string{"", "abc", "40000", " 20000 "}, want: 30000},
		{name: "all non numeric", values: []string{"n/a"}, want: 0},
		{name: "fractional", values: []string{"1", "2"}, want: 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, averageNumeric(tt.values))
		})
	}
}
