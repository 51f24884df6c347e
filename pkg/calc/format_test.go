package calc_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcalc/pkg/calc"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"zero", 0, "0"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"integer", 42, "42"},
		{"negative integer", -7, "-7"},
		{"integral float", 2.0, "2"},
		{"large integer", 1e21, "1000000000000000000000"},
		{"half", 0.5, "0.5"},
		{"rounded to ten places", 2.0 / 3.0, "0.6666666667"},
		{"rounds up to integer", 0.99999999999, "1"},
		{"tiny value", 1e-12, "0"},
		{"negative fraction", -1.0 / 3.0, "-0.3333333333"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.Format(tt.in))
		})
	}
}

func TestFormatIdempotent(t *testing.T) {
	values := []float64{0, 1, -1, 0.1 + 0.2, 1.0 / 7.0, math.Pi, 1e15 + 0.5, -2.5e-7, 123456.7890123456}

	for _, v := range values {
		first := calc.Format(v)
		parsed, err := strconv.ParseFloat(first, 64)
		require.NoError(t, err)
		assert.Equal(t, first, calc.Format(parsed), "format of %v", v)
	}
}
