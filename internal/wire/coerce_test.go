package wire

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"On", true},
		{"yes", true},
		{"1", true},
		{"false", false},
		{"Off", false},
		{"no", false},
		{"0", false},
		{"  true  ", true},
		{"3.5", true},
		{"-0.25", true},
		{"0.0", false},
		{"abc", false},
		{"null", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceBool(tt.in))
		})
	}
}

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"3.5", 3.5},
		{"-2", -2},
		{" 7 ", 7},
		{"1e3", 1000},
		{"abc", 0},
		{"null", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceFloat(tt.in))
		})
	}
}

// TestCoercionTotality checks that both coercions accept arbitrary input
// without panicking and are deterministic.
func TestCoercionTotality(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("CoerceBool is total and deterministic", prop.ForAll(
		func(s string) bool {
			return CoerceBool(s) == CoerceBool(s)
		},
		gen.AnyString(),
	))

	properties.Property("CoerceFloat is total and deterministic", prop.ForAll(
		func(s string) bool {
			// Bitwise comparison so inputs like "NaN" still count as stable.
			return math.Float64bits(CoerceFloat(s)) == math.Float64bits(CoerceFloat(s))
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
