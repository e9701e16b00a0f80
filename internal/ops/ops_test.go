package ops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup(99)
	assert.False(t, ok)
	_, ok = Lookup(0)
	assert.False(t, ok)
	_, ok = Lookup(29)
	assert.False(t, ok)
}

func TestBooleanFamily(t *testing.T) {
	tests := []struct {
		id   int
		name string
		in   []bool
		want bool
	}{
		{1, "not", []bool{true}, false},
		{1, "not", []bool{false}, true},
		{2, "and", []bool{true, false}, false},
		{2, "and", []bool{true, true}, true},
		{3, "or", []bool{false, true}, true},
		{3, "or", []bool{false, false}, false},
		{4, "xor", []bool{true, true}, false},
		{4, "xor", []bool{true, false}, true},
		{5, "nor", []bool{false, false}, true},
		{5, "nor", []bool{true, false}, false},
		{6, "nand", []bool{true, true}, false},
		{6, "nand", []bool{false, true}, true},
		{7, "xnor", []bool{true, true}, true},
		{7, "xnor", []bool{true, false}, false},
	}
	for _, tt := range tests {
		op, ok := Lookup(tt.id)
		require.True(t, ok)
		assert.Equal(t, tt.name, op.Name)
		assert.Equal(t, FamilyBoolean, op.Family)
		assert.Equal(t, tt.want, op.Bool(tt.in), "%s%v", tt.name, tt.in)
	}
}

func TestNumericFamily(t *testing.T) {
	tests := []struct {
		id   int
		name string
		in   []float64
		want float64
	}{
		{8, "add", []float64{2, 3}, 5},
		{9, "subtract", []float64{2, 3}, -1},
		{10, "multiply", []float64{2, 3}, 6},
		{11, "divide", []float64{6, 3}, 2},
		{11, "divide", []float64{5, 0}, 0}, // divide by zero yields 0
		{12, "power", []float64{2, 10}, 1024},
		{13, "log", []float64{math.E}, 1},
		{14, "sqrt", []float64{9}, 3},
		{15, "abs", []float64{-4}, 4},
		{16, "exp", []float64{0}, 1},
		{17, "min", []float64{2, 3}, 2},
		{18, "max", []float64{2, 3}, 3},
		{19, "less", []float64{1, 2}, 1},
		{19, "less", []float64{2, 1}, 0},
		{20, "greater", []float64{2, 1}, 1},
		{21, "less_or_equal", []float64{2, 2}, 1},
		{22, "greater_or_equal", []float64{1, 2}, 0},
		{23, "equal", []float64{2, 2}, 1},
		{24, "not_equal", []float64{2, 2}, 0},
		{25, "round", []float64{2.5}, 3},
		{26, "floor", []float64{2.9}, 2},
		{27, "ceil", []float64{2.1}, 3},
	}
	for _, tt := range tests {
		op, ok := Lookup(tt.id)
		require.True(t, ok)
		assert.Equal(t, tt.name, op.Name)
		assert.Equal(t, FamilyNumeric, op.Family)
		assert.InDelta(t, tt.want, op.Num(tt.in), 1e-12, "%s%v", tt.name, tt.in)
	}
}

func TestSpecialKinds(t *testing.T) {
	final, ok := Lookup(KindFinal)
	require.True(t, ok)
	assert.Equal(t, FamilyFinal, final.Family)

	source, ok := Lookup(KindSource)
	require.True(t, ok)
	assert.Equal(t, FamilySource, source.Family)
}
