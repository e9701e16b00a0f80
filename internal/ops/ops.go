// Package ops is the fixed operator registry: the mapping from a node's
// availableId selector to its evaluation behavior.
package ops

import "math"

// Special node kinds dispatched by the evaluator rather than by a pure
// function. They are present in the registry for name lookup only.
const (
	// KindFinal (28) is the sink: it passes its single input through as the
	// device's boolean actuation decision.
	KindFinal = 28
	// KindSource (30) injects entries from the external value table into its
	// output connectors; node inputs are ignored entirely.
	KindSource = 30
)

// Family groups operators by the coercion their inputs receive.
type Family int

const (
	FamilyBoolean Family = iota + 1
	FamilyNumeric
	FamilySource
	FamilyFinal
)

// Op is one registry entry. Exactly one of Bool or Num is set, matching the
// family. Both functions are pure and total: the evaluator zero-pads the
// input slice to Arity, and any numeric edge case (divide by zero, log of a
// negative) yields a defined value instead of failing.
type Op struct {
	Name   string
	Family Family
	Arity  int
	Bool   func([]bool) bool
	Num    func([]float64) float64
}

// Lookup returns the operator for an availableId. Unknown ids return false;
// the evaluator treats those nodes as no-ops, not faults.
func Lookup(availableID int) (Op, bool) {
	op, ok := registry[availableID]
	return op, ok
}

func boolOp(name string, arity int, fn func([]bool) bool) Op {
	return Op{Name: name, Family: FamilyBoolean, Arity: arity, Bool: fn}
}

func numOp(name string, arity int, fn func([]float64) float64) Op {
	return Op{Name: name, Family: FamilyNumeric, Arity: arity, Num: fn}
}

// cmpOp wraps a comparison as a numeric operator whose result is 1.0 or 0.0.
func cmpOp(name string, fn func(a, b float64) bool) Op {
	return numOp(name, 2, func(in []float64) float64 {
		if fn(in[0], in[1]) {
			return 1
		}
		return 0
	})
}

var registry = map[int]Op{
	1: boolOp("not", 1, func(in []bool) bool { return !in[0] }),
	2: boolOp("and", 2, func(in []bool) bool { return in[0] && in[1] }),
	3: boolOp("or", 2, func(in []bool) bool { return in[0] || in[1] }),
	4: boolOp("xor", 2, func(in []bool) bool { return in[0] != in[1] }),
	5: boolOp("nor", 2, func(in []bool) bool { return !(in[0] || in[1]) }),
	6: boolOp("nand", 2, func(in []bool) bool { return !(in[0] && in[1]) }),
	7: boolOp("xnor", 2, func(in []bool) bool { return in[0] == in[1] }),

	8: numOp("add", 2, func(in []float64) float64 { return in[0] + in[1] }),
	9: numOp("subtract", 2, func(in []float64) float64 { return in[0] - in[1] }),
	10: numOp("multiply", 2, func(in []float64) float64 { return in[0] * in[1] }),
	11: numOp("divide", 2, func(in []float64) float64 {
		if in[1] == 0 {
			return 0
		}
		return in[0] / in[1]
	}),
	12: numOp("power", 2, func(in []float64) float64 { return math.Pow(in[0], in[1]) }),
	13: numOp("log", 1, func(in []float64) float64 { return math.Log(in[0]) }),
	14: numOp("sqrt", 1, func(in []float64) float64 { return math.Sqrt(in[0]) }),
	15: numOp("abs", 1, func(in []float64) float64 { return math.Abs(in[0]) }),
	16: numOp("exp", 1, func(in []float64) float64 { return math.Exp(in[0]) }),
	17: numOp("min", 2, func(in []float64) float64 { return math.Min(in[0], in[1]) }),
	18: numOp("max", 2, func(in []float64) float64 { return math.Max(in[0], in[1]) }),

	19: cmpOp("less", func(a, b float64) bool { return a < b }),
	20: cmpOp("greater", func(a, b float64) bool { return a > b }),
	21: cmpOp("less_or_equal", func(a, b float64) bool { return a <= b }),
	22: cmpOp("greater_or_equal", func(a, b float64) bool { return a >= b }),
	23: cmpOp("equal", func(a, b float64) bool { return a == b }),
	24: cmpOp("not_equal", func(a, b float64) bool { return a != b }),

	25: numOp("round", 1, func(in []float64) float64 { return math.Round(in[0]) }),
	26: numOp("floor", 1, func(in []float64) float64 { return math.Floor(in[0]) }),
	27: numOp("ceil", 1, func(in []float64) float64 { return math.Ceil(in[0]) }),

	KindFinal:  {Name: "final", Family: FamilyFinal, Arity: 1},
	KindSource: {Name: "source", Family: FamilySource},
}
