package wire

import "strconv"

// Value is a sealed interface over the four kinds of data a connector can
// carry: Boolean, Number, Text, and Absent. Only those types implement it.
//
// The Text() rendering is the wire representation between nodes. Bool() and
// Float() apply the engine's coercion rules (see coerce.go) to that
// rendering, with fast paths for the already-typed kinds.
type Value interface {
	value() // sealed

	// Text returns the textual rendering of the value.
	Text() string

	// Bool coerces the value to a boolean (false on unparseable input).
	Bool() bool

	// Float coerces the value to a float64 (0.0 on unparseable input).
	Float() float64
}

// Absent is the "no value" sentinel an input connector holds until a
// default or an upstream output fills it in. Renders as the literal "null".
type Absent struct{}

func (Absent) value()         {}
func (Absent) Text() string   { return "null" }
func (Absent) Bool() bool     { return false }
func (Absent) Float() float64 { return 0 }

// Boolean is a boolean value. Renders as "true" or "false".
type Boolean bool

func (Boolean) value()       {}
func (b Boolean) Bool() bool { return bool(b) }

func (b Boolean) Text() string {
	if b {
		return "true"
	}
	return "false"
}

// Float coerces over the rendering. Neither "true" nor "false" parses as a
// number, so a Boolean is 0 in numeric context regardless of its value.
func (b Boolean) Float() float64 { return CoerceFloat(b.Text()) }

// Number is a floating-point value.
type Number float64

func (Number) value()           {}
func (n Number) Text() string   { return FormatNumber(float64(n)) }
func (n Number) Bool() bool     { return n != 0 }
func (n Number) Float() float64 { return float64(n) }

// Text is a free-form string value.
type Text string

func (Text) value()           {}
func (t Text) Text() string   { return string(t) }
func (t Text) Bool() bool     { return CoerceBool(string(t)) }
func (t Text) Float() float64 { return CoerceFloat(string(t)) }

// FormatNumber renders a float the way node outputs are serialized.
//
// A result exactly equal to 1.0 renders as "1.0" rather than "1". Downstream
// consumers of the previous firmware match on that exact string, so the
// quirk is kept until they are known not to depend on it.
func FormatNumber(f float64) string {
	if f == 1.0 {
		return "1.0"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
