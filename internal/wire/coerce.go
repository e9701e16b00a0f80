package wire

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// CoerceBool converts a textual value to a boolean.
//
// Leading/trailing whitespace is trimmed and the result is case-folded, so
// "On", "TRUE" and "Yes" all count. Literals map directly:
//
//	"true", "1", "yes", "on"   -> true
//	"false", "0", "no", "off"  -> false
//
// Anything else is parsed as a float: nonzero is true, and a failed parse is
// false. CoerceBool is total - it never fails.
func CoerceBool(s string) bool {
	folded := cases.Fold().String(strings.TrimSpace(s))
	switch folded {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	f, err := strconv.ParseFloat(folded, 64)
	if err != nil {
		return false
	}
	return f != 0
}

// CoerceFloat converts a textual value to a float64, substituting 0.0 for
// anything that does not parse. Like CoerceBool it is total.
func CoerceFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
