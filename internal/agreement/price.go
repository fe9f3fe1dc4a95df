package agreement

import (
	"math"
	"strconv"
	"strings"
)

// ParsePrice interprets raw price-field input. ok is false for empty or
// non-numeric input. Zero and negative values parse but fail the guard.
func ParsePrice(input string) (float64, bool) {
	v, err := strconv.ParseFloat(trimmed(input), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Deviation is the difference between the proposed and asking price.
type Deviation struct {
	Delta float64
	Label string // "above", "below", or "" when the prices match
}

// DeviationFrom computes proposed - original and its direction label.
func DeviationFrom(proposed, original float64) Deviation {
	d := Deviation{Delta: proposed - original}
	switch {
	case d.Delta > 0:
		d.Label = "above"
	case d.Delta < 0:
		d.Label = "below"
	}
	return d
}

// String renders "+$N above asking price" or "-$N below asking price", or
// an empty string when the proposal matches the asking price.
func (d Deviation) String() string {
	switch d.Label {
	case "above":
		return "+$" + formatAmount(d.Delta) + " above asking price"
	case "below":
		return "-$" + formatAmount(math.Abs(d.Delta)) + " below asking price"
	default:
		return ""
	}
}

// formatAmount renders a dollar amount without trailing zeros, so whole
// amounts display as integers.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
