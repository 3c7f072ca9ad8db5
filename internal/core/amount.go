package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a human-entered decimal amount to integer minor units
// (cents), clamped to [min, max]. A missing, empty, or unparsable display
// value converts to 0 — never an error — so that field validation, not
// parsing, decides whether the value is acceptable.
func ToMinorUnits(display string, min, max int64) int64 {
	display = strings.TrimSpace(display)
	if display == "" {
		return 0
	}
	d, err := decimal.NewFromString(display)
	if err != nil {
		return 0
	}
	// Round half away from zero after scaling to minor units.
	minor := d.Mul(hundred).Round(0).IntPart()
	if minor < min {
		return min
	}
	if minor > max {
		return max
	}
	return minor
}

// ToDisplayValue converts integer minor units back to a decimal display
// string with two fractional digits.
func ToDisplayValue(minor int64) string {
	return decimal.NewFromInt(minor).Div(hundred).StringFixed(2)
}

// ClampLiveInput applies the keystroke-time clamp to a display value while
// the user is still typing. The lower bound is deliberately 1 display unit
// even when the field's true minimum is 0: coercing an in-progress keystroke
// to exactly the floor value leaves the input visually stuck, so the real
// minimum is enforced at submission time instead. The upper bound clamps to
// max. Empty input is returned unchanged so the user can erase the field.
func ClampLiveInput(display string, max int64) string {
	display = strings.TrimSpace(display)
	if display == "" {
		return display
	}
	d, err := decimal.NewFromString(display)
	if err != nil {
		return display
	}
	one := decimal.NewFromInt(1)
	upper := decimal.NewFromInt(max).Div(hundred)
	if d.LessThan(one) {
		return one.String()
	}
	if d.GreaterThan(upper) {
		return upper.StringFixed(2)
	}
	return display
}

// AmountMode selects how an AmountField reacts to keystrokes.
type AmountMode int

const (
	// AmountLive normalizes and clamps the value on every keystroke.
	AmountLive AmountMode = iota
	// AmountEcho stores raw keystrokes untouched and converts only on
	// Commit, letting the user type partial numbers like "1." without the
	// value snapping back.
	AmountEcho
)

// AmountField holds one amount input together with its normalization mode
// and bounds. Pick one explicit mode per field; the mode never changes based
// on the presence or absence of a value.
type AmountField struct {
	Mode       AmountMode
	Min, Max   int64
	Raw        string
	MinorUnits int64
}

// SetInput records a keystroke. In live mode the value is clamped and
// converted immediately; in echo mode the raw text is kept as typed.
func (f *AmountField) SetInput(display string) {
	if f.Mode == AmountLive {
		f.Raw = ClampLiveInput(display, f.Max)
		f.MinorUnits = ToMinorUnits(f.Raw, 0, f.Max)
		return
	}
	f.Raw = display
}

// Commit normalizes the field on blur or submit and returns the minor-unit
// value clamped to the field's true bounds.
func (f *AmountField) Commit() int64 {
	f.MinorUnits = ToMinorUnits(f.Raw, f.Min, f.Max)
	f.Raw = ToDisplayValue(f.MinorUnits)
	return f.MinorUnits
}
