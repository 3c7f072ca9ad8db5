package core

import (
	"regexp"
	"strings"
)

// emailPattern is a syntax check, not a deliverability check: one "@", no
// whitespace, and a dot somewhere in the domain part.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidatePayoutMethod maps a payout method to a structured error set,
// branching on the method type. It is pure and side-effect free, so it is
// safe to call on every keystroke.
//
//   - PAYPAL requires a syntactically valid data.email.
//   - OTHER requires a non-empty data.content.
//   - BANK_ACCOUNT (and any unknown type) produces no errors here; its rules
//     are delegated to the payment processor.
func ValidatePayoutMethod(pm *PayoutMethod) ErrorSet {
	errs := ErrorSet{}
	if pm == nil {
		return errs
	}

	switch pm.Type {
	case PayoutPayPal:
		email := strings.TrimSpace(pm.Data["email"])
		if email == "" {
			errs.Add("data.email", ErrRequired)
		} else if !emailPattern.MatchString(email) {
			errs.Add("data.email", ErrPattern)
		}
	case PayoutOther:
		if strings.TrimSpace(pm.Data["content"]) == "" {
			errs.Add("data.content", ErrMinLength)
		}
	}

	return errs
}
