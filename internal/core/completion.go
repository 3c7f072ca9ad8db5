package core

import (
	"strings"
	"time"
)

// Completion is the derived gate state of a draft. It is a conjunction of
// independently-evaluable predicates recomputed on every mutation — there is
// no stored transition history to get out of sync.
type Completion struct {
	BasicsComplete  bool `json:"basics_complete"`
	StepOneComplete bool `json:"step_one_complete"`
	StepTwoComplete bool `json:"step_two_complete"`
	Submittable     bool `json:"submittable"`
}

// ValidateDescription checks the draft title field on its own.
func ValidateDescription(desc string) ErrorSet {
	errs := ErrorSet{}
	if strings.TrimSpace(desc) == "" {
		errs.Add("description", ErrRequired)
	} else if len(desc) > DescriptionMaxLength {
		errs.Add("description", ErrMax)
	}
	return errs
}

// ValidateLineItem checks a single line item's own fields. requireProof
// applies the type-conditional proof rule.
func ValidateLineItem(item *LineItem, requireProof bool) ErrorSet {
	errs := ErrorSet{}
	if requireProof && (item.ProofRef == nil || *item.ProofRef == "") {
		errs.Add("proof_ref", ErrRequired)
	}
	if strings.TrimSpace(item.Description) == "" {
		errs.Add("description", ErrRequired)
	}
	if item.IncurredAt == "" {
		errs.Add("incurred_at", ErrRequired)
	} else if _, err := time.Parse(DateLayout, item.IncurredAt); err != nil {
		errs.Add("incurred_at", ErrPattern)
	}
	if item.AmountMinorUnits <= 0 {
		errs.Add("amount", ErrMin)
	}
	return errs
}

// EvaluateCompletion derives the step gates for the current draft state.
// items is the live collection; errs is the aggregate error set as produced
// by DraftController.Errors.
func EvaluateCompletion(draft *ExpenseDraft, items *LineItemList, errs ErrorSet) Completion {
	var c Completion

	c.BasicsComplete = draft.Type.Valid() &&
		strings.TrimSpace(draft.Description) != "" &&
		!errs.Has("description")

	c.StepOneComplete = c.BasicsComplete && items.Len() > 0

	c.StepTwoComplete = draft.PayeeID != "" && draft.PayoutMethod != nil

	c.Submittable = c.StepOneComplete && c.StepTwoComplete && errs.Empty()

	return c
}
