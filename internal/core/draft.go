package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// AmountMaxMinorUnits caps a single line-item amount (1e9 display units).
const AmountMaxMinorUnits int64 = 100_000_000_000

// ErrTypeNotSet is returned when line items are edited before the expense
// type has been chosen; the collection's shape depends on the type.
var ErrTypeNotSet = errors.New("expense type must be set before editing line items")

// Submitter is the external submission collaborator. The engine performs no
// retries and treats any error as terminal for that submit attempt.
type Submitter interface {
	SubmitExpense(ctx context.Context, draft *ExpenseDraft) (*SubmitResult, error)
}

// ValidationError carries the full outstanding error set when a submit is
// attempted on a draft that is not submittable, so every problem can be
// surfaced at once rather than just the first one found.
type ValidationError struct {
	Errors ErrorSet
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("draft is not submittable: %d field error(s) at %s",
		len(e.Errors), strings.Join(e.Errors.Paths(), ", "))
}

// LineItemUpdate is a partial edit of one line item. Nil fields are left
// untouched. AmountDisplay runs through the amount normalizer; it takes
// precedence over AmountMinorUnits when both are set.
type LineItemUpdate struct {
	Description      *string
	IncurredAt       *string
	AmountDisplay    *string
	AmountMinorUnits *int64
	ProofRef         *string
}

// DraftController exclusively owns one ExpenseDraft and is its only writer.
// Field edits store the raw value and mark errors for display without
// blocking further editing; only Submit refuses to proceed.
//
// The controller is single-threaded by design: one logical session, edits
// serialized by the host adapter.
type DraftController struct {
	draft   ExpenseDraft
	items   *LineItemList
	payee   *Payee
	touched bool
}

// NewDraftController creates an empty draft. The line-item collection is not
// created until the expense type is chosen, since its seed rule depends on
// whether proof files are required.
func NewDraftController() *DraftController {
	return &DraftController{}
}

// SetType chooses the expense type. The first call initializes the line-item
// collection; later calls re-derive the proof requirement and re-run the
// seed rule without destroying existing items.
func (c *DraftController) SetType(t ExpenseType) error {
	if !t.Valid() {
		return fmt.Errorf("unknown expense type %q", t)
	}
	c.draft.Type = t
	if c.items == nil {
		c.items = NewLineItemList(t.RequiresProof())
	} else {
		c.items.SetRequireProof(t.RequiresProof())
	}
	c.touched = true
	return nil
}

// SetDescription stores the raw value. Invalid input is not rejected here;
// it surfaces through Errors and keeps the draft editable.
func (c *DraftController) SetDescription(desc string) {
	c.draft.Description = desc
	c.touched = true
}

// SetNote stores the private complementary info field. It carries no
// validation rule.
func (c *DraftController) SetNote(note string) {
	c.draft.Note = note
	c.touched = true
}

// SetPayee selects the payee. A payout method is scoped to a specific payee,
// so changing the payee resets the payout method and forces a re-choice.
func (c *DraftController) SetPayee(p *Payee) {
	c.payee = p
	if p == nil {
		c.draft.PayeeID = ""
	} else {
		c.draft.PayeeID = p.ID
	}
	c.draft.PayoutMethod = nil
	c.touched = true
}

// Payee returns the currently selected payee, or nil.
func (c *DraftController) Payee() *Payee {
	return c.payee
}

// SetPayoutMethod replaces the payout method wholesale. When a new (unsaved)
// method switches type, data keys belonging to the previous type are
// dropped: a PayPal email has no meaning under OTHER.
func (c *DraftController) SetPayoutMethod(pm *PayoutMethod) {
	if pm == nil {
		c.draft.PayoutMethod = nil
		c.touched = true
		return
	}

	stored := *pm
	stored.Data = make(map[string]string, len(pm.Data))
	for k, v := range pm.Data {
		stored.Data[k] = v
	}

	prev := c.draft.PayoutMethod
	if stored.IsNew() && prev != nil && prev.Type != stored.Type {
		stripForeignData(&stored)
	}

	c.draft.PayoutMethod = &stored
	c.touched = true
}

// stripForeignData removes data keys that do not belong to the method's
// type. BANK_ACCOUNT data is opaque here and left untouched.
func stripForeignData(pm *PayoutMethod) {
	switch pm.Type {
	case PayoutPayPal:
		for k := range pm.Data {
			if k != "email" {
				delete(pm.Data, k)
			}
		}
	case PayoutOther:
		for k := range pm.Data {
			if k != "content" {
				delete(pm.Data, k)
			}
		}
	}
}

// AddItem appends a line item and returns its stable key.
func (c *DraftController) AddItem(partial LineItem) (string, error) {
	if c.items == nil {
		return "", ErrTypeNotSet
	}
	key := c.items.Append(partial)
	c.touched = true
	return key, nil
}

// RemoveItem removes the item with the given key; unknown keys are a no-op.
func (c *DraftController) RemoveItem(key string) {
	if c.items == nil {
		return
	}
	c.items.Remove(key)
	c.touched = true
}

// UpdateItem applies a partial edit to one line item.
func (c *DraftController) UpdateItem(key string, upd LineItemUpdate) error {
	if c.items == nil {
		return ErrTypeNotSet
	}
	item, ok := c.items.Get(key)
	if !ok {
		return fmt.Errorf("no line item with key %s", key)
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.IncurredAt != nil {
		item.IncurredAt = *upd.IncurredAt
	}
	if upd.AmountDisplay != nil {
		item.AmountMinorUnits = ToMinorUnits(*upd.AmountDisplay, 0, AmountMaxMinorUnits)
	} else if upd.AmountMinorUnits != nil {
		item.AmountMinorUnits = *upd.AmountMinorUnits
	}
	if upd.ProofRef != nil {
		if *upd.ProofRef == "" {
			item.ProofRef = nil
		} else {
			ref := *upd.ProofRef
			item.ProofRef = &ref
		}
	}
	c.touched = true
	return nil
}

// Items returns an ordered snapshot of the line items.
func (c *DraftController) Items() []LineItem {
	if c.items == nil {
		return nil
	}
	return c.items.Items()
}

// Item returns a copy of one line item by key.
func (c *DraftController) Item(key string) (LineItem, bool) {
	if c.items == nil {
		return LineItem{}, false
	}
	item, ok := c.items.Get(key)
	if !ok {
		return LineItem{}, false
	}
	return *item, true
}

// TotalMinorUnits returns the aggregate amount across all line items.
func (c *DraftController) TotalMinorUnits() int64 {
	if c.items == nil {
		return 0
	}
	return c.items.TotalMinorUnits()
}

// Errors recomputes the full aggregate error set for the current draft.
// Field-level errors stay local to their field path and never block editing.
func (c *DraftController) Errors() ErrorSet {
	errs := ErrorSet{}

	if c.draft.Type.Valid() {
		errs.Merge("", ValidateDescription(c.draft.Description))
	}

	if c.items != nil {
		requireProof := c.draft.Type.RequiresProof()
		for _, key := range c.items.Keys() {
			item, _ := c.items.Get(key)
			errs.Merge("items."+key, ValidateLineItem(item, requireProof))
		}
		if c.items.Len() == 0 {
			errs.Add("items", ErrRequired)
		}
	}

	errs.Merge("payoutMethod", ValidatePayoutMethod(c.draft.PayoutMethod))

	return errs
}

// Completion derives the step gates from the current draft state.
func (c *DraftController) Completion() Completion {
	items := c.items
	if items == nil {
		items = &LineItemList{}
	}
	comp := EvaluateCompletion(&c.draft, items, c.Errors())
	// The submit action stays disabled until the first successful mutation.
	comp.Submittable = comp.Submittable && c.touched
	return comp
}

// Draft returns a snapshot of the assembled draft, items included.
func (c *DraftController) Draft() ExpenseDraft {
	snapshot := c.draft
	snapshot.Items = c.Items()
	if c.draft.PayoutMethod != nil {
		pm := *c.draft.PayoutMethod
		pm.Data = make(map[string]string, len(c.draft.PayoutMethod.Data))
		for k, v := range c.draft.PayoutMethod.Data {
			pm.Data[k] = v
		}
		snapshot.PayoutMethod = &pm
	}
	return snapshot
}

// Submit fails fast with the full outstanding error set when the draft is
// not submittable; no call reaches the collaborator. Otherwise the
// assembled draft is handed to the submitter once and its outcome is
// reported unchanged.
func (c *DraftController) Submit(ctx context.Context, submitter Submitter) (*SubmitResult, error) {
	if !c.Completion().Submittable {
		errs := c.Errors()
		if errs.Empty() {
			// Structurally incomplete (missing payee, type, or items)
			// rather than field-invalid.
			errs = ErrorSet{}
			if !c.draft.Type.Valid() {
				errs.Add("type", ErrRequired)
			}
			if c.draft.PayeeID == "" {
				errs.Add("payee", ErrRequired)
			}
			if c.draft.PayoutMethod == nil {
				errs.Add("payoutMethod", ErrRequired)
			}
		}
		return nil, &ValidationError{Errors: errs}
	}

	draft := c.Draft()
	return submitter.SubmitExpense(ctx, &draft)
}
