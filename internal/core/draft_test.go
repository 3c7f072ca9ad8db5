package core_test

import (
	"context"
	"errors"
	"testing"

	"expense-desk/internal/core"
)

// fakeSubmitter records the draft it received and returns a canned outcome.
type fakeSubmitter struct {
	received *core.ExpenseDraft
	result   *core.SubmitResult
	err      error
}

func (f *fakeSubmitter) SubmitExpense(ctx context.Context, draft *core.ExpenseDraft) (*core.SubmitResult, error) {
	f.received = draft
	return f.result, f.err
}

func strptr(s string) *string { return &s }

func TestDraftController_ItemsLockedUntilTypeSet(t *testing.T) {
	c := core.NewDraftController()
	if _, err := c.AddItem(core.LineItem{}); !errors.Is(err, core.ErrTypeNotSet) {
		t.Errorf("AddItem before type = %v, want ErrTypeNotSet", err)
	}
	if err := c.UpdateItem("any", core.LineItemUpdate{}); !errors.Is(err, core.ErrTypeNotSet) {
		t.Errorf("UpdateItem before type = %v, want ErrTypeNotSet", err)
	}
}

func TestDraftController_InvoiceSeedsPlaceholder(t *testing.T) {
	c := core.NewDraftController()
	if err := c.SetType(core.ExpenseInvoice); err != nil {
		t.Fatal(err)
	}
	if len(c.Items()) != 1 {
		t.Fatalf("invoice draft should seed one placeholder, got %d", len(c.Items()))
	}

	// Switching to RECEIPT keeps the placeholder; seeding never destroys items.
	if err := c.SetType(core.ExpenseReceipt); err != nil {
		t.Fatal(err)
	}
	if len(c.Items()) != 1 {
		t.Errorf("type switch destroyed items, got %d", len(c.Items()))
	}
}

func TestDraftController_RejectsUnknownType(t *testing.T) {
	c := core.NewDraftController()
	if err := c.SetType("MILEAGE"); err == nil {
		t.Error("expected error for unknown expense type")
	}
}

func TestDraftController_PayeeChangeResetsPayoutMethod(t *testing.T) {
	c := core.NewDraftController()
	c.SetPayee(&core.Payee{ID: "payee-1", Name: "Alice"})
	c.SetPayoutMethod(&core.PayoutMethod{
		Type: core.PayoutPayPal,
		Data: map[string]string{"email": "a@b.com"},
	})

	c.SetPayee(&core.Payee{ID: "payee-2", Name: "Bob"})
	if c.Draft().PayoutMethod != nil {
		t.Error("payout method must be reset when the payee changes")
	}
	if c.Draft().PayeeID != "payee-2" {
		t.Errorf("payee id = %q, want payee-2", c.Draft().PayeeID)
	}
}

func TestDraftController_TypeSwitchResetsForeignData(t *testing.T) {
	c := core.NewDraftController()
	c.SetPayoutMethod(&core.PayoutMethod{
		Type: core.PayoutPayPal,
		Data: map[string]string{"email": "a@b.com"},
	})

	// A new OTHER method carrying stale PayPal data drops it.
	c.SetPayoutMethod(&core.PayoutMethod{
		Type: core.PayoutOther,
		Data: map[string]string{"email": "a@b.com", "content": "wire details"},
	})

	pm := c.Draft().PayoutMethod
	if _, ok := pm.Data["email"]; ok {
		t.Error("paypal email survived a switch to OTHER")
	}
	if pm.Data["content"] != "wire details" {
		t.Errorf("content = %q, want preserved", pm.Data["content"])
	}

	// A saved method keeps its data untouched regardless of the previous type.
	c.SetPayoutMethod(&core.PayoutMethod{
		ID:   "pm-7",
		Type: core.PayoutBankAccount,
		Data: map[string]string{"iban": "DE00"},
	})
	if c.Draft().PayoutMethod.Data["iban"] != "DE00" {
		t.Error("saved method data was stripped")
	}
}

func TestDraftController_SubmitRefusesWithFullErrorSet(t *testing.T) {
	c := core.NewDraftController()
	sub := &fakeSubmitter{}

	_, err := c.Submit(context.Background(), sub)
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Errors.Empty() {
		t.Error("validation error must carry the outstanding error set")
	}
	if sub.received != nil {
		t.Error("submitter must not be called for an unsubmittable draft")
	}
}

// The full RECEIPT scenario: the draft becomes submittable only after every
// gate is satisfied, and the payout email error surfaces at its dotted path.
func TestDraftController_ReceiptFlow(t *testing.T) {
	c := core.NewDraftController()

	if err := c.SetType(core.ExpenseReceipt); err != nil {
		t.Fatal(err)
	}
	c.SetDescription("Conference travel")

	// RECEIPT with no line items and no proof: step one incomplete.
	comp := c.Completion()
	if !comp.BasicsComplete {
		t.Error("basics should be complete")
	}
	if comp.StepOneComplete || comp.Submittable {
		t.Error("draft must not pass step one without line items")
	}

	key, err := c.AddItem(core.LineItem{Description: "Flight", IncurredAt: "2026-08-20"})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.UpdateItem(key, core.LineItemUpdate{
		AmountDisplay: strptr("420.00"),
		ProofRef:      strptr("uploads/boarding-pass.pdf"),
	}); err != nil {
		t.Fatal(err)
	}

	c.SetPayee(&core.Payee{ID: "payee-1", Name: "Alice"})
	c.SetPayoutMethod(&core.PayoutMethod{Type: core.PayoutPayPal, Data: map[string]string{}})

	comp = c.Completion()
	if !comp.StepOneComplete || !comp.StepTwoComplete {
		t.Errorf("steps incomplete: %+v", comp)
	}
	if comp.Submittable {
		t.Error("draft must not be submittable with a missing paypal email")
	}
	if kind := c.Errors()["payoutMethod.data.email"]; kind != core.ErrRequired {
		t.Errorf("payoutMethod.data.email = %q, want required (set: %v)", kind, c.Errors())
	}

	c.SetPayoutMethod(&core.PayoutMethod{Type: core.PayoutPayPal, Data: map[string]string{"email": "a@b.com"}})
	if !c.Completion().Submittable {
		t.Errorf("draft should be submittable, errors: %v", c.Errors())
	}

	sub := &fakeSubmitter{result: &core.SubmitResult{SubmissionID: "sub-1", TotalMinorUnits: 42000, LineItemCount: 1}}
	res, err := c.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if res.SubmissionID != "sub-1" {
		t.Errorf("result not passed through: %+v", res)
	}
	if sub.received == nil || sub.received.Items[0].AmountMinorUnits != 42000 {
		t.Errorf("submitter received wrong draft: %+v", sub.received)
	}
}

func TestDraftController_SubmitterErrorIsTerminalAndUnchanged(t *testing.T) {
	c := submittableController(t)
	wantErr := errors.New("upstream rejected the expense")
	sub := &fakeSubmitter{err: wantErr}

	_, err := c.Submit(context.Background(), sub)
	if !errors.Is(err, wantErr) {
		t.Errorf("submit error = %v, want pass-through of %v", err, wantErr)
	}
}

func TestDraftController_TotalAggregation(t *testing.T) {
	c := core.NewDraftController()
	if err := c.SetType(core.ExpenseInvoice); err != nil {
		t.Fatal(err)
	}

	seeded := c.Items()[0].Key
	if err := c.UpdateItem(seeded, core.LineItemUpdate{AmountDisplay: strptr("10.00")}); err != nil {
		t.Fatal(err)
	}
	k2, _ := c.AddItem(core.LineItem{AmountMinorUnits: 500})
	c.AddItem(core.LineItem{AmountMinorUnits: 250})
	c.RemoveItem(k2)

	if got := c.TotalMinorUnits(); got != 1250 {
		t.Errorf("total = %d, want 1250", got)
	}
}

// submittableController builds a minimal invoice draft that passes every gate.
func submittableController(t *testing.T) *core.DraftController {
	t.Helper()
	c := core.NewDraftController()
	if err := c.SetType(core.ExpenseInvoice); err != nil {
		t.Fatal(err)
	}
	c.SetDescription("Office supplies")
	seeded := c.Items()[0].Key
	if err := c.UpdateItem(seeded, core.LineItemUpdate{
		Description:   strptr("Paper"),
		IncurredAt:    strptr("2026-08-30"),
		AmountDisplay: strptr("15.00"),
	}); err != nil {
		t.Fatal(err)
	}
	c.SetPayee(&core.Payee{ID: "payee-1", Name: "Alice"})
	c.SetPayoutMethod(&core.PayoutMethod{Type: core.PayoutBankAccount, Data: map[string]string{}})
	if !c.Completion().Submittable {
		t.Fatalf("fixture draft should be submittable, errors: %v", c.Errors())
	}
	return c
}
