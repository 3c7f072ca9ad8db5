package app_test

import (
	"context"
	"errors"
	"testing"

	"expense-desk/internal/app"
	"expense-desk/internal/core"
	"expense-desk/internal/directory"
)

type fakeDirectory struct {
	payees map[string]*core.Payee
}

func (f *fakeDirectory) ListPayees(ctx context.Context) ([]core.Payee, error) {
	var out []core.Payee
	for _, p := range f.payees {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeDirectory) GetPayee(ctx context.Context, id string) (*core.Payee, error) {
	p, ok := f.payees[id]
	if !ok {
		return nil, directory.ErrPayeeNotFound
	}
	return p, nil
}

type fakeSubmitter struct {
	calls int
}

func (f *fakeSubmitter) SubmitExpense(ctx context.Context, draft *core.ExpenseDraft) (*core.SubmitResult, error) {
	f.calls++
	return &core.SubmitResult{SubmissionID: "sub-1", LineItemCount: len(draft.Items)}, nil
}

type fakeAgent struct {
	prefill *core.DraftPrefill
}

func (f *fakeAgent) InterpretExpense(ctx context.Context, text string) (*core.DraftPrefill, error) {
	return f.prefill, nil
}

func strptr(s string) *string { return &s }

func newTestService(sub *fakeSubmitter, agent *fakeAgent) app.ApplicationService {
	dir := &fakeDirectory{payees: map[string]*core.Payee{
		"payee-1": {
			ID:   "payee-1",
			Name: "Alice",
			PayoutMethods: []core.PayoutMethod{
				{ID: "pm-1", Type: core.PayoutPayPal, Data: map[string]string{"email": "alice@example.com"}, IsSaved: true},
			},
		},
	}}
	if agent == nil {
		// Pass an untyped nil so the service sees "no agent configured".
		return app.NewAppService(dir, sub, nil)
	}
	return app.NewAppService(dir, sub, agent)
}

func TestAppService_FullInvoiceFlow(t *testing.T) {
	ctx := context.Background()
	sub := &fakeSubmitter{}
	svc := newTestService(sub, nil)

	created, err := svc.CreateDraft(ctx)
	if err != nil {
		t.Fatal(err)
	}
	id := created.DraftID

	res, err := svc.UpdateDraft(ctx, id, app.UpdateDraftRequest{
		Type:        strptr("INVOICE"),
		Description: strptr("Office supplies"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Draft.Items) != 1 {
		t.Fatalf("invoice draft should carry the seeded placeholder, got %d items", len(res.Draft.Items))
	}

	seeded := res.Draft.Items[0].Key
	if _, err := svc.UpdateLineItem(ctx, id, seeded, app.LineItemRequest{
		Description:   strptr("Paper"),
		IncurredAt:    strptr("2026-08-30"),
		AmountDisplay: strptr("15.00"),
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.SetPayee(ctx, id, "payee-1"); err != nil {
		t.Fatal(err)
	}
	res, err = svc.SetPayoutMethod(ctx, id, app.PayoutMethodRequest{MethodID: "pm-1"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Completion.Submittable {
		t.Fatalf("draft should be submittable, errors: %v", res.Errors)
	}
	if res.TotalDisplay != "15.00" {
		t.Errorf("total display = %q, want 15.00", res.TotalDisplay)
	}

	submitRes, err := svc.SubmitDraft(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if submitRes.SubmissionID != "sub-1" || sub.calls != 1 {
		t.Errorf("unexpected submit outcome: %+v (calls=%d)", submitRes, sub.calls)
	}

	// The session is gone after a successful submit.
	if _, err := svc.GetDraft(ctx, id); !errors.Is(err, app.ErrDraftNotFound) {
		t.Errorf("expected ErrDraftNotFound after submit, got %v", err)
	}
}

func TestAppService_SubmitFailsFastWithErrorSet(t *testing.T) {
	ctx := context.Background()
	sub := &fakeSubmitter{}
	svc := newTestService(sub, nil)

	created, _ := svc.CreateDraft(ctx)
	_, err := svc.SubmitDraft(ctx, created.DraftID)

	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if sub.calls != 0 {
		t.Error("submitter must not be reached when the draft is not submittable")
	}

	// A failed submit keeps the session alive for fixing.
	if _, err := svc.GetDraft(ctx, created.DraftID); err != nil {
		t.Errorf("session should survive a failed submit: %v", err)
	}
}

func TestAppService_UnknownDraft(t *testing.T) {
	svc := newTestService(&fakeSubmitter{}, nil)
	if _, err := svc.GetDraft(context.Background(), "nope"); !errors.Is(err, app.ErrDraftNotFound) {
		t.Errorf("expected ErrDraftNotFound, got %v", err)
	}
}

func TestAppService_UnknownPayee(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&fakeSubmitter{}, nil)
	created, _ := svc.CreateDraft(ctx)
	if _, err := svc.SetPayee(ctx, created.DraftID, "missing"); !errors.Is(err, directory.ErrPayeeNotFound) {
		t.Errorf("expected ErrPayeeNotFound, got %v", err)
	}
}

func TestAppService_PrefillReplacesPlaceholder(t *testing.T) {
	ctx := context.Background()
	agent := &fakeAgent{prefill: &core.DraftPrefill{
		Type:        "INVOICE",
		Description: "Team lunch",
		Lines: []core.PrefillLine{
			{Description: "Pizza", IncurredAt: "2026-08-28", Amount: "32.50"},
			{Description: "Drinks", IncurredAt: "2026-08-28", Amount: "12.00"},
		},
		Confidence: 0.9,
	}}
	svc := newTestService(&fakeSubmitter{}, agent)

	created, _ := svc.CreateDraft(ctx)
	res, err := svc.PrefillDraft(ctx, created.DraftID, "pizza and drinks for the team")
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Draft.Items) != 2 {
		t.Fatalf("expected the 2 proposed lines only, got %d", len(res.Draft.Items))
	}
	if res.TotalMinorUnits != 4450 {
		t.Errorf("total = %d, want 4450", res.TotalMinorUnits)
	}
	if res.Draft.Description != "Team lunch" {
		t.Errorf("description = %q", res.Draft.Description)
	}
}

func TestAppService_PrefillUnconfigured(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&fakeSubmitter{}, nil)
	created, _ := svc.CreateDraft(ctx)
	if _, err := svc.PrefillDraft(ctx, created.DraftID, "anything"); err == nil {
		t.Error("expected error when no agent is configured")
	}
}
