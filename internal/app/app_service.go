package app

import (
	"context"
	"fmt"

	"expense-desk/internal/ai"
	"expense-desk/internal/core"
	"expense-desk/internal/directory"
)

type appService struct {
	sessions  *sessionStore
	directory directory.PayeeDirectory
	submitter core.Submitter
	agent     ai.AgentService
}

// NewAppService constructs an appService that satisfies ApplicationService.
// agent may be nil when no AI key is configured; PrefillDraft then fails
// with a descriptive error.
func NewAppService(
	dir directory.PayeeDirectory,
	submitter core.Submitter,
	agent ai.AgentService,
) ApplicationService {
	store := newSessionStore()
	store.startPurge(context.Background())
	return &appService{
		sessions:  store,
		directory: dir,
		submitter: submitter,
		agent:     agent,
	}
}

func (s *appService) CreateDraft(ctx context.Context) (*DraftResult, error) {
	id := s.sessions.create()
	return s.GetDraft(ctx, id)
}

func (s *appService) GetDraft(ctx context.Context, draftID string) (*DraftResult, error) {
	var result *DraftResult
	err := s.sessions.with(draftID, func(ctl *core.DraftController) error {
		result = buildDraftResult(draftID, ctl)
		return nil
	})
	return result, err
}

func (s *appService) UpdateDraft(ctx context.Context, draftID string, req UpdateDraftRequest) (*DraftResult, error) {
	var result *DraftResult
	err := s.sessions.with(draftID, func(ctl *core.DraftController) error {
		if req.Type != nil {
			if err := ctl.SetType(core.ExpenseType(*req.Type)); err != nil {
				return err
			}
		}
		if req.Description != nil {
			ctl.SetDescription(*req.Description)
		}
		if req.Note != nil {
			ctl.SetNote(*req.Note)
		}
		result = buildDraftResult(draftID, ctl)
		return nil
	})
	return result, err
}

func (s *appService) AddLineItem(ctx context.Context, draftID string, req LineItemRequest) (*LineItemResult, error) {
	var result *LineItemResult
	err := s.sessions.with(draftID, func(ctl *core.DraftController) error {
		key, err := ctl.AddItem(core.LineItem{})
		if err != nil {
			return err
		}
		if err := ctl.UpdateItem(key, itemUpdate(req)); err != nil {
			return err
		}
		result = &LineItemResult{DraftResult: *buildDraftResult(draftID, ctl), Key: key}
		return nil
	})
	return result, err
}

func (s *appService) UpdateLineItem(ctx context.Context, draftID, key string, req LineItemRequest) (*DraftResult, error) {
	var result *DraftResult
	err := s.sessions.with(draftID, func(ctl *core.DraftController) error {
		if err := ctl.UpdateItem(key, itemUpdate(req)); err != nil {
			return err
		}
		result = buildDraftResult(draftID, ctl)
		return nil
	})
	return result, err
}

func (s *appService) RemoveLineItem(ctx context.Context, draftID, key string) (*DraftResult, error) {
	var result *DraftResult
	err := s.sessions.with(draftID, func(ctl *core.DraftController) error {
		ctl.RemoveItem(key)
		result = buildDraftResult(draftID, ctl)
		return nil
	})
	return result, err
}

func (s *appService) SetPayee(ctx context.Context, draftID, payeeID string) (*DraftResult, error) {
	var payee *core.Payee
	if payeeID != "" {
		p, err := s.directory.GetPayee(ctx, payeeID)
		if err != nil {
			return nil, err
		}
		payee = p
	}

	var result *DraftResult
	err := s.sessions.with(draftID, func(ctl *core.DraftController) error {
		ctl.SetPayee(payee)
		result = buildDraftResult(draftID, ctl)
		return nil
	})
	return result, err
}

func (s *appService) SetPayoutMethod(ctx context.Context, draftID string, req PayoutMethodRequest) (*DraftResult, error) {
	var result *DraftResult
	err := s.sessions.with(draftID, func(ctl *core.DraftController) error {
		if req.MethodID != "" {
			payee := ctl.Payee()
			if payee == nil {
				return fmt.Errorf("select a payee before choosing a saved payout method")
			}
			for _, pm := range payee.PayoutMethods {
				if pm.ID == req.MethodID {
					ctl.SetPayoutMethod(&pm)
					result = buildDraftResult(draftID, ctl)
					return nil
				}
			}
			return fmt.Errorf("payee has no payout method %s", req.MethodID)
		}

		isSaved := true
		if req.IsSaved != nil {
			isSaved = *req.IsSaved
		}
		ctl.SetPayoutMethod(&core.PayoutMethod{
			Type:    req.Type,
			Name:    req.Name,
			Data:    req.Data,
			IsSaved: isSaved,
		})
		result = buildDraftResult(draftID, ctl)
		return nil
	})
	return result, err
}

func (s *appService) SubmitDraft(ctx context.Context, draftID string) (*core.SubmitResult, error) {
	var result *core.SubmitResult
	err := s.sessions.with(draftID, func(ctl *core.DraftController) error {
		res, err := ctl.Submit(ctx, s.submitter)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	// A submitted draft session is finished.
	s.sessions.delete(draftID)
	return result, nil
}

func (s *appService) PrefillDraft(ctx context.Context, draftID, text string) (*DraftResult, error) {
	if s.agent == nil {
		return nil, fmt.Errorf("AI prefill is not configured (missing OPENAI_API_KEY)")
	}

	prefill, err := s.agent.InterpretExpense(ctx, text)
	if err != nil {
		return nil, err
	}

	var result *DraftResult
	err = s.sessions.with(draftID, func(ctl *core.DraftController) error {
		if err := applyPrefill(ctl, prefill); err != nil {
			return err
		}
		result = buildDraftResult(draftID, ctl)
		return nil
	})
	return result, err
}

func (s *appService) ListPayees(ctx context.Context) (*PayeeListResult, error) {
	payees, err := s.directory.ListPayees(ctx)
	if err != nil {
		return nil, err
	}
	return &PayeeListResult{Payees: payees}, nil
}

func (s *appService) GetPayee(ctx context.Context, payeeID string) (*core.Payee, error) {
	return s.directory.GetPayee(ctx, payeeID)
}

// ── private helpers ───────────────────────────────────────────────────────────

func itemUpdate(req LineItemRequest) core.LineItemUpdate {
	return core.LineItemUpdate{
		Description:      req.Description,
		IncurredAt:       req.IncurredAt,
		AmountDisplay:    req.AmountDisplay,
		AmountMinorUnits: req.AmountMinorUnits,
		ProofRef:         req.ProofRef,
	}
}

// applyPrefill pushes an AI proposal through the same setters a manual edit
// would use, then retires the rows that existed before the prefill so only
// the proposed lines remain.
func applyPrefill(ctl *core.DraftController, prefill *core.DraftPrefill) error {
	if err := ctl.SetType(core.ExpenseType(prefill.Type)); err != nil {
		return err
	}
	ctl.SetDescription(prefill.Description)

	var previous []string
	for _, item := range ctl.Items() {
		previous = append(previous, item.Key)
	}

	for _, line := range prefill.Lines {
		key, err := ctl.AddItem(core.LineItem{
			Description: line.Description,
			IncurredAt:  line.IncurredAt,
		})
		if err != nil {
			return err
		}
		amount := line.Amount
		if err := ctl.UpdateItem(key, core.LineItemUpdate{AmountDisplay: &amount}); err != nil {
			return err
		}
	}

	for _, key := range previous {
		ctl.RemoveItem(key)
	}
	return nil
}

func buildDraftResult(draftID string, ctl *core.DraftController) *DraftResult {
	total := ctl.TotalMinorUnits()
	return &DraftResult{
		DraftID:         draftID,
		Draft:           ctl.Draft(),
		Completion:      ctl.Completion(),
		Errors:          ctl.Errors(),
		TotalMinorUnits: total,
		TotalDisplay:    core.ToDisplayValue(total),
	}
}
