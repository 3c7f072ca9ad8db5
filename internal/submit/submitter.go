// Package submit is the submission collaborator. It accepts a finalized
// expense draft, persists it in one transaction, and reports the outcome
// exactly once — no retries, any error is terminal for that attempt.
package submit

import (
	"context"
	"encoding/json"
	"fmt"

	"expense-desk/internal/core"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Service struct {
	pool *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// SubmitExpense writes the expense header, its line items, and — when the
// payout method is new and flagged for saving — the payout method record,
// all in one transaction. Returns the generated submission id.
func (s *Service) SubmitExpense(ctx context.Context, draft *core.ExpenseDraft) (*core.SubmitResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	payoutMethodID, err := s.resolvePayoutMethod(ctx, tx, draft)
	if err != nil {
		return nil, err
	}

	submissionID := uuid.NewString()
	var total int64
	for _, item := range draft.Items {
		total += item.AmountMinorUnits
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO expenses (id, type, description, note, payee_id, payout_method_id, total_minor_units)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, submissionID, draft.Type, draft.Description, draft.Note, draft.PayeeID, payoutMethodID, total)
	if err != nil {
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}

	for pos, item := range draft.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO expense_items (key, expense_id, position, proof_ref, description, incurred_at, amount_minor_units)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, item.Key, submissionID, pos, item.ProofRef, item.Description, item.IncurredAt, item.AmountMinorUnits)
		if err != nil {
			return nil, fmt.Errorf("failed to insert expense item %s: %w", item.Key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return &core.SubmitResult{
		SubmissionID:    submissionID,
		TotalMinorUnits: total,
		LineItemCount:   len(draft.Items),
	}, nil
}

// resolvePayoutMethod returns the id to reference from the expense row,
// inserting a new payout_methods record when the draft carries an unsaved
// method the user asked to keep.
func (s *Service) resolvePayoutMethod(ctx context.Context, tx pgx.Tx, draft *core.ExpenseDraft) (string, error) {
	pm := draft.PayoutMethod
	if pm == nil {
		return "", fmt.Errorf("draft has no payout method")
	}
	if !pm.IsNew() {
		return pm.ID, nil
	}

	id := uuid.NewString()
	data, err := json.Marshal(pm.Data)
	if err != nil {
		return "", fmt.Errorf("failed to encode payout method data: %w", err)
	}

	payeeID := any(draft.PayeeID)
	if !pm.IsSaved {
		// One-off method: persisted for the expense record but not attached
		// to the payee's saved list.
		payeeID = nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO payout_methods (id, payee_id, type, name, data)
		VALUES ($1, $2, $3, $4, $5)
	`, id, payeeID, pm.Type, pm.Name, data)
	if err != nil {
		return "", fmt.Errorf("failed to insert payout method: %w", err)
	}
	return id, nil
}
