package app

import (
	"context"
	"errors"

	"expense-desk/internal/core"
)

// ErrDraftNotFound is returned when a draft session id is unknown or expired.
var ErrDraftNotFound = errors.New("draft not found")

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web)
// call. It decouples presentation from the draft engine. Implementations must
// contain no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// CreateDraft opens a new draft session and returns its id and state.
	CreateDraft(ctx context.Context) (*DraftResult, error)

	// GetDraft returns the current state of a draft session.
	GetDraft(ctx context.Context, draftID string) (*DraftResult, error)

	// UpdateDraft applies header-field edits (type, description, note).
	// Invalid values are stored and surfaced through the error set; they
	// never block further editing.
	UpdateDraft(ctx context.Context, draftID string, req UpdateDraftRequest) (*DraftResult, error)

	// AddLineItem appends a line item and returns its stable key along with
	// the refreshed draft state.
	AddLineItem(ctx context.Context, draftID string, req LineItemRequest) (*LineItemResult, error)

	// UpdateLineItem applies a partial edit to one line item by key.
	UpdateLineItem(ctx context.Context, draftID, key string, req LineItemRequest) (*DraftResult, error)

	// RemoveLineItem removes a line item; unknown keys are a no-op.
	RemoveLineItem(ctx context.Context, draftID, key string) (*DraftResult, error)

	// SetPayee selects the payee by directory id. Changing the payee resets
	// the payout method.
	SetPayee(ctx context.Context, draftID, payeeID string) (*DraftResult, error)

	// SetPayoutMethod replaces the payout method wholesale, either by the id
	// of one of the selected payee's saved methods or as an inline new method.
	SetPayoutMethod(ctx context.Context, draftID string, req PayoutMethodRequest) (*DraftResult, error)

	// SubmitDraft validates and submits the draft. A draft that is not
	// submittable fails fast with a *core.ValidationError carrying the full
	// outstanding error set; no call reaches the submission collaborator.
	SubmitDraft(ctx context.Context, draftID string) (*core.SubmitResult, error)

	// PrefillDraft asks the AI agent to interpret a free-text expense
	// description and applies the proposal to the draft field-by-field.
	PrefillDraft(ctx context.Context, draftID, text string) (*DraftResult, error)

	// ListPayees returns all selectable payees from the account directory.
	ListPayees(ctx context.Context) (*PayeeListResult, error)

	// GetPayee returns one payee with its saved payout methods.
	GetPayee(ctx context.Context, payeeID string) (*core.Payee, error)
}
