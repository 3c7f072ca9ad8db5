package app

import "expense-desk/internal/core"

// UpdateDraftRequest carries header-field edits. Nil fields are untouched.
type UpdateDraftRequest struct {
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
	Note        *string `json:"note,omitempty"`
}

// LineItemRequest carries a line-item create or edit. Nil fields are
// untouched. AmountDisplay is a decimal string run through the amount
// normalizer; it wins over AmountMinorUnits when both are present.
type LineItemRequest struct {
	Description      *string `json:"description,omitempty"`
	IncurredAt       *string `json:"incurred_at,omitempty"`
	AmountDisplay    *string `json:"amount_display,omitempty"`
	AmountMinorUnits *int64  `json:"amount_minor_units,omitempty"`
	ProofRef         *string `json:"proof_ref,omitempty"`
}

// PayoutMethodRequest selects or defines the draft's payout method.
// MethodID picks one of the selected payee's saved methods; otherwise the
// inline fields define a new method.
type PayoutMethodRequest struct {
	MethodID string                `json:"method_id,omitempty"`
	Type     core.PayoutMethodType `json:"type,omitempty"`
	Name     string                `json:"name,omitempty"`
	Data     map[string]string     `json:"data,omitempty"`
	IsSaved  *bool                 `json:"is_saved,omitempty"`
}
