package app

import "expense-desk/internal/core"

// DraftResult is the full state of a draft session after an operation:
// the draft snapshot plus every derived value a renderer needs.
type DraftResult struct {
	DraftID         string            `json:"draft_id"`
	Draft           core.ExpenseDraft `json:"draft"`
	Completion      core.Completion   `json:"completion"`
	Errors          core.ErrorSet     `json:"errors"`
	TotalMinorUnits int64             `json:"total_minor_units"`
	TotalDisplay    string            `json:"total_display"`
}

// LineItemResult is returned by AddLineItem so the caller can focus the new row.
type LineItemResult struct {
	DraftResult
	Key string `json:"key"`
}

// PayeeListResult wraps the selectable payees.
type PayeeListResult struct {
	Payees []core.Payee `json:"payees"`
}
