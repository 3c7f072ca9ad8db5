package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// PrefillLine is a single proposed line item in a draft prefill.
type PrefillLine struct {
	Description string `json:"description" jsonschema_description:"Short description of what was purchased"`
	IncurredAt  string `json:"incurred_at" jsonschema_description:"The purchase date in YYYY-MM-DD format. Use today's date if unspecified."`
	Amount      string `json:"amount" jsonschema_description:"The amount in display units as a decimal string (e.g. '23.50'), always positive"`
}

// DraftPrefill is the AI-generated suggestion for an expense draft. It is
// applied to a draft field-by-field through the controller, so every
// prefilled value passes through the same validators as a manual edit.
type DraftPrefill struct {
	Type        string        `json:"type" jsonschema_description:"Either 'RECEIPT' (proof-of-purchase files exist) or 'INVOICE'"`
	Description string        `json:"description" jsonschema_description:"A concise title for the whole expense, max 255 characters"`
	Lines       []PrefillLine `json:"lines" jsonschema_description:"One entry per purchase mentioned in the text"`
	Confidence  float64       `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
	Reasoning   string        `json:"reasoning" jsonschema_description:"Explanation for the proposed draft"`
}

// Normalize cleans up common LLM formatting issues before validation.
func (p *DraftPrefill) Normalize() {
	p.Type = strings.ToUpper(strings.TrimSpace(p.Type))
	p.Description = strings.TrimSpace(p.Description)

	today := time.Now().Format(DateLayout)
	for i := range p.Lines {
		line := &p.Lines[i]
		line.Description = strings.TrimSpace(line.Description)
		line.IncurredAt = strings.TrimSpace(line.IncurredAt)
		if line.IncurredAt == "" || strings.ToLower(line.IncurredAt) == "null" {
			line.IncurredAt = today
		}
		if strings.TrimSpace(line.Amount) == "" || strings.ToLower(line.Amount) == "null" {
			line.Amount = "0.00"
		}
	}
}

// Validate enforces the structural rules a prefill must satisfy before it is
// applied to a draft.
func (p *DraftPrefill) Validate() error {
	if !ExpenseType(p.Type).Valid() {
		return fmt.Errorf("prefill has unknown expense type %q", p.Type)
	}
	if p.Description == "" {
		return errors.New("prefill must carry a description")
	}
	if len(p.Description) > DescriptionMaxLength {
		return fmt.Errorf("prefill description exceeds %d characters", DescriptionMaxLength)
	}
	if len(p.Lines) == 0 {
		return errors.New("prefill must propose at least one line item")
	}
	for _, line := range p.Lines {
		if _, err := time.Parse(DateLayout, line.IncurredAt); err != nil {
			return fmt.Errorf("invalid date %q for line %q: %w", line.IncurredAt, line.Description, err)
		}
		if ToMinorUnits(line.Amount, 0, AmountMaxMinorUnits) <= 0 {
			return fmt.Errorf("amount must be > 0 for line %q, got %q", line.Description, line.Amount)
		}
	}
	return nil
}
