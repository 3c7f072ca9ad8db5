package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"expense-desk/internal/core"
)

// draftFile is the JSON shape accepted by `validate` and `submit`.
type draftFile struct {
	Type         string             `json:"type"`
	Description  string             `json:"description"`
	Note         string             `json:"note,omitempty"`
	PayeeID      string             `json:"payee_id,omitempty"`
	Items        []draftFileItem    `json:"items"`
	PayoutMethod *core.PayoutMethod `json:"payout_method,omitempty"`
}

type draftFileItem struct {
	Description string `json:"description"`
	IncurredAt  string `json:"incurred_at"`
	Amount      string `json:"amount"` // display value, e.g. "42.50"
	ProofRef    string `json:"proof_ref,omitempty"`
}

// readDraftFile decodes a draft from the given path, or stdin when path is "-"
// or empty.
func readDraftFile(path string) (*draftFile, error) {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var df draftFile
	if err := json.NewDecoder(r).Decode(&df); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &df, nil
}

// buildController replays the draft file through the controller so the same
// normalization and validation rules apply as for interactive edits.
func buildController(df *draftFile, payee *core.Payee) (*core.DraftController, error) {
	ctl := core.NewDraftController()
	if err := ctl.SetType(core.ExpenseType(df.Type)); err != nil {
		return nil, err
	}
	ctl.SetDescription(df.Description)
	ctl.SetNote(df.Note)

	// Retire the auto-seeded placeholder once real lines exist.
	var seeded []string
	for _, item := range ctl.Items() {
		seeded = append(seeded, item.Key)
	}

	for _, line := range df.Items {
		partial := core.LineItem{
			Description: line.Description,
			IncurredAt:  line.IncurredAt,
		}
		if line.ProofRef != "" {
			ref := line.ProofRef
			partial.ProofRef = &ref
		}
		key, err := ctl.AddItem(partial)
		if err != nil {
			return nil, err
		}
		amount := line.Amount
		if err := ctl.UpdateItem(key, core.LineItemUpdate{AmountDisplay: &amount}); err != nil {
			return nil, err
		}
	}
	if len(df.Items) > 0 {
		for _, key := range seeded {
			ctl.RemoveItem(key)
		}
	}

	if payee != nil {
		ctl.SetPayee(payee)
	}
	if df.PayoutMethod != nil {
		ctl.SetPayoutMethod(df.PayoutMethod)
	}
	return ctl, nil
}

// printErrorSet writes one line per failing field path.
func printErrorSet(errs core.ErrorSet) {
	for _, path := range errs.Paths() {
		fmt.Printf("  %-40s %s\n", path, errs[path])
	}
}
