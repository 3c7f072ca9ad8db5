package core_test

import (
	"testing"

	"expense-desk/internal/core"
)

func TestDraftPrefill_NormalizationAndValidation(t *testing.T) {
	tests := []struct {
		name      string
		prefill   core.DraftPrefill
		expectErr bool
	}{
		{
			name: "Happy path",
			prefill: core.DraftPrefill{
				Type:        "receipt",
				Description: "Client lunch",
				Lines:       []core.PrefillLine{{Description: "Lunch", IncurredAt: "2026-08-30", Amount: "45.00"}},
			},
		},
		{
			name: "Blank date defaults to today",
			prefill: core.DraftPrefill{
				Type:        "INVOICE",
				Description: "Hosting",
				Lines:       []core.PrefillLine{{Description: "Server", Amount: "12.00"}},
			},
		},
		{
			name: "Unknown type",
			prefill: core.DraftPrefill{
				Type:        "MILEAGE",
				Description: "Trip",
				Lines:       []core.PrefillLine{{Description: "km", IncurredAt: "2026-08-30", Amount: "10.00"}},
			},
			expectErr: true,
		},
		{
			name: "No lines",
			prefill: core.DraftPrefill{
				Type:        "RECEIPT",
				Description: "Empty",
			},
			expectErr: true,
		},
		{
			name: "Blank amount normalizes to zero and fails",
			prefill: core.DraftPrefill{
				Type:        "RECEIPT",
				Description: "Lunch",
				Lines:       []core.PrefillLine{{Description: "Lunch", IncurredAt: "2026-08-30", Amount: ""}},
			},
			expectErr: true,
		},
		{
			name: "Missing description",
			prefill: core.DraftPrefill{
				Type:  "RECEIPT",
				Lines: []core.PrefillLine{{Description: "Lunch", IncurredAt: "2026-08-30", Amount: "45.00"}},
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prefill.Normalize()
			err := tt.prefill.Validate()
			if tt.expectErr && err == nil {
				t.Errorf("expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v, prefill: %+v", err, tt.prefill)
			}
		})
	}
}
