package core_test

import (
	"testing"

	"expense-desk/internal/core"
)

func TestValidateDescription(t *testing.T) {
	long := make([]byte, core.DescriptionMaxLength+1)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name string
		desc string
		want core.ErrorKind
		ok   bool
	}{
		{"Valid", "Team offsite dinner", "", true},
		{"Empty", "", core.ErrRequired, false},
		{"Whitespace only", "   ", core.ErrRequired, false},
		{"Too long", string(long), core.ErrMax, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := core.ValidateDescription(tt.desc)
			if tt.ok {
				if !errs.Empty() {
					t.Errorf("expected valid, got %v", errs)
				}
				return
			}
			if errs["description"] != tt.want {
				t.Errorf("description error = %q, want %q", errs["description"], tt.want)
			}
		})
	}
}

func TestValidateLineItem(t *testing.T) {
	ref := "uploads/receipt-1.png"

	tests := []struct {
		name         string
		item         core.LineItem
		requireProof bool
		wantPath     string
		wantKind     core.ErrorKind
		ok           bool
	}{
		{
			name: "Complete invoice item",
			item: core.LineItem{Description: "taxi", IncurredAt: "2026-08-30", AmountMinorUnits: 2350},
			ok:   true,
		},
		{
			name:         "Complete receipt item",
			item:         core.LineItem{ProofRef: &ref, Description: "taxi", IncurredAt: "2026-08-30", AmountMinorUnits: 2350},
			requireProof: true,
			ok:           true,
		},
		{
			name:         "Missing proof when required",
			item:         core.LineItem{Description: "taxi", IncurredAt: "2026-08-30", AmountMinorUnits: 2350},
			requireProof: true,
			wantPath:     "proof_ref",
			wantKind:     core.ErrRequired,
		},
		{
			name:     "Missing description",
			item:     core.LineItem{IncurredAt: "2026-08-30", AmountMinorUnits: 100},
			wantPath: "description",
			wantKind: core.ErrRequired,
		},
		{
			name:     "Missing date",
			item:     core.LineItem{Description: "taxi", AmountMinorUnits: 100},
			wantPath: "incurred_at",
			wantKind: core.ErrRequired,
		},
		{
			name:     "Malformed date",
			item:     core.LineItem{Description: "taxi", IncurredAt: "30/08/2026", AmountMinorUnits: 100},
			wantPath: "incurred_at",
			wantKind: core.ErrPattern,
		},
		{
			name:     "Zero amount",
			item:     core.LineItem{Description: "taxi", IncurredAt: "2026-08-30"},
			wantPath: "amount",
			wantKind: core.ErrMin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := core.ValidateLineItem(&tt.item, tt.requireProof)
			if tt.ok {
				if !errs.Empty() {
					t.Errorf("expected valid, got %v", errs)
				}
				return
			}
			if errs[tt.wantPath] != tt.wantKind {
				t.Errorf("error at %s = %q, want %q (full set: %v)", tt.wantPath, errs[tt.wantPath], tt.wantKind, errs)
			}
		})
	}
}
