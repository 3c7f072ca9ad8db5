package core

// ExpenseType determines which fields a draft requires. A RECEIPT expense
// needs a proof file on every line item; an INVOICE does not.
type ExpenseType string

const (
	ExpenseReceipt ExpenseType = "RECEIPT"
	ExpenseInvoice ExpenseType = "INVOICE"
)

// RequiresProof reports whether line items of this expense type must carry
// an uploaded proof reference.
func (t ExpenseType) RequiresProof() bool {
	return t == ExpenseReceipt
}

// Valid reports whether t is a known expense type.
func (t ExpenseType) Valid() bool {
	return t == ExpenseReceipt || t == ExpenseInvoice
}

type PayoutMethodType string

const (
	PayoutPayPal      PayoutMethodType = "PAYPAL"
	PayoutBankAccount PayoutMethodType = "BANK_ACCOUNT"
	PayoutOther       PayoutMethodType = "OTHER"
)

// PayoutMethod is the mechanism used to pay out an approved expense.
// An empty ID means the method is new and not yet saved to the directory.
// The required keys of Data depend on Type: "email" for PAYPAL, "content"
// for OTHER. BANK_ACCOUNT data is opaque to this engine.
type PayoutMethod struct {
	ID      string            `json:"id,omitempty"`
	Type    PayoutMethodType  `json:"type"`
	Name    string            `json:"name,omitempty"`
	Data    map[string]string `json:"data"`
	IsSaved bool              `json:"is_saved"`
}

// IsNew reports whether the method has not been persisted to the directory yet.
func (pm *PayoutMethod) IsNew() bool {
	return pm.ID == ""
}

// Payee is a read-only reference supplied by the account directory. The draft
// engine only selects among payees and their saved payout methods; it never
// mutates them.
type Payee struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Slug          string         `json:"slug,omitempty"`
	PayoutMethods []PayoutMethod `json:"payout_methods,omitempty"`
}

// LineItem is one receipt/invoice row of an expense draft. Key is assigned at
// creation and is never reused for the lifetime of the collection, so removing
// or reordering rows cannot corrupt unrelated ones.
type LineItem struct {
	Key              string  `json:"key"`
	ProofRef         *string `json:"proof_ref,omitempty"`
	Description      string  `json:"description"`
	IncurredAt       string  `json:"incurred_at"` // YYYY-MM-DD
	AmountMinorUnits int64   `json:"amount_minor_units"`
}

// ExpenseDraft is the in-progress, not-yet-submitted expense record.
// The DraftController is its only writer.
type ExpenseDraft struct {
	Type         ExpenseType   `json:"type,omitempty"`
	Description  string        `json:"description"`
	Note         string        `json:"note,omitempty"`
	Items        []LineItem    `json:"items"`
	PayeeID      string        `json:"payee_id,omitempty"`
	PayoutMethod *PayoutMethod `json:"payout_method,omitempty"`
}

// SubmitResult is returned by the submission collaborator on success.
type SubmitResult struct {
	SubmissionID    string `json:"submission_id"`
	TotalMinorUnits int64  `json:"total_minor_units"`
	LineItemCount   int    `json:"line_item_count"`
}

// DescriptionMaxLength is the hard cap on the draft description field.
const DescriptionMaxLength = 255

// DateLayout is the calendar-date format used throughout the draft engine.
const DateLayout = "2006-01-02"
