package repl

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"expense-desk/internal/app"
	"expense-desk/internal/core"

	"github.com/shopspring/decimal"
)

// prompt reads one trimmed line from the reader.
func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	raw, _ := reader.ReadString('\n')
	return strings.TrimSpace(raw)
}

// promptAmount keeps asking until the input parses as a non-negative decimal
// or the user leaves it blank.
func promptAmount(reader *bufio.Reader, label string) *string {
	for {
		raw := prompt(reader, label)
		if raw == "" {
			return nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			fmt.Println("  Invalid amount. Use a decimal like 42.50.")
			continue
		}
		return &raw
	}
}

// handleAddItem runs an interactive line-item creation session.
func handleAddItem(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, draftID string) {
	fmt.Println("New line item. Leave a field blank to fill it in later.")

	req := app.LineItemRequest{}
	if desc := prompt(reader, "  Description: "); desc != "" {
		req.Description = &desc
	}
	date := prompt(reader, fmt.Sprintf("  Date (YYYY-MM-DD, blank for %s): ", time.Now().Format(core.DateLayout)))
	if date != "" {
		req.IncurredAt = &date
	}
	req.AmountDisplay = promptAmount(reader, "  Amount: ")
	if proof := prompt(reader, "  Proof reference (from an upload, optional): "); proof != "" {
		req.ProofRef = &proof
	}

	result, err := svc.AddLineItem(ctx, draftID, req)
	if err != nil {
		printError(err)
		return
	}
	printDraft(&result.DraftResult)
}

// handleEditItem edits one field at a time; blank input keeps the current value.
func handleEditItem(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, draftID, key string) {
	fmt.Println("Editing line item. Leave a field blank to keep its current value.")

	req := app.LineItemRequest{}
	if desc := prompt(reader, "  Description: "); desc != "" {
		req.Description = &desc
	}
	if date := prompt(reader, "  Date (YYYY-MM-DD): "); date != "" {
		req.IncurredAt = &date
	}
	req.AmountDisplay = promptAmount(reader, "  Amount: ")
	if proof := prompt(reader, "  Proof reference: "); proof != "" {
		req.ProofRef = &proof
	}

	result, err := svc.UpdateLineItem(ctx, draftID, key, req)
	if err != nil {
		printError(err)
		return
	}
	printDraft(result)
}

// handlePayoutMethod lets the user pick one of the payee's saved methods or
// define a new one.
func handlePayoutMethod(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, draftID string) {
	result, err := svc.GetDraft(ctx, draftID)
	if err != nil {
		printError(err)
		return
	}

	var saved []core.PayoutMethod
	if result.Draft.PayeeID != "" {
		payee, err := svc.GetPayee(ctx, result.Draft.PayeeID)
		if err != nil {
			printError(err)
			return
		}
		saved = payee.PayoutMethods
	}

	if len(saved) > 0 {
		fmt.Println("Saved payout methods:")
		for i, pm := range saved {
			fmt.Printf("  %d. %s\n", i+1, payoutSummary(&pm))
		}
		fmt.Println("  0. Define a new method")
		choice := prompt(reader, "Choose: ")
		var n int
		if _, err := fmt.Sscanf(choice, "%d", &n); err == nil && n >= 1 && n <= len(saved) {
			res, err := svc.SetPayoutMethod(ctx, draftID, app.PayoutMethodRequest{MethodID: saved[n-1].ID})
			if err != nil {
				printError(err)
				return
			}
			printDraft(res)
			return
		}
	}

	kind := strings.ToUpper(prompt(reader, "Method type (PAYPAL, BANK_ACCOUNT, OTHER): "))
	req := app.PayoutMethodRequest{Type: core.PayoutMethodType(kind), Data: map[string]string{}}
	switch req.Type {
	case core.PayoutPayPal:
		req.Data["email"] = prompt(reader, "  PayPal email: ")
	case core.PayoutBankAccount:
		req.Name = prompt(reader, "  Account label: ")
		req.Data["accountNumber"] = prompt(reader, "  Account number: ")
	case core.PayoutOther:
		req.Data["content"] = prompt(reader, "  Payout instructions: ")
	default:
		fmt.Printf("Unknown method type %q.\n", kind)
		return
	}

	res, err := svc.SetPayoutMethod(ctx, draftID, req)
	if err != nil {
		printError(err)
		return
	}
	printDraft(res)
}
