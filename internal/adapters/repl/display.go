package repl

import (
	"errors"
	"fmt"
	"strings"

	"expense-desk/internal/app"
	"expense-desk/internal/core"
)

func displayAmount(minorUnits int64) string {
	return core.ToDisplayValue(minorUnits)
}

func printDraft(result *app.DraftResult) {
	d := result.Draft
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  EXPENSE DRAFT %s\n", shortID(result.DraftID))
	kind := string(d.Type)
	if kind == "" {
		kind = "(not set)"
	}
	fmt.Printf("  Type        : %s\n", kind)
	desc := d.Description
	if desc == "" {
		desc = "(none)"
	}
	fmt.Printf("  Title       : %s\n", desc)
	if d.PayeeID != "" {
		fmt.Printf("  Payee       : %s\n", d.PayeeID)
	}
	if d.PayoutMethod != nil {
		fmt.Printf("  Payout      : %s\n", payoutSummary(d.PayoutMethod))
	}
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-4s %-30s %-12s %12s  %s\n", "#", "DESCRIPTION", "DATE", "AMOUNT", "PROOF")
	fmt.Println(strings.Repeat("-", 72))
	for i, item := range d.Items {
		proof := ""
		if item.ProofRef != nil {
			proof = shortID(*item.ProofRef)
		}
		desc := item.Description
		if desc == "" {
			desc = "(empty)"
		}
		fmt.Printf("  %-4d %-30s %-12s %12s  %s\n",
			i+1, desc, item.IncurredAt, displayAmount(item.AmountMinorUnits), proof)
	}
	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("  %-47s %12s\n", "TOTAL", result.TotalDisplay)
	fmt.Println(strings.Repeat("=", 72))

	printCompletion(result.Completion)
	if !result.Errors.Empty() {
		fmt.Println("  Outstanding fields:")
		for _, path := range result.Errors.Paths() {
			fmt.Printf("    %-40s %s\n", path, result.Errors[path])
		}
	}
}

func payoutSummary(pm *core.PayoutMethod) string {
	switch pm.Type {
	case core.PayoutPayPal:
		return fmt.Sprintf("PayPal (%s)", pm.Data["email"])
	case core.PayoutBankAccount:
		name := pm.Name
		if name == "" {
			name = "bank account"
		}
		return name
	case core.PayoutOther:
		return "Other"
	default:
		return string(pm.Type)
	}
}

func printCompletion(c core.Completion) {
	mark := func(ok bool) string {
		if ok {
			return "[x]"
		}
		return "[ ]"
	}
	fmt.Printf("  %s basics   %s line items   %s payee & payout",
		mark(c.BasicsComplete), mark(c.StepOneComplete), mark(c.StepTwoComplete))
	if c.Submittable {
		fmt.Print("   READY TO SUBMIT")
	}
	fmt.Println()
}

func printPayees(result *app.PayeeListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("  PAYEES")
	fmt.Println(strings.Repeat("=", 72))
	if len(result.Payees) == 0 {
		fmt.Println("  No payees found.")
		fmt.Println(strings.Repeat("=", 72))
		return
	}
	fmt.Printf("  %-38s %-20s %s\n", "ID", "NAME", "SAVED METHODS")
	fmt.Println(strings.Repeat("-", 72))
	for _, p := range result.Payees {
		var methods []string
		for _, pm := range p.PayoutMethods {
			methods = append(methods, string(pm.Type))
		}
		fmt.Printf("  %-38s %-20s %s\n", p.ID, p.Name, strings.Join(methods, ", "))
	}
	fmt.Println(strings.Repeat("=", 72))
}

// printError renders a service error; validation failures get the full
// per-field breakdown instead of a single line.
func printError(err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		fmt.Println("Draft is not ready to submit:")
		for _, path := range verr.Errors.Paths() {
			fmt.Printf("  %-40s %s\n", path, verr.Errors[path])
		}
		return
	}
	fmt.Printf("Error: %v\n", err)
}

func printHelp() {
	fmt.Println()
	fmt.Println("EXPENSE DESK — COMMANDS")
	fmt.Println(strings.Repeat("=", 62))
	fmt.Println()
	fmt.Println("  DRAFT")
	fmt.Println("  /new [RECEIPT|INVOICE]        Start a fresh draft")
	fmt.Println("  /type <RECEIPT|INVOICE>       Set the expense type")
	fmt.Println("  /desc <text>                  Set the expense title")
	fmt.Println("  /note <text>                  Set the optional note")
	fmt.Println("  /status                       Show the draft, totals and outstanding fields")
	fmt.Println()
	fmt.Println("  LINE ITEMS")
	fmt.Println("  /add                          Add a line item (interactive)")
	fmt.Println("  /edit <n>                     Edit line item n")
	fmt.Println("  /remove <n>                   Remove line item n")
	fmt.Println()
	fmt.Println("  PAYEE & PAYOUT")
	fmt.Println("  /payees                       List selectable payees")
	fmt.Println("  /payee <id>                   Select the payee (resets payout method)")
	fmt.Println("  /payout                       Choose or define the payout method (interactive)")
	fmt.Println()
	fmt.Println("  SESSION")
	fmt.Println("  /submit                       Validate and submit the draft")
	fmt.Println("  /help                         Show this help")
	fmt.Println("  /exit                         Exit")
	fmt.Println()
	fmt.Println("  AGENT MODE  (no / prefix)")
	fmt.Println("  Describe the expense in natural language to prefill the draft.")
	fmt.Println("  Example: \"team lunch at Mario's yesterday, 84.50 for food and 16 for drinks\"")
	fmt.Println(strings.Repeat("=", 62))
}
