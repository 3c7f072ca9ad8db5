package repl

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"expense-desk/internal/app"
)

// Run starts the interactive REPL loop.
// It reads commands from reader, dispatches slash commands deterministically,
// and routes natural language input through the AI prefill agent.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	fmt.Println("Expense Desk")
	fmt.Println("Build an expense draft with slash commands, or describe the expense in plain language.")
	fmt.Println("Type /help for commands.")
	fmt.Println(strings.Repeat("-", 70))

	errExit := fmt.Errorf("exit")

	// The REPL works on one draft at a time.
	var activeDraft string

	ensureDraft := func() (string, error) {
		if activeDraft != "" {
			return activeDraft, nil
		}
		result, err := svc.CreateDraft(ctx)
		if err != nil {
			return "", err
		}
		activeDraft = result.DraftID
		fmt.Printf("Started draft %s\n", shortID(activeDraft))
		return activeDraft, nil
	}

	dispatchSlash := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "new":
			result, err := svc.CreateDraft(ctx)
			if err != nil {
				return err
			}
			activeDraft = result.DraftID
			fmt.Printf("Started draft %s\n", shortID(activeDraft))
			if len(args) > 0 {
				kind := strings.ToUpper(args[0])
				if _, err := svc.UpdateDraft(ctx, activeDraft, app.UpdateDraftRequest{Type: &kind}); err != nil {
					return err
				}
				fmt.Printf("Type set to %s.\n", kind)
			}

		case "type":
			if len(args) < 1 {
				fmt.Println("Usage: /type <RECEIPT|INVOICE>")
				return nil
			}
			id, err := ensureDraft()
			if err != nil {
				return err
			}
			kind := strings.ToUpper(args[0])
			result, err := svc.UpdateDraft(ctx, id, app.UpdateDraftRequest{Type: &kind})
			if err != nil {
				return err
			}
			printDraft(result)

		case "desc", "description":
			if len(args) < 1 {
				fmt.Println("Usage: /desc <title for the expense>")
				return nil
			}
			id, err := ensureDraft()
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			result, err := svc.UpdateDraft(ctx, id, app.UpdateDraftRequest{Description: &text})
			if err != nil {
				return err
			}
			printDraft(result)

		case "note":
			id, err := ensureDraft()
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			if _, err := svc.UpdateDraft(ctx, id, app.UpdateDraftRequest{Note: &text}); err != nil {
				return err
			}
			fmt.Println("Note saved.")

		case "add":
			id, err := ensureDraft()
			if err != nil {
				return err
			}
			handleAddItem(ctx, reader, svc, id)

		case "edit":
			if len(args) < 1 {
				fmt.Println("Usage: /edit <item-number>")
				return nil
			}
			id, err := ensureDraft()
			if err != nil {
				return err
			}
			key, err := itemKeyByIndex(ctx, svc, id, args[0])
			if err != nil {
				return err
			}
			handleEditItem(ctx, reader, svc, id, key)

		case "remove", "rm":
			if len(args) < 1 {
				fmt.Println("Usage: /remove <item-number>")
				return nil
			}
			id, err := ensureDraft()
			if err != nil {
				return err
			}
			key, err := itemKeyByIndex(ctx, svc, id, args[0])
			if err != nil {
				return err
			}
			result, err := svc.RemoveLineItem(ctx, id, key)
			if err != nil {
				return err
			}
			printDraft(result)

		case "payees":
			result, err := svc.ListPayees(ctx)
			if err != nil {
				return err
			}
			printPayees(result)

		case "payee":
			if len(args) < 1 {
				fmt.Println("Usage: /payee <payee-id>  (see /payees)")
				return nil
			}
			id, err := ensureDraft()
			if err != nil {
				return err
			}
			result, err := svc.SetPayee(ctx, id, args[0])
			if err != nil {
				return err
			}
			fmt.Println("Payee set. Payout method was reset; choose one with /payout.")
			printDraft(result)

		case "payout":
			id, err := ensureDraft()
			if err != nil {
				return err
			}
			handlePayoutMethod(ctx, reader, svc, id)

		case "status", "st":
			id, err := ensureDraft()
			if err != nil {
				return err
			}
			result, err := svc.GetDraft(ctx, id)
			if err != nil {
				return err
			}
			printDraft(result)

		case "submit":
			if activeDraft == "" {
				fmt.Println("Nothing to submit. Start with /new.")
				return nil
			}
			result, err := svc.SubmitDraft(ctx, activeDraft)
			if err != nil {
				return err
			}
			fmt.Printf("Submitted. ID: %s  (%d items, total %s)\n",
				result.SubmissionID, result.LineItemCount, displayAmount(result.TotalMinorUnits))
			activeDraft = ""

		case "help", "h":
			printHelp()

		case "exit", "quit", "e", "q":
			return errExit

		default:
			fmt.Printf("Unknown command: /%s  (type /help for all commands)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Print("\n> ")
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		// Slash prefix → deterministic command dispatcher, no AI invoked.
		if strings.HasPrefix(input, "/") {
			if err := dispatchSlash(input); err != nil {
				if err == errExit {
					fmt.Println("Goodbye!")
					break
				}
				printError(err)
			}
			continue
		}

		// No slash prefix → route to AI prefill.
		id, err := ensureDraft()
		if err != nil {
			printError(err)
			continue
		}
		fmt.Println("[AI] Processing...")
		result, err := svc.PrefillDraft(ctx, id, input)
		if err != nil {
			printError(err)
			continue
		}
		fmt.Println("[AI] Proposed draft:")
		printDraft(result)
		fmt.Println("Adjust with /edit, /payee and /payout, then /submit.")
	}
}

// shortID truncates a UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// itemKeyByIndex resolves a 1-based display index into the item's stable key.
func itemKeyByIndex(ctx context.Context, svc app.ApplicationService, draftID, arg string) (string, error) {
	result, err := svc.GetDraft(ctx, draftID)
	if err != nil {
		return "", err
	}
	var n int
	if _, err := fmt.Sscanf(arg, "%d", &n); err != nil || n < 1 || n > len(result.Draft.Items) {
		return "", fmt.Errorf("no line item %s (draft has %d)", arg, len(result.Draft.Items))
	}
	return result.Draft.Items[n-1].Key, nil
}
