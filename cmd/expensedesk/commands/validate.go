package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"expense-desk/internal/core"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [draft.json]",
		Short: "Check a draft file against the submission rules (no database needed)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			df, err := readDraftFile(path)
			if err != nil {
				return err
			}

			var payee *core.Payee
			if df.PayeeID != "" {
				payee = &core.Payee{ID: df.PayeeID}
			}
			ctl, err := buildController(df, payee)
			if err != nil {
				return err
			}

			errs := ctl.Errors()
			completion := ctl.Completion()
			fmt.Printf("Items: %d  Total: %s\n", len(ctl.Items()), core.ToDisplayValue(ctl.TotalMinorUnits()))
			if errs.Empty() && completion.Submittable {
				fmt.Println("Draft is valid and ready to submit.")
				return nil
			}
			fmt.Println("Draft is not ready to submit:")
			printErrorSet(errs)
			return fmt.Errorf("%d field(s) failing", len(errs))
		},
	}
}
