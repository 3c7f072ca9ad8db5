package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"expense-desk/internal/core"
	"expense-desk/internal/db"
	"expense-desk/internal/directory"
	"expense-desk/internal/submit"
)

func submitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit [draft.json]",
		Short: "Validate a draft file and submit it as an expense",
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

			ctx := context.Background()
			pool, err := db.NewPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			var payee *core.Payee
			if df.PayeeID != "" {
				dir := directory.NewPayeeDirectory(pool)
				payee, err = dir.GetPayee(ctx, df.PayeeID)
				if err != nil {
					return err
				}
			}

			ctl, err := buildController(df, payee)
			if err != nil {
				return err
			}

			result, err := ctl.Submit(ctx, submit.NewService(pool))
			if err != nil {
				var verr *core.ValidationError
				if errors.As(err, &verr) {
					fmt.Println("Draft is not ready to submit:")
					printErrorSet(verr.Errors)
				}
				return err
			}

			fmt.Printf("Submitted. ID: %s  (%d items, total %s)\n",
				result.SubmissionID, result.LineItemCount, core.ToDisplayValue(result.TotalMinorUnits))
			return nil
		},
	}
}
