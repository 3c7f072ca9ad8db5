package commands

import (
	"bufio"
	"context"
	"os"

	"github.com/spf13/cobra"

	"expense-desk/internal/adapters/repl"
)

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Build an expense draft interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, pool, err := buildService(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
			return nil
		},
	}
}
