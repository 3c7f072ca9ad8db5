package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"expense-desk/internal/db"
)

func migrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the SQL migrations in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pool, err := db.NewPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			matches, err := filepath.Glob(filepath.Join(dir, "*.sql"))
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				return fmt.Errorf("no .sql files in %s", dir)
			}
			sort.Strings(matches)

			for _, path := range matches {
				sqlBytes, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if _, err := pool.Exec(ctx, string(sqlBytes)); err != nil {
					return fmt.Errorf("migration %s: %w", filepath.Base(path), err)
				}
				fmt.Printf("Applied %s\n", filepath.Base(path))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "migrations", "directory containing .sql migration files")
	return cmd
}
