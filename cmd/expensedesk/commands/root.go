package commands

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"expense-desk/internal/ai"
	"expense-desk/internal/app"
	"expense-desk/internal/db"
	"expense-desk/internal/directory"
	"expense-desk/internal/submit"
)

func Execute() error {
	root := &cobra.Command{
		Use:   "expensedesk",
		Short: "Expense draft engine: build, validate and submit expense reports",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	root.AddCommand(serveCmd(), replCmd(), validateCmd(), submitCmd(), migrateCmd())
	return root.Execute()
}

// buildService connects the database-backed collaborators and returns the
// application service. The caller owns the pool.
func buildService(ctx context.Context) (app.ApplicationService, *pgxpool.Pool, error) {
	pool, err := db.NewPool(ctx)
	if err != nil {
		return nil, nil, err
	}

	dir := directory.NewPayeeDirectory(pool)
	submitter := submit.NewService(pool)

	var agent ai.AgentService
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		agent = ai.NewAgent(apiKey)
	}

	return app.NewAppService(dir, submitter, agent), pool, nil
}
