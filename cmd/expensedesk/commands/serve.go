package commands

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"expense-desk/internal/adapters/web"
)

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

			ctx := context.Background()
			svc, pool, err := buildService(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if os.Getenv("OPENAI_API_KEY") == "" {
				logger.Warn().Msg("OPENAI_API_KEY is not set; AI prefill disabled")
			}

			if port == "" {
				port = os.Getenv("SERVER_PORT")
			}
			if port == "" {
				port = "8080"
			}

			handler := web.NewHandler(svc, os.Getenv("ALLOWED_ORIGINS"))
			logger.Info().Str("port", port).Msg("server starting")
			return http.ListenAndServe(":"+port, handler)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default $SERVER_PORT or 8080)")
	return cmd
}
