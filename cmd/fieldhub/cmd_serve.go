package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fieldhub/app"
	"github.com/dmitrymomot/fieldhub/pkg/logger"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long:  "Load configuration from the environment (and .env), connect the configured stores and serve HTTP until interrupted.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			log := app.NewLogger(cfg)
			logger.SetAsDefault(log)

			opts := []app.Option{app.WithLogger(log)}
			if migrate {
				opts = append(opts, app.WithMigrations())
			}

			a, err := app.New(cmd.Context(), cfg, opts...)
			if err != nil {
				log.Error("startup failed", logger.Error(err))
				return err
			}
			defer a.Close()

			return a.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending database migrations before serving")
	return cmd
}
