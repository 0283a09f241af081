package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fieldhub/migrations"
	"github.com/dmitrymomot/fieldhub/pkg/config"
	"github.com/dmitrymomot/fieldhub/pkg/logger"
	"github.com/dmitrymomot/fieldhub/pkg/pg"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations",
		Long:  "Connect using PG_CONN_URL and apply every pending migration embedded in the binary.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg pg.Config
			if err := config.Load(&cfg); err != nil {
				return err
			}
			log := logger.New(logger.WithFormat(logger.FormatText), logger.WithOutput(cmd.ErrOrStderr()))

			pool, err := pg.Connect(cmd.Context(), cfg)
			if err != nil {
				log.Error("database connection failed", logger.Error(err))
				return err
			}
			defer pool.Close()

			return pg.Migrate(cmd.Context(), pool, migrations.FS, log)
		},
	}
}
