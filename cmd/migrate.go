package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/wordscore/pkg/logger"
)

func migrateCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the configured SQL driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openSQLStore(ctx, c.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(ctx); err != nil {
				return err
			}
			c.log.Info(ctx, "migrations applied", logger.String("driver", string(store.Dialect())))
			return nil
		},
	}
}
