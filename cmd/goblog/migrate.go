package main

import (
	"fmt"

	"github.com/MrEthical07/goBlog/internal/envcfg"
	"github.com/MrEthical07/goBlog/internal/sqlstore"
	"github.com/spf13/cobra"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the SQL schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := root.logger()
			if err != nil {
				return err
			}
			settings, err := root.settings()
			if err != nil {
				return err
			}
			if settings.Store == envcfg.StoreRedis {
				return fmt.Errorf("migrate needs BLOG_STORE=sqlite or postgres, got %q", settings.Store)
			}

			store, err := sqlstore.Open(settings.Store, settings.DSN)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			logger.Info("schema up to date", "store", settings.Store)
			return nil
		},
	}
}
