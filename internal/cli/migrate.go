package cli

import (
	"fmt"

	"github.com/diewo77/studio-billing/internal/config"
	"github.com/diewo77/studio-billing/internal/store"
	"github.com/spf13/cobra"
)

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the session table of a SQL store",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.OpenDB(storeOptions(cfg))
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := store.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrations completed (%s)\n", cfg.Store.Driver)
			return nil
		},
	}
}
