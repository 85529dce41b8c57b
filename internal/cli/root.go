// Package cli wires the studio command tree.
package cli

import (
	"github.com/diewo77/studio-billing/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the studio command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:   "studio",
		Short: "Invoice and quotation builder for a wedding photography studio",
		Long: `Studio serves the billing form, the printable invoice and the quotation.

Configuration is read from the environment; a .env file in the working
directory is loaded first when present.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			cfg = *config.Load()
		},
	}

	root.AddCommand(newServeCmd(&cfg))
	root.AddCommand(newMigrateCmd(&cfg))
	root.AddCommand(newRenderCmd(&cfg))
	root.AddCommand(newCatalogCmd(&cfg))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
