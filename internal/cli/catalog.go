package cli

import (
	"encoding/json"
	"fmt"

	"github.com/diewo77/studio-billing/internal/catalog"
	"github.com/diewo77/studio-billing/internal/config"
	"github.com/spf13/cobra"
)

func newCatalogCmd(cfg *config.Config) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the effective catalog",
		Long: `Catalog prints the embedded catalog merged with CATALOG_FILE. The YAML
output can be edited and fed back through CATALOG_FILE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(cfg.App.CatalogFile)
			if err != nil {
				return err
			}
			var b []byte
			switch format {
			case "yaml", "yml":
				b, err = cat.YAML()
			case "json":
				b, err = json.MarshalIndent(cat, "", "  ")
				b = append(b, '\n')
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}
