package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/diewo77/studio-billing/internal/catalog"
	"github.com/diewo77/studio-billing/internal/config"
	"github.com/diewo77/studio-billing/internal/render"
	"github.com/spf13/cobra"
)

func newRenderCmd(cfg *config.Config) *cobra.Command {
	var in, kind, out string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an invoice record to a printable HTML page",
		Long: `Render reads an invoice record in the same JSON shape the builder hands off
and writes the printable invoice or quotation page.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, ok := render.ParseKind(kind)
			if !ok {
				return fmt.Errorf("unknown document kind %q (want invoice or quote)", kind)
			}
			raw, err := readInput(cmd, in)
			if err != nil {
				return err
			}
			inv, err := render.DecodeInvoice(raw)
			if err != nil {
				return fmt.Errorf("decode invoice: %w", err)
			}
			cat, err := catalog.Load(cfg.App.CatalogFile)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			loc, err := cfg.App.Location()
			if err != nil {
				return err
			}
			page, err := render.NewRenderer().RenderHTML(render.Build(k, inv, cat.Company, time.Now().In(loc)))
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			if out == "" || out == "-" {
				_, err = io.WriteString(cmd.OutOrStdout(), page)
				return err
			}
			if err := os.WriteFile(out, []byte(page), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "-", "invoice JSON file (- for stdin)")
	cmd.Flags().StringVar(&kind, "kind", "invoice", "document kind: invoice or quote")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}
