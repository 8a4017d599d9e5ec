package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/plantr/internal/export"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the garden as CSV, JSON or TOML",
		Long: `Export the garden as CSV, JSON or TOML.

Examples:
  plantr export --format csv --out plants.csv
  plantr export --format toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")

			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			plants, err := a.garden.List()
			if err != nil {
				return err
			}
			now := time.Now()

			if out == "" || out == "-" {
				w := cmd.OutOrStdout()
				switch format {
				case export.FormatCSV:
					return export.WriteCSV(w, plants, now)
				case export.FormatJSON:
					return export.WriteJSON(w, plants, now)
				case export.FormatTOML:
					return export.WriteTOML(w, plants, now)
				}
				return fmt.Errorf("unknown export format %q", format)
			}

			if err := export.Write(format, plants, now, out); err != nil {
				return err
			}
			printSuccess("Exported %d plants to %s", len(plants), out)
			return nil
		},
	}
	cmd.Flags().String("format", export.FormatCSV, "csv, json or toml")
	cmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	return cmd
}
