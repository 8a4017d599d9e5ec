package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Look a species up in the plant catalog",
		Long: `Look a species up in the plant catalog.

With --save the best match is added to the garden straight away, using the
catalog's care levels for its intervals.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			save, _ := cmd.Flags().GetBool("save")

			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			if save {
				saved, err := a.garden.SearchAndSave(cmd.Context(), query)
				if err != nil {
					return err
				}
				if saved == nil {
					printWarning("Nothing saved for %q", query)
					return nil
				}
				printSuccess("Added %s (id %d)", saved.Name, saved.ID)
				return nil
			}

			records, err := a.garden.Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printWarning("No plant found for %q", query)
				return nil
			}

			mapper := a.garden.Mapper()
			t := newTable("ID", "NAME", "FAMILY", "WATER", "FERTILIZE", "REPOT")
			for _, r := range records {
				p := mapper.Map(r)
				t.Row(fmt.Sprint(r.ID), p.Name, p.Family(),
					fmt.Sprintf("%dd", p.WateringIntervalDays),
					fmt.Sprintf("%dd", p.FertilizingIntervalDays),
					fmt.Sprintf("%dmo", p.RepottingIntervalMonths))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return err
		},
	}
	cmd.Flags().Bool("save", false, "save the best match without asking")
	return cmd
}
