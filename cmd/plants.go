package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/plantr/internal/care"
	"github.com/sadopc/plantr/internal/garden"
	"github.com/sadopc/plantr/internal/store"
)

// --- list ---

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plants with their watering status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			plants, err := a.garden.List()
			if err != nil {
				return err
			}
			if len(plants) == 0 {
				printWarning("No plants yet. Add one with `plantr add` or `plantr search --save`.")
				return nil
			}
			writePlantTable(cmd.OutOrStdout(), time.Now(), plants)
			return nil
		},
	}
}

func writePlantTable(out io.Writer, now time.Time, plants []store.Plant) {
	t := newTable("", "ID", "NAME", "LOCATION", "WATERING")
	for _, o := range garden.Overviews(now, plants) {
		watering := "no schedule"
		if o.Status != care.StatusUnknown {
			watering = care.NextText(care.Watering, o.WaterInDays)
		}
		t.Row(statusDot(o.Status), strconv.FormatInt(o.Plant.ID, 10), o.Plant.Name, o.Plant.Location, watering)
	}
	fmt.Fprintln(out, t.String())
}

// --- show ---

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show care countdowns for one plant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.garden.Get(id)
			if err != nil {
				return notFound(err, id)
			}
			events, err := a.store.ListCareEvents(id, 5)
			if err != nil {
				return err
			}
			writePlantDetail(cmd.OutOrStdout(), time.Now(), *p, events)
			return nil
		},
	}
}

func writePlantDetail(out io.Writer, now time.Time, p store.Plant, events []store.CareEvent) {
	fmt.Fprintf(out, "%s %s\n", statusDot(garden.StatusOf(now, p)), boldStyle.Render(p.Name))
	if fam := p.Family(); fam != "" {
		fmt.Fprintf(out, "  %s\n", dimStyle.Render(fam))
	}
	if p.Location != "" {
		fmt.Fprintf(out, "  Location: %s\n", p.Location)
	}
	fmt.Fprintln(out)
	for _, cd := range garden.Countdowns(now, p) {
		if cd.IntervalDays <= 0 {
			fmt.Fprintf(out, "  %s: no schedule\n", cd.Action.Title())
			continue
		}
		fmt.Fprintf(out, "  %s\n", cd.Next)
		if cd.Last != "" {
			fmt.Fprintf(out, "    %s\n", dimStyle.Render(cd.Last))
		}
	}
	if len(events) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Recent care:")
		for _, e := range events {
			at := time.UnixMilli(e.At).Local().Format("2006-01-02 15:04")
			fmt.Fprintf(out, "    %s  %s\n", at, e.Kind)
		}
	}
}

// --- add ---

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a plant by hand",
		Long: `Add a plant by hand.

Examples:
  plantr add --name "Monstera" --water 7
  plantr add --name "Cactus" --water 30 --fertilize 90 --repot 24 --location Balcony`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			location, _ := cmd.Flags().GetString("location")
			water, _ := cmd.Flags().GetInt("water")
			fertilize, _ := cmd.Flags().GetInt("fertilize")
			repot, _ := cmd.Flags().GetInt("repot")
			watered, _ := cmd.Flags().GetBool("watered-now")

			p := store.Plant{
				Name:                    name,
				Location:                location,
				WateringIntervalDays:    water,
				FertilizingIntervalDays: fertilize,
				RepottingIntervalMonths: repot,
			}
			if watered {
				p.LastWateredAt = time.Now().UnixMilli()
			}

			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			saved, err := a.garden.Create(p)
			if err != nil {
				return err
			}
			printSuccess("Added %s (id %d)", saved.Name, saved.ID)
			return nil
		},
	}
	cmd.Flags().String("name", "", "plant name")
	cmd.Flags().String("location", "", "where the plant lives")
	cmd.Flags().Int("water", 0, "watering interval in days")
	cmd.Flags().Int("fertilize", 0, "fertilizing interval in days")
	cmd.Flags().Int("repot", 0, "repotting interval in months")
	cmd.Flags().Bool("watered-now", false, "count the plant as watered just now")
	return cmd
}

// --- water / fertilize / repot ---

func newCareCmd(verb, short string) *cobra.Command {
	action, _ := garden.ParseAction(verb)
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.garden.Record(id, action)
			if err != nil {
				return notFound(err, id)
			}
			for _, cd := range garden.Countdowns(time.Now(), *p) {
				if cd.Action == action {
					printSuccess("%s: %s", p.Name, cd.Next)
				}
			}
			return nil
		},
	}
}

// --- delete ---

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a plant and its care history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.garden.Delete(id); err != nil {
				return notFound(err, id)
			}
			printSuccess("Deleted plant %d", id)
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid plant id %q", s)
	}
	return id, nil
}

func notFound(err error, id int64) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no plant with id %d", id)
	}
	return err
}
