package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danwashburn/truck-parking-dashboard/internal/chart"
	"github.com/danwashburn/truck-parking-dashboard/internal/config"
	"github.com/danwashburn/truck-parking-dashboard/internal/county"
	"github.com/danwashburn/truck-parking-dashboard/internal/dataset"
	"github.com/danwashburn/truck-parking-dashboard/internal/hourly"
	"github.com/danwashburn/truck-parking-dashboard/internal/selection"
	"github.com/danwashburn/truck-parking-dashboard/internal/spots"
)

// offlineData is everything the non-serve subcommands need loaded up front.
type offlineData struct {
	cfg      *config.Config
	store    *dataset.Store
	daily    []dataset.DailyRecord
	hourlies []dataset.HourlyRecord
	counties []county.County
	names    map[string]string
}

func loadOffline() (*offlineData, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	store := dataset.NewStore(nil)

	daily, err := store.Daily(cfg.DailyPath())
	if err != nil {
		return nil, err
	}
	boundaries, err := store.Counties(cfg.CountiesPath())
	if err != nil {
		return nil, err
	}
	hourlies, err := store.Hourly(cfg.HourlyPath())
	if err != nil {
		return nil, err
	}

	joined := county.Join(boundaries, daily)
	return &offlineData{
		cfg:      cfg,
		store:    store,
		daily:    daily,
		hourlies: hourlies,
		counties: joined,
		names:    county.NameIndex(joined),
	}, nil
}

// scopedRows mirrors the dashboard's chart scoping: a county uses its own
// daily supply, statewide uses the sum of all counties' supply.
func (d *offlineData) scopedRows(fips string) []hourly.Row {
	if fips != "" {
		return hourly.Aggregate(d.hourlies, fips, hourly.SupplyFor(d.daily, fips))
	}
	return hourly.Aggregate(d.hourlies, "", hourly.SupplyTotal(d.daily))
}

func (d *offlineData) scopeTitle(fips string) string {
	if fips == "" {
		return "Indiana (statewide)"
	}
	if name := d.names[fips]; name != "" {
		return name
	}
	return "County " + fips
}

// resolveCounty normalizes a --county flag value to a 5-digit FIPS.
func resolveCounty(raw string) string {
	if raw == "" {
		return ""
	}
	return selection.NormalizeFIPS(raw)
}

// addExportCmd adds an 'export' subcommand that writes the hourly demand CSV.
func addExportCmd(rootCmd *cobra.Command) {
	var countyFlag, outputFlag string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the hourly demand CSV (statewide or one county)",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadOffline()
			if err != nil {
				return err
			}
			fips := resolveCounty(countyFlag)
			rows := data.scopedRows(fips)

			out := cmd.OutOrStdout()
			if outputFlag != "" {
				f, err := os.Create(outputFlag)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			if err := hourly.WriteCSV(out, rows); err != nil {
				return fmt.Errorf("failed to write CSV: %w", err)
			}
			if outputFlag != "" {
				cmd.Println(fmt.Sprintf("Hourly demand (%s) saved to %s", data.scopeTitle(fips), outputFlag))
			}
			return nil
		},
	}

	exportCmd.Flags().StringVarP(&countyFlag, "county", "c", "", "County FIPS (default statewide)")
	exportCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file path (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

// addChartCmd adds a 'chart' subcommand that renders the stacked hourly chart
// to a PDF.
func addChartCmd(rootCmd *cobra.Command) {
	var countyFlag, outputFlag string

	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the hourly stacked-bar chart to a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadOffline()
			if err != nil {
				return err
			}
			fips := resolveCounty(countyFlag)
			rows := data.scopedRows(fips)
			title := "Hourly demand distribution - " + data.scopeTitle(fips)

			if err := chart.RenderPDF(outputFlag, title, rows); err != nil {
				return fmt.Errorf("failed to render chart: %w", err)
			}
			cmd.Println(fmt.Sprintf("Chart saved to %s", outputFlag))
			return nil
		},
	}

	chartCmd.Flags().StringVarP(&countyFlag, "county", "c", "", "County FIPS (default statewide)")
	chartCmd.Flags().StringVarP(&outputFlag, "output", "o", "hourly_demand.pdf", "Output PDF path")
	rootCmd.AddCommand(chartCmd)
}

// addValidateCmd adds a 'validate' subcommand that loads every data file and
// reports coverage.
func addValidateCmd(rootCmd *cobra.Command) {
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load all data files and report row counts and join coverage",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadOffline()
			if err != nil {
				return err
			}

			cmd.Println(fmt.Sprintf("Daily metrics: %d counties", len(data.daily)))
			cmd.Println(fmt.Sprintf("Boundaries: %d counties", len(data.counties)))
			cmd.Println(fmt.Sprintf("Hourly demand: %d rows", len(data.hourlies)))

			missing := 0
			for _, c := range data.counties {
				if !c.HasDaily {
					missing++
					cmd.Println(fmt.Sprintf("  no daily metrics for %s (%s)", c.FIPS, c.Name))
				}
			}
			cmd.Println(fmt.Sprintf("Counties without daily metrics: %d", missing))

			spotsFC, notice := data.store.Spots(data.cfg.SpotsPath())
			if notice != "" {
				cmd.Println(notice)
			} else {
				idx := spots.NewIndex(spotsFC)
				counts := idx.CountByCounty(data.counties)
				inCounty := 0
				for _, n := range counts {
					inCounty += n
				}
				cmd.Println(fmt.Sprintf("Truck spots: %d mapped, %d inside a county", idx.Len(), inCounty))
			}

			if _, notice := data.store.Roadways(data.cfg.RoadwaysPath()); notice != "" {
				cmd.Println(notice)
			}
			return nil
		},
	}

	rootCmd.AddCommand(validateCmd)
}

// addListCmd adds a 'list' subcommand to show county metrics without serving.
func addListCmd(rootCmd *cobra.Command) {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List per-county daily metrics and diagnosis",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadOffline()
			if err != nil {
				return err
			}

			if len(data.counties) == 0 {
				cmd.Println("No counties loaded.")
				return nil
			}

			for _, c := range data.counties {
				cmd.Println("---")
				cmd.Println(fmt.Sprintf("County: %s (%s)", c.Name, c.FIPS))
				cmd.Println(fmt.Sprintf("Supply: %d", c.Display["supply"]))
				cmd.Println(fmt.Sprintf("Max hourly total demand: %d", c.Display["max_hourly_total_demand"]))
				cmd.Println(fmt.Sprintf("Acc. total demand: %d", c.Display["acc_total_demand"]))
				cmd.Println(fmt.Sprintf("Acc. total deficit: %d", c.Display["acc_total_deficit"]))
				diagnosis := c.Diagnosis
				if diagnosis == "" {
					diagnosis = "(none)"
				}
				cmd.Println(fmt.Sprintf("Diagnosis: %s", diagnosis))
			}
			return nil
		},
	}

	rootCmd.AddCommand(listCmd)
}
