package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bhcwatch/y9c/internal/cli"
	"github.com/bhcwatch/y9c/internal/dashboard"
)

func summaryCmd() *cobra.Command {
	var showCoverage bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show latest key figures and data coverage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			rssdID := viper.GetString("institution.rssd_id")

			periods, err := store.Periods(ctx, rssdID)
			if err != nil {
				return fmt.Errorf("failed to query periods: %w", err)
			}
			if len(periods) == 0 {
				fmt.Println(cli.FormatWarning("No data loaded yet. Run: y9c init"))
				return nil
			}

			first := periods[0]
			latest := periods[len(periods)-1]

			inst, err := store.GetInstitution(ctx, rssdID)
			if err == nil {
				details := fmt.Sprintf("%s, %s\n%s, regulated by %s",
					inst.City, inst.State, inst.EntityType, inst.PrimaryRegulator)
				fmt.Println(cli.RenderBox(fmt.Sprintf("%s %s (RSSD %s)", cli.BankIcon, inst.Name, inst.RSSDID), details))
			} else {
				fmt.Println(cli.FormatTitle(fmt.Sprintf("RSSD %s", rssdID)))
			}

			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("Periods: %d Q%d through %d Q%d (%d quarters)",
				first.Year, first.Quarter, latest.Year, latest.Quarter, len(periods))))
			fmt.Println()

			session, err := dashboard.NewSession(ctx, store, rssdID)
			if err != nil {
				return fmt.Errorf("failed to load data: %w", err)
			}

			stats := session.SummaryStats(latest.Year, latest.Quarter)
			metrics := tablewriter.NewWriter(os.Stdout)
			metrics.Header("Metric", "Code", fmt.Sprintf("%d Q%d", latest.Year, latest.Quarter), "YoY")
			for _, stat := range stats {
				value := "n/a"
				if stat.Current != nil {
					value = dashboard.FormatValue(*stat.Current)
				}
				yoy := "n/a"
				if stat.YoY != nil {
					yoy = fmt.Sprintf("%+.1f%%", *stat.YoY)
				}
				if err := metrics.Append(stat.Name, stat.Code, value, yoy); err != nil {
					return fmt.Errorf("failed to render metrics: %w", err)
				}
			}
			if err := metrics.Render(); err != nil {
				return fmt.Errorf("failed to render metrics: %w", err)
			}

			if !showCoverage {
				return nil
			}

			coverage, err := store.Coverage(ctx, rssdID)
			if err != nil {
				return fmt.Errorf("failed to query coverage: %w", err)
			}

			fmt.Println()
			fmt.Println(cli.FormatTitle("Coverage"))
			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Period", "Codes", "Records")
			for _, c := range coverage {
				if err := table.Append(
					fmt.Sprintf("%d Q%d", c.Year, c.Quarter),
					fmt.Sprintf("%d", c.CodeCount),
					fmt.Sprintf("%d", c.RecordCount),
				); err != nil {
					return fmt.Errorf("failed to render coverage: %w", err)
				}
			}
			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render coverage: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showCoverage, "coverage", false, "show per-quarter code and record counts")

	return cmd
}
