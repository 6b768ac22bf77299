package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bhcwatch/y9c/internal/catalog"
	"github.com/bhcwatch/y9c/internal/cli"
	"github.com/bhcwatch/y9c/internal/common"
	"github.com/bhcwatch/y9c/internal/model"
)

func initCmd() *cobra.Command {
	var (
		startYear int
		endYear   int
		skipFetch bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database and backfill historical filings",
		Long: `Creates the SQLite database, seeds the tracked line items and the
target institution, downloads every quarterly archive in the year range,
and loads them. Quarters already loaded are skipped, so init is safe to
re-run after a partial failure.`,
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

			if err := store.SeedLineItems(ctx, catalog.All()); err != nil {
				return fmt.Errorf("failed to seed line items: %w", err)
			}

			inst := configuredInstitution()
			if err := store.SaveInstitution(ctx, inst); err != nil {
				return fmt.Errorf("failed to save institution: %w", err)
			}

			if startYear == 0 {
				startYear = viper.GetInt("download.start_year")
			}
			if endYear == 0 {
				endYear = time.Now().Year()
			}
			if startYear > endYear {
				return fmt.Errorf("start year %d is after end year %d", startYear, endYear)
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Initializing %s (RSSD %s), %d-%d", inst.Name, inst.RSSDID, startYear, endYear)))

			if !skipFetch {
				dl, err := newDownloader()
				if err != nil {
					return err
				}

				fetched, err := dl.DownloadAll(ctx, startYear, endYear)
				if err != nil {
					return common.NewUserError("Could not download filing archives, check your network connection", err)
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Fetched %d archive(s)", fetched)))

				if missing := dl.MissingQuarters(startYear, endYear); len(missing) > 0 {
					path, err := dl.WriteInstructions("", startYear, endYear)
					if err != nil {
						slog.Warn("Failed to write download instructions", "error", err)
					} else if path != "" {
						fmt.Println(cli.FormatWarning(fmt.Sprintf("%d quarter(s) unavailable, see %s", len(missing), path)))
					}
				}
			}

			ld, err := newLoader(store)
			if err != nil {
				return err
			}

			now := time.Now()
			quarters := 0
			for year := startYear; year <= endYear; year++ {
				quarters += model.QuartersElapsed(year, now)
			}
			bar := progressbar.NewOptions(quarters,
				progressbar.OptionSetDescription("Loading quarters"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			loaded, err := ld.LoadAll(ctx, startYear, endYear, false, func(year, quarter, count int) {
				_ = bar.Add(1)
				if count > 0 {
					slog.Debug("Loaded quarter", "year", year, "quarter", quarter, "records", count)
				}
			})
			_ = bar.Finish()
			if err != nil {
				return fmt.Errorf("load failed: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Loaded %d financial record(s) into %s", loaded, store.Path())))

			return nil
		},
	}

	cmd.Flags().IntVar(&startYear, "start", 0, "first year to backfill (default: configured start year)")
	cmd.Flags().IntVar(&endYear, "end", 0, "last year to backfill (default: current year)")
	cmd.Flags().BoolVar(&skipFetch, "skip-fetch", false, "load only archives already on disk")

	return cmd
}
