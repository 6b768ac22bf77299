package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bhcwatch/y9c/internal/cli"
	"github.com/bhcwatch/y9c/internal/common"
)

func downloadCmd() *cobra.Command {
	var (
		startYear    int
		endYear      int
		statusOnly   bool
		instructions bool
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Fetch quarterly archives without loading them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if startYear == 0 {
				startYear = viper.GetInt("download.start_year")
			}
			if endYear == 0 {
				endYear = time.Now().Year()
			}
			if startYear > endYear {
				return fmt.Errorf("start year %d is after end year %d", startYear, endYear)
			}

			dl, err := newDownloader()
			if err != nil {
				return err
			}

			if statusOnly {
				existing := dl.Existing()
				missing := dl.MissingQuarters(startYear, endYear)
				fmt.Println(cli.FormatTitle(fmt.Sprintf("Archives %d-%d", startYear, endYear)))
				fmt.Printf("Cached: %d\n", len(existing))
				fmt.Printf("Missing: %d\n", len(missing))
				for _, m := range missing {
					fmt.Printf("  %d Q%d\n", m.Year, m.Quarter)
				}
				return nil
			}

			if instructions {
				path, err := dl.WriteInstructions("", startYear, endYear)
				if err != nil {
					return fmt.Errorf("failed to write instructions: %w", err)
				}
				if path == "" {
					fmt.Println(cli.FormatSuccess("All quarters in range are cached"))
				} else {
					fmt.Println(cli.FormatSuccess(fmt.Sprintf("Instructions written to %s", path)))
				}
				return nil
			}

			fetched, err := dl.DownloadAll(ctx, startYear, endYear)
			if err != nil {
				return common.NewUserError("Could not download filing archives, check your network connection", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Fetched %d archive(s)", fetched)))

			if missing := dl.MissingQuarters(startYear, endYear); len(missing) > 0 {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("%d quarter(s) still missing, run with --instructions for manual steps", len(missing))))
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&startYear, "start", 0, "first year to fetch (default: configured start year)")
	cmd.Flags().IntVar(&endYear, "end", 0, "last year to fetch (default: current year)")
	cmd.Flags().BoolVar(&statusOnly, "status", false, "show cached and missing quarters without fetching")
	cmd.Flags().BoolVar(&instructions, "instructions", false, "write manual download instructions for missing quarters")

	return cmd
}
