package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bhcwatch/y9c/internal/cli"
	"github.com/bhcwatch/y9c/internal/common"
	"github.com/bhcwatch/y9c/internal/model"
)

func updateCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch and load recent quarters",
		Long: `Downloads any archives published since the last run and loads the
quarters that are not yet in the database. The window covers the prior
and current calendar year, which is enough to pick up late restatements.`,
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

			now := time.Now()
			startYear := now.Year() - 1
			endYear := now.Year()

			dl, err := newDownloader()
			if err != nil {
				return err
			}

			fetched, err := dl.DownloadAll(ctx, startYear, endYear)
			if err != nil {
				return common.NewUserError("Could not download filing archives, check your network connection", err)
			}
			if fetched > 0 {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Fetched %d new archive(s)", fetched)))
			}

			ld, err := newLoader(store)
			if err != nil {
				return err
			}

			var loaded int
			if force {
				loaded, err = ld.LoadAll(ctx, startYear, endYear, true, nil)
			} else {
				loaded, err = ld.IncrementalUpdate(ctx)
			}
			if err != nil {
				return fmt.Errorf("load failed: %w", err)
			}

			if loaded == 0 {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Up to date through %d Q%d", endYear, model.CurrentQuarter(now))))
			} else {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Loaded %d new record(s)", loaded)))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "reload the window even if quarters are already loaded")

	return cmd
}
