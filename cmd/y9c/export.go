package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bhcwatch/y9c/internal/cli"
	"github.com/bhcwatch/y9c/internal/model"
)

func exportCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored dataset to CSV files",
		Long: `Writes three timestamped CSV files: the balance sheet series, the
income statement series, and the full dataset across all statements.`,
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

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create export directory: %w", err)
			}

			rssdID := viper.GetString("institution.rssd_id")
			stamp := time.Now().Format("20060102_150405")

			exports := []struct {
				name      string
				statement model.StatementType
			}{
				{"balance_sheet", model.BalanceSheet},
				{"income_statement", model.IncomeStatement},
				{"full_dataset", ""},
			}

			for _, e := range exports {
				path := filepath.Join(outDir, fmt.Sprintf("y9c_%s_%s.csv", e.name, stamp))
				n, err := store.ExportCSV(ctx, rssdID, path, e.statement)
				if err != nil {
					return fmt.Errorf("failed to export %s: %w", e.name, err)
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s: %d row(s)", path, n)))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "dir", "exports", "directory to write CSV files into")

	return cmd
}
