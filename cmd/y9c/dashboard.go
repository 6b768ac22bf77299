package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bhcwatch/y9c/internal/cli"
	"github.com/bhcwatch/y9c/internal/dashboard"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive terminal dashboard",
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

			session, err := dashboard.NewSession(ctx, store, rssdID)
			if err != nil {
				return fmt.Errorf("failed to load data: %w", err)
			}
			if len(session.Periods()) == 0 {
				fmt.Println(cli.FormatWarning("No data loaded yet. Run: y9c init"))
				return nil
			}

			p := tea.NewProgram(dashboard.NewModel(session), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("dashboard error: %w", err)
			}

			return nil
		},
	}
}
