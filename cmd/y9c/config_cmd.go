package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bhcwatch/y9c/internal/cli"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit configuration",
	}

	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configSetCmd())

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			if used := viper.ConfigFileUsed(); used != "" {
				fmt.Println(cli.FormatTitle(fmt.Sprintf("Config: %s", used)))
			} else {
				fmt.Println(cli.FormatTitle("Config: defaults (no file found)"))
			}

			keys := viper.AllKeys()
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Printf("%s = %v\n", key, viper.Get(key))
			}

			return nil
		},
	}
}

func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			if !viper.IsSet(key) {
				return fmt.Errorf("unknown config key: %s", key)
			}

			viper.Set(key, value)

			configFile := viper.ConfigFileUsed()
			if configFile == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("failed to get home directory: %w", err)
				}
				dir := filepath.Join(home, ".config", "y9c")
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create config directory: %w", err)
				}
				configFile = filepath.Join(dir, "config.yaml")
			}

			if err := viper.WriteConfigAs(configFile); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Set %s = %s", key, value)))

			return nil
		},
	}
}
