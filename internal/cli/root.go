// Package cli implements the caldera command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calderahq/caldera/internal/config"
	"github.com/calderahq/caldera/internal/store"
	"github.com/calderahq/caldera/internal/ui"
)

var (
	configPath string
	dataDir    string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "caldera",
	Short: "Headless content store",
	Long: `Caldera is a headless content store: projects hold collections,
collections hold typed fields, and records store their values as
attribute rows queried through a filter grammar.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		ui.ConfigureAccent(cfg.UI.Accent)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory override")
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

// openStore opens the configured database.
func openStore() (*store.Store, error) {
	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
