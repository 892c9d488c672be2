package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/lorelegacy/internal/config"
)

// app carries the state shared by every subcommand
type app struct {
	cfgFile string
	envFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "lorelegacy",
		Short: "Lore & Legacy rulebook importer",
		Long: `lorelegacy reads the text pasted from the Lore & Legacy rulebook, extracts
traits, skills, spells, weapons and armor, and stores them as content records
grouped in collections.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.LoadOptions{
				File:   a.cfgFile,
				DotEnv: a.envFile,
			})
			if err != nil {
				return err
			}
			a.cfg = cfg

			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: cfg.SlogLevel(),
			})))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./lorelegacy.yaml or ~/.config/lorelegacy/lorelegacy.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading LORELEGACY_* variables")

	rootCmd.AddCommand(
		newImportCmd(a),
		newServeCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newRollCmd(a),
	)

	return rootCmd
}
