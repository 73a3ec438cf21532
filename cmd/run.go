package cmd

import (
	"fmt"

	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/config"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one bulletin cycle immediately",
	Long:  "Fetch, rank, and dispatch a single bulletin right now instead of waiting for the daily trigger. Useful for smoke tests and catch-up sends.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		runner, arch := buildRunner(cfg)
		defer closeArchive(arch)

		runner.Cycle(cmd.Context())
		return nil
	},
}
