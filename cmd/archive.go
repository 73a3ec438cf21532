package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/archive"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/config"
	"github.com/spf13/cobra"
)

var flagPruneOlderThan string

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect and prune the bulletin history",
}

var archivePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old cycles from the bulletin history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		arch, err := archive.Open(cfg.ArchivePath())
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		defer arch.Close()

		retention := 90 * 24 * time.Hour
		if flagPruneOlderThan != "" {
			d, err := parseAge(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			retention = d
		}

		deleted, err := arch.Prune(retention)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		if deleted == 0 {
			fmt.Println("Nothing to prune.")
		} else {
			fmt.Printf("Pruned %d cycle(s) older than %s.\n", deleted, formatDuration(retention))
		}
		return nil
	},
}

var archiveStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show bulletin history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		arch, err := archive.Open(cfg.ArchivePath())
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		defer arch.Close()

		cycles, articles, size, err := arch.Stats()
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("Archive: %s\n", cfg.ArchivePath())
		fmt.Printf("Cycles: %d\n", cycles)
		fmt.Printf("Articles: %d\n", articles)
		fmt.Printf("Size: %s\n", formatBytes(size))

		last, err := arch.LastRun()
		if err == nil && !last.IsZero() {
			fmt.Printf("Last run: %s\n", last.Format(time.RFC1123))
		}
		return nil
	},
}

func init() {
	archivePruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 30d, 720h)")

	archiveCmd.AddCommand(archivePruneCmd)
	archiveCmd.AddCommand(archiveStatsCmd)
}

// parseAge accepts Go durations plus a "Nd" day suffix.
func parseAge(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if strings.HasSuffix(s, "d") {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err != nil {
			return 0, fmt.Errorf("invalid day duration %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
