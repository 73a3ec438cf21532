package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/archive"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/config"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/digest"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/mailer"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/roster"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/schedule"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/stocks"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/update"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "wadi-dispatch",
	Short: "Daily Israeli tech bulletin mailer",
	Long:  "wadi-dispatch aggregates Israeli tech headlines and market quotes into a curated daily bulletin and emails it to the subscriber roster.",
	RunE:  runDaemon,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(subscribersCmd)
	rootCmd.AddCommand(archiveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wadi-dispatch %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// runDaemon starts the cron trigger and blocks until interrupted.
func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	runner, arch := buildRunner(cfg)
	defer closeArchive(arch)

	if res := update.Check(cmd.Context(), version); res != nil {
		slog.Info("newer release available", "version", res.LatestVersion)
	}

	sched, err := schedule.New(cfg.CronSpec(), cfg.Location(), func() {
		runner.TryCycle(context.Background())
	})
	if err != nil {
		return fmt.Errorf("building schedule: %w", err)
	}

	sched.Start()
	defer sched.Stop()
	slog.Info("scheduler started", "cron", cfg.CronSpec(), "timezone", cfg.Location().String(), "next", sched.Next())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("shutting down")
	return nil
}

// buildRunner wires the real collaborators. An unavailable archive is
// logged and skipped; history is best-effort.
func buildRunner(cfg *config.Config) (*digest.Runner, *archive.Archive) {
	arch, err := archive.Open(cfg.ArchivePath())
	if err != nil {
		slog.Warn("archive unavailable, history disabled", "error", err)
		arch = nil
	}

	store := roster.NewStore(cfg.SubscribersPath())
	reconciler := roster.New(store, cfg.RosterURL)
	dispatcher := mailer.NewSMTP(cfg.Mail.Host, cfg.Mail.Port, cfg.MailUser(), cfg.MailPass(), cfg.Mail.FromName)

	return digest.NewRunner(cfg, dispatcher, reconciler, stocks.NewClient(), arch), arch
}

func closeArchive(arch *archive.Archive) {
	if arch != nil {
		arch.Close()
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
