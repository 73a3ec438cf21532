package cmd

import (
	"fmt"

	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/config"
	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/roster"
	"github.com/spf13/cobra"
)

var subscribersCmd = &cobra.Command{
	Use:   "subscribers",
	Short: "Manage the subscriber roster",
}

var subscribersSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull the signup sheet and merge new addresses",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		store := roster.NewStore(cfg.SubscribersPath())
		reconciler := roster.New(store, cfg.RosterURL)

		emails, added, err := reconciler.Sync(cmd.Context())
		if err != nil {
			return fmt.Errorf("syncing subscribers: %w", err)
		}

		fmt.Printf("Sync complete. Added %d new subscriber(s). Total: %d\n", added, len(emails))
		return nil
	},
}

var subscribersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the persisted subscriber set",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		store := roster.NewStore(cfg.SubscribersPath())
		emails, err := store.Load()
		if err != nil {
			return fmt.Errorf("loading subscribers: %w", err)
		}

		if len(emails) == 0 {
			fmt.Println("No subscribers yet.")
			return nil
		}
		for _, e := range emails {
			fmt.Println(e)
		}
		fmt.Printf("%d subscriber(s)\n", len(emails))
		return nil
	},
}

func init() {
	subscribersCmd.AddCommand(subscribersSyncCmd)
	subscribersCmd.AddCommand(subscribersListCmd)
}
