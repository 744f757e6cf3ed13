// Package cli is the grundy command line. Every command opens the save,
// runs the login and offline catch-up, does its one thing through
// game.Store and closes the save again.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// RootOptions holds the persistent flags. Empty or zero values leave the
// GRUNDY_* environment settings in place.
type RootOptions struct {
	SavePath string
	Backend  string
	Seed     uint64
}

// NewRootCommand builds the grundy command tree. Running grundy with no
// subcommand starts the game.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "grundy",
		Short:         "Grundy - a virtual pet for your terminal",
		Long:          "Feed, play with and look after a roster of Grundy pets. Time keeps passing while you are away.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.SavePath, "save", "", "save file location (overrides GRUNDY_SAVE_PATH)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "save backend: json or sqlite (overrides GRUNDY_SAVE_BACKEND)")
	cmd.PersistentFlags().Uint64Var(&opts.Seed, "seed", 0, "seed for a replayable game (overrides GRUNDY_SEED)")

	cmd.AddCommand(newPlayCommand(opts))
	cmd.AddCommand(newStatusCommand(opts))
	cmd.AddCommand(newFeedCommand(opts))
	cmd.AddCommand(newChaseCommand(opts))
	cmd.AddCommand(newWelcomeCommand(opts))
	cmd.AddCommand(newBuyCommand(opts))
	cmd.AddCommand(newShopCommand(opts))
	cmd.AddCommand(newWearCommand(opts))
	cmd.AddCommand(newAdoptCommand(opts))
	cmd.AddCommand(newInboxCommand(opts))

	return cmd
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}
