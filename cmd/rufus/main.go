// Rufus - servo companion robot coordinator.
// Drives the gesture engine, idle animator and serial link, and
// optionally exposes them over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rufuslabs/go-rufus/internal/config"
	"github.com/rufuslabs/go-rufus/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rufus",
		Short:         "Companion robot gesture and animation coordinator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRunCmd(),
		newGestureCmd(),
		newMoveCmd(),
		newPortsCmd(),
	)
	return root
}

// loadConfig reads env config and initializes logging.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	log.Init(cfg.LogLevel)
	return cfg, nil
}
