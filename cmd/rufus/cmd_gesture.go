package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rufuslabs/go-rufus/pkg/bot"
	"github.com/rufuslabs/go-rufus/pkg/motion"
)

func newGestureCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "gesture <name>",
		Short: "Perform a single named gesture and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			robot, err := oneShotBot(port)
			if err != nil {
				return err
			}
			defer robot.Shutdown()

			if !robot.Perform(args[0]) {
				return fmt.Errorf("%w: %q (known: %v)", motion.ErrUnknownGesture, args[0], robot.Gestures())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "serial port (overrides RUFUS_SERIAL_PORT)")
	return cmd
}

func newMoveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "move <joint> <angle>",
		Short: "Move a single joint to an angle (clamped to its safe range)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			angle, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("angle must be an integer: %q", args[1])
			}

			robot, err := oneShotBot(port)
			if err != nil {
				return err
			}
			defer robot.Shutdown()

			outcome, err := robot.Move(args[0], angle)
			if err != nil {
				return err
			}
			fmt.Printf("%s -> %d: %s\n", args[0], angle, outcome)
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "serial port (overrides RUFUS_SERIAL_PORT)")
	return cmd
}

// oneShotBot builds a bot with idle animations off, for commands that
// perform one action and exit.
func oneShotBot(port string) (*bot.Bot, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if port != "" {
		cfg.SerialPort = port
	}

	bcfg := botConfig(cfg)
	bcfg.NoIdle = true
	return bot.New(bcfg), nil
}
