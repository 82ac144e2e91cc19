package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rufuslabs/go-rufus/internal/api"
	"github.com/rufuslabs/go-rufus/internal/config"
	"github.com/rufuslabs/go-rufus/internal/log"
	"github.com/rufuslabs/go-rufus/pkg/bot"
)

func newRunCmd() *cobra.Command {
	var (
		port    string
		apiAddr string
		noIdle  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the robot coordinator with the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.SerialPort = port
			}
			if apiAddr != "" {
				cfg.APIAddr = apiAddr
			}

			bcfg := botConfig(cfg)
			bcfg.NoIdle = noIdle

			robot := bot.New(bcfg)
			robot.Init()
			defer robot.Shutdown()

			server := api.NewServer(robot)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Listen(cfg.APIAddr)
			}()

			select {
			case <-ctx.Done():
				log.Info("signal received, stopping")
				if err := server.Shutdown(); err != nil {
					log.Warn("api shutdown failed", "err", err)
				}
				return nil
			case err := <-errCh:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "serial port (overrides RUFUS_SERIAL_PORT)")
	cmd.Flags().StringVar(&apiAddr, "api-addr", "", "HTTP listen address (overrides RUFUS_API_ADDR)")
	cmd.Flags().BoolVar(&noIdle, "no-idle", false, "disable idle animations")
	return cmd
}

// botConfig maps process config onto bot construction parameters.
func botConfig(cfg config.Config) bot.Config {
	bcfg := bot.DefaultConfig()
	bcfg.Link.PreferredPort = cfg.SerialPort
	bcfg.Link.BaudRate = cfg.BaudRate
	bcfg.Link.HandshakeTimeout = cfg.HandshakeTimeout
	bcfg.Link.AckTimeout = cfg.AckTimeout
	bcfg.Idle.MinInterval = cfg.IdleMinInterval
	bcfg.Idle.MaxInterval = cfg.IdleMaxInterval
	bcfg.Idle.WiggleSpan = cfg.IdleWiggleSpan
	return bcfg
}
