// Package config provides process configuration for go-rufus.
// Everything is environment-driven; flags may override on top.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all tunables. Data only; no behavior lives here.
type Config struct {
	// Serial link.
	SerialPort string `env:"RUFUS_SERIAL_PORT" envDefault:"/dev/ttyUSB0"`
	BaudRate   int    `env:"RUFUS_BAUD_RATE" envDefault:"9600"`

	// Protocol timeouts.
	HandshakeTimeout time.Duration `env:"RUFUS_HANDSHAKE_TIMEOUT" envDefault:"3s"`
	AckTimeout       time.Duration `env:"RUFUS_ACK_TIMEOUT" envDefault:"200ms"`

	// Idle animation window.
	IdleMinInterval time.Duration `env:"RUFUS_IDLE_MIN" envDefault:"8s"`
	IdleMaxInterval time.Duration `env:"RUFUS_IDLE_MAX" envDefault:"15s"`

	// IdleWiggleSpan is the maximum idle nudge in degrees, either side
	// of rest.
	IdleWiggleSpan int `env:"RUFUS_IDLE_WIGGLE" envDefault:"15"`

	// HTTP API.
	APIAddr string `env:"RUFUS_API_ADDR" envDefault:":8040"`

	// Logging.
	LogLevel string `env:"RUFUS_LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if c.IdleMaxInterval < c.IdleMinInterval {
		return Config{}, fmt.Errorf("config: idle interval window inverted [%s,%s]",
			c.IdleMinInterval, c.IdleMaxInterval)
	}
	if c.IdleWiggleSpan < 0 {
		return Config{}, fmt.Errorf("config: negative idle wiggle span %d", c.IdleWiggleSpan)
	}
	return c, nil
}
