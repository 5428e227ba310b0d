package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/CodedInternet/motorbot/onboard"
	"github.com/CodedInternet/motorbot/onboard/hardware"
	"github.com/caarlos0/env/v6"
)

type EnvConfig struct {
	PORT              string        `env:"PORT" envDefault:"3000"`
	DEBUG             bool          `env:"DEBUG" envDefault:"0"`
	SIMULATED         bool          `env:"SIMULATED" envDefault:"0"`
	PIN_MODE          string        `env:"PIN_MODE" envDefault:"BCM"`
	PIN_LEFT_FORWARD  int           `env:"PIN_LEFT_FORWARD" envDefault:"9"`
	PIN_LEFT_REVERSE  int           `env:"PIN_LEFT_REVERSE" envDefault:"10"`
	PIN_RIGHT_FORWARD int           `env:"PIN_RIGHT_FORWARD" envDefault:"8"`
	PIN_RIGHT_REVERSE int           `env:"PIN_RIGHT_REVERSE" envDefault:"7"`
	PULSE             time.Duration `env:"PULSE" envDefault:"500ms"`
	PIN_CONFIG        string        `env:"PIN_CONFIG"`
	LOG_LEVEL         string        `env:"LOG_LEVEL" envDefault:"info"`
	LOG_FORMAT        string        `env:"LOG_FORMAT" envDefault:"text"`
	SHELL             bool
}

// loadConfig reads the environment and then applies any command line flags
// on top of it.
func loadConfig(args []string) (*EnvConfig, error) {
	cfg := new(EnvConfig)
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("unable to parse environment: %w", err)
	}

	fs := flag.NewFlagSet("motorbot", flag.ContinueOnError)
	fs.BoolVar(&cfg.SIMULATED, "sim", cfg.SIMULATED, "Run the bot against the simulated driver")
	fs.StringVar(&cfg.PORT, "port", cfg.PORT, "Specify the port or ip:port to listen on")
	fs.StringVar(&cfg.PIN_CONFIG, "config", cfg.PIN_CONFIG, "Path to a YAML pin map")
	fs.BoolVar(&cfg.SHELL, "shell", false, "Start the interactive bench shell")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *EnvConfig) Addr() string {
	if strings.Contains(c.PORT, ":") {
		return c.PORT
	}
	return ":" + c.PORT
}

func (c *EnvConfig) LogLevel() string {
	if c.DEBUG {
		return "debug"
	}
	return c.LOG_LEVEL
}

// Hardware resolves the pin assignment, numbering mode and pulse. A pin map
// file replaces the individual PIN_* variables when one is given.
func (c *EnvConfig) Hardware() (pins onboard.PinAssignment, mode hardware.NumberingMode, pulse time.Duration, err error) {
	pulse = c.PULSE
	if c.PIN_CONFIG != "" {
		var m onboard.PinMap
		if m, err = onboard.LoadPinMap(c.PIN_CONFIG); err != nil {
			return
		}
		if mode, err = m.NumberingMode(); err != nil {
			return
		}
		if m.Pulse > 0 {
			pulse = m.Pulse
		}
		return m.Pins, mode, pulse, nil
	}

	pins = onboard.PinAssignment{
		LeftForward:  c.PIN_LEFT_FORWARD,
		LeftReverse:  c.PIN_LEFT_REVERSE,
		RightForward: c.PIN_RIGHT_FORWARD,
		RightReverse: c.PIN_RIGHT_REVERSE,
	}
	if err = pins.Validate(); err != nil {
		return
	}
	if pulse <= 0 {
		err = fmt.Errorf("invalid pulse %s", pulse)
		return
	}
	mode, err = hardware.ParseNumberingMode(c.PIN_MODE)
	return
}
