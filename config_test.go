package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CodedInternet/motorbot/onboard"
	"github.com/CodedInternet/motorbot/onboard/hardware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.PORT)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, 500*time.Millisecond, cfg.PULSE)
	assert.False(t, cfg.SHELL)

	pins, mode, pulse, err := cfg.Hardware()
	require.NoError(t, err)
	assert.Equal(t, onboard.DefaultPins, pins)
	assert.Equal(t, hardware.ModeBCM, mode)
	assert.Equal(t, onboard.DEFAULT_PULSE, pulse)
}

func TestLoadConfigEnvAndFlags(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("PIN_LEFT_FORWARD", "17")
	t.Setenv("PIN_MODE", "physical")
	t.Setenv("PULSE", "1s")
	t.Setenv("DEBUG", "1")

	cfg, err := loadConfig([]string{"-sim", "-port", "127.0.0.1:9000", "-shell"})
	require.NoError(t, err)

	assert.True(t, cfg.SIMULATED)
	assert.True(t, cfg.SHELL)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Equal(t, "debug", cfg.LogLevel())

	pins, mode, pulse, err := cfg.Hardware()
	require.NoError(t, err)
	assert.Equal(t, 17, pins.LeftForward)
	assert.Equal(t, hardware.ModePhysical, mode)
	assert.Equal(t, time.Second, pulse)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("PIN_RIGHT_REVERSE", "seven")
		_, err := loadConfig(nil)
		assert.Error(t, err)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := loadConfig([]string{"-nope"})
		assert.Error(t, err)
	})
}

func TestHardwareValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*EnvConfig)
	}{
		{"duplicate pins", func(c *EnvConfig) { c.PIN_LEFT_REVERSE = c.PIN_LEFT_FORWARD }},
		{"negative pin", func(c *EnvConfig) { c.PIN_RIGHT_FORWARD = -1 }},
		{"unknown mode", func(c *EnvConfig) { c.PIN_MODE = "wiringpi" }},
		{"zero pulse", func(c *EnvConfig) { c.PULSE = 0 }},
		{"missing pin map", func(c *EnvConfig) { c.PIN_CONFIG = filepath.Join(t.TempDir(), "none.yaml") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(cfg)
			_, _, _, err := cfg.Hardware()
			assert.Error(t, err)
		})
	}
}

func TestHardwareFromPinMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pins.yaml")
	doc := "version: 1.0.0\nmode: physical\npulse: 2s\npins:\n  left_forward: 21\n  left_reverse: 19\n  right_forward: 24\n  right_reverse: 26\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg := testConfig()
	cfg.PIN_CONFIG = path
	pins, mode, pulse, err := cfg.Hardware()
	require.NoError(t, err)
	assert.Equal(t, onboard.PinAssignment{LeftForward: 21, LeftReverse: 19, RightForward: 24, RightReverse: 26}, pins)
	assert.Equal(t, hardware.ModePhysical, mode)
	assert.Equal(t, 2*time.Second, pulse)

	t.Run("pin map without pulse keeps the configured one", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pins.yaml")
		doc := "version: 1.0.0\npins: {left_forward: 1, left_reverse: 2, right_forward: 3, right_reverse: 4}\n"
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		cfg := testConfig()
		cfg.PIN_CONFIG = path
		_, mode, pulse, err := cfg.Hardware()
		require.NoError(t, err)
		assert.Equal(t, hardware.ModeBCM, mode)
		assert.Equal(t, time.Millisecond, pulse)
	})
}
