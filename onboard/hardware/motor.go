package hardware

import (
	"fmt"
	"strings"
)

// Level is the logic level written to an output pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l == High {
		return "High"
	}
	return "Low"
}

// NumberingMode selects how pin numbers are translated into header pins.
// It must be fixed before any pin is set up.
type NumberingMode int

const (
	ModeBCM      NumberingMode = iota // Broadcom SoC numbering, GPIO<n>
	ModePhysical                      // physical header position, P1_<n>
)

func (m NumberingMode) String() string {
	switch m {
	case ModeBCM:
		return "BCM"
	case ModePhysical:
		return "PHYSICAL"
	default:
		return "UNKNOWN"
	}
}

// PinName returns the registry name of pin under mode.
func (m NumberingMode) PinName(pin int) (string, error) {
	switch m {
	case ModeBCM:
		return fmt.Sprintf("GPIO%d", pin), nil
	case ModePhysical:
		return fmt.Sprintf("P1_%d", pin), nil
	default:
		return "", fmt.Errorf("unknown numbering mode %d", int(m))
	}
}

func ParseNumberingMode(s string) (NumberingMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "BCM":
		return ModeBCM, nil
	case "PHYSICAL", "BOARD":
		return ModePhysical, nil
	default:
		return ModeBCM, fmt.Errorf("unknown numbering mode %q", s)
	}
}

// Driver is the GPIO binding used by the motor controller. Implementations
// must be safe for concurrent use as the two pins of a pair are written in
// parallel.
type Driver interface {
	// SetMode fixes the pin numbering scheme.
	SetMode(mode NumberingMode) error
	// Setup configures pin as an output driven Low.
	Setup(pin int) error
	// Write drives a pin that was previously set up.
	Write(pin int, level Level) error
	// Destroy releases every pin held by the driver.
	Destroy() error
}
