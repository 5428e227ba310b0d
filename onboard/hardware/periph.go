package hardware

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var (
	ErrModeNotSet = errors.New("numbering mode not set")
)

// PeriphDriver drives real header pins through periph.io.
type PeriphDriver struct {
	lock    sync.Mutex
	mode    NumberingMode
	modeSet bool
	pins    map[int]gpio.PinIO
}

func NewPeriphDriver() *PeriphDriver {
	return &PeriphDriver{
		pins: make(map[int]gpio.PinIO),
	}
}

// SetMode loads the host drivers and records the numbering mode. host.Init is
// a no-op after the first successful call.
func (d *PeriphDriver) SetMode(mode NumberingMode) error {
	if _, err := mode.PinName(0); err != nil {
		return err
	}
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}

	d.lock.Lock()
	defer d.lock.Unlock()
	d.mode = mode
	d.modeSet = true
	return nil
}

func (d *PeriphDriver) Setup(pin int) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if !d.modeSet {
		return ErrModeNotSet
	}
	name, err := d.mode.PinName(pin)
	if err != nil {
		return err
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return fmt.Errorf("pin %d (%s) not found", pin, name)
	}
	if err := p.Out(gpio.Low); err != nil {
		return fmt.Errorf("set %s to output: %w", name, err)
	}
	d.pins[pin] = p
	return nil
}

func (d *PeriphDriver) Write(pin int, level Level) error {
	d.lock.Lock()
	p, ok := d.pins[pin]
	d.lock.Unlock()
	if !ok {
		return fmt.Errorf("pin %d has not been set up", pin)
	}

	return p.Out(gpioLevel(level))
}

// Destroy halts every pin that was set up. All pins are attempted and the
// first failure is returned.
func (d *PeriphDriver) Destroy() (err error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	for pin, p := range d.pins {
		if herr := p.Halt(); herr != nil && err == nil {
			err = fmt.Errorf("halt pin %d: %w", pin, herr)
		}
	}
	d.pins = make(map[int]gpio.PinIO)
	return
}

func gpioLevel(l Level) gpio.Level {
	if l == High {
		return gpio.High
	}
	return gpio.Low
}
