package onboard

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	derrors "github.com/CodedInternet/motorbot/onboard/errors"
	"github.com/CodedInternet/motorbot/onboard/hardware"
	"golang.org/x/sync/errgroup"
)

// State is the lifecycle position of a MotorController.
type State int32

const (
	Uninitialized State = iota
	Ready
	Driving
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "UNINITIALIZED"
	case Ready:
		return "READY"
	case Driving:
		return "DRIVING"
	case Closed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

type Option func(*MotorController)

func WithLogger(l *slog.Logger) Option {
	return func(m *MotorController) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithPulse sets the default time both pins of a pair are held high.
func WithPulse(d time.Duration) Option {
	return func(m *MotorController) {
		if d > 0 {
			m.pulse = d
		}
	}
}

func WithNumberingMode(mode hardware.NumberingMode) Option {
	return func(m *MotorController) {
		m.mode = mode
	}
}

// MotorController drives a differential pair of motors through four output
// pins. One instance owns the pins for the life of the process.
type MotorController struct {
	driver hardware.Driver
	pins   PinAssignment
	mode   hardware.NumberingMode
	pulse  time.Duration
	logger *slog.Logger
	sleep  func(time.Duration)

	lock  sync.Mutex // held for the whole of Initialize, Drive and Shutdown
	state atomic.Int32
	ready []int // pins that completed setup
}

func NewMotorController(driver hardware.Driver, pins PinAssignment, opts ...Option) *MotorController {
	m := &MotorController{
		driver: driver,
		pins:   pins,
		mode:   hardware.ModeBCM,
		pulse:  DEFAULT_PULSE,
		logger: slog.Default(),
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MotorController) State() State {
	return State(m.state.Load())
}

func (m *MotorController) Pins() PinAssignment {
	return m.pins
}

func (m *MotorController) Pulse() time.Duration {
	return m.pulse
}

func (m *MotorController) Mode() hardware.NumberingMode {
	return m.mode
}

// Initialize sets the numbering mode and configures all four pins as
// outputs. A second call fails without touching the hardware.
func (m *MotorController) Initialize() error {
	m.lock.Lock()
	defer m.lock.Unlock()

	switch m.State() {
	case Closed:
		return derrors.HardwareInitError{Stage: "initialize", Pin: -1, Err: derrors.ErrClosed}
	case Uninitialized:
	default:
		return derrors.HardwareInitError{Stage: "initialize", Pin: -1, Err: derrors.ErrAlreadyInitialized}
	}

	m.logger.Debug("bot is initializing", "mode", m.mode)
	if err := m.driver.SetMode(m.mode); err != nil {
		m.logger.Error("failed to set numbering mode", "mode", m.mode, "error", err)
		return derrors.HardwareInitError{Stage: "set mode " + m.mode.String(), Pin: -1, Err: err}
	}

	m.logger.Debug("setting up motors", "pins", m.pins.All())
	m.ready = nil
	var readyLock sync.Mutex
	var g errgroup.Group
	for _, pin := range m.pins.All() {
		pin := pin
		g.Go(func() error {
			if err := m.driver.Setup(pin); err != nil {
				return derrors.HardwareInitError{Stage: "setup", Pin: pin, Err: err}
			}
			readyLock.Lock()
			m.ready = append(m.ready, pin)
			readyLock.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		m.logger.Error("motor setup failed", "error", err)
		return err
	}

	m.state.Store(int32(Ready))
	m.logger.Info("motors setup complete")
	return nil
}

// Drive runs d for the default pulse.
func (m *MotorController) Drive(d Direction) error {
	return m.DriveFor(d, 0)
}

// DriveFor sets the pin pair for d high, holds it for pulse and sets it low
// again. The low writes are never issued before both high writes have
// returned and pulse has elapsed. A pulse of zero uses the default.
func (m *MotorController) DriveFor(d Direction, pulse time.Duration) error {
	a, b, err := d.Pins(m.pins)
	if err != nil {
		return err
	}
	if pulse <= 0 {
		pulse = m.pulse
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	switch m.State() {
	case Ready:
	case Closed:
		return derrors.DriveError{Direction: d.String(), Pin: -1, Err: derrors.ErrClosed}
	default:
		return derrors.DriveError{Direction: d.String(), Pin: -1, Err: derrors.ErrNotInitialized}
	}

	m.state.Store(int32(Driving))
	defer m.state.Store(int32(Ready))

	m.logger.Debug("executing command", "direction", d, "pins", []int{a, b}, "pulse", pulse)
	highErr := m.writePair(d, "high", hardware.High, a, b)
	if highErr == nil {
		m.logger.Debug("write complete, both motors are running", "direction", d)
		m.sleep(pulse)
	} else {
		m.logger.Warn("motor start failed, stopping", "direction", d, "error", highErr)
	}

	lowErr := m.writePair(d, "low", hardware.Low, a, b)
	if highErr != nil {
		return highErr
	}
	if lowErr != nil {
		m.logger.Error("motor stop failed", "direction", d, "error", lowErr)
		return lowErr
	}

	m.logger.Debug("write complete, both motors are stopped", "direction", d)
	return nil
}

// writePair writes level to both pins concurrently and waits for both.
func (m *MotorController) writePair(d Direction, phase string, level hardware.Level, a, b int) error {
	var g errgroup.Group
	for _, pin := range []int{a, b} {
		pin := pin
		g.Go(func() error {
			if err := m.driver.Write(pin, level); err != nil {
				return derrors.DriveError{Direction: d.String(), Phase: phase, Pin: pin, Err: err}
			}
			return nil
		})
	}
	return g.Wait()
}

// Shutdown drives every configured pin low and releases the driver. It is
// safe after a failed Initialize and on repeated calls. Every step is
// attempted; the first failure is returned.
func (m *MotorController) Shutdown() (err error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.State() == Closed {
		return nil
	}

	for _, pin := range m.ready {
		if werr := m.driver.Write(pin, hardware.Low); werr != nil {
			m.logger.Warn("unable to stop pin during shutdown", "pin", pin, "error", werr)
			if err == nil {
				err = derrors.DriveError{Direction: "STOP", Phase: "low", Pin: pin, Err: werr}
			}
		}
	}
	if derr := m.driver.Destroy(); derr != nil {
		m.logger.Warn("unable to release pins", "error", derr)
		if err == nil {
			err = derr
		}
	}

	m.ready = nil
	m.state.Store(int32(Closed))
	m.logger.Info("closed pins")
	return
}
