package hardware

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const SIM_HISTORY = 256

// Event is a single write seen by the simulated driver.
type Event struct {
	Pin   int
	Level Level
	At    time.Time
}

func (e Event) String() string {
	return fmt.Sprintf("%s pin %d %s", e.At.Format("15:04:05.000"), e.Pin, e.Level)
}

// Simulated keeps pin levels in memory so the bot can be run and exercised
// without a board. Faults can be injected per pin.
type Simulated struct {
	lock       sync.Mutex
	logger     *slog.Logger
	mode       NumberingMode
	levels     map[int]Level
	history    []Event
	setupFault map[int]error
	writeFault map[int]error
	modeFault  error
}

func NewSimulated(logger *slog.Logger) *Simulated {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulated{
		logger:     logger,
		levels:     make(map[int]Level),
		setupFault: make(map[int]error),
		writeFault: make(map[int]error),
	}
}

func (s *Simulated) SetMode(mode NumberingMode) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.modeFault != nil {
		return s.modeFault
	}
	if _, err := mode.PinName(0); err != nil {
		return err
	}
	s.mode = mode
	s.logger.Debug("sim: numbering mode set", "mode", mode)
	return nil
}

func (s *Simulated) Setup(pin int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.setupFault[pin]; err != nil {
		return err
	}
	s.levels[pin] = Low
	s.logger.Debug("sim: pin configured as output", "pin", pin)
	return nil
}

func (s *Simulated) Write(pin int, level Level) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.writeFault[pin]; err != nil {
		return err
	}
	if _, ok := s.levels[pin]; !ok {
		return fmt.Errorf("pin %d has not been set up", pin)
	}
	s.levels[pin] = level
	s.record(Event{Pin: pin, Level: level, At: time.Now()})
	s.logger.Debug("sim: write", "pin", pin, "level", level)
	return nil
}

func (s *Simulated) Destroy() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.levels = make(map[int]Level)
	s.logger.Debug("sim: pins released")
	return nil
}

// Level reports the current level of pin and whether it is set up.
func (s *Simulated) Level(pin int) (Level, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	l, ok := s.levels[pin]
	return l, ok
}

// History returns a copy of the recorded writes, oldest first.
func (s *Simulated) History() []Event {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := make([]Event, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Simulated) ResetHistory() {
	s.lock.Lock()
	s.history = nil
	s.lock.Unlock()
}

// FailMode makes subsequent SetMode calls return err. A nil err clears it.
func (s *Simulated) FailMode(err error) {
	s.lock.Lock()
	s.modeFault = err
	s.lock.Unlock()
}

// FailSetup makes subsequent Setup calls for pin return err.
func (s *Simulated) FailSetup(pin int, err error) {
	s.lock.Lock()
	s.setupFault[pin] = err
	s.lock.Unlock()
}

// FailWrites makes subsequent writes to pin return err.
func (s *Simulated) FailWrites(pin int, err error) {
	s.lock.Lock()
	s.writeFault[pin] = err
	s.lock.Unlock()
}

func (s *Simulated) ClearFaults() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.modeFault = nil
	s.setupFault = make(map[int]error)
	s.writeFault = make(map[int]error)
}

// record must be called with the lock held.
func (s *Simulated) record(e Event) {
	s.history = append(s.history, e)
	if len(s.history) > SIM_HISTORY {
		s.history = s.history[len(s.history)-SIM_HISTORY:]
	}
}
