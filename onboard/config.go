package onboard

import (
	"fmt"
	"io/ioutil"
	"time"

	"github.com/CodedInternet/motorbot/onboard/hardware"
	"github.com/Masterminds/semver"
	"gopkg.in/yaml.v2"
)

const (
	PINMAP_VERSION = "~1.0"
	DEFAULT_PULSE  = 500 * time.Millisecond
)

// PinAssignment holds the four motor driver inputs. It is copied into the
// controller on construction and never changed afterwards.
type PinAssignment struct {
	LeftForward  int `yaml:"left_forward" json:"left_forward"`
	LeftReverse  int `yaml:"left_reverse" json:"left_reverse"`
	RightForward int `yaml:"right_forward" json:"right_forward"`
	RightReverse int `yaml:"right_reverse" json:"right_reverse"`
}

// DefaultPins is the wiring of the reference bot, BCM numbered.
var DefaultPins = PinAssignment{
	LeftForward:  9,
	LeftReverse:  10,
	RightForward: 8,
	RightReverse: 7,
}

func (p PinAssignment) All() []int {
	return []int{p.LeftForward, p.LeftReverse, p.RightForward, p.RightReverse}
}

func (p PinAssignment) Validate() error {
	seen := make(map[int]bool, 4)
	for _, pin := range p.All() {
		if pin < 0 {
			return fmt.Errorf("invalid pin number %d", pin)
		}
		if seen[pin] {
			return fmt.Errorf("pin %d assigned more than once", pin)
		}
		seen[pin] = true
	}
	return nil
}

// PinMap is the optional YAML description of the wiring.
type PinMap struct {
	Version string        `yaml:"version"`
	Mode    string        `yaml:"mode"`
	Pulse   time.Duration `yaml:"pulse"`
	Pins    PinAssignment `yaml:"pins"`
}

// NumberingMode parses the mode field.
func (m PinMap) NumberingMode() (hardware.NumberingMode, error) {
	return hardware.ParseNumberingMode(m.Mode)
}

func ParsePinMap(data []byte) (m PinMap, err error) {
	if err = yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("unable to unmarshal pin map: %v", err)
	}

	if err = checkVersion(m.Version); err != nil {
		return
	}
	if _, err = m.NumberingMode(); err != nil {
		return
	}
	if m.Pulse < 0 {
		return m, fmt.Errorf("negative pulse %s", m.Pulse)
	}
	err = m.Pins.Validate()
	return
}

func LoadPinMap(path string) (m PinMap, err error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("unable to read pin map: %v", err)
	}
	return ParsePinMap(data)
}

func checkVersion(v string) error {
	if v == "" {
		return fmt.Errorf("pin map has no version, require %s", PINMAP_VERSION)
	}
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("pin map version %q: %v", v, err)
	}

	constraint, err := semver.NewConstraint(PINMAP_VERSION)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return fmt.Errorf("unable to use pin map: version %s - require %s", v, PINMAP_VERSION)
	}
	return nil
}
