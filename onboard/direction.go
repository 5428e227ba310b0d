package onboard

import (
	"strings"

	derrors "github.com/CodedInternet/motorbot/onboard/errors"
)

// Direction is a differential drive manoeuvre.
type Direction int

const (
	Forward Direction = iota + 1
	Reverse
	Left
	Right
)

var directionNames = map[Direction]string{
	Forward: "FORWARD",
	Reverse: "REVERSE",
	Left:    "LEFT",
	Right:   "RIGHT",
}

// FOREWARD is the spelling clients have always sent and is still accepted.
var directionAliases = map[string]Direction{
	"FOREWARD": Forward,
	"FORWARD":  Forward,
	"REVERSE":  Reverse,
	"LEFT":     Left,
	"RIGHT":    Right,
}

func ParseDirection(s string) (Direction, error) {
	d, ok := directionAliases[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return 0, derrors.InvalidCommandError{Command: s}
	}
	return d, nil
}

func (d Direction) Valid() bool {
	_, ok := directionNames[d]
	return ok
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "UNKNOWN"
}

// Pins resolves the pair of pins driven high for d. Left and right turns spin
// the sides in opposite directions.
func (d Direction) Pins(p PinAssignment) (a, b int, err error) {
	switch d {
	case Forward:
		return p.LeftForward, p.RightForward, nil
	case Reverse:
		return p.LeftReverse, p.RightReverse, nil
	case Left:
		return p.LeftReverse, p.RightForward, nil
	case Right:
		return p.LeftForward, p.RightReverse, nil
	default:
		return 0, 0, derrors.InvalidCommandError{Command: d.String()}
	}
}
