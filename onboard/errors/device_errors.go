package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotInitialized     = errors.New("motor controller not initialized")
	ErrAlreadyInitialized = errors.New("motor controller already initialized")
	ErrClosed             = errors.New("motor controller closed")
)

// HardwareInitError is returned when the numbering mode or a pin setup fails.
// Pin is -1 when the failing stage is not specific to a pin.
type HardwareInitError struct {
	Stage string
	Pin   int
	Err   error
}

func (err HardwareInitError) Error() string {
	if err.Pin < 0 {
		return fmt.Sprintf("hardware init failed during %s: %v", err.Stage, err.Err)
	}
	return fmt.Sprintf("hardware init failed during %s of pin %d: %v", err.Stage, err.Pin, err.Err)
}

func (err HardwareInitError) Unwrap() error {
	return err.Err
}

// DriveError is returned when a pin write fails during a drive command.
type DriveError struct {
	Direction string
	Phase     string
	Pin       int
	Err       error
}

func (err DriveError) Error() string {
	if len(err.Direction) == 0 {
		err.Direction = "UNKNOWN"
	}
	if err.Pin < 0 {
		return fmt.Sprintf("drive %s failed: %v", err.Direction, err.Err)
	}

	return fmt.Sprintf("drive %s failed setting pin %d %s: %v", err.Direction, err.Pin, err.Phase, err.Err)
}

func (err DriveError) Unwrap() error {
	return err.Err
}

// InvalidCommandError is returned for a missing or unrecognized direction.
type InvalidCommandError struct {
	Command string
}

func (err InvalidCommandError) Error() string {
	if len(err.Command) == 0 {
		return "missing direction"
	}
	return fmt.Sprintf("unrecognized direction %q", err.Command)
}
