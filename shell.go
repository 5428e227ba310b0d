package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/CodedInternet/motorbot/onboard"
	"github.com/CodedInternet/motorbot/onboard/hardware"
	"github.com/abiosoft/ishell"
)

var (
	ErrNotSimulated = errors.New("only available with the simulated driver")
	ErrShellFault   = errors.New("injected from the shell")
)

// bench holds what the development shell operates on. sim is nil when the
// bot runs on real pins.
type bench struct {
	bot  *onboard.MotorController
	sim  *hardware.Simulated
	stop func() // requests a clean process shutdown
}

func (b *bench) drive(args []string) (string, error) {
	if len(args) < 1 {
		return "", errors.New("usage: drive <direction> [pulse]")
	}
	d, err := onboard.ParseDirection(args[0])
	if err != nil {
		return "", err
	}

	var pulse time.Duration
	if len(args) >= 2 {
		if pulse, err = time.ParseDuration(args[1]); err != nil {
			return "", fmt.Errorf("invalid pulse: %w", err)
		}
	}

	if err := b.bot.DriveFor(d, pulse); err != nil {
		return "", err
	}
	return fmt.Sprintf("Drove %s", d), nil
}

func (b *bench) state() string {
	p := b.bot.Pins()
	return fmt.Sprintf("%s mode:%s pulse:%s LF:%d LR:%d RF:%d RR:%d",
		b.bot.State(), b.bot.Mode(), b.bot.Pulse(),
		p.LeftForward, p.LeftReverse, p.RightForward, p.RightReverse)
}

func (b *bench) history() ([]string, error) {
	if b.sim == nil {
		return nil, ErrNotSimulated
	}
	events := b.sim.History()
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, e.String())
	}
	return lines, nil
}

func (b *bench) fault(args []string) (string, error) {
	if b.sim == nil {
		return "", ErrNotSimulated
	}
	if len(args) != 1 {
		return "", errors.New("usage: fault <pin>")
	}
	pin, err := strconv.Atoi(args[0])
	if err != nil {
		return "", fmt.Errorf("invalid pin %q", args[0])
	}
	b.sim.FailWrites(pin, ErrShellFault)
	return fmt.Sprintf("Writes to pin %d will fail", pin), nil
}

func (b *bench) clearHistory() error {
	if b.sim == nil {
		return ErrNotSimulated
	}
	b.sim.ResetHistory()
	return nil
}

// interrupt replaces the shell's default Ctrl-C handler, which exits the
// process without releasing the pins.
func (b *bench) interrupt(count int, c *ishell.Context) {
	if count < 2 {
		c.Println("Input Ctrl-c once more to exit")
		return
	}
	c.Println("Interrupted, releasing pins")
	if b.stop != nil {
		b.stop()
	}
}

func (b *bench) clear() error {
	if b.sim == nil {
		return ErrNotSimulated
	}
	b.sim.ClearFaults()
	return nil
}

func directionNames([]string) []string {
	return []string{"FORWARD", "REVERSE", "LEFT", "RIGHT"}
}

func newShell(b *bench) *ishell.Shell {
	shell := ishell.New()
	shell.Println("Motor bot development shell")
	shell.ShowPrompt(true)
	shell.Interrupt(b.interrupt)

	shell.AddCmd(&ishell.Cmd{
		Name:      "drive",
		Completer: directionNames,
		Help:      "drive <direction> [pulse]",
		Func: func(c *ishell.Context) {
			out, err := b.drive(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(out)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "state",
		Help: "Reads the current state of the bot",
		Func: func(c *ishell.Context) {
			c.Println(b.state())
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "history",
		Help: "history [clear]",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 1 && c.Args[0] == "clear" {
				if err := b.clearHistory(); err != nil {
					c.Err(err)
					return
				}
				c.Println("History cleared")
				return
			}
			lines, err := b.history()
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(strings.Join(lines, "\n"))
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "fault",
		Help: "fault <pin>",
		Func: func(c *ishell.Context) {
			out, err := b.fault(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(out)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "clearfaults",
		Help: "Clears injected faults",
		Func: func(c *ishell.Context) {
			if err := b.clear(); err != nil {
				c.Err(err)
				return
			}
			c.Println("Faults cleared")
		},
	})

	return shell
}
