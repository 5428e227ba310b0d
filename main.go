package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CodedInternet/motorbot/onboard"
	"github.com/CodedInternet/motorbot/onboard/hardware"
)

const SHUTDOWN_TIMEOUT = 5 * time.Second

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := newLogger(cfg.LogLevel(), cfg.LOG_FORMAT, os.Stderr)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("bot stopped", "error", err)
		os.Exit(1)
	}
}

// newDriver picks the pin backend. The simulated driver is also returned on
// its own so the shell can inspect it.
func newDriver(cfg *EnvConfig, logger *slog.Logger) (hardware.Driver, *hardware.Simulated) {
	if cfg.SIMULATED {
		logger.Info("creating simulator")
		sim := hardware.NewSimulated(logger)
		return sim, sim
	}
	return hardware.NewPeriphDriver(), nil
}

// newBot builds and initializes the controller. On failure the pins are
// released before the error is returned.
func newBot(cfg *EnvConfig, driver hardware.Driver, logger *slog.Logger) (*onboard.MotorController, error) {
	pins, mode, pulse, err := cfg.Hardware()
	if err != nil {
		return nil, fmt.Errorf("invalid pin configuration: %w", err)
	}

	bot := onboard.NewMotorController(driver, pins,
		onboard.WithLogger(logger),
		onboard.WithNumberingMode(mode),
		onboard.WithPulse(pulse))

	if err := bot.Initialize(); err != nil {
		if serr := bot.Shutdown(); serr != nil {
			logger.Warn("cleanup after failed initialize", "error", serr)
		}
		return nil, err
	}
	return bot, nil
}

func run(cfg *EnvConfig, logger *slog.Logger) error {
	// Registered before the pins are touched so an early interrupt still
	// reaches the shutdown path below.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	driver, sim := newDriver(cfg, logger)
	bot, err := newBot(cfg, driver, logger)
	if err != nil {
		return err
	}
	defer bot.Shutdown()

	if cfg.SHELL {
		// The shell owns the terminal, so Ctrl-C arrives here rather than as a signal.
		b := &bench{bot: bot, sim: sim, stop: func() { interrupt(sigs) }}
		// Start an instance of the shell so it can be controlled from the CLI
		go newShell(b).Start()
	}

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: NewRouter(NewBotAPI(bot, logger)),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case sig := <-sigs:
		logger.Info("shutting down", "signal", sig)
		return stop(bot, srv, logger)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// interrupt queues os.Interrupt unless a signal is already pending.
func interrupt(sigs chan<- os.Signal) {
	select {
	case sigs <- os.Interrupt:
	default:
	}
}

// stop releases the pins before the listener so no drive can start on a
// closing server.
func stop(bot *onboard.MotorController, srv *http.Server, logger *slog.Logger) error {
	if err := bot.Shutdown(); err != nil {
		logger.Warn("pins not released cleanly", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
