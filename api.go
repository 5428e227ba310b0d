package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/CodedInternet/motorbot/onboard"
	derrors "github.com/CodedInternet/motorbot/onboard/errors"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

const (
	STATUS_SUCCESS = "SUCCESS"
	STATUS_ERROR   = "ERROR"
	STATUS_INVALID = "INVALID COMMAND"
	STATUS_MISSING = "missing command in the request."

	WELCOME = "Welcome to the Bot Command Center."
)

//---
// Payloads
//---

// StatusResponse is the body of every command reply, over HTTP and the
// websocket alike.
type StatusResponse struct {
	HTTPStatusCode int `json:"-"`

	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (s *StatusResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, s.HTTPStatusCode)
	return nil
}

type StateResponse struct {
	State string                `json:"state"`
	Pulse string                `json:"pulse"`
	Mode  string                `json:"mode"`
	Pins  onboard.PinAssignment `json:"pins"`
}

func (s *StateResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// MovePayload is a websocket command frame.
type MovePayload struct {
	Move string `json:"move"`
}

//---
// Views
//---

type BotAPI struct {
	bot    *onboard.MotorController
	logger *slog.Logger
}

func NewBotAPI(bot *onboard.MotorController, logger *slog.Logger) *BotAPI {
	if logger == nil {
		logger = slog.Default()
	}
	return &BotAPI{bot: bot, logger: logger}
}

// Execute runs a single move command and describes the outcome. Driver error
// text is logged and never returned to the caller.
func (a *BotAPI) Execute(move string) *StatusResponse {
	if move == "" {
		return &StatusResponse{HTTPStatusCode: http.StatusOK, Status: STATUS_MISSING}
	}

	d, err := onboard.ParseDirection(move)
	if err != nil {
		a.logger.Info("invalid command", "move", move)
		return &StatusResponse{HTTPStatusCode: http.StatusBadRequest, Status: STATUS_INVALID, Error: err.Error()}
	}

	a.logger.Debug("received command", "direction", d)
	if err := a.bot.Drive(d); err != nil {
		var ic derrors.InvalidCommandError
		if errors.As(err, &ic) {
			return &StatusResponse{HTTPStatusCode: http.StatusBadRequest, Status: STATUS_INVALID, Error: err.Error()}
		}
		a.logger.Error("drive failed", "direction", d, "error", err)
		return &StatusResponse{HTTPStatusCode: http.StatusInternalServerError, Status: STATUS_ERROR}
	}

	return &StatusResponse{HTTPStatusCode: http.StatusOK, Status: STATUS_SUCCESS}
}

func Welcome(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, WELCOME)
}

// BotCommand handles GET /bot/cmd?move=<DIRECTION>.
func (a *BotAPI) BotCommand(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, a.Execute(r.URL.Query().Get("move")))
}

func (a *BotAPI) BotState(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, &StateResponse{
		State: a.bot.State().String(),
		Pulse: a.bot.Pulse().String(),
		Mode:  a.bot.Mode().String(),
		Pins:  a.bot.Pins(),
	})
}

// NewRouter builds the full HTTP surface around api.
func NewRouter(api *BotAPI) chi.Router {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer) // make sure this is last

	r.Get("/", Welcome)

	r.Route("/bot", func(r chi.Router) {
		r.Get("/cmd", api.BotCommand)
		r.Get("/state", api.BotState)
	})

	r.Route("/ws", func(r chi.Router) {
		r.Get("/cmd", api.CommandSocket)
	})

	return r
}
