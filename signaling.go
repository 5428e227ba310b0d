package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// CommandSocket accepts {"move":"..."} frames and answers each with the same
// status body as /bot/cmd. Frames are handled one at a time per connection.
func (a *BotAPI) CommandSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Warn("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				a.logger.Warn("read failed", "error", err)
			}
			break
		}

		var resp *StatusResponse
		var payload MovePayload
		if err := json.Unmarshal(msg, &payload); err != nil {
			resp = &StatusResponse{Status: STATUS_INVALID}
		} else {
			resp = a.Execute(payload.Move)
		}

		if err := conn.WriteJSON(resp); err != nil {
			a.logger.Warn("write failed", "error", err)
			break
		}
	}
}
