package main

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommandSocket(t *testing.T) {
	Convey("a websocket client", t, func() {
		bot, sim := newTestBot(time.Millisecond)
		srv := httptest.NewServer(NewRouter(NewBotAPI(bot, quietLogger())))
		defer srv.Close()

		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/cmd"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		So(err, ShouldBeNil)
		defer conn.Close()

		send := func(msg string) StatusResponse {
			So(conn.WriteMessage(websocket.TextMessage, []byte(msg)), ShouldBeNil)
			var resp StatusResponse
			So(conn.ReadJSON(&resp), ShouldBeNil)
			return resp
		}

		Convey("drives the bot for each frame", func() {
			So(send(`{"move":"RIGHT"}`).Status, ShouldEqual, STATUS_SUCCESS)
			So(send(`{"move":"reverse"}`).Status, ShouldEqual, STATUS_SUCCESS)
			So(sim.History(), ShouldHaveLength, 8)
		})

		Convey("rejects bad frames and keeps the connection", func() {
			So(send(`not json`).Status, ShouldEqual, STATUS_INVALID)

			resp := send(`{"move":"UP"}`)
			So(resp.Status, ShouldEqual, STATUS_INVALID)
			So(resp.Error, ShouldContainSubstring, "UP")

			So(send(`{}`).Status, ShouldEqual, STATUS_MISSING)
			So(sim.History(), ShouldBeEmpty)

			So(send(`{"move":"FORWARD"}`).Status, ShouldEqual, STATUS_SUCCESS)
		})

		Convey("reports drive failures", func() {
			sim.FailWrites(9, errors.New("bus fault"))
			resp := send(`{"move":"FORWARD"}`)
			So(resp.Status, ShouldEqual, STATUS_ERROR)
			So(resp.Error, ShouldBeEmpty)
		})
	})
}
