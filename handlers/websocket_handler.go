package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Gintoki006/Sportify-sub001/brackets"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checks are handled by the CORS layer; local clients and
		// the frontend connect from arbitrary hosts during development.
		return true
	},
}

type WebSocketHandler struct {
	hub    *brackets.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *brackets.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeTournament streams live bracket and scoreboard updates for one
// tournament. Clients connect to /ws/tournaments/{tournamentID}.
func (h *WebSocketHandler) ServeTournament(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.serve(w, r, fmt.Sprintf("tournament:%d", id))
}

// ServeMatch streams live updates for one standalone match. Clients
// connect to /ws/matches/{matchID}.
func (h *WebSocketHandler) ServeMatch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.serve(w, r, fmt.Sprintf("match:%d", id))
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "room", room, "error", err)
		return
	}
	h.hub.NewClient(conn, room)
	h.logger.Info("websocket client connected", "room", room)
}
