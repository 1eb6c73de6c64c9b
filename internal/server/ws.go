package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/punchdrop/internal/app"
)

// snapshotIntervalMs is the scene broadcast cadence (~30 FPS). The game
// ticks faster than this; clients interpolate between snapshots.
const snapshotIntervalMs = 33

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// GameHandler runs the game WebSocket: it broadcasts scene snapshots to
// every connected client and accepts control messages (round start and
// restart, manual punches) back from them.
type GameHandler struct {
	app     *app.App
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// controlMessage is the inbound message shape from clients.
type controlMessage struct {
	Type  string  `json:"type"` // "start", "restart", "end", "punch"
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Speed float64 `json:"speed"`
}

// NewGameHandler creates a new GameHandler for the given application.
func NewGameHandler(a *app.App) *GameHandler {
	h := &GameHandler{
		app:     a,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *GameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		h.handleControl(data)
	}
}

// handleControl decodes and applies one inbound control message. Bad
// messages are dropped; a misbehaving client cannot hurt the game loop.
func (h *GameHandler) handleControl(data []byte) {
	var msg controlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Ignoring malformed control message: %v", err)
		return
	}

	switch msg.Type {
	case "start":
		h.app.StartRound()
	case "restart":
		h.app.RestartRound()
	case "end":
		h.app.EndRound()
	case "punch":
		h.app.InjectPunch(msg.X, msg.Y, msg.Speed)
	default:
		log.Printf("Ignoring unknown control message type %q", msg.Type)
	}
}

// broadcast sends scene snapshots to all connected clients.
func (h *GameHandler) broadcast() {
	ticker := time.NewTicker(snapshotIntervalMs * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}
		h.mu.RUnlock()

		msg, err := json.Marshal(h.app.Snapshot())
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
