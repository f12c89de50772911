// Package floor pushes reservation changes to the staff floor displays.
package floor

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/utils"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung semua koneksi display (staff, admin)
type Hub struct {
	clients map[*websocket.Conn]models.Role
	writers map[*websocket.Conn]*sync.Mutex
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]models.Role),
		writers: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (h *Hub) Register(conn *websocket.Conn, role models.Role) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
	h.writers[conn] = &sync.Mutex{}
	utils.InfoLogger.WithField("role", role).Info("Floor display connected")
}

// Unregister melepaskan koneksi dan menutupnya
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	delete(h.writers, conn)
	conn.Close()
}

func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast sends the event to every display. Connections that fail are
// dropped; their errors are returned together.
func (h *Hub) Broadcast(event string, data interface{}) error {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		return fmt.Errorf("marshal floor message: %w", err)
	}

	// Salin daftar koneksi; tulis di luar lock agar display lambat tidak menahan hub
	h.mutex.Lock()
	targets := make(map[*websocket.Conn]models.Role, len(h.clients))
	for conn, role := range h.clients {
		targets[conn] = role
	}
	h.mutex.Unlock()

	var result *multierror.Error
	for conn, role := range targets {
		if err := h.write(conn, payload); err != nil {
			result = multierror.Append(result, fmt.Errorf("send to %s display: %w", role, err))
			h.Unregister(conn)
		}
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"event":   event,
		"clients": len(targets),
	}).Debug("Floor broadcast")
	return result.ErrorOrNil()
}

// write serializes frames per connection; gorilla allows one concurrent writer.
// Connections unregistered in the meantime are skipped.
func (h *Hub) write(conn *websocket.Conn, payload []byte) error {
	mu := h.writeLock(conn)
	if mu == nil {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, payload)
}

func (h *Hub) writeLock(conn *websocket.Conn) *sync.Mutex {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.writers[conn]
}

// CloseAll disconnects every display, used on shutdown.
func (h *Hub) CloseAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.clients {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		delete(h.clients, conn)
		delete(h.writers, conn)
	}
}
