package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-reservations/floor"
	"github.com/yeremiapane/restaurant-reservations/middlewares"
	"github.com/yeremiapane/restaurant-reservations/utils"
)

type FloorController struct {
	Hub      *floor.Hub
	upgrader websocket.Upgrader
}

// NewFloorController accepts handshakes only from allowedOrigins; an empty
// list accepts any origin.
func NewFloorController(hub *floor.Hub, allowedOrigins []string) *FloorController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &FloorController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

// FloorHandler -> endpoint WebSocket untuk display staff
func (fc *FloorController) FloorHandler(c *gin.Context) {
	id, ok := middlewares.CurrentUser(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if !id.Role.IsStaffOrAdmin() {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := fc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Errorf("Floor websocket upgrade failed: %v", err)
		return
	}
	fc.Hub.Register(ws, id.Role)

	// Display hanya menerima; baca sampai koneksi putus
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	fc.Hub.Unregister(ws)
}
