package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/floor"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/services"
	"github.com/yeremiapane/restaurant-reservations/utils"
)

type AdminController struct {
	Store *database.Store
	Hub   *floor.Hub
	Now   func() time.Time
}

func NewAdminController(store *database.Store, hub *floor.Hub) *AdminController {
	return &AdminController{Store: store, Hub: hub, Now: time.Now}
}

type slotOccupancy struct {
	TimeSlot models.TimeSlot `json:"time_slot"`
	Booked   int64           `json:"booked"`
	Free     int64           `json:"free"`
	Percent  float64         `json:"percent"`
}

// GetDashboardStats mengambil statistik reservasi untuk satu hari (default hari ini)
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	now := ac.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if raw := c.Query("date"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			respondServiceError(c, fmt.Errorf("%w: %v", services.ErrMalformedInput, err))
			return
		}
		day = d
	}

	stats, err := ac.Store.ReservationStats(c.Request.Context(), day)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	occupancy := make([]slotOccupancy, 0, len(models.TimeSlots))
	for _, ts := range models.TimeSlots {
		o := slotOccupancy{TimeSlot: ts, Booked: stats.BookedPerSlot[ts]}
		o.Free = stats.Tables - o.Booked
		if stats.Tables > 0 {
			o.Percent = float64(o.Booked) * 100 / float64(stats.Tables)
		}
		occupancy = append(occupancy, o)
	}

	payload := gin.H{
		"date":      day.Format(models.DateLayout),
		"stats":     stats,
		"occupancy": occupancy,
	}

	// Broadcast stats update ke display lantai
	if ac.Hub != nil {
		if err := ac.Hub.Broadcast("dashboard_stats", payload); err != nil {
			utils.InfoLogger.Warnf("Dashboard broadcast incomplete: %v", err)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", payload)
}
