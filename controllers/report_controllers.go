package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/reports"
	"github.com/yeremiapane/restaurant-reservations/services"
	"github.com/yeremiapane/restaurant-reservations/utils"
)

type ReportController struct {
	Service *services.ReservationService
	Title   string
	Now     func() time.Time
}

func NewReportController(svc *services.ReservationService, title string) *ReportController {
	return &ReportController{Service: svc, Title: title, Now: time.Now}
}

// DailySheet -> PDF daftar reservasi untuk satu tanggal (default hari ini)
func (rc *ReportController) DailySheet(c *gin.Context) {
	now := rc.Now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if raw := c.Query("date"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			respondServiceError(c, fmt.Errorf("%w: %v", services.ErrMalformedInput, err))
			return
		}
		date = d
	}

	req, ok := requester(c, rc.Service)
	if !ok {
		return
	}
	rs, err := rc.Service.ReservationsOn(c.Request.Context(), req, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	pdf, err := reports.DailySheet(rc.Title, date, rs, now)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Daily sheet generated for %s (%d reservations)", date.Format(models.DateLayout), len(rs))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="seating-%s.pdf"`, date.Format(models.DateLayout)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
