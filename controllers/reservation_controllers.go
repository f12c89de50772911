package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservations/middlewares"
	"github.com/yeremiapane/restaurant-reservations/services"
	"github.com/yeremiapane/restaurant-reservations/utils"
)

type ReservationController struct {
	Service *services.ReservationService
}

func NewReservationController(svc *services.ReservationService) *ReservationController {
	return &ReservationController{Service: svc}
}

type reservationRequest struct {
	CustomerID      uint   `json:"customer_id"`
	ReservationDate string `json:"reservation_date" binding:"required"`
	TimeSlot        string `json:"time_slot" binding:"required"`
	NumberOfGuests  int    `json:"number_of_guests"`
}

// requester resolves the caller; it writes the error response itself.
func requester(c *gin.Context, svc *services.ReservationService) (services.Requester, bool) {
	id, _ := middlewares.CurrentUser(c)
	req, err := svc.ResolveRequester(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return services.Requester{}, false
	}
	return req, true
}

// CreateReservation -> membuat reservasi dan memilih meja otomatis
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var body reservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	date, slot, err := services.ParseRequest(body.ReservationDate, body.TimeSlot)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	req, ok := requester(c, rc.Service)
	if !ok {
		return
	}
	r, err := rc.Service.CreateReservation(c.Request.Context(), req, services.CreateInput{
		CustomerID: body.CustomerID,
		Date:       date,
		TimeSlot:   slot,
		Guests:     body.NumberOfGuests,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Reservation created successfully", r)
}

func (rc *ReservationController) GetReservations(c *gin.Context) {
	req, ok := requester(c, rc.Service)
	if !ok {
		return
	}
	rs, err := rc.Service.ListVisibleReservations(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", rs)
}

func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	id, ok := paramID(c, "reservation_id")
	if !ok {
		return
	}
	req, ok := requester(c, rc.Service)
	if !ok {
		return
	}
	r, err := rc.Service.GetReservation(c.Request.Context(), req, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", r)
}

// UpdateReservation -> ubah tanggal, slot atau jumlah tamu
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := paramID(c, "reservation_id")
	if !ok {
		return
	}
	var body reservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	date, slot, err := services.ParseRequest(body.ReservationDate, body.TimeSlot)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	req, ok := requester(c, rc.Service)
	if !ok {
		return
	}
	r, err := rc.Service.EditReservation(c.Request.Context(), req, id, services.EditInput{
		Date:     date,
		TimeSlot: slot,
		Guests:   body.NumberOfGuests,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation updated successfully", r)
}

// CancelReservation selalu sukses untuk id yang sudah tidak ada
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, ok := paramID(c, "reservation_id")
	if !ok {
		return
	}
	req, ok := requester(c, rc.Service)
	if !ok {
		return
	}
	if err := rc.Service.CancelReservation(c.Request.Context(), req, id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", gin.H{"reservation_id": id})
}
