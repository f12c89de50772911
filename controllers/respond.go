package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/services"
	"github.com/yeremiapane/restaurant-reservations/utils"
)

var errInternal = errors.New("internal server error")

// respondServiceError maps domain and store errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var violations services.Violations
	switch {
	case errors.As(err, &violations):
		utils.RespondErrorData(c, http.StatusUnprocessableEntity, errors.New("Reservation rejected"), violations)
	case errors.Is(err, services.ErrMalformedInput):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrUnauthenticated):
		utils.RespondError(c, http.StatusUnauthorized, err)
	case errors.Is(err, services.ErrForbidden):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, database.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("record not found"))
	case errors.Is(err, services.ErrCapacityExhausted):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, database.ErrConflict):
		utils.RespondError(c, http.StatusConflict, errors.New("record already exists"))
	default:
		_ = c.Error(err)
		utils.ErrorLogger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		utils.RespondError(c, http.StatusInternalServerError, errInternal)
	}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid "+name))
		return 0, false
	}
	return uint(id), true
}
