package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/utils"
	"golang.org/x/crypto/bcrypt"
)

// StaffController hanya untuk admin
type StaffController struct {
	Store *database.Store
}

func NewStaffController(store *database.Store) *StaffController {
	return &StaffController{Store: store}
}

// CreateStaff -> membuat data staff sekaligus akun login dengan role Staff
func (sc *StaffController) CreateStaff(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	staff := models.Staff{Name: strings.TrimSpace(req.Name), Email: strings.TrimSpace(req.Email)}
	err = sc.Store.Transaction(c.Request.Context(), func(tx *database.Store) error {
		user := models.User{
			Name:     staff.Name,
			Email:    staff.Email,
			Password: string(hashed),
			Role:     models.RoleStaff,
		}
		if err := tx.CreateUser(c.Request.Context(), &user); err != nil {
			return err
		}
		return tx.CreateStaff(c.Request.Context(), &staff)
	})
	if errors.Is(err, database.ErrConflict) {
		utils.RespondError(c, http.StatusConflict, errors.New("email already registered"))
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("New staff created: %s", staff.Email)
	utils.RespondJSON(c, http.StatusCreated, "Staff created successfully", staff)
}

func (sc *StaffController) GetAllStaff(c *gin.Context) {
	staff, err := sc.Store.ListStaff(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of staff", staff)
}

func (sc *StaffController) GetStaffByID(c *gin.Context) {
	id, ok := paramID(c, "staff_id")
	if !ok {
		return
	}
	staff, err := sc.Store.GetStaff(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Staff detail", staff)
}

// UpdateStaff mengganti nama; email akun login tidak diubah
func (sc *StaffController) UpdateStaff(c *gin.Context) {
	id, ok := paramID(c, "staff_id")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	staff, err := sc.Store.GetStaff(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	staff.Name = strings.TrimSpace(req.Name)
	if err := sc.Store.UpdateStaff(c.Request.Context(), &staff); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Staff updated successfully", staff)
}

// DeleteStaff -> reservasi yang ditangani tetap ada, akun login dihapus
func (sc *StaffController) DeleteStaff(c *gin.Context) {
	id, ok := paramID(c, "staff_id")
	if !ok {
		return
	}
	err := sc.Store.Transaction(c.Request.Context(), func(tx *database.Store) error {
		staff, err := tx.GetStaff(c.Request.Context(), id)
		if err != nil {
			return err
		}
		if err := tx.DeleteStaff(c.Request.Context(), id); err != nil {
			return err
		}
		return tx.DeleteUserByEmail(c.Request.Context(), staff.Email)
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Staff %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Staff deleted successfully", nil)
}
