package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/middlewares"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/services"
	"github.com/yeremiapane/restaurant-reservations/utils"
)

type CustomerController struct {
	Store *database.Store
}

func NewCustomerController(store *database.Store) *CustomerController {
	return &CustomerController{Store: store}
}

type customerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email"`
}

// CreateCustomer -> customer membuat profil untuk email akunnya sendiri;
// staff boleh mendaftarkan email lain
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	id, _ := middlewares.CurrentUser(c)
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	email := strings.TrimSpace(req.Email)
	if !id.Role.IsStaffOrAdmin() || email == "" {
		email = id.Email
	}

	// Cek apakah profil sudah ada
	if existing, err := cc.Store.FindCustomerByEmail(c.Request.Context(), email); err == nil {
		utils.RespondJSON(c, http.StatusOK, "Customer profile already exists", existing)
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		respondServiceError(c, err)
		return
	}

	customer := models.Customer{Name: strings.TrimSpace(req.Name), Phone: strings.TrimSpace(req.Phone), Email: email}
	if err := cc.Store.CreateCustomer(c.Request.Context(), &customer); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Customer profile created: %s", customer.Email)
	utils.RespondJSON(c, http.StatusCreated, "Customer created successfully", customer)
}

// GetCustomers -> daftar customer tanpa akun staff/admin
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	excluded, err := cc.Store.EmailsWithRoles(c.Request.Context(), models.RoleStaff, models.RoleAdmin)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	customers, err := cc.Store.ListCustomers(c.Request.Context(), excluded)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of customers", customers)
}

// GetMyCustomer returns the caller's own customer profile.
func (cc *CustomerController) GetMyCustomer(c *gin.Context) {
	id, _ := middlewares.CurrentUser(c)
	customer, err := cc.Store.FindCustomerByEmail(c.Request.Context(), id.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer profile", customer)
}

// loadAccessible fetches a customer the caller may see: staff see all,
// customers only themselves.
func (cc *CustomerController) loadAccessible(c *gin.Context) (models.Customer, bool) {
	customerID, ok := paramID(c, "customer_id")
	if !ok {
		return models.Customer{}, false
	}
	customer, err := cc.Store.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondServiceError(c, err)
		return models.Customer{}, false
	}
	id, _ := middlewares.CurrentUser(c)
	if !id.Role.IsStaffOrAdmin() && !strings.EqualFold(customer.Email, id.Email) {
		respondServiceError(c, services.ErrForbidden)
		return models.Customer{}, false
	}
	return customer, true
}

func (cc *CustomerController) GetCustomerByID(c *gin.Context) {
	customer, ok := cc.loadAccessible(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer detail", customer)
}

// UpdateCustomer -> customer tidak bisa mengganti email
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	customer, ok := cc.loadAccessible(c)
	if !ok {
		return
	}
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	id, _ := middlewares.CurrentUser(c)
	customer.Name = strings.TrimSpace(req.Name)
	customer.Phone = strings.TrimSpace(req.Phone)
	if id.Role.IsStaffOrAdmin() && strings.TrimSpace(req.Email) != "" {
		customer.Email = strings.TrimSpace(req.Email)
	}

	if err := cc.Store.UpdateCustomer(c.Request.Context(), &customer); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer updated successfully", customer)
}

// DeleteCustomer menghapus customer, reservasinya, dan akun login customer
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	customerID, ok := paramID(c, "customer_id")
	if !ok {
		return
	}

	err := cc.Store.Transaction(c.Request.Context(), func(tx *database.Store) error {
		customer, err := tx.GetCustomer(c.Request.Context(), customerID)
		if err != nil {
			return err
		}
		user, err := tx.FindUserByEmail(c.Request.Context(), customer.Email)
		switch {
		case err == nil && user.Role == models.RoleCustomer:
			if err := tx.DeleteUserByEmail(c.Request.Context(), customer.Email); err != nil {
				return err
			}
		case err != nil && !errors.Is(err, database.ErrNotFound):
			return err
		}
		return tx.DeleteCustomer(c.Request.Context(), customerID)
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Customer %d deleted", customerID)
	utils.RespondJSON(c, http.StatusOK, "Customer deleted successfully", nil)
}
