package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/models"
	"github.com/yeremiapane/restaurant-reservations/utils"
)

type TableController struct {
	Store *database.Store
}

func NewTableController(store *database.Store) *TableController {
	return &TableController{Store: store}
}

type tableRequest struct {
	Capacity int `json:"capacity" binding:"required,min=1"`
}

// CreateTable -> menambahkan meja baru ke pool
func (tc *TableController) CreateTable(c *gin.Context) {
	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{Capacity: req.Capacity}
	if err := tc.Store.CreateTable(c.Request.Context(), &table); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("New table created: id=%d capacity=%d", table.ID, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> meja diurutkan dari kapasitas terkecil
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Store.ListTables(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) GetTableByID(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}
	table, err := tc.Store.GetTable(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTableCapacity tidak memindahkan reservasi yang sudah ada
func (tc *TableController) UpdateTableCapacity(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}
	var req tableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Store.UpdateTableCapacity(c.Request.Context(), id, req.Capacity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Table %d capacity changed to %d", table.ID, table.Capacity)
	utils.RespondJSON(c, http.StatusOK, "Table capacity updated", table)
}

// DeleteTable -> menghapus meja beserta reservasinya
func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := paramID(c, "table_id")
	if !ok {
		return
	}
	if err := tc.Store.DeleteTable(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Table %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Table deleted successfully", nil)
}
