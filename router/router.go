package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-reservations/controllers"
	"github.com/yeremiapane/restaurant-reservations/database"
	"github.com/yeremiapane/restaurant-reservations/floor"
	"github.com/yeremiapane/restaurant-reservations/middlewares"
	"github.com/yeremiapane/restaurant-reservations/services"
)

type Options struct {
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	ReportTitle    string
	// Now drives the default date of the daily sheet and dashboard.
	Now func() time.Time
}

func SetupRouter(store *database.Store, svc *services.ReservationService, hub *floor.Hub, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.CORSOrigins))

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(store)
	tableCtrl := controllers.NewTableController(store)
	customerCtrl := controllers.NewCustomerController(store)
	staffCtrl := controllers.NewStaffController(store)
	reservationCtrl := controllers.NewReservationController(svc)
	reportCtrl := controllers.NewReportController(svc, opts.ReportTitle)
	if opts.Now != nil {
		reportCtrl.Now = opts.Now
	}
	floorCtrl := controllers.NewFloorController(hub, opts.CORSOrigins)
	adminCtrl := controllers.NewAdminController(store, hub)
	if opts.Now != nil {
		adminCtrl.Now = opts.Now
	}

	limiter := middlewares.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(limiter.RateLimit())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Display lantai (staff/admin), token lewat query string
	r.GET("/ws/floor", middlewares.WebSocketAuthMiddleware(), floorCtrl.FloorHandler)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)

	// RESERVATIONS (semua role, visibilitas diatur service)
	reservations := auth.Group("/reservations")
	{
		reservations.GET("", reservationCtrl.GetReservations)
		reservations.POST("", limiter.RateLimit(), reservationCtrl.CreateReservation)
		reservations.GET("/:reservation_id", reservationCtrl.GetReservationByID)
		reservations.PUT("/:reservation_id", limiter.RateLimit(), reservationCtrl.UpdateReservation)
		reservations.DELETE("/:reservation_id", reservationCtrl.CancelReservation)
	}

	// CUSTOMERS
	auth.POST("/customers", customerCtrl.CreateCustomer)
	auth.GET("/customers/me", customerCtrl.GetMyCustomer)
	auth.GET("/customers/:customer_id", customerCtrl.GetCustomerByID)
	auth.PUT("/customers/:customer_id", customerCtrl.UpdateCustomer)

	// TABLES (read untuk semua user login)
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)

	// STAFF + ADMIN
	staff := r.Group("/admin")
	staff.Use(middlewares.AuthMiddleware(), middlewares.RequireStaff())
	{
		staff.GET("/customers", customerCtrl.GetCustomers)
		staff.DELETE("/customers/:customer_id", customerCtrl.DeleteCustomer)
		staff.GET("/reports/daily", reportCtrl.DailySheet)
		staff.GET("/dashboard", adminCtrl.GetDashboardStats)
	}

	// ADMIN ONLY
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireAdmin())
	{
		admin.POST("/tables", tableCtrl.CreateTable)
		admin.PUT("/tables/:table_id", tableCtrl.UpdateTableCapacity)
		admin.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

		admin.GET("/staff", staffCtrl.GetAllStaff)
		admin.POST("/staff", staffCtrl.CreateStaff)
		admin.GET("/staff/:staff_id", staffCtrl.GetStaffByID)
		admin.PUT("/staff/:staff_id", staffCtrl.UpdateStaff)
		admin.DELETE("/staff/:staff_id", staffCtrl.DeleteStaff)
	}

	return r
}
