package router

import (
	"github.com/gin-gonic/gin"
	"github.com/tokenworks/servicepos-app/controllers"
	"github.com/tokenworks/servicepos-app/middlewares"
	"github.com/tokenworks/servicepos-app/tokens"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, tokenCache *tokens.Cache) *gin.Engine {
	r := gin.Default()

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	tokenCtrl := controllers.NewTokenController(db, tokenCache)
	entryCtrl := controllers.NewEntryController(db)
	adminCtrl := controllers.NewAdminController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/api")
	auth.Use(middlewares.EnhancedAuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.POST("/logout", userCtrl.Logout)

	// TOKENS
	auth.GET("/tokens", tokenCtrl.GetAllTokens)
	auth.POST("/tokens/validate", tokenCtrl.ValidateToken)
	auth.GET("/tokens/search", tokenCtrl.SearchTokensByPhone)

	// ENTRIES
	auth.POST("/entries", entryCtrl.CreateEntry)
	auth.GET("/entries/today", entryCtrl.GetTodayEntries)
	auth.GET("/entries/export", entryCtrl.ExportEntries)

	// Routes khusus manager
	manager := auth.Group("/")
	manager.Use(middlewares.ManagerOnly())
	{
		manager.POST("/tokens", tokenCtrl.GenerateToken)
		manager.PATCH("/tokens/:id/cancel", tokenCtrl.CancelToken)

		manager.GET("/entries", entryCtrl.GetAllEntries)
		manager.DELETE("/entries/:entry_id", entryCtrl.DeleteEntry)

		manager.GET("/users", userCtrl.GetAllUsers)
		manager.POST("/users/employees", userCtrl.AddEmployee)
		manager.DELETE("/users/:user_id", userCtrl.RemoveEmployee)

		manager.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
		manager.GET("/reports/chart", adminCtrl.GetReportChart)
	}

	// Routes untuk slip token dengan middleware logger
	slipGroup := auth.Group("/tokens")
	slipGroup.Use(middlewares.SlipLoggerMiddleware())
	{
		slipGroup.GET("/:id/slip", tokenCtrl.GenerateSlip)
	}

	// WebSocket endpoint dengan middleware khusus
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", middlewares.RoleCheck(), controllers.DashboardHandler)
	}

	return r
}
