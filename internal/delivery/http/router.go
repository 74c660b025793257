package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "propshare/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	Auth         *custommiddleware.Auth
	AuthHandler  *AuthHandler
	DataHandler  *DataHandler
	AdminHandler *AdminHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit("1M"))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":    "healthy",
			"service":   "propshare-api",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// API group
	api := e.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/logout", config.AuthHandler.Logout)
		auth.POST("/register", config.AuthHandler.Register)
	}

	// Investor routes (protected with AuthMiddleware)
	data := api.Group("/data", config.Auth.AuthMiddleware)
	{
		data.GET("", config.DataHandler.GetData)
		data.POST("", config.DataHandler.PostData)
	}

	// Operator routes (protected with the admin shared secret)
	admin := api.Group("/admin", config.Auth.AdminMiddleware)
	{
		admin.GET("/withdrawals", config.AdminHandler.ListWithdrawals)
		admin.POST("/withdrawals/:id/approve", config.AdminHandler.ApproveWithdrawal)
		admin.POST("/withdrawals/:id/reject", config.AdminHandler.RejectWithdrawal)
		admin.POST("/balances/:userId/adjust", config.AdminHandler.AdjustBalance)
		admin.POST("/maturations/sweep", config.AdminHandler.SweepMaturations)
		admin.GET("/statistics", config.AdminHandler.GetStatistics)
		admin.GET("/document", config.AdminHandler.GetDocument)
		admin.GET("/system/health", config.AdminHandler.GetSystemHealth)
	}
}
