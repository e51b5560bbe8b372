package server

import (
	"github.com/labstack/echo/v4"

	"example.com/ai-travel-planner/internal/handlers"
)

type routeHandlers struct {
	health        echo.HandlerFunc
	auth          *handlers.AuthHandler
	profile       *handlers.ProfileHandler
	itineraries   *handlers.ItineraryHandler
	expenses      *handlers.ExpenseHandler
	stats         *handlers.StatsHandler
	notifications *handlers.NotificationHandler
	admin         *handlers.AdminHandler
}

type routeMiddleware struct {
	user      echo.MiddlewareFunc
	userQuery echo.MiddlewareFunc
	admin     echo.MiddlewareFunc
	authLimit echo.MiddlewareFunc
	aiLimit   echo.MiddlewareFunc
}

func registerRoutes(e *echo.Echo, h routeHandlers, mw routeMiddleware) {
	e.GET("/health", h.health)

	api := e.Group("/api/v1")
	api.GET("/seasonal", handlers.PublicSeasonal)

	authGroup := api.Group("/auth", mw.authLimit)
	authGroup.POST("/register", h.auth.Register)
	authGroup.POST("/login", h.auth.Login)
	authGroup.POST("/refresh", h.auth.Refresh)
	authGroup.POST("/logout", h.auth.Logout)
	authGroup.GET("/me", h.auth.Me, mw.user)

	me := api.Group("/me", mw.user)
	me.GET("/currency", h.profile.GetCurrency)
	me.PUT("/currency", h.profile.UpdateCurrency)

	preferences := api.Group("/preferences", mw.user)
	preferences.GET("", h.profile.GetPreferences)
	preferences.PUT("", h.profile.UpdatePreferences)

	itineraries := api.Group("/itineraries", mw.user)
	itineraries.POST("/generate", h.itineraries.Generate, mw.aiLimit)
	itineraries.GET("", h.itineraries.List)
	itineraries.GET("/:id", h.itineraries.Get)
	itineraries.DELETE("/:id", h.itineraries.Delete)
	itineraries.GET("/:id/seasonal", h.itineraries.Seasonal)
	itineraries.GET("/:id/expenses", h.expenses.List)
	itineraries.POST("/:id/expenses", h.expenses.Create)
	itineraries.GET("/:id/budget", h.expenses.Budget)
	itineraries.GET("/:id/export/json", h.itineraries.ExportJSON)
	itineraries.GET("/:id/export/csv", h.itineraries.ExportCSV)
	itineraries.GET("/:id/export/pdf", h.itineraries.ExportPDF)

	expenses := api.Group("/expenses", mw.user)
	expenses.DELETE("/:expenseId", h.expenses.Delete)

	stats := api.Group("/stats", mw.user)
	stats.GET("/overview", h.stats.Overview)
	stats.GET("/spending-by-category", h.stats.SpendingByCategory)
	stats.GET("/monthly", h.stats.Monthly)

	// EventSource не умеет передавать заголовки, токен приходит в query
	notifications := api.Group("/notifications", mw.userQuery)
	notifications.GET("/stream", h.notifications.Stream)

	admin := api.Group("/admin", mw.user, mw.admin)
	admin.GET("/users", h.admin.ListUsers)
	admin.GET("/ai-requests", h.admin.ListAIRequests)
	admin.GET("/usage", h.admin.Usage)
}
