package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nailscodev/backend/pkg/logging"
	"github.com/nailscodev/backend/pkg/metrics"
	"github.com/nailscodev/backend/pkg/middleware"
)

const version = "1.0.0"

// NewRouter builds the engine with every route. requestsPerMin <= 0 turns rate limiting off.
func (h *Handler) NewRouter(requestsPerMin int) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(h.Logger), middleware.CORS())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Salon Booking API",
			"version": version,
		})
	})
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := h.DB.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)

		admin.POST("/categories", h.CreateCategory)
		admin.POST("/addons", h.CreateAddon)
		admin.POST("/services", h.CreateService)
		admin.POST("/staff", h.CreateStaff)
		admin.POST("/staff/:id/services", h.QualifyStaff)
	}

	// Booking API
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware(), middleware.RateLimit(requestsPerMin, h.Logger))
	{
		api.POST("/availability", h.Consecutive)
		api.POST("/availability/vip-combo", h.VIPCombo)
		api.POST("/availability/check", h.Check)
		api.POST("/availability/csv", h.ConsecutiveCSV)
		api.POST("/validate", h.ValidateInput)

		api.GET("/services", h.ListServices)
		api.GET("/staff", h.ListStaff)

		api.GET("/bookings", h.ListBookings)
		api.POST("/bookings", h.CreateBooking)
		api.DELETE("/bookings/:id", h.CancelBooking)
		api.GET("/dashboard", h.Dashboard)
		api.GET("/usage", h.GetMyUsage)
	}

	return r
}
