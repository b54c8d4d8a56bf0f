// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rdearco/nuel-supply-sight-tw/internal/api/handlers"
	"github.com/rdearco/nuel-supply-sight-tw/internal/api/middleware"
	"github.com/rdearco/nuel-supply-sight-tw/internal/service"
)

type Services struct {
	DashboardService *service.DashboardService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", handlers.Health)

	if services != nil && services.DashboardService != nil {
		h := handlers.NewDashboardHandler(services.DashboardService)

		productGroup := apiGroup.Group("/products")
		{
			productGroup.GET("", h.GetProducts)
			productGroup.GET("/view", h.GetProductView)
			productGroup.GET("/:id", h.GetProduct)
			productGroup.PATCH("/:id", h.UpdateProduct)
			productGroup.POST("/:id/transfer", h.TransferStock)
		}

		apiGroup.GET("/kpis", h.GetKPIs)
		apiGroup.GET("/trend", h.GetTrend)
		apiGroup.GET("/dashboard", h.GetDashboard)
		apiGroup.GET("/warehouses", h.GetWarehouses)
		apiGroup.GET("/filters", h.GetFilterOptions)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
