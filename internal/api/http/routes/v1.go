package routes

import (
	"time"

	"github.com/GoSim-25-26J-441/product-catalog/internal/api/http/middleware"
	cataloghttp "github.com/GoSim-25-26J-441/product-catalog/internal/catalog/http"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type V1Deps struct {
	Catalog        *cataloghttp.Handler
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// RegisterV1 mounts the catalog screens on / and the JSON API on /api/v1/products.
// Both share one rate limiter for writes.
func RegisterV1(r *gin.Engine, dep V1Deps) {
	limit := middleware.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst)

	pages := r.Group("/")
	pages.Use(limit)
	dep.Catalog.RegisterPages(pages)

	api := r.Group("/api/v1")
	api.Use(apiCORS(dep.AllowedOrigins))
	api.Use(limit)

	dep.Catalog.RegisterAPI(api.Group("/products"))
}

func apiCORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
