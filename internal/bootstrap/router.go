package bootstrap

import (
	httpapi "github.com/GoSim-25-26J-441/product-catalog/internal/api/http"
	"github.com/GoSim-25-26J-441/product-catalog/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/product-catalog/internal/api/http/routes"
	cataloghttp "github.com/GoSim-25-26J-441/product-catalog/internal/catalog/http"
	"github.com/GoSim-25-26J-441/product-catalog/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Slot           storage.Slot
	Catalog        *cataloghttp.Handler
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.Default()
	r.Use(middleware.RequestID())

	tmpl, err := cataloghttp.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Slot)
	healthHandler.RegisterRoutes(r)

	if dep.Gatherer != nil {
		httpapi.RegisterMetrics(r, dep.Gatherer)
	}

	routes.RegisterV1(r, routes.V1Deps{
		Catalog:        dep.Catalog,
		AllowedOrigins: dep.AllowedOrigins,
		RateLimitRPS:   dep.RateLimitRPS,
		RateLimitBurst: dep.RateLimitBurst,
	})

	return r, nil
}
