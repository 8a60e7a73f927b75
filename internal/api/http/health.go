package http

import (
	"context"
	"net/http"
	"time"

	"github.com/GoSim-25-26J-441/product-catalog/internal/storage"
	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Storage   string    `json:"storage,omitempty"`
	Driver    string    `json:"driver,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	slot        storage.Slot
}

// NewHealthHandler reports liveness plus the state of the snapshot slot. slot may be nil.
func NewHealthHandler(serviceName, version string, slot storage.Slot) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		slot:        slot,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Storage:   "disabled",
	}

	status := http.StatusOK
	if h.slot != nil {
		resp.Driver = string(h.slot.Driver())

		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.slot.Ping(pingCtx); err != nil {
			resp.Status = "degraded"
			resp.Storage = "down"
			status = http.StatusServiceUnavailable
		} else {
			resp.Storage = "up"
		}
	}

	c.JSON(status, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
