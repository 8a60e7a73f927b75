package http

import (
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/domain"
	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/service"
	"github.com/gin-gonic/gin"
)

const (
	placeholderNoImage     = "https://via.placeholder.com/100x100?text=No+Image"
	placeholderUnavailable = "https://via.placeholder.com/100x100?text=Image+Not+Available"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler serves the catalog screens and the JSON API off one shared store.
type Handler struct {
	store     *service.CatalogService
	keepAlive time.Duration
}

func New(store *service.CatalogService) *Handler {
	return &Handler{
		store:     store,
		keepAlive: 15 * time.Second,
	}
}

// Templates parses the embedded page templates. Install them with gin's SetHTMLTemplate.
func Templates() (*template.Template, error) {
	return template.New("catalog").Funcs(template.FuncMap{
		"placeholder":            func() string { return placeholderNoImage },
		"placeholderUnavailable": func() string { return placeholderUnavailable },
	}).ParseFS(templateFS, "templates/*.html")
}

// writeError maps store errors to a JSON response.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, domain.ErrIndexOutOfRange):
		c.JSON(http.StatusNotFound, gin.H{"error": "index out of range"})
	default:
		log.Printf("[catalog] request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update catalog"})
	}
}

func parseIndex(c *gin.Context, name string) (int, bool) {
	i, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return i, true
}
