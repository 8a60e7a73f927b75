package http

import (
	"net/http"
	"strings"

	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/csvio"
	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/domain"
	"github.com/GoSim-25-26J-441/product-catalog/internal/validation"
	"github.com/gin-gonic/gin"
)

// productRequest requires the three text fields to be present; empty strings are fine.
type productRequest struct {
	Name        *string        `json:"name" binding:"required"`
	Number      *string        `json:"number" binding:"required"`
	Description *string        `json:"description" binding:"required"`
	Images      []domain.Image `json:"images"`
}

func (r productRequest) product() domain.Product {
	p := domain.Product{
		Name:        *r.Name,
		Number:      *r.Number,
		Description: *r.Description,
		Images:      r.Images,
	}
	p.Normalize()
	return p
}

type imageRequest struct {
	URL *string `json:"url" binding:"required"`
}

func bindProduct(c *gin.Context) (domain.Product, bool) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "invalid request body",
			"fields": validation.FromBindError(err, &req),
		})
		return domain.Product{}, false
	}
	return req.product(), true
}

// ListProducts returns the catalog in insertion order.
func (h *Handler) ListProducts(c *gin.Context) {
	products := h.store.List()
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func (h *Handler) CreateProduct(c *gin.Context) {
	p, ok := bindProduct(c)
	if !ok {
		return
	}
	created, err := h.store.Create(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": created})
}

func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

// UpdateProduct replaces every field of the product; the id is kept.
func (h *Handler) UpdateProduct(c *gin.Context) {
	p, ok := bindProduct(c)
	if !ok {
		return
	}
	updated, err := h.store.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": updated})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AppendImage adds an image by url. A blank url is accepted and ignored.
func (h *Handler) AppendImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "invalid request body",
			"fields": validation.FromBindError(err, &req),
		})
		return
	}

	id := c.Param("id")
	added, err := h.store.AppendImage(c.Request.Context(), id, *req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := h.store.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "product": p})
}

func (h *Handler) RemoveImage(c *gin.Context) {
	index, ok := parseIndex(c, "index")
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.store.RemoveImageAt(c.Request.Context(), id, index); err != nil {
		writeError(c, err)
		return
	}
	p, err := h.store.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *Handler) GetProductAt(c *gin.Context) {
	index, ok := parseIndex(c, "index")
	if !ok {
		return
	}
	p, err := h.store.At(index)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *Handler) ReplaceProductAt(c *gin.Context) {
	index, ok := parseIndex(c, "index")
	if !ok {
		return
	}
	p, ok := bindProduct(c)
	if !ok {
		return
	}
	updated, err := h.store.ReplaceAt(c.Request.Context(), index, p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": updated})
}

func (h *Handler) DeleteProductAt(c *gin.Context) {
	index, ok := parseIndex(c, "index")
	if !ok {
		return
	}
	if err := h.store.RemoveAt(c.Request.Context(), index); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="products.csv"`)
	c.Status(http.StatusOK)
	if err := csvio.Export(c.Writer, h.store.List()); err != nil {
		_ = c.Error(err)
	}
}

// ImportCSV replaces the catalog with the uploaded CSV, either as multipart field "file"
// or as the raw request body.
func (h *Handler) ImportCSV(c *gin.Context) {
	body := c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file could not be read"})
			return
		}
		defer f.Close()
		body = f
	}

	products, err := csvio.Import(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.Replace(c.Request.Context(), products); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": len(products)})
}
