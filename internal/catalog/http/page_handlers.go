package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/GoSim-25-26J-441/product-catalog/internal/catalog/domain"
	"github.com/gin-gonic/gin"
)

type listItem struct {
	Index   int
	Product domain.Product
}

type formView struct {
	Title    string
	Action   string
	Creating bool
	Product  domain.Product
}

// ListPage renders every record with its images, number, detail link and delete button.
func (h *Handler) ListPage(c *gin.Context) {
	products := h.store.List()
	items := make([]listItem, len(products))
	for i, p := range products {
		items[i] = listItem{Index: i, Product: p}
	}
	c.HTML(http.StatusOK, "list.html", gin.H{
		"Title": "Products",
		"Items": items,
	})
}

// ProductAtIndex keeps the positional /product/:index links working. The position is
// resolved against the current list; anything invalid lands on the list.
func (h *Handler) ProductAtIndex(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	p, err := h.store.At(index)
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.Redirect(http.StatusFound, "/products/"+p.ID)
}

func (h *Handler) DetailPage(c *gin.Context) {
	p, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.renderDetail(c, http.StatusOK, p)
}

// SubmitDetail handles the detail form: image edits re-render the draft, save persists it.
func (h *Handler) SubmitDetail(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.Get(id); err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	var form draftForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}

	draft := form.product()
	draft.ID = id
	if form.apply(&draft) {
		h.renderDetail(c, http.StatusOK, draft)
		return
	}
	if form.Action != actionSave {
		c.String(http.StatusBadRequest, "unknown action")
		return
	}

	if _, err := h.store.Update(c.Request.Context(), id, draft); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		h.renderFailure(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) DeleteFromList(c *gin.Context) {
	err := h.store.Delete(c.Request.Context(), c.Param("id"))
	if err != nil && !errors.Is(err, domain.ErrProductNotFound) {
		h.renderFailure(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) CreatePage(c *gin.Context) {
	h.renderCreate(c, http.StatusOK, domain.Product{Images: []domain.Image{}})
}

func (h *Handler) SubmitCreate(c *gin.Context) {
	var form draftForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}

	draft := form.product()
	if form.apply(&draft) {
		h.renderCreate(c, http.StatusOK, draft)
		return
	}
	if form.Action != actionCreate {
		c.String(http.StatusBadRequest, "unknown action")
		return
	}

	if _, err := h.store.Create(c.Request.Context(), draft); err != nil {
		h.renderFailure(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) renderDetail(c *gin.Context, status int, p domain.Product) {
	c.HTML(status, "detail.html", formView{
		Title:   "Product Detail",
		Action:  "/products/" + p.ID,
		Product: p,
	})
}

func (h *Handler) renderCreate(c *gin.Context, status int, p domain.Product) {
	c.HTML(status, "create.html", formView{
		Title:    "Create Product",
		Action:   "/create",
		Creating: true,
		Product:  p,
	})
}

func (h *Handler) renderFailure(c *gin.Context, err error) {
	log.Printf("[catalog] request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Error",
		"Message": "The catalog could not be saved. Your previous data is unchanged.",
	})
}
