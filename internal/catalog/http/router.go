package http

import "github.com/gin-gonic/gin"

// RegisterPages registers the HTML screens on the root router.
func (h *Handler) RegisterPages(r gin.IRoutes) {
	r.GET("/", h.ListPage)
	r.GET("/product/:index", h.ProductAtIndex)
	r.GET("/products/:id", h.DetailPage)
	r.POST("/products/:id", h.SubmitDetail)
	r.POST("/products/:id/delete", h.DeleteFromList)
	r.GET("/create", h.CreatePage)
	r.POST("/create", h.SubmitCreate)
}

// RegisterAPI registers the JSON API, typically on /api/v1/products.
func (h *Handler) RegisterAPI(rg *gin.RouterGroup) {
	rg.GET("", h.ListProducts)
	rg.POST("", h.CreateProduct)
	rg.GET("/events", h.StreamEvents)
	rg.GET("/export.csv", h.ExportCSV)
	rg.POST("/import.csv", h.ImportCSV)

	rg.GET("/at/:index", h.GetProductAt)
	rg.PUT("/at/:index", h.ReplaceProductAt)
	rg.DELETE("/at/:index", h.DeleteProductAt)

	rg.GET("/:id", h.GetProduct)
	rg.PUT("/:id", h.UpdateProduct)
	rg.DELETE("/:id", h.DeleteProduct)
	rg.POST("/:id/images", h.AppendImage)
	rg.DELETE("/:id/images/:index", h.RemoveImage)
}
