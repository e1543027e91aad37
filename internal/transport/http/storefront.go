package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/light-bringer/procat-web/internal/app/catalog/queries/list_products"
)

func listRequest(c *gin.Context, status string) *list_products.Request {
	return &list_products.Request{
		Q:        c.Query("q"),
		Status:   status,
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Sort:     c.Query("sort"),
		Page:     c.Query("page"),
		PageSize: pageSizeParam(c),
	}
}

// pageSizeParam reads page_size, falling back to the older pageSize spelling.
func pageSizeParam(c *gin.Context) string {
	if v, ok := c.GetQuery("page_size"); ok {
		return v
	}
	return c.Query("pageSize")
}

// Home handles GET /, the published catalog with search and filters.
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()

	res, err := h.queries.ListProducts.Execute(ctx, listRequest(c, ""))
	if err != nil {
		h.fail(c, err)
		return
	}
	tax, err := h.queries.Taxonomy.Storefront(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.html(c, http.StatusOK, "home", gin.H{
		"Title":    "Catalog",
		"Result":   res,
		"Taxonomy": tax,
		"Query":    c.Request.URL.Query(),
		"Q":        c.Query("q"),
		"Category": c.Query("category"),
		"Tag":      c.Query("tag"),
		"Sort":     list_products.NormalizeSort(c.Query("sort")),
	})
}

// Product handles GET /product/:slug.
func (h *Handler) Product(c *gin.Context) {
	p, err := h.queries.GetProduct.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.html(c, http.StatusOK, "product", gin.H{"Title": p.Name, "Product": p})
}

// Categories handles GET /categories.
func (h *Handler) Categories(c *gin.Context) {
	tax, err := h.queries.Taxonomy.Storefront(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.html(c, http.StatusOK, "categories", gin.H{"Title": "Categories", "Taxonomy": tax})
}

// Contact handles GET /contact.
func (h *Handler) Contact(c *gin.Context) {
	h.html(c, http.StatusOK, "contact", gin.H{"Title": "Contact", "Weekdays": weekdays()})
}

// ListProductsAPI handles GET /api/v1/products.
func (h *Handler) ListProductsAPI(c *gin.Context) {
	res, err := h.queries.ListProducts.Execute(c.Request.Context(), listRequest(c, ""))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products":    nonNil(res.Products),
		"total":       res.Total,
		"page":        res.Page,
		"page_size":   res.PageSize,
		"total_pages": res.TotalPages,
	})
}

// GetProductAPI handles GET /api/v1/products/:slug.
func (h *Handler) GetProductAPI(c *gin.Context) {
	p, err := h.queries.GetProduct.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
