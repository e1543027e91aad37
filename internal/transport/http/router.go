// Package http serves the storefront, the admin panel and the JSON API with gin.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identity "github.com/light-bringer/procat-web/internal/app/identity/domain"
	"github.com/light-bringer/procat-web/internal/cache"
	"github.com/light-bringer/procat-web/internal/metrics"
)

// RouterOptions carries the middleware dependencies of NewRouter.
type RouterOptions struct {
	Resolver     RoleResolver
	Pages        cache.PageCache
	LoginLimiter Limiter
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
}

// NewRouter registers every route of the application.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(opts.Logger))
	if opts.Metrics != nil {
		r.Use(Metrics(opts.Metrics))
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	r.GET("/healthz", h.Healthz)

	r.Use(Authenticate(h.sessions))

	pages := opts.Pages
	if pages == nil {
		pages = cache.Nop{}
	}
	storefront := r.Group("/", PageCache(pages))
	{
		storefront.GET("/", h.Home)
		storefront.GET("/product/:slug", h.Product)
		storefront.GET("/categories", h.Categories)
		storefront.GET("/contact", h.Contact)
	}

	api := r.Group("/api/v1")
	{
		api.GET("/products", h.ListProductsAPI)
		api.GET("/products/:slug", h.GetProductAPI)
		api.GET("/audit", RequireRole(opts.Resolver, identity.RoleAdmin), h.AuditAPI)
	}

	r.GET("/login", h.LoginPage)
	r.POST("/login", RateLimit(opts.LoginLimiter), h.Login)
	r.POST("/auth/signout", h.SignOut)

	admin := r.Group("/admin", RequireRole(opts.Resolver, identity.RoleManager))
	{
		admin.GET("", h.Dashboard)
		admin.GET("/products", h.AdminProducts)
		admin.POST("/products", h.CreateProduct)
		admin.GET("/products/new", h.NewProduct)
		admin.GET("/products/export", h.ExportProducts)
		admin.POST("/products/bulk", h.BulkUpdate)
		admin.GET("/products/:id", h.EditProduct)
		admin.POST("/products/:id", h.UpdateProduct)
		admin.POST("/products/:id/delete", h.DeleteProduct)
		admin.POST("/products/:id/images/:imageID/delete", h.DeleteImage)
		admin.GET("/categories", h.AdminCategories)
	}

	adminOnly := admin.Group("", RequireRole(opts.Resolver, identity.RoleAdmin))
	{
		adminOnly.GET("/users", h.Users)
		adminOnly.POST("/users", h.CreateUser)
		adminOnly.GET("/users/new", h.NewUser)
		adminOnly.GET("/users/:id", h.EditUser)
		adminOnly.POST("/users/:id", h.UpdateUser)
		adminOnly.POST("/users/:id/delete", h.DeleteUser)
		adminOnly.GET("/settings", h.Settings)
		adminOnly.POST("/settings", h.SaveSettings)
		adminOnly.GET("/audit", h.AuditLog)
	}

	r.NoRoute(func(c *gin.Context) {
		h.html(c, http.StatusNotFound, "not_found", gin.H{"Title": "Not found"})
	})
	return r
}
