package http

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/app/audit/queries/list_entries"
	"github.com/light-bringer/procat-web/internal/app/catalog/queries/dashboard"
	"github.com/light-bringer/procat-web/internal/app/catalog/queries/export_products"
	"github.com/light-bringer/procat-web/internal/app/catalog/queries/get_product"
	"github.com/light-bringer/procat-web/internal/app/catalog/queries/list_products"
	"github.com/light-bringer/procat-web/internal/app/catalog/queries/list_taxonomy"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/bulk_update"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/create_product"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/delete_image"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/delete_product"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/update_product"
	"github.com/light-bringer/procat-web/internal/app/identity/queries/list_users"
	"github.com/light-bringer/procat-web/internal/app/identity/usecases/create_user"
	"github.com/light-bringer/procat-web/internal/app/identity/usecases/delete_user"
	"github.com/light-bringer/procat-web/internal/app/identity/usecases/sign_in"
	"github.com/light-bringer/procat-web/internal/app/identity/usecases/update_user"
	"github.com/light-bringer/procat-web/internal/app/siteconfig/queries/get_config"
	"github.com/light-bringer/procat-web/internal/app/siteconfig/usecases/update_config"
	"github.com/light-bringer/procat-web/internal/session"
)

// Commands groups the write use cases served over HTTP.
type Commands struct {
	CreateProduct *create_product.Interactor
	UpdateProduct *update_product.Interactor
	DeleteProduct *delete_product.Interactor
	DeleteImage   *delete_image.Interactor
	BulkUpdate    *bulk_update.Interactor
	CreateUser    *create_user.Interactor
	UpdateUser    *update_user.Interactor
	DeleteUser    *delete_user.Interactor
	SignIn        *sign_in.Interactor
	UpdateConfig  *update_config.Interactor
}

// Queries groups the read side served over HTTP.
type Queries struct {
	ListProducts   *list_products.Query
	GetProduct     *get_product.Query
	Taxonomy       *list_taxonomy.Query
	ExportProducts *export_products.Query
	Dashboard      *dashboard.Query
	ListUsers      *list_users.Query
	SiteConfig     *get_config.Query
	AuditLog       *list_entries.Query
}

// Handler serves the storefront, the admin panel and the JSON API.
type Handler struct {
	commands Commands
	queries  Queries
	sessions *session.Manager
	views    *Views
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(commands Commands, queries Queries, sessions *session.Manager, views *Views, logger *zap.Logger) *Handler {
	return &Handler{
		commands: commands,
		queries:  queries,
		sessions: sessions,
		views:    views,
		logger:   logger.Named("http"),
	}
}

// html renders page with the common layout data filled in.
func (h *Handler) html(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Site"]; !ok {
		site, err := h.queries.SiteConfig.Map(c.Request.Context())
		if err != nil {
			h.logger.Warn("failed to load site config", zap.Error(err))
		}
		data["Site"] = site
	}
	data["Principal"] = principal(c)
	data["Role"] = string(role(c))
	data["Path"] = c.Request.URL.Path

	var buf bytes.Buffer
	if err := h.views.Render(&buf, page, data); err != nil {
		h.logger.Error("failed to render page", zap.String("page", page), zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(status, htmlContentType, buf.Bytes())
}

// fail answers err with its mapped status: JSON on API routes, a page elsewhere.
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	page := "error"
	if status == http.StatusNotFound {
		page = "not_found"
	}
	h.html(c, status, page, gin.H{"Title": http.StatusText(status), "Status": status, "Error": err.Error()})
}

// actor describes the signed-in user for audit entries.
func actor(c *gin.Context) audit.Actor {
	a := audit.Actor{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if p := principal(c); p != nil {
		a.UserID = p.UserID
		a.Email = p.Email
	}
	return a
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
