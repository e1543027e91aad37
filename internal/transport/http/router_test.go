package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/audit/audittest"
	"github.com/light-bringer/procat-web/internal/app/audit/queries/list_entries"
	auditrepo "github.com/light-bringer/procat-web/internal/app/audit/repo"
	"github.com/light-bringer/procat-web/internal/app/catalog/catalogtest"
	catalog "github.com/light-bringer/procat-web/internal/app/catalog/domain"
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
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/upload_images"
	identity "github.com/light-bringer/procat-web/internal/app/identity/domain"
	"github.com/light-bringer/procat-web/internal/app/identity/identitytest"
	"github.com/light-bringer/procat-web/internal/app/identity/queries/list_users"
	"github.com/light-bringer/procat-web/internal/app/identity/roles"
	"github.com/light-bringer/procat-web/internal/app/identity/usecases/create_user"
	"github.com/light-bringer/procat-web/internal/app/identity/usecases/delete_user"
	"github.com/light-bringer/procat-web/internal/app/identity/usecases/sign_in"
	"github.com/light-bringer/procat-web/internal/app/identity/usecases/update_user"
	siteconfig "github.com/light-bringer/procat-web/internal/app/siteconfig/domain"
	"github.com/light-bringer/procat-web/internal/app/siteconfig/queries/get_config"
	"github.com/light-bringer/procat-web/internal/app/siteconfig/siteconfigtest"
	"github.com/light-bringer/procat-web/internal/app/siteconfig/usecases/update_config"
	"github.com/light-bringer/procat-web/internal/cache"
	"github.com/light-bringer/procat-web/internal/pkg/clock"
	"github.com/light-bringer/procat-web/internal/session"
)

const (
	ownerEmail   = "owner@procat.test"
	adminEmail   = "admin@procat.test"
	managerEmail = "ops@procat.test"
	password     = "correct-horse"
)

var now = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type emptyAuditLog struct{}

func (emptyAuditLog) List(context.Context, auditrepo.ListFilter) (*auditrepo.ListResult, error) {
	return &auditrepo.ListResult{}, nil
}

type testApp struct {
	router   *gin.Engine
	catalog  *catalogtest.Store
	objects  *catalogtest.ImageStore
	users    *identitytest.Store
	site     *siteconfigtest.Store
	audit    *audittest.Recorder
	sessions *session.Manager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	clk := clock.NewMockClock(now)

	store := catalogtest.NewStore()
	objects := catalogtest.NewImageStore()
	users := identitytest.NewStore()
	site := siteconfigtest.NewStore(
		&siteconfig.Entry{Key: siteconfig.KeyCompanyName, Value: "Procat Prints"},
		&siteconfig.Entry{Key: siteconfig.KeyWhatsAppNumber, Value: "+91 80400 01234"},
	)
	rec := &audittest.Recorder{}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	pages := cache.NewRedisCache(client, time.Minute, logger, nil)

	hash, err := identity.HashPassword(password)
	require.NoError(t, err)
	seedUser := func(id, email string, r identity.Role) {
		u, err := identity.NewUser(id, email, "User "+id, r, now)
		require.NoError(t, err)
		u.SetPasswordHash(hash)
		users.Seed(u)
	}
	seedUser("u-admin", adminEmail, identity.RoleAdmin)
	seedUser("u-ops", managerEmail, identity.RoleManager)

	seedProduct := func(id, slug, name string, price int64, status catalog.ProductStatus, categories ...string) {
		p, err := catalog.NewProduct(id, slug, name, price, status, "u-admin", now)
		require.NoError(t, err)
		p.SetCategories(categories)
		store.Seed(p, &catalog.Image{ID: "img-" + id, ProductID: id, StoragePath: id + "/a.png", URL: "https://images.test/" + id + "/a.png"})
	}
	seedProduct("p-1", "business-cards", "Business Cards", 1500, catalog.StatusPublished, "Print")
	seedProduct("p-2", "secret-mug", "Secret Mug", 300, catalog.StatusDraft, "Gifts")

	resolver := roles.NewResolver(users, true, ownerEmail, logger)
	uploader := upload_images.NewInteractor(store.Images(), objects, store.Applier, clk, logger, nil)
	readModel := store.ReadModel()

	commands := Commands{
		CreateProduct: create_product.NewInteractor(store.Products(), uploader, store.Applier, rec, pages, clk, logger),
		UpdateProduct: update_product.NewInteractor(store.Products(), uploader, store.Applier, rec, pages, clk, logger),
		DeleteProduct: delete_product.NewInteractor(store.Products(), store.Images(), objects, store.Applier, rec, pages, logger),
		DeleteImage:   delete_image.NewInteractor(store.Products(), store.Images(), objects, store.Applier, rec, pages, logger),
		BulkUpdate:    bulk_update.NewInteractor(store.Products(), store.Images(), objects, store.Applier, rec, pages, clk, logger),
		CreateUser:    create_user.NewInteractor(users, users.Applier, rec, clk, logger),
		UpdateUser:    update_user.NewInteractor(users, users.Applier, rec, clk, logger),
		DeleteUser:    delete_user.NewInteractor(users, users.Applier, rec, logger),
		SignIn:        sign_in.NewInteractor(users, resolver, "", users.Applier, rec, clk, logger),
		UpdateConfig:  update_config.NewInteractor(site, site.Applier, rec, pages, logger),
	}
	queries := Queries{
		ListProducts:   list_products.NewQuery(readModel),
		GetProduct:     get_product.NewQuery(readModel),
		Taxonomy:       list_taxonomy.NewQuery(readModel),
		ExportProducts: export_products.NewQuery(readModel),
		Dashboard:      dashboard.NewQuery(readModel, emptyAuditLog{}),
		ListUsers:      list_users.NewQuery(users),
		SiteConfig:     get_config.NewQuery(site),
		AuditLog:       list_entries.NewQuery(emptyAuditLog{}),
	}

	sessions := session.NewManager("test-secret", time.Hour, false, clk)
	views, err := NewViews()
	require.NoError(t, err)

	h := NewHandler(commands, queries, sessions, views, logger)
	router := NewRouter(h, RouterOptions{
		Resolver:     resolver,
		Pages:        pages,
		LoginLimiter: NewLocalLimiter(3),
		Logger:       logger,
	})

	return &testApp{
		router:   router,
		catalog:  store,
		objects:  objects,
		users:    users,
		site:     site,
		audit:    rec,
		sessions: sessions,
	}
}

func (a *testApp) cookie(t *testing.T, userID, email string) *http.Cookie {
	t.Helper()
	token, expires, err := a.sessions.Issue(session.Principal{UserID: userID, Email: email})
	require.NoError(t, err)
	return a.sessions.Cookie(token, expires)
}

func (a *testApp) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) post(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestStorefront(t *testing.T) {
	t.Run("home lists published products only", func(t *testing.T) {
		app := newTestApp(t)

		w := app.get("/", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Business Cards")
		assert.Contains(t, w.Body.String(), "₹1,500")
		assert.NotContains(t, w.Body.String(), "Secret Mug")
		assert.Contains(t, w.Body.String(), "Procat Prints")
	})

	t.Run("product page", func(t *testing.T) {
		app := newTestApp(t)

		w := app.get("/product/business-cards", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "https://wa.me/918040001234?text=")
		assert.Contains(t, w.Body.String(), "https://images.test/p-1/a.png")
	})

	t.Run("drafts and unknown slugs are not found", func(t *testing.T) {
		app := newTestApp(t)

		assert.Equal(t, http.StatusNotFound, app.get("/product/secret-mug", nil).Code)
		assert.Equal(t, http.StatusNotFound, app.get("/product/nope", nil).Code)
		assert.Equal(t, http.StatusNotFound, app.get("/no/such/page", nil).Code)
	})

	t.Run("json api", func(t *testing.T) {
		app := newTestApp(t)

		w := app.get("/api/v1/products?q=CARDS", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Products []struct {
				Slug string `json:"slug"`
			} `json:"products"`
			Total int64 `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.EqualValues(t, 1, body.Total)
		require.Len(t, body.Products, 1)
		assert.Equal(t, "business-cards", body.Products[0].Slug)

		assert.Equal(t, http.StatusNotFound, app.get("/api/v1/products/secret-mug", nil).Code)
	})

	t.Run("page size accepts both spellings", func(t *testing.T) {
		app := newTestApp(t)

		for _, query := range []string{"page_size=5", "pageSize=5", "page_size=5&pageSize=30"} {
			w := app.get("/api/v1/products?"+query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			var body struct {
				PageSize int `json:"page_size"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, 5, body.PageSize, query)
		}
	})

	t.Run("contact page shows hours", func(t *testing.T) {
		app := newTestApp(t)

		w := app.get("/contact", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "saturday")
	})
}

func TestPageCache(t *testing.T) {
	app := newTestApp(t)
	admin := app.cookie(t, "u-admin", adminEmail)

	assert.Equal(t, "MISS", app.get("/", nil).Header().Get("X-Cache"))
	assert.Equal(t, "HIT", app.get("/", nil).Header().Get("X-Cache"))

	w := app.post("/admin/products", url.Values{"name": {"Name Cards"}, "price": {"500"}}, admin)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = app.get("/", nil)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Contains(t, w.Body.String(), "Name Cards")
}

func TestPageCache_SettingsRefreshEveryPage(t *testing.T) {
	app := newTestApp(t)
	admin := app.cookie(t, "u-admin", adminEmail)

	w := app.get("/product/business-cards", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "918040001234")
	app.get("/categories", nil)
	assert.Equal(t, "HIT", app.get("/product/business-cards", nil).Header().Get("X-Cache"))
	assert.Equal(t, "HIT", app.get("/categories", nil).Header().Get("X-Cache"))

	w = app.post("/admin/settings", url.Values{
		siteconfig.KeyCompanyName:    {"New Name Ltd"},
		siteconfig.KeyWhatsAppNumber: {"+91 99999 00000"},
	}, admin)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = app.get("/product/business-cards", nil)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Contains(t, w.Body.String(), "919999900000")
	assert.Contains(t, w.Body.String(), "New Name Ltd")
	assert.NotContains(t, w.Body.String(), "918040001234")

	w = app.get("/categories", nil)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Contains(t, w.Body.String(), "New Name Ltd")
}

func TestAuthorization(t *testing.T) {
	app := newTestApp(t)
	admin := app.cookie(t, "u-admin", adminEmail)
	manager := app.cookie(t, "u-ops", managerEmail)
	stranger := app.cookie(t, "x", "stranger@procat.test")
	owner := app.cookie(t, "fallback-admin", ownerEmail)

	tests := []struct {
		name     string
		path     string
		cookie   *http.Cookie
		status   int
		location string
	}{
		{"anonymous to login", "/admin", nil, http.StatusSeeOther, "/login"},
		{"no role to storefront", "/admin", stranger, http.StatusSeeOther, "/"},
		{"manager sees panel", "/admin", manager, http.StatusOK, ""},
		{"manager sees products", "/admin/products", manager, http.StatusOK, ""},
		{"manager kept out of users", "/admin/users", manager, http.StatusSeeOther, "/admin"},
		{"manager kept out of settings", "/admin/settings", manager, http.StatusSeeOther, "/admin"},
		{"admin sees users", "/admin/users", admin, http.StatusOK, ""},
		{"admin sees audit", "/admin/audit", admin, http.StatusOK, ""},
		{"fallback admin sees settings", "/admin/settings", owner, http.StatusOK, ""},
		{"api anonymous", "/api/v1/audit", nil, http.StatusUnauthorized, ""},
		{"api manager", "/api/v1/audit", manager, http.StatusForbidden, ""},
		{"api admin", "/api/v1/audit", admin, http.StatusOK, ""},
		{"signed in skips login", "/login", manager, http.StatusSeeOther, "/admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.get(tt.path, tt.cookie)
			assert.Equal(t, tt.status, w.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, w.Header().Get("Location"))
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials set the session cookie", func(t *testing.T) {
		app := newTestApp(t)

		w := app.post("/login", url.Values{"email": {managerEmail}, "password": {password}}, nil)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin", w.Header().Get("Location"))

		var sessionCookie *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == session.CookieName {
				sessionCookie = c
			}
		}
		require.NotNil(t, sessionCookie)
		assert.True(t, sessionCookie.HttpOnly)

		p, err := app.sessions.Parse(sessionCookie.Value)
		require.NoError(t, err)
		assert.Equal(t, "u-ops", p.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		app := newTestApp(t)

		w := app.post("/login", url.Values{"email": {managerEmail}, "password": {"nope-nope"}}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), identity.ErrInvalidCredentials.Error())
	})

	t.Run("rate limited", func(t *testing.T) {
		app := newTestApp(t)

		form := url.Values{"email": {managerEmail}, "password": {"nope-nope"}}
		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusUnauthorized, app.post("/login", form, nil).Code)
		}
		assert.Equal(t, http.StatusTooManyRequests, app.post("/login", form, nil).Code)
	})

	t.Run("sign out clears the cookie", func(t *testing.T) {
		app := newTestApp(t)

		w := app.post("/auth/signout", nil, app.cookie(t, "u-ops", managerEmail))
		require.Equal(t, http.StatusSeeOther, w.Code)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})
}

func TestAdminProducts(t *testing.T) {
	t.Run("create validates input", func(t *testing.T) {
		app := newTestApp(t)
		manager := app.cookie(t, "u-ops", managerEmail)

		w := app.post("/admin/products", url.Values{"name": {"Flyers"}, "price": {"12.50"}}, manager)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), catalog.ErrInvalidPrice.Error())
		assert.Equal(t, 2, app.catalog.ProductCount())
	})

	t.Run("update keeps the slug", func(t *testing.T) {
		app := newTestApp(t)
		manager := app.cookie(t, "u-ops", managerEmail)

		w := app.post("/admin/products/p-1", url.Values{
			"name":       {"Premium Business Cards"},
			"price":      {"1800"},
			"status":     {"published"},
			"categories": {"Print, Office"},
		}, manager)
		require.Equal(t, http.StatusSeeOther, w.Code)

		p := app.catalog.Product("p-1")
		assert.Equal(t, "Premium Business Cards", p.Name)
		assert.Equal(t, "business-cards", p.Slug)
		assert.EqualValues(t, 1800, p.Price)
		assert.Equal(t, []string{"Print", "Office"}, p.Categories)
	})

	t.Run("bulk delete", func(t *testing.T) {
		app := newTestApp(t)
		manager := app.cookie(t, "u-ops", managerEmail)

		w := app.post("/admin/products/bulk", url.Values{"action": {"delete"}, "ids": {"p-1", "p-2"}}, manager)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Zero(t, app.catalog.ProductCount())
		assert.Zero(t, app.catalog.TotalImageCount())
	})

	t.Run("bulk without selection", func(t *testing.T) {
		app := newTestApp(t)
		manager := app.cookie(t, "u-ops", managerEmail)

		w := app.post("/admin/products/bulk", url.Values{"action": {"publish"}}, manager)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "error=")
	})

	t.Run("delete image", func(t *testing.T) {
		app := newTestApp(t)
		manager := app.cookie(t, "u-ops", managerEmail)

		w := app.post("/admin/products/p-1/images/img-p-1/delete", nil, manager)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Zero(t, app.catalog.ImageCount("p-1"))
		assert.Equal(t, []string{"p-1/a.png"}, app.objects.Deleted())
	})

	t.Run("export csv", func(t *testing.T) {
		app := newTestApp(t)
		manager := app.cookie(t, "u-ops", managerEmail)

		w := app.get("/admin/products/export?format=csv", manager)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(w.Body.String(), "id,slug,name"))

		assert.Equal(t, http.StatusBadRequest, app.get("/admin/products/export?format=xml", manager).Code)
	})
}

func TestAdminUsersAndSettings(t *testing.T) {
	t.Run("create user", func(t *testing.T) {
		app := newTestApp(t)
		admin := app.cookie(t, "u-admin", adminEmail)

		w := app.post("/admin/users", url.Values{
			"email": {"new@procat.test"}, "name": {"New"}, "role": {"manager"}, "password": {"long-enough"},
		}, admin)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, 3, app.users.Count())
	})

	t.Run("duplicate email re-renders the form", func(t *testing.T) {
		app := newTestApp(t)
		admin := app.cookie(t, "u-admin", adminEmail)

		w := app.post("/admin/users", url.Values{"email": {managerEmail}, "name": {"Dup"}, "role": {"manager"}}, admin)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 2, app.users.Count())
	})

	t.Run("admin cannot delete themself", func(t *testing.T) {
		app := newTestApp(t)
		admin := app.cookie(t, "u-admin", adminEmail)

		w := app.post("/admin/users/u-admin/delete", nil, admin)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "error=")
		assert.NotNil(t, app.users.User("u-admin"))
	})

	t.Run("save settings", func(t *testing.T) {
		app := newTestApp(t)
		admin := app.cookie(t, "u-admin", adminEmail)

		w := app.post("/admin/settings", url.Values{
			siteconfig.KeyCompanyName:  {"Procat Print House"},
			siteconfig.KeyCompanyPhone: {"+91 1"},
			"not_a_setting":            {"ignored"},
		}, admin)
		require.Equal(t, http.StatusSeeOther, w.Code)

		v, _ := app.site.Value(siteconfig.KeyCompanyName)
		assert.Equal(t, "Procat Print House", v)
		v, _ = app.site.Value(siteconfig.KeyCompanyPhone)
		assert.Equal(t, "+91 1", v)
		assert.NotEmpty(t, app.audit.Entries())
	})
}
