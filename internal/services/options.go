package services

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/app/audit/queries/list_entries"
	auditrepo "github.com/light-bringer/procat-web/internal/app/audit/repo"
	"github.com/light-bringer/procat-web/internal/app/catalog/queries/dashboard"
	"github.com/light-bringer/procat-web/internal/app/catalog/queries/export_products"
	"github.com/light-bringer/procat-web/internal/app/catalog/queries/get_product"
	"github.com/light-bringer/procat-web/internal/app/catalog/queries/list_products"
	"github.com/light-bringer/procat-web/internal/app/catalog/queries/list_taxonomy"
	catalogrepo "github.com/light-bringer/procat-web/internal/app/catalog/repo"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/bulk_update"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/create_product"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/delete_image"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/delete_product"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/update_product"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/upload_images"
	"github.com/light-bringer/procat-web/internal/app/identity/queries/list_users"
	identityrepo "github.com/light-bringer/procat-web/internal/app/identity/repo"
	"github.com/light-bringer/procat-web/internal/app/identity/roles"
	"github.com/light-bringer/procat-web/internal/app/identity/usecases/create_user"
	"github.com/light-bringer/procat-web/internal/app/identity/usecases/delete_user"
	"github.com/light-bringer/procat-web/internal/app/identity/usecases/sign_in"
	"github.com/light-bringer/procat-web/internal/app/identity/usecases/update_user"
	"github.com/light-bringer/procat-web/internal/app/siteconfig/queries/get_config"
	siteconfigrepo "github.com/light-bringer/procat-web/internal/app/siteconfig/repo"
	"github.com/light-bringer/procat-web/internal/app/siteconfig/usecases/seed_config"
	"github.com/light-bringer/procat-web/internal/app/siteconfig/usecases/update_config"
	"github.com/light-bringer/procat-web/internal/cache"
	"github.com/light-bringer/procat-web/internal/config"
	"github.com/light-bringer/procat-web/internal/metrics"
	"github.com/light-bringer/procat-web/internal/pkg/clock"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
	"github.com/light-bringer/procat-web/internal/session"
	"github.com/light-bringer/procat-web/internal/storage/gcs"
	transport "github.com/light-bringer/procat-web/internal/transport/http"
)

const (
	redisPingTimeout = 3 * time.Second
	loginWindow      = time.Minute
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	StorageClient *storage.Client
	RedisClient   *redis.Client

	Audit    *audit.AsyncRecorder
	Metrics  *metrics.Metrics
	Commands transport.Commands
	Queries  transport.Queries

	SeedConfig *seed_config.Interactor
	Users      *identityrepo.UserRepo
	Resolver   *roles.Resolver
	Pages      cache.PageCache
	Sessions   *session.Manager

	logger *zap.Logger
}

// NewServiceOptions creates and wires up all application dependencies.
// Redis is optional: without it pages are not cached and the login limiter
// is per process.
func NewServiceOptions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ServiceOptions, error) {
	// 1. Initialize backend clients
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}
	storageClient, err := gcs.NewClient(ctx, cfg.StorageEmulatorHost)
	if err != nil {
		spannerClient.Close()
		return nil, err
	}
	redisClient := connectRedis(ctx, cfg.RedisAddr, logger)

	// 2. Create infrastructure components
	clk := clock.NewRealClock()
	comm := committer.NewCommitter(spannerClient)
	m := metrics.New()
	auditRepo := auditrepo.NewAuditRepo(spannerClient)
	recorder := audit.NewAsyncRecorder(auditRepo, logger, m.AuditEntries, 0)

	var pages cache.PageCache = cache.Nop{}
	if redisClient != nil {
		pages = cache.NewRedisCache(redisClient, cfg.PageCacheTTL, logger, m.PageCacheResults)
	}

	// 3. Create repositories
	productRepo := catalogrepo.NewProductRepo(spannerClient)
	imageRepo := catalogrepo.NewImageRepo(spannerClient)
	readModel := catalogrepo.NewReadModel(spannerClient)
	userRepo := identityrepo.NewUserRepo(spannerClient)
	configRepo := siteconfigrepo.NewConfigRepo(spannerClient)
	images := gcs.NewImageStore(storageClient, cfg.ImageBucket, cfg.StoragePublicBaseURL)

	// 4. Decide once whether user records exist
	provisioned, err := roles.DetectSchema(ctx, cfg.MultiUserSchema, userRepo)
	if err != nil {
		logger.Warn("user schema probe failed, using the admin email fallback only", zap.Error(err))
	}
	logger.Info("role resolution", zap.Bool("users_table", provisioned))
	resolver := roles.NewResolver(userRepo, provisioned, cfg.AdminEmail, logger)

	// 5. Create command use cases (write operations)
	uploader := upload_images.NewInteractor(imageRepo, images, comm, clk, logger, m.ImageUploads)
	commands := transport.Commands{
		CreateProduct: create_product.NewInteractor(productRepo, uploader, comm, recorder, pages, clk, logger),
		UpdateProduct: update_product.NewInteractor(productRepo, uploader, comm, recorder, pages, clk, logger),
		DeleteProduct: delete_product.NewInteractor(productRepo, imageRepo, images, comm, recorder, pages, logger),
		DeleteImage:   delete_image.NewInteractor(productRepo, imageRepo, images, comm, recorder, pages, logger),
		BulkUpdate:    bulk_update.NewInteractor(productRepo, imageRepo, images, comm, recorder, pages, clk, logger),
		CreateUser:    create_user.NewInteractor(userRepo, comm, recorder, clk, logger),
		UpdateUser:    update_user.NewInteractor(userRepo, comm, recorder, clk, logger),
		DeleteUser:    delete_user.NewInteractor(userRepo, comm, recorder, logger),
		SignIn:        sign_in.NewInteractor(userRepo, resolver, cfg.AdminPasswordHash, comm, recorder, clk, logger),
		UpdateConfig:  update_config.NewInteractor(configRepo, comm, recorder, pages, logger),
	}

	// 6. Create query use cases (read operations)
	queries := transport.Queries{
		ListProducts:   list_products.NewQuery(readModel),
		GetProduct:     get_product.NewQuery(readModel),
		Taxonomy:       list_taxonomy.NewQuery(readModel),
		ExportProducts: export_products.NewQuery(readModel),
		Dashboard:      dashboard.NewQuery(readModel, auditRepo),
		ListUsers:      list_users.NewQuery(userRepo),
		SiteConfig:     get_config.NewQuery(configRepo),
		AuditLog:       list_entries.NewQuery(auditRepo),
	}

	return &ServiceOptions{
		SpannerClient: spannerClient,
		StorageClient: storageClient,
		RedisClient:   redisClient,
		Audit:         recorder,
		Metrics:       m,
		Commands:      commands,
		Queries:       queries,
		SeedConfig:    seed_config.NewInteractor(configRepo, comm, logger),
		Users:         userRepo,
		Resolver:      resolver,
		Pages:         pages,
		Sessions:      session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure, clk),
		logger:        logger,
	}, nil
}

// Router builds the HTTP handler of the web server.
func (s *ServiceOptions) Router(cfg *config.Config) (*gin.Engine, error) {
	views, err := transport.NewViews()
	if err != nil {
		return nil, err
	}

	var limiter transport.Limiter
	switch {
	case cfg.LoginRateLimit <= 0:
	case s.RedisClient != nil:
		limiter = transport.NewRedisLimiter(s.RedisClient, cfg.LoginRateLimit, loginWindow, s.logger)
	default:
		limiter = transport.NewLocalLimiter(cfg.LoginRateLimit)
	}

	h := transport.NewHandler(s.Commands, s.Queries, s.Sessions, views, s.logger)
	return transport.NewRouter(h, transport.RouterOptions{
		Resolver:     s.Resolver,
		Pages:        s.Pages,
		LoginLimiter: limiter,
		Metrics:      s.Metrics,
		Logger:       s.logger,
	}), nil
}

// Close drains the audit recorder, then closes all clients.
func (s *ServiceOptions) Close(ctx context.Context) {
	if s.Audit != nil {
		if err := s.Audit.Close(ctx); err != nil {
			s.logger.Warn("audit entries not flushed", zap.Error(err))
		}
	}
	if s.RedisClient != nil {
		_ = s.RedisClient.Close()
	}
	if s.StorageClient != nil {
		_ = s.StorageClient.Close()
	}
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}

// connectRedis returns nil when addr is empty or the server does not answer.
func connectRedis(ctx context.Context, addr string, logger *zap.Logger) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, page cache disabled", zap.String("addr", addr), zap.Error(err))
		_ = client.Close()
		return nil
	}
	logger.Info("redis connected", zap.String("addr", addr))
	return client
}
