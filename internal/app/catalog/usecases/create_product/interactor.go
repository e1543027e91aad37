package create_product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/upload_images"
	"github.com/light-bringer/procat-web/internal/cache"
	"github.com/light-bringer/procat-web/internal/pkg/clock"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
	"github.com/light-bringer/procat-web/internal/pkg/slug"
)

// maxSlugAttempts bounds the -2, -3, ... suffix search.
const maxSlugAttempts = 50

// Request contains the data needed to create a product.
type Request struct {
	Name        string
	Description string
	Price       int64
	SKU         string
	Stock       int64
	Categories  []string
	Tags        []string
	Status      string
	Files       []upload_images.File
	Actor       audit.Actor
}

// Result identifies the created product.
type Result struct {
	ProductID string
	Slug      string
	Images    int
}

// Interactor handles the create product use case.
type Interactor struct {
	repo      contracts.ProductRepository
	uploader  *upload_images.Interactor
	committer committer.Applier
	audit     audit.Recorder
	pages     cache.Invalidator
	clock     clock.Clock
	logger    *zap.Logger
}

// NewInteractor creates a new create product interactor.
func NewInteractor(
	repo contracts.ProductRepository,
	uploader *upload_images.Interactor,
	committer committer.Applier,
	audit audit.Recorder,
	pages cache.Invalidator,
	clock clock.Clock,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		repo:      repo,
		uploader:  uploader,
		committer: committer,
		audit:     audit,
		pages:     pages,
		clock:     clock,
		logger:    logger.Named("create_product"),
	}
}

// Execute creates the product, then uploads its images.
//
// The product is committed before any upload starts. An upload failure
// therefore returns a Result together with an error wrapping
// domain.ErrPartialUpload: the product exists and keeps the images that
// did upload.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Result, error) {
	// 1. Validate request
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if req.Price < 0 {
		return nil, domain.ErrInvalidPrice
	}
	if req.Stock < 0 {
		return nil, domain.ErrInvalidStock
	}

	// 2. Derive a free slug
	productSlug, err := i.freeSlug(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	// 3. Create domain aggregate
	product, err := domain.NewProduct(uuid.New().String(), productSlug, req.Name, req.Price, status, req.Actor.UserID, i.clock.Now())
	if err != nil {
		return nil, err
	}
	product.SetDescription(req.Description)
	product.SetSKU(req.SKU)
	if err := product.SetStock(req.Stock); err != nil {
		return nil, err
	}
	product.SetCategories(req.Categories)
	product.SetTags(req.Tags)

	// 4. Commit
	plan := committer.NewPlan()
	plan.Add(i.repo.InsertMut(product))
	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	i.audit.Record(audit.Entry{
		Actor:        req.Actor,
		Action:       audit.ActionCreate,
		ResourceType: audit.ResourceProduct,
		ResourceID:   product.ID(),
		ResourceName: product.Name(),
		NewValues:    product.Snapshot(),
	})
	i.logger.Info("product created",
		zap.String("product_id", product.ID()),
		zap.String("slug", product.Slug()),
	)

	result := &Result{ProductID: product.ID(), Slug: product.Slug()}

	// 5. Images
	var uploadErr error
	if len(req.Files) > 0 {
		uploaded, err := i.uploader.Execute(ctx, &upload_images.Request{
			ProductID:   product.ID(),
			ProductName: product.Name(),
			Files:       req.Files,
		})
		if uploaded != nil {
			result.Images = len(uploaded.Images)
		}
		uploadErr = err
	}

	i.pages.Invalidate(ctx, contracts.AffectedPaths(product.Slug())...)

	if uploadErr != nil {
		if errors.Is(uploadErr, domain.ErrPartialUpload) {
			return result, uploadErr
		}
		return result, fmt.Errorf("%w: %v", domain.ErrPartialUpload, uploadErr)
	}
	return result, nil
}

func (i *Interactor) freeSlug(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", domain.ErrEmptyName
	}
	base := slug.Make(name)
	if base == "" {
		return "", domain.ErrInvalidSlug
	}

	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := slug.WithSuffix(base, n)
		taken, err := i.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: %w", base, domain.ErrSlugExhausted)
}
