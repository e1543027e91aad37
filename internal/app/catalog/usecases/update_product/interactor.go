package update_product

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
	"github.com/light-bringer/procat-web/internal/app/catalog/usecases/upload_images"
	"github.com/light-bringer/procat-web/internal/cache"
	"github.com/light-bringer/procat-web/internal/pkg/clock"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
)

// Request contains the data needed to update a product.
// Nil fields are left unchanged.
type Request struct {
	ProductID   string
	Name        *string
	Description *string
	Price       *int64
	SKU         *string
	Stock       *int64
	Categories  []string
	Tags        []string
	Status      *string
	Files       []upload_images.File
	Actor       audit.Actor
}

// Result reports what the update did.
type Result struct {
	Slug    string
	Changed bool
	Images  int
}

// Interactor handles the update product use case.
// Concurrent edits are last-write-wins per column.
type Interactor struct {
	repo      contracts.ProductRepository
	uploader  *upload_images.Interactor
	committer committer.Applier
	audit     audit.Recorder
	pages     cache.Invalidator
	clock     clock.Clock
	logger    *zap.Logger
}

// NewInteractor creates a new update product interactor.
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
		logger:    logger.Named("update_product"),
	}
}

// Execute applies the changes, then uploads any new images after the
// existing ones. The slug never changes.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Result, error) {
	// 1. Load domain aggregate
	product, err := i.repo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	before := product.Snapshot()

	// 2. Apply changes
	if err := apply(product, req); err != nil {
		return nil, err
	}
	product.MarkUpdated(req.Actor.UserID, i.clock.Now())

	// 3. Commit
	result := &Result{Slug: product.Slug(), Changed: product.Changes().HasChanges()}
	if result.Changed {
		plan := committer.NewPlan()
		plan.Add(i.repo.UpdateMut(product))
		if err := i.committer.Apply(ctx, plan); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}

		i.audit.Record(audit.Entry{
			Actor:        req.Actor,
			Action:       audit.ActionUpdate,
			ResourceType: audit.ResourceProduct,
			ResourceID:   product.ID(),
			ResourceName: product.Name(),
			OldValues:    before,
			NewValues:    product.Snapshot(),
		})
		i.logger.Info("product updated",
			zap.String("product_id", product.ID()),
			zap.Strings("fields", product.Changes().DirtyFields()),
		)
	}

	// 4. Images
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

	if result.Changed || result.Images > 0 {
		i.pages.Invalidate(ctx, contracts.AffectedPaths(product.Slug())...)
	}

	if uploadErr != nil {
		if errors.Is(uploadErr, domain.ErrPartialUpload) {
			return result, uploadErr
		}
		return result, fmt.Errorf("%w: %v", domain.ErrPartialUpload, uploadErr)
	}
	return result, nil
}

func apply(product *domain.Product, req *Request) error {
	if req.Name != nil {
		if err := product.SetName(*req.Name); err != nil {
			return err
		}
	}
	if req.Description != nil {
		product.SetDescription(*req.Description)
	}
	if req.Price != nil {
		if err := product.SetPrice(*req.Price); err != nil {
			return err
		}
	}
	if req.SKU != nil {
		product.SetSKU(*req.SKU)
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return err
		}
	}
	if req.Categories != nil {
		product.SetCategories(req.Categories)
	}
	if req.Tags != nil {
		product.SetTags(req.Tags)
	}
	if req.Status != nil {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return err
		}
		if err := product.SetStatus(status); err != nil {
			return err
		}
	}
	return nil
}
