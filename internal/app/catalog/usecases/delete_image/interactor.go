package delete_image

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
	"github.com/light-bringer/procat-web/internal/cache"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
)

// Request identifies one image of a product.
type Request struct {
	ProductID string
	ImageID   string
	Actor     audit.Actor
}

// Interactor removes a single product image.
type Interactor struct {
	repo      contracts.ProductRepository
	images    contracts.ImageRepository
	store     contracts.ImageStore
	committer committer.Applier
	audit     audit.Recorder
	pages     cache.Invalidator
	logger    *zap.Logger
}

// NewInteractor creates a new delete image interactor.
func NewInteractor(
	repo contracts.ProductRepository,
	images contracts.ImageRepository,
	store contracts.ImageStore,
	committer committer.Applier,
	audit audit.Recorder,
	pages cache.Invalidator,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		repo:      repo,
		images:    images,
		store:     store,
		committer: committer,
		audit:     audit,
		pages:     pages,
		logger:    logger.Named("delete_image"),
	}
}

// Execute deletes the image record, then its stored object. Remaining
// images keep their positions.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	product, err := i.repo.GetByID(ctx, req.ProductID)
	if err != nil {
		return err
	}
	images, err := i.images.ListByProduct(ctx, req.ProductID)
	if err != nil {
		return fmt.Errorf("failed to list images: %w", err)
	}

	var target *domain.Image
	for _, img := range images {
		if img.ID == req.ImageID {
			target = img
			break
		}
	}
	if target == nil {
		return domain.ErrImageNotFound
	}

	plan := committer.NewPlan()
	plan.Add(i.images.DeleteMut(product.ID(), target.ID))
	if err := i.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if target.StoragePath != "" {
		if err := i.store.Delete(ctx, target.StoragePath); err != nil {
			i.logger.Warn("failed to delete image object", zap.String("path", target.StoragePath), zap.Error(err))
		}
	}

	i.audit.Record(audit.Entry{
		Actor:        req.Actor,
		Action:       audit.ActionUpdate,
		ResourceType: audit.ResourceProduct,
		ResourceID:   product.ID(),
		ResourceName: product.Name(),
		OldValues: map[string]any{
			"image_id": target.ID,
			"url":      target.URL,
			"position": target.Position,
		},
	})

	i.pages.Invalidate(ctx, contracts.AffectedPaths(product.Slug())...)
	return nil
}
