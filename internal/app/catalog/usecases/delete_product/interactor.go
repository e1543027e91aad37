package delete_product

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-web/internal/cache"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
)

// Request identifies the product to delete.
type Request struct {
	ProductID string
	Actor     audit.Actor
}

// Interactor handles the delete product use case.
type Interactor struct {
	repo      contracts.ProductRepository
	images    contracts.ImageRepository
	store     contracts.ImageStore
	committer committer.Applier
	audit     audit.Recorder
	pages     cache.Invalidator
	logger    *zap.Logger
}

// NewInteractor creates a new delete product interactor.
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
		logger:    logger.Named("delete_product"),
	}
}

// Execute removes the product and its image records in one commit, image
// rows first. Stored objects are removed afterwards on a best-effort basis.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	product, err := i.repo.GetByID(ctx, req.ProductID)
	if err != nil {
		return err
	}
	images, err := i.images.ListByProduct(ctx, req.ProductID)
	if err != nil {
		return fmt.Errorf("failed to list images: %w", err)
	}

	plan := committer.NewPlan()
	plan.Add(i.images.DeleteAllMut(product.ID()))
	plan.Add(i.repo.DeleteMut(product.ID()))
	if err := i.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, img := range images {
		if img.StoragePath == "" {
			continue
		}
		if err := i.store.Delete(ctx, img.StoragePath); err != nil {
			i.logger.Warn("failed to delete image object",
				zap.String("product_id", product.ID()),
				zap.String("path", img.StoragePath),
				zap.Error(err),
			)
		}
	}

	old := product.Snapshot()
	old["images"] = len(images)
	i.audit.Record(audit.Entry{
		Actor:        req.Actor,
		Action:       audit.ActionDelete,
		ResourceType: audit.ResourceProduct,
		ResourceID:   product.ID(),
		ResourceName: product.Name(),
		OldValues:    old,
	})
	i.logger.Info("product deleted",
		zap.String("product_id", product.ID()),
		zap.Int("images", len(images)),
	)

	i.pages.Invalidate(ctx, contracts.AffectedPaths(product.Slug())...)
	return nil
}
