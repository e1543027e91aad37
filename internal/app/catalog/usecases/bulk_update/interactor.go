package bulk_update

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
	"github.com/light-bringer/procat-web/internal/cache"
	"github.com/light-bringer/procat-web/internal/pkg/clock"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
)

// Request selects products and the action applied to all of them.
type Request struct {
	Action     string
	ProductIDs []string
	Actor      audit.Actor
}

// Result counts the products the action changed.
type Result struct {
	Affected int
}

// Interactor applies one action to many products in a single commit.
type Interactor struct {
	repo      contracts.ProductRepository
	images    contracts.ImageRepository
	store     contracts.ImageStore
	committer committer.Applier
	audit     audit.Recorder
	pages     cache.Invalidator
	clock     clock.Clock
	logger    *zap.Logger
}

// NewInteractor creates a new bulk update interactor.
func NewInteractor(
	repo contracts.ProductRepository,
	images contracts.ImageRepository,
	store contracts.ImageStore,
	committer committer.Applier,
	audit audit.Recorder,
	pages cache.Invalidator,
	clock clock.Clock,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		repo:      repo,
		images:    images,
		store:     store,
		committer: committer,
		audit:     audit,
		pages:     pages,
		clock:     clock,
		logger:    logger.Named("bulk_update"),
	}
}

// Execute applies req.Action. Unknown ids are ignored.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Result, error) {
	action, err := domain.ParseBulkAction(req.Action)
	if err != nil {
		return nil, err
	}
	ids := unique(req.ProductIDs)
	if len(ids) == 0 {
		return nil, domain.ErrNoProductsSelected
	}

	products, err := i.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.ErrNoProductsSelected
	}

	if action == domain.BulkDelete {
		return i.delete(ctx, products, req.Actor)
	}
	return i.setStatus(ctx, products, action, req.Actor)
}

func (i *Interactor) setStatus(ctx context.Context, products []*domain.Product, action domain.BulkAction, actor audit.Actor) (*Result, error) {
	target, _ := action.TargetStatus()
	now := i.clock.Now()

	plan := committer.NewPlan()
	var changed []*domain.Product
	before := make(map[string]string, len(products))
	for _, p := range products {
		before[p.ID()] = string(p.Status())
		if err := p.SetStatus(target); err != nil {
			return nil, err
		}
		p.MarkUpdated(actor.UserID, now)
		if mut := i.repo.UpdateMut(p); mut != nil {
			plan.Add(mut)
			changed = append(changed, p)
		}
	}

	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slugs := make([]string, 0, len(changed))
	for _, p := range changed {
		slugs = append(slugs, p.Slug())
		i.audit.Record(audit.Entry{
			Actor:        actor,
			Action:       audit.ActionUpdate,
			ResourceType: audit.ResourceProduct,
			ResourceID:   p.ID(),
			ResourceName: p.Name(),
			OldValues:    map[string]any{"status": before[p.ID()]},
			NewValues:    map[string]any{"status": string(target)},
		})
	}
	if len(changed) > 0 {
		i.pages.Invalidate(ctx, contracts.AffectedPaths(slugs...)...)
	}

	i.logger.Info("bulk status change",
		zap.String("status", string(target)),
		zap.Int("selected", len(products)),
		zap.Int("changed", len(changed)),
	)
	return &Result{Affected: len(changed)}, nil
}

func (i *Interactor) delete(ctx context.Context, products []*domain.Product, actor audit.Actor) (*Result, error) {
	plan := committer.NewPlan()
	images := make(map[string][]*domain.Image, len(products))
	for _, p := range products {
		imgs, err := i.images.ListByProduct(ctx, p.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to list images: %w", err)
		}
		images[p.ID()] = imgs
		plan.Add(i.images.DeleteAllMut(p.ID()))
		plan.Add(i.repo.DeleteMut(p.ID()))
	}

	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slugs := make([]string, 0, len(products))
	for _, p := range products {
		for _, img := range images[p.ID()] {
			if img.StoragePath == "" {
				continue
			}
			if err := i.store.Delete(ctx, img.StoragePath); err != nil {
				i.logger.Warn("failed to delete image object", zap.String("path", img.StoragePath), zap.Error(err))
			}
		}

		old := p.Snapshot()
		old["images"] = len(images[p.ID()])
		i.audit.Record(audit.Entry{
			Actor:        actor,
			Action:       audit.ActionDelete,
			ResourceType: audit.ResourceProduct,
			ResourceID:   p.ID(),
			ResourceName: p.Name(),
			OldValues:    old,
		})
		slugs = append(slugs, p.Slug())
	}
	i.pages.Invalidate(ctx, contracts.AffectedPaths(slugs...)...)

	i.logger.Info("bulk delete", zap.Int("deleted", len(products)))
	return &Result{Affected: len(products)}, nil
}

func unique(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
