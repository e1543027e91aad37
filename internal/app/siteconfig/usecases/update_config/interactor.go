package update_config

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/app/siteconfig/contracts"
	"github.com/light-bringer/procat-web/internal/app/siteconfig/domain"
	"github.com/light-bringer/procat-web/internal/cache"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
)

// Request carries submitted settings keyed by setting key.
type Request struct {
	Values map[string]string
	Actor  audit.Actor
}

// Interactor handles the update site config use case.
type Interactor struct {
	repo      contracts.Repository
	committer committer.Applier
	audit     audit.Recorder
	pages     cache.Invalidator
	logger    *zap.Logger
}

// NewInteractor creates a new update config interactor.
func NewInteractor(
	repo contracts.Repository,
	committer committer.Applier,
	audit audit.Recorder,
	pages cache.Invalidator,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		repo:      repo,
		committer: committer,
		audit:     audit,
		pages:     pages,
		logger:    logger.Named("update_config"),
	}
}

// Execute writes every changed value in one commit and returns the changed keys.
// Unknown keys reject the whole request.
func (i *Interactor) Execute(ctx context.Context, req *Request) ([]string, error) {
	if len(req.Values) == 0 {
		return nil, domain.ErrNoValues
	}
	for key := range req.Values {
		if _, ok := domain.Describe(key); !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownKey, key)
		}
	}

	entries, err := i.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	current := make(map[string]string, len(entries))
	for _, e := range entries {
		current[e.Key] = e.Value
	}

	keys := make([]string, 0, len(req.Values))
	for key := range req.Values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	plan := committer.NewPlan()
	oldValues := map[string]any{}
	newValues := map[string]any{}
	var changed []string
	for _, key := range keys {
		value := strings.TrimSpace(req.Values[key])
		old, exists := current[key]
		if exists && old == value {
			continue
		}
		if exists {
			plan.Add(i.repo.UpdateValueMut(key, value))
			oldValues[key] = old
		} else {
			description, _ := domain.Describe(key)
			plan.Add(i.repo.InsertMut(&domain.Entry{Key: key, Value: value, Description: description}))
		}
		newValues[key] = value
		changed = append(changed, key)
	}
	if len(changed) == 0 {
		return nil, nil
	}

	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	i.audit.Record(audit.Entry{
		Actor:        req.Actor,
		Action:       audit.ActionUpdate,
		ResourceType: audit.ResourceSiteConfig,
		ResourceID:   "site_config",
		ResourceName: strings.Join(changed, ","),
		OldValues:    oldValues,
		NewValues:    newValues,
	})
	i.logger.Info("site config updated", zap.Strings("keys", changed))

	// The layout shows company details on every page.
	i.pages.InvalidateAll(ctx)
	return changed, nil
}
