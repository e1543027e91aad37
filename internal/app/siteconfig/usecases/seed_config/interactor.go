package seed_config

import (
	"context"
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/light-bringer/procat-web/internal/app/siteconfig/contracts"
	"github.com/light-bringer/procat-web/internal/app/siteconfig/domain"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
)

// Interactor inserts default settings that are not stored yet.
type Interactor struct {
	repo      contracts.Repository
	committer committer.Applier
	logger    *zap.Logger
}

// NewInteractor creates a new seed config interactor.
func NewInteractor(repo contracts.Repository, committer committer.Applier, logger *zap.Logger) *Interactor {
	return &Interactor{
		repo:      repo,
		committer: committer,
		logger:    logger.Named("seed_config"),
	}
}

// Parse decodes a flat YAML mapping of setting keys to values.
func Parse(r io.Reader) (map[string]string, error) {
	values := map[string]string{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode site config: %w", err)
	}
	for key := range values {
		if _, ok := domain.Describe(key); !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownKey, key)
		}
	}
	return values, nil
}

// Execute inserts the keys of defaults that are missing and returns them.
// Existing values are left untouched.
func (i *Interactor) Execute(ctx context.Context, defaults map[string]string) ([]string, error) {
	entries, err := i.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	stored := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		stored[e.Key] = struct{}{}
	}

	var inserted []string
	for key := range defaults {
		if _, ok := stored[key]; !ok {
			inserted = append(inserted, key)
		}
	}
	if len(inserted) == 0 {
		return nil, nil
	}
	sort.Strings(inserted)

	plan := committer.NewPlan()
	for _, key := range inserted {
		description, _ := domain.Describe(key)
		plan.Add(i.repo.InsertMut(&domain.Entry{Key: key, Value: defaults[key], Description: description}))
	}
	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	i.logger.Info("seeded site config", zap.Strings("keys", inserted))
	return inserted, nil
}
