package get_config

import (
	"context"

	"github.com/light-bringer/procat-web/internal/app/siteconfig/contracts"
	"github.com/light-bringer/procat-web/internal/app/siteconfig/domain"
)

// Query reads site settings.
type Query struct {
	repo contracts.Repository
}

// NewQuery creates a new get config query.
func NewQuery(repo contracts.Repository) *Query {
	return &Query{repo: repo}
}

// All returns the stored entries ordered by key.
func (q *Query) All(ctx context.Context) ([]*domain.Entry, error) {
	return q.repo.List(ctx)
}

// Map returns the stored values keyed by setting key. Keys that were never
// stored map to "".
func (q *Query) Map(ctx context.Context) (map[string]string, error) {
	entries, err := q.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(entries))
	for _, d := range domain.Definitions() {
		values[d.Key] = ""
	}
	for _, e := range entries {
		values[e.Key] = e.Value
	}
	return values, nil
}

// Form returns one entry per known key in settings-form order, filling
// missing ones with their description and an empty value.
func (q *Query) Form(ctx context.Context) ([]*domain.Entry, error) {
	entries, err := q.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	stored := make(map[string]*domain.Entry, len(entries))
	for _, e := range entries {
		stored[e.Key] = e
	}
	defs := domain.Definitions()
	form := make([]*domain.Entry, 0, len(defs))
	for _, d := range defs {
		if e, ok := stored[d.Key]; ok {
			form = append(form, e)
			continue
		}
		form = append(form, &domain.Entry{Key: d.Key, Description: d.Description})
	}
	return form, nil
}
