package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/procat-web/internal/app/siteconfig/contracts"
	"github.com/light-bringer/procat-web/internal/app/siteconfig/domain"
	"github.com/light-bringer/procat-web/internal/models/m_site_config"
	"github.com/light-bringer/procat-web/internal/pkg/query"
)

// ConfigRepo implements Repository for Spanner.
type ConfigRepo struct {
	client *spanner.Client
	model  *m_site_config.Model
}

// NewConfigRepo creates a new ConfigRepo.
func NewConfigRepo(client *spanner.Client) contracts.Repository {
	return &ConfigRepo{
		client: client,
		model:  m_site_config.NewModel(),
	}
}

// List returns every stored entry ordered by key.
func (r *ConfigRepo) List(ctx context.Context) ([]*domain.Entry, error) {
	stmt := query.From(m_site_config.TableName).
		Select(m_site_config.AllColumns...).
		OrderBy(m_site_config.Key, query.Asc).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	entries := make([]*domain.Entry, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate site config: %w", err)
		}
		var data m_site_config.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse site config: %w", err)
		}
		entries = append(entries, DataToDomain(&data))
	}
}

// InsertMut creates a mutation adding a key.
func (r *ConfigRepo) InsertMut(entry *domain.Entry) *spanner.Mutation {
	return r.model.InsertMut(&m_site_config.Data{
		Key:         entry.Key,
		Value:       entry.Value,
		Description: entry.Description,
	})
}

// UpdateValueMut creates a mutation changing the value of a key.
func (r *ConfigRepo) UpdateValueMut(key, value string) *spanner.Mutation {
	return r.model.UpdateValueMut(key, value)
}

// DataToDomain converts database Data to an Entry.
func DataToDomain(data *m_site_config.Data) *domain.Entry {
	return &domain.Entry{
		Key:         data.Key,
		Value:       data.Value,
		Description: data.Description,
		UpdatedAt:   data.UpdatedAt,
	}
}
