package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/procat-web/internal/app/siteconfig/domain"
)

// Repository persists site settings.
type Repository interface {
	// List returns every stored entry ordered by key
	List(ctx context.Context) ([]*domain.Entry, error)

	InsertMut(entry *domain.Entry) *spanner.Mutation
	UpdateValueMut(key, value string) *spanner.Mutation
}
