package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
)

// ProductRepository defines the interface for product persistence.
// Repositories return mutations, they don't apply them.
type ProductRepository interface {
	// InsertMut creates a mutation for inserting a new product
	InsertMut(product *domain.Product) *spanner.Mutation

	// UpdateMut creates a mutation for the dirty fields of a product, or nil
	UpdateMut(product *domain.Product) *spanner.Mutation

	// DeleteMut creates a mutation deleting a product row
	DeleteMut(productID string) *spanner.Mutation

	// GetByID retrieves a product by ID, reconstructing the domain aggregate
	GetByID(ctx context.Context, productID string) (*domain.Product, error)

	// GetByIDs retrieves every existing product among productIDs
	GetByIDs(ctx context.Context, productIDs []string) ([]*domain.Product, error)

	// SlugExists reports whether any product already uses slug
	SlugExists(ctx context.Context, slug string) (bool, error)
}
