package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
)

// ImageRepository defines persistence for product image records.
type ImageRepository interface {
	InsertMut(image *domain.Image) *spanner.Mutation
	DeleteMut(productID, imageID string) *spanner.Mutation

	// DeleteAllMut deletes every image row of a product
	DeleteAllMut(productID string) *spanner.Mutation

	// ListByProduct returns a product's images ordered by position
	ListByProduct(ctx context.Context, productID string) ([]*domain.Image, error)
}
