package get_product

import (
	"context"

	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
)

// Query handles the get product query use case.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new get product query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// BySlug returns a storefront product. Products that are not published
// are reported as not found.
func (q *Query) BySlug(ctx context.Context, slug string) (*contracts.ProductDTO, error) {
	product, err := q.readModel.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product.Status != string(domain.StatusPublished) {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// ByID returns a product in any status, for the admin panel.
func (q *Query) ByID(ctx context.Context, productID string) (*contracts.ProductDTO, error) {
	return q.readModel.GetProductByID(ctx, productID)
}
