package list_taxonomy

import (
	"context"

	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
)

// Query lists categories and tags with product counts.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new list taxonomy query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{readModel: readModel}
}

// Storefront counts published products only.
func (q *Query) Storefront(ctx context.Context) (*contracts.Taxonomy, error) {
	return q.readModel.Taxonomy(ctx, "")
}

// Admin counts products in every status.
func (q *Query) Admin(ctx context.Context) (*contracts.Taxonomy, error) {
	return q.readModel.Taxonomy(ctx, contracts.StatusAll)
}
