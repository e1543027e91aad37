package list_products

import (
	"context"
	"strings"

	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
	"github.com/light-bringer/procat-web/internal/pkg/pagination"
)

// Request carries raw listing parameters as they arrive in a query string.
type Request struct {
	Q        string
	Status   string
	Category string
	Tag      string
	Sort     string
	Page     string
	PageSize string
}

// Query handles the list products query use case.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new list products query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves one page of the filtered catalog.
// An empty Status lists published products, contracts.StatusAll lists every status.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.ListResult, error) {
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != "" && status != contracts.StatusAll {
		parsed, err := domain.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		status = string(parsed)
	}

	filter := &contracts.ListFilter{
		Query:    strings.TrimSpace(req.Q),
		Status:   status,
		Category: strings.TrimSpace(req.Category),
		Tag:      strings.TrimSpace(req.Tag),
		Sort:     NormalizeSort(req.Sort),
		Window:   pagination.Parse(req.Page, req.PageSize),
	}

	return q.readModel.ListProducts(ctx, filter)
}

// NormalizeSort maps unknown or missing sort keys to newest first.
func NormalizeSort(sort string) string {
	switch sort {
	case contracts.SortPriceAsc, contracts.SortPriceDesc:
		return sort
	default:
		return contracts.SortNewest
	}
}
