package contracts

import (
	"context"
	"time"

	"github.com/light-bringer/procat-web/internal/pkg/pagination"
)

// Sort keys accepted by ListProducts.
const (
	SortNewest    = "new"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// StatusAll disables the status predicate (admin listings).
const StatusAll = "all"

// ImageDTO is a data transfer object for product images.
type ImageDTO struct {
	ImageID  string `json:"id"`
	URL      string `json:"url"`
	Alt      string `json:"alt"`
	Position int64  `json:"position"`
}

// ProductDTO is a data transfer object for product queries.
type ProductDTO struct {
	ProductID   string      `json:"id"`
	Slug        string      `json:"slug"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       int64       `json:"price_rupees"`
	SKU         string      `json:"sku"`
	Stock       int64       `json:"stock"`
	Categories  []string    `json:"categories"`
	Tags        []string    `json:"tags"`
	Status      string      `json:"status"`
	CreatedBy   string      `json:"created_by,omitempty"`
	UpdatedBy   string      `json:"updated_by,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Images      []*ImageDTO `json:"images"`
}

// ListFilter defines filtering options for listing products.
// Status "" means published, StatusAll means any status.
type ListFilter struct {
	Query    string
	Status   string
	Category string
	Tag      string
	Sort     string
	Window   pagination.Window
}

// ListResult contains one page of products and the filtered total.
type ListResult struct {
	Products   []*ProductDTO
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// LabelCount is a category or tag with the number of products carrying it.
type LabelCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Taxonomy lists categories and tags with counts, most used first.
type Taxonomy struct {
	Categories []LabelCount `json:"categories"`
	Tags       []LabelCount `json:"tags"`
}

// ReadModel defines the interface for product queries.
// Read models bypass the domain layer.
type ReadModel interface {
	GetProductByID(ctx context.Context, productID string) (*ProductDTO, error)
	GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error)

	// ListProducts returns one window of the filtered catalog plus its total
	ListProducts(ctx context.Context, filter *ListFilter) (*ListResult, error)

	// ListAll returns every product with images, newest first
	ListAll(ctx context.Context) ([]*ProductDTO, error)

	// Taxonomy aggregates labels over products in status ("" or StatusAll as in ListFilter)
	Taxonomy(ctx context.Context, status string) (*Taxonomy, error)

	// CountByStatus returns the number of products per status
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
