package m_product

// Field name constants for the products table.
// These provide type-safe field references and prevent typos.
const (
	TableName = "products"

	ProductID   = "product_id"
	Slug        = "slug"
	Name        = "name"
	Description = "description"
	Price       = "price"
	SKU         = "sku"
	Stock       = "stock"
	Categories  = "categories"
	Tags        = "tags"
	Status      = "status"
	CreatedBy   = "created_by"
	UpdatedBy   = "updated_by"
	CreatedAt   = "created_at"
	UpdatedAt   = "updated_at"

	// SlugIndex is the unique secondary index on slug.
	SlugIndex = "idx_products_slug"
)

// AllColumns lists every column in Data order.
var AllColumns = []string{
	ProductID,
	Slug,
	Name,
	Description,
	Price,
	SKU,
	Stock,
	Categories,
	Tags,
	Status,
	CreatedBy,
	UpdatedBy,
	CreatedAt,
	UpdatedAt,
}
