package m_product_image

// Field name constants for the product_images table (interleaved in products).
const (
	TableName = "product_images"

	ProductID   = "product_id"
	ImageID     = "image_id"
	URL         = "url"
	StoragePath = "storage_path"
	Alt         = "alt"
	Position    = "position"
	CreatedAt   = "created_at"
)

// AllColumns lists every column in Data order.
var AllColumns = []string{ProductID, ImageID, URL, StoragePath, Alt, Position, CreatedAt}
