package m_product_image

import "time"

// Data represents the database model for the product_images table.
type Data struct {
	ProductID   string    `spanner:"product_id"`
	ImageID     string    `spanner:"image_id"`
	URL         string    `spanner:"url"`
	StoragePath string    `spanner:"storage_path"`
	Alt         string    `spanner:"alt"`
	Position    int64     `spanner:"position"`
	CreatedAt   time.Time `spanner:"created_at"`
}
