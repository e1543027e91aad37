package m_product

import (
	"time"
)

// Data represents the database model for the products table.
type Data struct {
	ProductID   string    `spanner:"product_id"`
	Slug        string    `spanner:"slug"`
	Name        string    `spanner:"name"`
	Description string    `spanner:"description"`
	Price       int64     `spanner:"price"`
	SKU         string    `spanner:"sku"`
	Stock       int64     `spanner:"stock"`
	Categories  []string  `spanner:"categories"`
	Tags        []string  `spanner:"tags"`
	Status      string    `spanner:"status"`
	CreatedBy   string    `spanner:"created_by"`
	UpdatedBy   string    `spanner:"updated_by"`
	CreatedAt   time.Time `spanner:"created_at"`
	UpdatedAt   time.Time `spanner:"updated_at"`
}
