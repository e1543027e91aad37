package m_product_image

import "cloud.google.com/go/spanner"

// Model provides a facade for type-safe operations on the product_images table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an image record.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		AllColumns,
		[]interface{}{
			data.ProductID,
			data.ImageID,
			data.URL,
			data.StoragePath,
			data.Alt,
			data.Position,
			spanner.CommitTimestamp,
		},
	)
}

// DeleteMut deletes a single image record.
func (m *Model) DeleteMut(productID, imageID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{productID, imageID})
}

// DeleteAllMut deletes every image record of a product.
func (m *Model) DeleteAllMut(productID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{productID}.AsPrefix())
}
