package m_site_config

import "cloud.google.com/go/spanner"

// Model provides a facade for type-safe operations on the site_config table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for a new key. It fails if the key exists.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		AllColumns,
		[]interface{}{
			data.Key,
			data.Value,
			data.Description,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}

// UpdateValueMut changes the value of an existing key.
func (m *Model) UpdateValueMut(key, value string) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{Key, Value, UpdatedAt},
		[]interface{}{key, value, spanner.CommitTimestamp},
	)
}
