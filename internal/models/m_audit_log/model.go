package m_audit_log

import "cloud.google.com/go/spanner"

// Model provides a facade for the audit_logs table.
// Entries are append-only, so there is no update or delete mutation.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for appending an audit entry.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		AllColumns,
		[]interface{}{
			data.AuditID,
			data.UserID,
			data.UserEmail,
			data.Action,
			data.ResourceType,
			data.ResourceID,
			data.ResourceName,
			data.OldValues,
			data.NewValues,
			data.IPAddress,
			data.UserAgent,
			spanner.CommitTimestamp,
		},
	)
}
