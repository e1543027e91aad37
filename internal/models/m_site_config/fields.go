package m_site_config

// Field name constants for the site_config table.
const (
	TableName = "site_config"

	Key         = "config_key"
	Value       = "value"
	Description = "description"
	CreatedAt   = "created_at"
	UpdatedAt   = "updated_at"
)

// AllColumns lists every column in Data order.
var AllColumns = []string{Key, Value, Description, CreatedAt, UpdatedAt}
