package m_site_config

import "time"

// Data represents the database model for the site_config table.
type Data struct {
	Key         string    `spanner:"config_key"`
	Value       string    `spanner:"value"`
	Description string    `spanner:"description"`
	CreatedAt   time.Time `spanner:"created_at"`
	UpdatedAt   time.Time `spanner:"updated_at"`
}
