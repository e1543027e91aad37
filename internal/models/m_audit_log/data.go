package m_audit_log

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the audit_logs table.
type Data struct {
	AuditID      string           `spanner:"audit_id"`
	UserID       string           `spanner:"user_id"`
	UserEmail    string           `spanner:"user_email"`
	Action       string           `spanner:"action"`
	ResourceType string           `spanner:"resource_type"`
	ResourceID   string           `spanner:"resource_id"`
	ResourceName string           `spanner:"resource_name"`
	OldValues    spanner.NullJSON `spanner:"old_values"`
	NewValues    spanner.NullJSON `spanner:"new_values"`
	IPAddress    string           `spanner:"ip_address"`
	UserAgent    string           `spanner:"user_agent"`
	CreatedAt    time.Time        `spanner:"created_at"`
}
