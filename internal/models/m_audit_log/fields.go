package m_audit_log

// Field name constants for the audit_logs table.
const (
	TableName = "audit_logs"

	AuditID      = "audit_id"
	UserID       = "user_id"
	UserEmail    = "user_email"
	Action       = "action"
	ResourceType = "resource_type"
	ResourceID   = "resource_id"
	ResourceName = "resource_name"
	OldValues    = "old_values"
	NewValues    = "new_values"
	IPAddress    = "ip_address"
	UserAgent    = "user_agent"
	CreatedAt    = "created_at"
)

// AllColumns lists every column in Data order.
var AllColumns = []string{
	AuditID,
	UserID,
	UserEmail,
	Action,
	ResourceType,
	ResourceID,
	ResourceName,
	OldValues,
	NewValues,
	IPAddress,
	UserAgent,
	CreatedAt,
}
