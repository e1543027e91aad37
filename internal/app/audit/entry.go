// Package audit records who changed what in the catalog.
//
// Recording is a side channel: Record hands the entry to a background
// worker and returns at once. Write failures are logged and counted but
// never reach the caller, so an audit outage cannot block or roll back
// the mutation being audited.
package audit

import "time"

// Action is the kind of change recorded.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ResourceType names the audited entity.
type ResourceType string

const (
	ResourceProduct    ResourceType = "product"
	ResourceUser       ResourceType = "user"
	ResourceSiteConfig ResourceType = "site_config"
)

// Actor identifies who performed a change and from where.
type Actor struct {
	UserID    string
	Email     string
	IPAddress string
	UserAgent string
}

// Entry is one immutable audit record.
type Entry struct {
	Actor        Actor
	Action       Action
	ResourceType ResourceType
	ResourceID   string
	ResourceName string
	OldValues    map[string]any
	NewValues    map[string]any
}

// Record is an audit entry read back from storage.
type Record struct {
	AuditID      string         `json:"id"`
	UserID       string         `json:"user_id"`
	UserEmail    string         `json:"user_email"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	ResourceName string         `json:"resource_name"`
	OldValues    map[string]any `json:"old_values,omitempty"`
	NewValues    map[string]any `json:"new_values,omitempty"`
	IPAddress    string         `json:"ip_address"`
	UserAgent    string         `json:"user_agent"`
	CreatedAt    time.Time      `json:"created_at"`
}
