package m_user

// Field name constants for the users table.
const (
	TableName = "users"

	UserID               = "user_id"
	Email                = "email"
	Name                 = "name"
	Role                 = "role"
	IsActive             = "is_active"
	PasswordHash         = "password_hash"
	PasswordResetToken   = "password_reset_token"
	PasswordResetExpires = "password_reset_expires"
	LastLogin            = "last_login"
	CreatedAt            = "created_at"
	UpdatedAt            = "updated_at"

	EmailIndex = "idx_users_email"
)

// AllColumns lists every column in Data order.
var AllColumns = []string{
	UserID,
	Email,
	Name,
	Role,
	IsActive,
	PasswordHash,
	PasswordResetToken,
	PasswordResetExpires,
	LastLogin,
	CreatedAt,
	UpdatedAt,
}
