package m_user

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the users table.
type Data struct {
	UserID               string             `spanner:"user_id"`
	Email                string             `spanner:"email"`
	Name                 string             `spanner:"name"`
	Role                 string             `spanner:"role"`
	IsActive             bool               `spanner:"is_active"`
	PasswordHash         spanner.NullString `spanner:"password_hash"`
	PasswordResetToken   spanner.NullString `spanner:"password_reset_token"`
	PasswordResetExpires spanner.NullTime   `spanner:"password_reset_expires"`
	LastLogin            spanner.NullTime   `spanner:"last_login"`
	CreatedAt            time.Time          `spanner:"created_at"`
	UpdatedAt            time.Time          `spanner:"updated_at"`
}
