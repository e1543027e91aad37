package domain

import (
	"strings"
	"time"

	"github.com/light-bringer/procat-web/internal/pkg/changes"
)

// Field names for change tracking
const (
	FieldEmail         = "email"
	FieldName          = "name"
	FieldRole          = "role"
	FieldIsActive      = "is_active"
	FieldPasswordHash  = "password_hash"
	FieldPasswordReset = "password_reset"
	FieldLastLogin     = "last_login"
)

// User is an admin panel account.
type User struct {
	id                   string
	email                string
	name                 string
	role                 Role
	isActive             bool
	passwordHash         string
	passwordResetToken   string
	passwordResetExpires time.Time
	lastLogin            time.Time
	createdAt            time.Time
	updatedAt            time.Time

	changes *changes.Tracker
}

// NewUser creates an active user.
func NewUser(id, email, name string, role Role, now time.Time) (*User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}

	return &User{
		id:        id,
		email:     email,
		name:      name,
		role:      role,
		isActive:  true,
		createdAt: now,
		updatedAt: now,
		changes:   changes.New(),
	}, nil
}

// ReconstructUser reconstitutes a User from the database.
func ReconstructUser(
	id, email, name string,
	role Role,
	isActive bool,
	passwordHash, passwordResetToken string,
	passwordResetExpires, lastLogin, createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:                   id,
		email:                email,
		name:                 name,
		role:                 role,
		isActive:             isActive,
		passwordHash:         passwordHash,
		passwordResetToken:   passwordResetToken,
		passwordResetExpires: passwordResetExpires,
		lastLogin:            lastLogin,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
		changes:              changes.New(),
	}
}

// Getters
func (u *User) ID() string                      { return u.id }
func (u *User) Email() string                   { return u.email }
func (u *User) Name() string                    { return u.name }
func (u *User) Role() Role                      { return u.role }
func (u *User) IsActive() bool                  { return u.isActive }
func (u *User) PasswordHash() string            { return u.passwordHash }
func (u *User) PasswordResetToken() string      { return u.passwordResetToken }
func (u *User) PasswordResetExpires() time.Time { return u.passwordResetExpires }
func (u *User) LastLogin() time.Time            { return u.lastLogin }
func (u *User) CreatedAt() time.Time            { return u.createdAt }
func (u *User) UpdatedAt() time.Time            { return u.updatedAt }
func (u *User) Changes() *changes.Tracker       { return u.changes }

// HasPassword reports whether the user can sign in with a stored password.
func (u *User) HasPassword() bool { return u.passwordHash != "" }

// SetEmail changes the sign-in email.
func (u *User) SetEmail(email string) error {
	email, err := NormalizeEmail(email)
	if err != nil {
		return err
	}
	if email != u.email {
		u.email = email
		u.changes.MarkDirty(FieldEmail)
	}
	return nil
}

// SetName changes the display name.
func (u *User) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if name != u.name {
		u.name = name
		u.changes.MarkDirty(FieldName)
	}
	return nil
}

// SetRole changes the permission tier.
func (u *User) SetRole(role Role) error {
	if _, err := ParseRole(string(role)); err != nil {
		return err
	}
	if role != u.role {
		u.role = role
		u.changes.MarkDirty(FieldRole)
	}
	return nil
}

// SetActive enables or disables sign-in.
func (u *User) SetActive(active bool) {
	if active != u.isActive {
		u.isActive = active
		u.changes.MarkDirty(FieldIsActive)
	}
}

// SetPasswordHash stores a new bcrypt hash and voids any pending reset.
func (u *User) SetPasswordHash(hash string) {
	u.passwordHash = hash
	u.changes.MarkDirty(FieldPasswordHash)
	if u.passwordResetToken != "" || !u.passwordResetExpires.IsZero() {
		u.passwordResetToken = ""
		u.passwordResetExpires = time.Time{}
		u.changes.MarkDirty(FieldPasswordReset)
	}
}

// RecordLogin stamps a successful sign-in.
func (u *User) RecordLogin(at time.Time) {
	u.lastLogin = at
	u.changes.MarkDirty(FieldLastLogin)
}

// MarkUpdated stamps the modification time when there is anything to persist.
func (u *User) MarkUpdated(now time.Time) {
	if u.changes.HasChanges() {
		u.updatedAt = now
	}
}

// Snapshot returns the audited attributes. Secrets are never included.
func (u *User) Snapshot() map[string]any {
	return map[string]any{
		"email":     u.email,
		"name":      u.name,
		"role":      string(u.role),
		"is_active": u.isActive,
	}
}
