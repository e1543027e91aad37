// Package roles decides what a signed-in principal may do.
//
// Roles normally come from the users table. Before that table exists, a
// single configured admin email is treated as admin. That fallback is a
// degraded compatibility mode for fresh deployments, not a security
// boundary: anyone who can sign in as that email is admin.
package roles

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/identity/contracts"
	"github.com/light-bringer/procat-web/internal/app/identity/domain"
	"github.com/light-bringer/procat-web/internal/session"
)

// Schema modes accepted by DetectSchema.
const (
	SchemaAuto     = "auto"
	SchemaEnabled  = "true"
	SchemaDisabled = "false"
)

// DetectSchema resolves mode to whether the users table is provisioned.
// Only SchemaAuto touches the database.
func DetectSchema(ctx context.Context, mode string, probe contracts.SchemaProbe) (bool, error) {
	switch mode {
	case SchemaEnabled:
		return true, nil
	case SchemaDisabled:
		return false, nil
	case SchemaAuto, "":
		return probe.UsersTableExists(ctx)
	default:
		return false, fmt.Errorf("unknown multi-user schema mode %q", mode)
	}
}

// Resolver maps a principal to a role.
type Resolver struct {
	users       contracts.UserLookup
	provisioned bool
	adminEmail  string
	logger      *zap.Logger
}

// NewResolver creates a Resolver. adminEmail may be empty to disable the fallback.
func NewResolver(users contracts.UserLookup, provisioned bool, adminEmail string, logger *zap.Logger) *Resolver {
	return &Resolver{
		users:       users,
		provisioned: provisioned,
		adminEmail:  adminEmail,
		logger:      logger.Named("roles"),
	}
}

// Provisioned reports whether user records are consulted.
func (r *Resolver) Provisioned() bool { return r.provisioned }

// IsFallbackAdmin reports whether email is the configured admin email.
func (r *Resolver) IsFallbackAdmin(email string) bool {
	return r.adminEmail != "" && email == r.adminEmail
}

// Resolve returns the role of p. Lookup failures yield RoleNone.
func (r *Resolver) Resolve(ctx context.Context, p *session.Principal) domain.Role {
	if p == nil || p.Email == "" {
		return domain.RoleNone
	}
	if !r.provisioned {
		return r.fallback(p.Email)
	}

	user, err := r.users.GetByEmail(ctx, p.Email)
	switch {
	case err == nil:
		if !user.IsActive() {
			return domain.RoleNone
		}
		return user.Role()
	case errors.Is(err, domain.ErrUserNotFound):
		return r.fallback(p.Email)
	default:
		r.logger.Error("role lookup failed", zap.String("email", p.Email), zap.Error(err))
		return domain.RoleNone
	}
}

func (r *Resolver) fallback(email string) domain.Role {
	if r.IsFallbackAdmin(email) {
		return domain.RoleAdmin
	}
	return domain.RoleNone
}
