package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/procat-web/internal/app/identity/domain"
)

// UserLookup finds users by sign-in email.
type UserLookup interface {
	// GetByEmail returns domain.ErrUserNotFound when no row matches
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserRepository defines persistence for users.
// Repositories return mutations, they don't apply them.
type UserRepository interface {
	UserLookup

	InsertMut(user *domain.User) *spanner.Mutation

	// UpdateMut creates a mutation for the dirty fields of a user, or nil
	UpdateMut(user *domain.User) *spanner.Mutation

	DeleteMut(userID string) *spanner.Mutation

	GetByID(ctx context.Context, userID string) (*domain.User, error)

	// List returns every user, newest first
	List(ctx context.Context) ([]*domain.User, error)
}

// SchemaProbe reports whether the multi-user tables are provisioned.
type SchemaProbe interface {
	UsersTableExists(ctx context.Context) (bool, error)
}
