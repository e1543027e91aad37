package list_users

import (
	"context"
	"time"

	"github.com/light-bringer/procat-web/internal/app/identity/contracts"
	"github.com/light-bringer/procat-web/internal/app/identity/domain"
)

// UserDTO is a user as shown in the admin panel. It carries no secrets.
type UserDTO struct {
	UserID      string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	HasPassword bool       `json:"has_password"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Query lists users.
type Query struct {
	users contracts.UserRepository
}

// NewQuery creates a new list users query.
func NewQuery(users contracts.UserRepository) *Query {
	return &Query{users: users}
}

// Execute returns every user, newest first.
func (q *Query) Execute(ctx context.Context) ([]*UserDTO, error) {
	users, err := q.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, ToDTO(u))
	}
	return out, nil
}

// Get returns one user.
func (q *Query) Get(ctx context.Context, userID string) (*UserDTO, error) {
	u, err := q.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToDTO(u), nil
}

// ToDTO converts a domain user.
func ToDTO(u *domain.User) *UserDTO {
	dto := &UserDTO{
		UserID:      u.ID(),
		Email:       u.Email(),
		Name:        u.Name(),
		Role:        string(u.Role()),
		IsActive:    u.IsActive(),
		HasPassword: u.HasPassword(),
		CreatedAt:   u.CreatedAt(),
	}
	if !u.LastLogin().IsZero() {
		last := u.LastLogin()
		dto.LastLogin = &last
	}
	return dto
}
