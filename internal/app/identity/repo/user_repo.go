package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/procat-web/internal/app/identity/contracts"
	"github.com/light-bringer/procat-web/internal/app/identity/domain"
	"github.com/light-bringer/procat-web/internal/models/m_user"
	"github.com/light-bringer/procat-web/internal/pkg/query"
)

// UserRepo implements UserRepository for Spanner.
type UserRepo struct {
	client *spanner.Client
	model  *m_user.Model
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(client *spanner.Client) *UserRepo {
	return &UserRepo{
		client: client,
		model:  m_user.NewModel(),
	}
}

var _ contracts.UserRepository = (*UserRepo)(nil)

// InsertMut creates a mutation for inserting a new user.
func (r *UserRepo) InsertMut(user *domain.User) *spanner.Mutation {
	return r.model.InsertMut(DomainToData(user))
}

// UpdateMut creates a mutation for the dirty fields of a user.
func (r *UserRepo) UpdateMut(user *domain.User) *spanner.Mutation {
	updates := DirtyColumns(user)
	if len(updates) == 0 {
		return nil
	}
	return r.model.UpdateMut(user.ID(), updates)
}

// DeleteMut creates a mutation hard-deleting a user.
func (r *UserRepo) DeleteMut(userID string) *spanner.Mutation {
	return r.model.DeleteMut(userID)
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	row, err := r.client.Single().ReadRow(ctx, m_user.TableName, spanner.Key{userID}, m_user.AllColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	return rowToDomain(row)
}

// GetByEmail retrieves a user by exact email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	stmt := query.From(m_user.TableName).
		Select(m_user.AllColumns...).
		Where(query.Eq(m_user.Email, email)).
		Limit(1).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	return rowToDomain(row)
}

// List returns every user, newest first.
func (r *UserRepo) List(ctx context.Context) ([]*domain.User, error) {
	stmt := query.From(m_user.TableName).
		Select(m_user.AllColumns...).
		OrderBy(m_user.CreatedAt, query.Desc).
		ThenBy(m_user.UserID, query.Asc).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	users := make([]*domain.User, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return users, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate users: %w", err)
		}
		user, err := rowToDomain(row)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
}

// UsersTableExists implements SchemaProbe.
func (r *UserRepo) UsersTableExists(ctx context.Context) (bool, error) {
	stmt := spanner.Statement{
		SQL: `SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES
		      WHERE TABLE_SCHEMA = '' AND TABLE_NAME = @table`,
		Params: map[string]interface{}{"table": m_user.TableName},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return false, fmt.Errorf("failed to probe schema: %w", err)
	}
	var n int64
	if err := row.Columns(&n); err != nil {
		return false, fmt.Errorf("failed to parse schema probe: %w", err)
	}
	return n > 0, nil
}

func rowToDomain(row *spanner.Row) (*domain.User, error) {
	var data m_user.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}
	return DataToDomain(&data), nil
}

// DirtyColumns maps the user's dirty fields to column updates.
func DirtyColumns(user *domain.User) map[string]interface{} {
	changes := user.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]interface{})
	if changes.Dirty(domain.FieldEmail) {
		updates[m_user.Email] = user.Email()
	}
	if changes.Dirty(domain.FieldName) {
		updates[m_user.Name] = user.Name()
	}
	if changes.Dirty(domain.FieldRole) {
		updates[m_user.Role] = string(user.Role())
	}
	if changes.Dirty(domain.FieldIsActive) {
		updates[m_user.IsActive] = user.IsActive()
	}
	if changes.Dirty(domain.FieldPasswordHash) {
		updates[m_user.PasswordHash] = nullString(user.PasswordHash())
	}
	if changes.Dirty(domain.FieldPasswordReset) {
		updates[m_user.PasswordResetToken] = nullString(user.PasswordResetToken())
		updates[m_user.PasswordResetExpires] = nullTime(user.PasswordResetExpires())
	}
	if changes.Dirty(domain.FieldLastLogin) {
		updates[m_user.LastLogin] = nullTime(user.LastLogin())
	}
	return updates
}

// DomainToData converts a domain User to database Data.
func DomainToData(user *domain.User) *m_user.Data {
	return &m_user.Data{
		UserID:               user.ID(),
		Email:                user.Email(),
		Name:                 user.Name(),
		Role:                 string(user.Role()),
		IsActive:             user.IsActive(),
		PasswordHash:         nullString(user.PasswordHash()),
		PasswordResetToken:   nullString(user.PasswordResetToken()),
		PasswordResetExpires: nullTime(user.PasswordResetExpires()),
		LastLogin:            nullTime(user.LastLogin()),
		CreatedAt:            user.CreatedAt(),
		UpdatedAt:            user.UpdatedAt(),
	}
}

// DataToDomain converts database Data to a domain User.
func DataToDomain(data *m_user.Data) *domain.User {
	return domain.ReconstructUser(
		data.UserID,
		data.Email,
		data.Name,
		domain.Role(data.Role),
		data.IsActive,
		data.PasswordHash.StringVal,
		data.PasswordResetToken.StringVal,
		data.PasswordResetExpires.Time,
		data.LastLogin.Time,
		data.CreatedAt,
		data.UpdatedAt,
	)
}

func nullString(s string) spanner.NullString {
	return spanner.NullString{StringVal: s, Valid: s != ""}
}

func nullTime(t time.Time) spanner.NullTime {
	return spanner.NullTime{Time: t, Valid: !t.IsZero()}
}
