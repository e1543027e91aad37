package create_user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/app/identity/contracts"
	"github.com/light-bringer/procat-web/internal/app/identity/domain"
	"github.com/light-bringer/procat-web/internal/pkg/clock"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
)

// Request contains the data needed to create a user.
type Request struct {
	Email    string
	Name     string
	Role     string
	Password string
	Actor    audit.Actor
}

// Interactor handles the create user use case.
type Interactor struct {
	repo      contracts.UserRepository
	committer committer.Applier
	audit     audit.Recorder
	clock     clock.Clock
	logger    *zap.Logger
}

// NewInteractor creates a new create user interactor.
func NewInteractor(
	repo contracts.UserRepository,
	committer committer.Applier,
	audit audit.Recorder,
	clock clock.Clock,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		repo:      repo,
		committer: committer,
		audit:     audit,
		clock:     clock,
		logger:    logger.Named("create_user"),
	}
}

// Execute creates an active user and returns its ID. Password is optional;
// without one the user cannot sign in until a password is set.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return "", err
	}
	user, err := domain.NewUser(uuid.New().String(), req.Email, req.Name, role, i.clock.Now())
	if err != nil {
		return "", err
	}
	if req.Password != "" {
		hash, err := domain.HashPassword(req.Password)
		if err != nil {
			return "", err
		}
		user.SetPasswordHash(hash)
	}

	_, err = i.repo.GetByEmail(ctx, user.Email())
	switch {
	case err == nil:
		return "", domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return "", fmt.Errorf("failed to check email: %w", err)
	}

	plan := committer.NewPlan()
	plan.Add(i.repo.InsertMut(user))
	if err := i.committer.Apply(ctx, plan); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	i.audit.Record(audit.Entry{
		Actor:        req.Actor,
		Action:       audit.ActionCreate,
		ResourceType: audit.ResourceUser,
		ResourceID:   user.ID(),
		ResourceName: user.Email(),
		NewValues:    user.Snapshot(),
	})
	i.logger.Info("user created", zap.String("user_id", user.ID()), zap.String("role", string(role)))
	return user.ID(), nil
}
