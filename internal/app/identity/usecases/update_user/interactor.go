package update_user

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/app/identity/contracts"
	"github.com/light-bringer/procat-web/internal/app/identity/domain"
	"github.com/light-bringer/procat-web/internal/pkg/clock"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
)

// Request contains the changes to a user. Nil fields and an empty
// Password are left unchanged.
type Request struct {
	UserID   string
	Email    *string
	Name     *string
	Role     *string
	IsActive *bool
	Password string
	Actor    audit.Actor
}

// Interactor handles the update user use case.
type Interactor struct {
	repo      contracts.UserRepository
	committer committer.Applier
	audit     audit.Recorder
	clock     clock.Clock
	logger    *zap.Logger
}

// NewInteractor creates a new update user interactor.
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
		logger:    logger.Named("update_user"),
	}
}

// Execute applies the changes. Users cannot deactivate themselves.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	if req.IsActive != nil && !*req.IsActive && req.Actor.UserID == req.UserID {
		return domain.ErrSelfDeactivate
	}

	user, err := i.repo.GetByID(ctx, req.UserID)
	if err != nil {
		return err
	}
	before := user.Snapshot()

	if err := i.apply(ctx, user, req); err != nil {
		return err
	}
	if !user.Changes().HasChanges() {
		return nil
	}
	user.MarkUpdated(i.clock.Now())

	plan := committer.NewPlan()
	plan.Add(i.repo.UpdateMut(user))
	if err := i.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	after := user.Snapshot()
	if user.Changes().Dirty(domain.FieldPasswordHash) {
		after["password_changed"] = true
	}
	i.audit.Record(audit.Entry{
		Actor:        req.Actor,
		Action:       audit.ActionUpdate,
		ResourceType: audit.ResourceUser,
		ResourceID:   user.ID(),
		ResourceName: user.Email(),
		OldValues:    before,
		NewValues:    after,
	})
	i.logger.Info("user updated", zap.String("user_id", user.ID()), zap.Strings("fields", user.Changes().DirtyFields()))
	return nil
}

func (i *Interactor) apply(ctx context.Context, user *domain.User, req *Request) error {
	if req.Email != nil {
		previous := user.Email()
		if err := user.SetEmail(*req.Email); err != nil {
			return err
		}
		if user.Email() != previous {
			existing, err := i.repo.GetByEmail(ctx, user.Email())
			switch {
			case err == nil && existing.ID() != user.ID():
				return domain.ErrEmailTaken
			case err != nil && !errors.Is(err, domain.ErrUserNotFound):
				return fmt.Errorf("failed to check email: %w", err)
			}
		}
	}
	if req.Name != nil {
		if err := user.SetName(*req.Name); err != nil {
			return err
		}
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			return err
		}
		if err := user.SetRole(role); err != nil {
			return err
		}
	}
	if req.IsActive != nil {
		user.SetActive(*req.IsActive)
	}
	if req.Password != "" {
		hash, err := domain.HashPassword(req.Password)
		if err != nil {
			return err
		}
		user.SetPasswordHash(hash)
	}
	return nil
}
