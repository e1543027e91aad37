package delete_user

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/app/identity/contracts"
	"github.com/light-bringer/procat-web/internal/app/identity/domain"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
)

// Request identifies the user to delete.
type Request struct {
	UserID string
	Actor  audit.Actor
}

// Interactor hard-deletes a user. Deactivation through update_user is the
// usual way to revoke access; this removes the record entirely.
type Interactor struct {
	repo      contracts.UserRepository
	committer committer.Applier
	audit     audit.Recorder
	logger    *zap.Logger
}

// NewInteractor creates a new delete user interactor.
func NewInteractor(repo contracts.UserRepository, committer committer.Applier, audit audit.Recorder, logger *zap.Logger) *Interactor {
	return &Interactor{
		repo:      repo,
		committer: committer,
		audit:     audit,
		logger:    logger.Named("delete_user"),
	}
}

// Execute deletes the user. Users cannot delete themselves.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	if req.UserID == req.Actor.UserID {
		return domain.ErrSelfDelete
	}

	user, err := i.repo.GetByID(ctx, req.UserID)
	if err != nil {
		return err
	}

	plan := committer.NewPlan()
	plan.Add(i.repo.DeleteMut(user.ID()))
	if err := i.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	i.audit.Record(audit.Entry{
		Actor:        req.Actor,
		Action:       audit.ActionDelete,
		ResourceType: audit.ResourceUser,
		ResourceID:   user.ID(),
		ResourceName: user.Email(),
		OldValues:    user.Snapshot(),
	})
	i.logger.Info("user deleted", zap.String("user_id", user.ID()))
	return nil
}
