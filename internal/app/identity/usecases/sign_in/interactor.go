package sign_in

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/app/identity/contracts"
	"github.com/light-bringer/procat-web/internal/app/identity/domain"
	"github.com/light-bringer/procat-web/internal/app/identity/roles"
	"github.com/light-bringer/procat-web/internal/pkg/clock"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
	"github.com/light-bringer/procat-web/internal/session"
)

// fallbackUserID identifies the fallback admin while no users table exists.
const fallbackUserID = "fallback-admin"

// Request carries submitted credentials and client details for auditing.
type Request struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

// Interactor verifies credentials and yields the principal to put in the session.
type Interactor struct {
	users        contracts.UserRepository
	resolver     *roles.Resolver
	fallbackHash string
	committer    committer.Applier
	audit        audit.Recorder
	clock        clock.Clock
	logger       *zap.Logger
}

// NewInteractor creates a new sign in interactor. fallbackHash is the bcrypt
// hash of the configured admin email's password; empty disables it.
func NewInteractor(
	users contracts.UserRepository,
	resolver *roles.Resolver,
	fallbackHash string,
	committer committer.Applier,
	audit audit.Recorder,
	clock clock.Clock,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		users:        users,
		resolver:     resolver,
		fallbackHash: fallbackHash,
		committer:    committer,
		audit:        audit,
		clock:        clock,
		logger:       logger.Named("sign_in"),
	}
}

// Execute checks the credentials. Every mismatch is reported as
// domain.ErrInvalidCredentials; a disabled account as domain.ErrUserInactive.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*session.Principal, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if !i.resolver.Provisioned() {
		if !i.fallbackMatches(email, req.Password) {
			return nil, domain.ErrInvalidCredentials
		}
		i.logger.Info("fallback admin signed in", zap.String("email", email))
		return &session.Principal{UserID: fallbackUserID, Email: email}, nil
	}

	user, err := i.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		if !i.fallbackMatches(email, req.Password) {
			return nil, domain.ErrInvalidCredentials
		}
		return i.provision(ctx, email, req)
	case err != nil:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	valid := domain.CheckPassword(user.PasswordHash(), req.Password)
	if !valid && !user.HasPassword() {
		valid = i.fallbackMatches(email, req.Password)
	}
	if !valid {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, domain.ErrUserInactive
	}

	user.RecordLogin(i.clock.Now())
	plan := committer.NewPlan()
	plan.Add(i.users.UpdateMut(user))
	if err := i.committer.Apply(ctx, plan); err != nil {
		// a stale last_login is not worth failing the sign-in for
		i.logger.Warn("failed to record last login", zap.String("user_id", user.ID()), zap.Error(err))
	}

	i.logger.Info("user signed in", zap.String("user_id", user.ID()))
	return &session.Principal{UserID: user.ID(), Email: user.Email()}, nil
}

// provision creates the admin record for the fallback admin on first
// sign-in against a provisioned schema.
func (i *Interactor) provision(ctx context.Context, email string, req *Request) (*session.Principal, error) {
	now := i.clock.Now()
	user, err := domain.NewUser(uuid.New().String(), email, adminName(email), domain.RoleAdmin, now)
	if err != nil {
		return nil, err
	}
	user.RecordLogin(now)

	plan := committer.NewPlan()
	plan.Add(i.users.InsertMut(user))
	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to provision admin user: %w", err)
	}

	i.audit.Record(audit.Entry{
		Actor: audit.Actor{
			UserID:    user.ID(),
			Email:     user.Email(),
			IPAddress: req.IPAddress,
			UserAgent: req.UserAgent,
		},
		Action:       audit.ActionCreate,
		ResourceType: audit.ResourceUser,
		ResourceID:   user.ID(),
		ResourceName: user.Email(),
		NewValues:    user.Snapshot(),
	})
	i.logger.Info("provisioned fallback admin", zap.String("user_id", user.ID()))
	return &session.Principal{UserID: user.ID(), Email: user.Email()}, nil
}

func (i *Interactor) fallbackMatches(email, password string) bool {
	return i.resolver.IsFallbackAdmin(email) && domain.CheckPassword(i.fallbackHash, password)
}

func adminName(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "Admin"
}
