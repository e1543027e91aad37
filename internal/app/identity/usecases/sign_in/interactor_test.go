package sign_in

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/app/audit/audittest"
	"github.com/light-bringer/procat-web/internal/app/identity/domain"
	"github.com/light-bringer/procat-web/internal/app/identity/identitytest"
	"github.com/light-bringer/procat-web/internal/app/identity/roles"
	"github.com/light-bringer/procat-web/internal/pkg/clock"
	"github.com/light-bringer/procat-web/internal/pkg/committer"
)

const ownerEmail = "owner@procat.test"

var now = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := domain.HashPassword(plain)
	require.NoError(t, err)
	return h
}

type fixture struct {
	store *identitytest.Store
	audit *audittest.Recorder
	uc    *Interactor
}

func setup(t *testing.T, provisioned bool) *fixture {
	t.Helper()
	store := identitytest.NewStore()
	rec := &audittest.Recorder{}
	resolver := roles.NewResolver(store, provisioned, ownerEmail, zap.NewNop())
	uc := NewInteractor(store, resolver, mustHash(t, "owner-password"), store.Applier, rec, clock.NewMockClock(now), zap.NewNop())
	return &fixture{store: store, audit: rec, uc: uc}
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("user with password", func(t *testing.T) {
		f := setup(t, true)
		u, err := domain.NewUser("u-1", "ops@procat.test", "Ops", domain.RoleManager, now)
		require.NoError(t, err)
		u.SetPasswordHash(mustHash(t, "ops-password"))
		f.store.Seed(u)

		p, err := f.uc.Execute(ctx, &Request{Email: " ops@procat.test ", Password: "ops-password"})
		require.NoError(t, err)
		assert.Equal(t, "u-1", p.UserID)
		assert.Equal(t, "ops@procat.test", p.Email)
		assert.Equal(t, now, f.store.User("u-1").LastLogin.Time)

		_, err = f.uc.Execute(ctx, &Request{Email: "ops@procat.test", Password: "nope-nope"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		f := setup(t, true)
		u, err := domain.NewUser("u-1", "ops@procat.test", "Ops", domain.RoleManager, now)
		require.NoError(t, err)
		u.SetPasswordHash(mustHash(t, "ops-password"))
		u.SetActive(false)
		f.store.Seed(u)

		_, err = f.uc.Execute(ctx, &Request{Email: "ops@procat.test", Password: "ops-password"})
		assert.ErrorIs(t, err, domain.ErrUserInactive)
	})

	t.Run("fallback admin is provisioned on first sign-in", func(t *testing.T) {
		f := setup(t, true)

		p, err := f.uc.Execute(ctx, &Request{Email: ownerEmail, Password: "owner-password", IPAddress: "10.0.0.1"})
		require.NoError(t, err)
		require.Equal(t, 1, f.store.Count())

		stored := f.store.User(p.UserID)
		require.NotNil(t, stored)
		assert.Equal(t, "admin", stored.Role)
		assert.Equal(t, "owner", stored.Name)
		assert.True(t, stored.IsActive)

		entries := f.audit.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, audit.ActionCreate, entries[0].Action)
		assert.Equal(t, "10.0.0.1", entries[0].Actor.IPAddress)

		again, err := f.uc.Execute(ctx, &Request{Email: ownerEmail, Password: "owner-password"})
		require.NoError(t, err)
		assert.Equal(t, p.UserID, again.UserID)
		assert.Equal(t, 1, f.store.Count())
	})

	t.Run("fallback only before the schema exists", func(t *testing.T) {
		f := setup(t, false)

		p, err := f.uc.Execute(ctx, &Request{Email: ownerEmail, Password: "owner-password"})
		require.NoError(t, err)
		assert.Equal(t, fallbackUserID, p.UserID)
		assert.Zero(t, f.store.Count())

		_, err = f.uc.Execute(ctx, &Request{Email: ownerEmail, Password: "wrong-password"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

		_, err = f.uc.Execute(ctx, &Request{Email: "ops@procat.test", Password: "owner-password"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("empty credentials", func(t *testing.T) {
		f := setup(t, true)
		_, err := f.uc.Execute(ctx, &Request{Email: "", Password: "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		_, err = f.uc.Execute(ctx, &Request{Email: ownerEmail})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("last login failure does not block sign-in", func(t *testing.T) {
		f := setup(t, true)
		u, err := domain.NewUser("u-1", "ops@procat.test", "Ops", domain.RoleManager, now)
		require.NoError(t, err)
		u.SetPasswordHash(mustHash(t, "ops-password"))
		f.store.Seed(u)
		f.store.Applier.FailWith = func(*committer.CommitPlan) error { return errors.New("unavailable") }

		p, err := f.uc.Execute(ctx, &Request{Email: "ops@procat.test", Password: "ops-password"})
		require.NoError(t, err)
		assert.Equal(t, "u-1", p.UserID)
	})

	t.Run("lookup errors surface", func(t *testing.T) {
		f := setup(t, true)
		f.store.LookupErr = errors.New("deadline exceeded")

		_, err := f.uc.Execute(ctx, &Request{Email: ownerEmail, Password: "owner-password"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}
