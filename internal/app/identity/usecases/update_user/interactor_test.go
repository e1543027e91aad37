package update_user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/app/audit/audittest"
	"github.com/light-bringer/procat-web/internal/app/identity/domain"
	"github.com/light-bringer/procat-web/internal/app/identity/identitytest"
	"github.com/light-bringer/procat-web/internal/pkg/clock"
)

func ptr[T any](v T) *T { return &v }

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	admin := audit.Actor{UserID: "u-admin", Email: "admin@procat.test"}

	setup := func(t *testing.T) (*identitytest.Store, *audittest.Recorder, *Interactor) {
		store := identitytest.NewStore()
		store.Seed(domain.ReconstructUser("u-admin", "admin@procat.test", "Admin", domain.RoleAdmin, true, "", "", time.Time{}, time.Time{}, now, now))
		store.Seed(domain.ReconstructUser("u-1", "ops@procat.test", "Ops", domain.RoleManager, true, "", "tok", now.Add(time.Hour), time.Time{}, now, now))
		rec := &audittest.Recorder{}
		return store, rec, NewInteractor(store, store.Applier, rec, clock.NewMockClock(now), zap.NewNop())
	}

	t.Run("changes role and name", func(t *testing.T) {
		store, rec, uc := setup(t)

		err := uc.Execute(ctx, &Request{UserID: "u-1", Name: ptr("Operations"), Role: ptr("admin"), Actor: admin})
		require.NoError(t, err)

		stored := store.User("u-1")
		assert.Equal(t, "Operations", stored.Name)
		assert.Equal(t, "admin", stored.Role)

		entries := rec.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, "manager", entries[0].OldValues["role"])
		assert.Equal(t, "admin", entries[0].NewValues["role"])
	})

	t.Run("new password clears the reset token", func(t *testing.T) {
		store, rec, uc := setup(t)

		require.NoError(t, uc.Execute(ctx, &Request{UserID: "u-1", Password: "fresh-password", Actor: admin}))

		stored := store.User("u-1")
		assert.True(t, domain.CheckPassword(stored.PasswordHash.StringVal, "fresh-password"))
		assert.False(t, stored.PasswordResetToken.Valid)
		assert.False(t, stored.PasswordResetExpires.Valid)
		assert.Equal(t, true, rec.Entries()[0].NewValues["password_changed"])
	})

	t.Run("no changes records nothing", func(t *testing.T) {
		store, rec, uc := setup(t)

		require.NoError(t, uc.Execute(ctx, &Request{UserID: "u-1", Name: ptr("Ops"), IsActive: ptr(true), Actor: admin}))
		assert.Empty(t, store.Applier.Plans())
		assert.Empty(t, rec.Entries())
	})

	t.Run("cannot deactivate yourself", func(t *testing.T) {
		store, _, uc := setup(t)

		err := uc.Execute(ctx, &Request{UserID: "u-admin", IsActive: ptr(false), Actor: admin})
		assert.ErrorIs(t, err, domain.ErrSelfDeactivate)
		assert.True(t, store.User("u-admin").IsActive)
	})

	t.Run("email must stay unique", func(t *testing.T) {
		_, _, uc := setup(t)

		err := uc.Execute(ctx, &Request{UserID: "u-1", Email: ptr("admin@procat.test"), Actor: admin})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("deactivates another user", func(t *testing.T) {
		store, _, uc := setup(t)

		require.NoError(t, uc.Execute(ctx, &Request{UserID: "u-1", IsActive: ptr(false), Actor: admin}))
		assert.False(t, store.User("u-1").IsActive)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, uc := setup(t)
		assert.ErrorIs(t, uc.Execute(ctx, &Request{UserID: "nope", Actor: admin}), domain.ErrUserNotFound)
	})
}
