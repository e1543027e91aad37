package delete_user

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
)

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	admin := audit.Actor{UserID: "u-admin", Email: "admin@procat.test"}

	store := identitytest.NewStore()
	for _, id := range []string{"u-admin", "u-1"} {
		u, err := domain.NewUser(id, id+"@procat.test", id, domain.RoleAdmin, time.Now())
		require.NoError(t, err)
		store.Seed(u)
	}
	rec := &audittest.Recorder{}
	uc := NewInteractor(store, store.Applier, rec, zap.NewNop())

	t.Run("cannot delete yourself", func(t *testing.T) {
		err := uc.Execute(ctx, &Request{UserID: "u-admin", Actor: admin})
		assert.ErrorIs(t, err, domain.ErrSelfDelete)
		assert.Equal(t, 2, store.Count())
	})

	t.Run("deletes another user", func(t *testing.T) {
		require.NoError(t, uc.Execute(ctx, &Request{UserID: "u-1", Actor: admin}))
		assert.Nil(t, store.User("u-1"))

		entries := rec.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, audit.ActionDelete, entries[0].Action)
		assert.Equal(t, "u-1@procat.test", entries[0].OldValues["email"])
	})

	t.Run("unknown user", func(t *testing.T) {
		assert.ErrorIs(t, uc.Execute(ctx, &Request{UserID: "u-1", Actor: admin}), domain.ErrUserNotFound)
	})
}
