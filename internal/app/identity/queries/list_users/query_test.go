package list_users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-web/internal/app/identity/domain"
	"github.com/light-bringer/procat-web/internal/app/identity/identitytest"
)

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	store := identitytest.NewStore()
	store.Seed(domain.ReconstructUser("u-1", "a@procat.test", "A", domain.RoleAdmin, true, "$2a$hash", "", time.Time{}, base.Add(time.Hour), base, base))
	store.Seed(domain.ReconstructUser("u-2", "b@procat.test", "B", domain.RoleManager, false, "", "", time.Time{}, time.Time{}, base.Add(time.Minute), base))

	q := NewQuery(store)

	users, err := q.Execute(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u-2", users[0].UserID)
	assert.Nil(t, users[0].LastLogin)
	assert.False(t, users[0].HasPassword)

	assert.Equal(t, "u-1", users[1].UserID)
	require.NotNil(t, users[1].LastLogin)
	assert.True(t, users[1].HasPassword)

	_, err = q.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
