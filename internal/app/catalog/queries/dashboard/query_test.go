package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/app/audit/repo"
	"github.com/light-bringer/procat-web/internal/app/catalog/catalogtest"
	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
)

type activity struct {
	records []*audit.Record
	err     error
	limit   int64
}

func (a *activity) List(_ context.Context, filter repo.ListFilter) (*repo.ListResult, error) {
	a.limit = filter.Limit
	if a.err != nil {
		return nil, a.err
	}
	return &repo.ListResult{Records: a.records, Total: int64(len(a.records))}, nil
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	store := catalogtest.NewStore()
	for i, status := range []domain.ProductStatus{domain.StatusPublished, domain.StatusPublished, domain.StatusDraft} {
		id := string(rune('a' + i))
		p, err := domain.NewProduct(id, id, id, 10, status, "u-1", time.Now())
		require.NoError(t, err)
		p.SetCategories([]string{"Print"})
		store.Seed(p)
	}

	t.Run("counts and activity", func(t *testing.T) {
		log := &activity{records: []*audit.Record{{AuditID: "x"}}}
		res, err := NewQuery(store.ReadModel(), log).Execute(ctx, true)
		require.NoError(t, err)

		assert.EqualValues(t, 3, res.Total)
		assert.EqualValues(t, 2, res.ByStatus["published"])
		assert.EqualValues(t, 1, res.ByStatus["draft"])
		assert.EqualValues(t, 0, res.ByStatus["archived"])
		require.Len(t, res.Taxonomy.Categories, 1)
		assert.EqualValues(t, 3, res.Taxonomy.Categories[0].Count)
		assert.Len(t, res.Recent, 1)
		assert.EqualValues(t, recentActivity, log.limit)
	})

	t.Run("activity skipped for managers", func(t *testing.T) {
		log := &activity{err: errors.New("should not be called")}
		res, err := NewQuery(store.ReadModel(), log).Execute(ctx, false)
		require.NoError(t, err)
		assert.Nil(t, res.Recent)
	})

	t.Run("read failure", func(t *testing.T) {
		log := &activity{err: errors.New("spanner unavailable")}
		_, err := NewQuery(store.ReadModel(), log).Execute(ctx, true)
		assert.ErrorContains(t, err, "spanner unavailable")
	})
}
