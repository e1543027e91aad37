package list_products

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-web/internal/app/catalog/catalogtest"
	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
)

func seed(t *testing.T, store *catalogtest.Store, id, name string, price int64, status domain.ProductStatus, categories, tags []string, created time.Time) {
	t.Helper()
	p, err := domain.NewProduct(id, id, name, price, status, "u-1", created)
	require.NoError(t, err)
	p.SetCategories(categories)
	p.SetTags(tags)
	store.Seed(p)
}

func ids(res *contracts.ListResult) []string {
	out := make([]string, 0, len(res.Products))
	for _, p := range res.Products {
		out = append(out, p.ProductID)
	}
	return out
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	store := catalogtest.NewStore()
	seed(t, store, "a", "Business Cards", 500, domain.StatusPublished, []string{"Print"}, []string{"office"}, base.Add(1*time.Hour))
	seed(t, store, "b", "Wedding Cards", 900, domain.StatusPublished, []string{"Print", "Events"}, nil, base.Add(2*time.Hour))
	seed(t, store, "c", "Mug", 250, domain.StatusPublished, []string{"Gifts"}, []string{"office"}, base.Add(3*time.Hour))
	seed(t, store, "d", "Draft Card", 100, domain.StatusDraft, []string{"Print"}, nil, base.Add(4*time.Hour))
	seed(t, store, "e", "Old Poster", 300, domain.StatusArchived, []string{"Print"}, nil, base.Add(5*time.Hour))
	q := NewQuery(store.ReadModel())

	t.Run("defaults to published newest first", func(t *testing.T) {
		res, err := q.Execute(ctx, &Request{})
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "b", "a"}, ids(res))
		assert.Equal(t, int64(3), res.Total)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, 12, res.PageSize)
		assert.Equal(t, 1, res.TotalPages)
	})

	t.Run("case-insensitive name search", func(t *testing.T) {
		res, err := q.Execute(ctx, &Request{Q: "CARD"})
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, ids(res))
		assert.Equal(t, int64(2), res.Total)
	})

	t.Run("category and tag containment", func(t *testing.T) {
		res, err := q.Execute(ctx, &Request{Category: "Print"})
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a"}, ids(res))

		res, err = q.Execute(ctx, &Request{Tag: "office", Sort: contracts.SortPriceAsc})
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a"}, ids(res))
	})

	t.Run("price sorts", func(t *testing.T) {
		res, err := q.Execute(ctx, &Request{Sort: "price_desc"})
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a", "c"}, ids(res))

		res, err = q.Execute(ctx, &Request{Sort: "bogus"})
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "b", "a"}, ids(res))
	})

	t.Run("explicit and all statuses", func(t *testing.T) {
		res, err := q.Execute(ctx, &Request{Status: "draft"})
		require.NoError(t, err)
		assert.Equal(t, []string{"d"}, ids(res))

		res, err = q.Execute(ctx, &Request{Status: contracts.StatusAll, Category: "Print"})
		require.NoError(t, err)
		assert.Equal(t, []string{"e", "d", "b", "a"}, ids(res))

		_, err = q.Execute(ctx, &Request{Status: "sold"})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("total reflects filtered set across pages", func(t *testing.T) {
		store := catalogtest.NewStore()
		for n := range 30 {
			seed(t, store, fmt.Sprintf("p%02d", n), fmt.Sprintf("Sticker %d", n), int64(n), domain.StatusPublished, nil, nil, base.Add(time.Duration(n)*time.Minute))
		}
		for n := range 5 {
			seed(t, store, fmt.Sprintf("x%02d", n), "Other", 1, domain.StatusPublished, nil, nil, base)
		}
		q := NewQuery(store.ReadModel())

		seen := map[string]bool{}
		for page := 1; page <= 3; page++ {
			res, err := q.Execute(ctx, &Request{Q: "sticker", Page: fmt.Sprint(page), PageSize: "12"})
			require.NoError(t, err)
			assert.Equal(t, int64(30), res.Total)
			assert.Equal(t, 3, res.TotalPages)
			for _, id := range ids(res) {
				assert.False(t, seen[id], "duplicate %s", id)
				seen[id] = true
			}
		}
		assert.Len(t, seen, 30)

		res, err := q.Execute(ctx, &Request{Q: "sticker", Page: "3", PageSize: "12"})
		require.NoError(t, err)
		assert.Len(t, res.Products, 6)
	})

	t.Run("page size is clamped", func(t *testing.T) {
		res, err := q.Execute(ctx, &Request{PageSize: "500"})
		require.NoError(t, err)
		assert.Equal(t, 48, res.PageSize)

		res, err = q.Execute(ctx, &Request{Page: "-4", PageSize: "-1"})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, 1, res.PageSize)
		assert.Len(t, res.Products, 1)
		assert.Equal(t, 3, res.TotalPages)
	})
}
