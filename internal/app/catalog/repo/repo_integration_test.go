//go:build integration

package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
	"github.com/light-bringer/procat-web/internal/pkg/pagination"
	"github.com/light-bringer/procat-web/internal/pkg/spannertest"
)

func TestProductRepo_Emulator(t *testing.T) {
	client := spannertest.Setup(t)
	ctx := context.Background()
	products := NewProductRepo(client)
	images := NewImageRepo(client)
	readModel := NewReadModel(client)
	now := time.Now().UTC().Truncate(time.Microsecond)

	insert := func(id, slug string, status domain.ProductStatus, categories ...string) *domain.Product {
		p, err := domain.NewProduct(id, slug, slug, 1200, status, "u-1", now)
		require.NoError(t, err)
		p.SetCategories(categories)
		spannertest.Apply(t, client, products.InsertMut(p))
		return p
	}

	insert("p-1", "visiting-cards", domain.StatusPublished, "printing")
	insert("p-2", "flyers", domain.StatusPublished, "printing")
	insert("p-3", "secret", domain.StatusDraft, "printing")
	spannertest.Apply(t, client,
		images.InsertMut(&domain.Image{ID: "i-1", ProductID: "p-1", URL: "https://x/1.png", StoragePath: "p-1/1.png", Position: 1, CreatedAt: now}),
		images.InsertMut(&domain.Image{ID: "i-0", ProductID: "p-1", URL: "https://x/0.png", StoragePath: "p-1/0.png", Position: 0, CreatedAt: now}),
	)
	spannertest.AssertRowCount(t, client, "products", 3)

	t.Run("round trip", func(t *testing.T) {
		p, err := products.GetByID(ctx, "p-1")
		require.NoError(t, err)
		assert.Equal(t, "visiting-cards", p.Slug())
		assert.Equal(t, []string{"printing"}, p.Categories())

		exists, err := products.SlugExists(ctx, "flyers")
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = products.GetByID(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("update writes dirty fields", func(t *testing.T) {
		p, err := products.GetByID(ctx, "p-2")
		require.NoError(t, err)
		require.NoError(t, p.SetPrice(900))
		p.MarkUpdated("u-2", now.Add(time.Minute))
		spannertest.Apply(t, client, products.UpdateMut(p))

		dto, err := readModel.GetProductBySlug(ctx, "flyers")
		require.NoError(t, err)
		assert.Equal(t, int64(900), dto.Price)
		assert.Equal(t, "u-2", dto.UpdatedBy)
	})

	t.Run("images ordered by position", func(t *testing.T) {
		list, err := images.ListByProduct(ctx, "p-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "i-0", list[0].ID)
	})

	t.Run("storefront listing hides drafts", func(t *testing.T) {
		res, err := readModel.ListProducts(ctx, &contracts.ListFilter{Category: "printing", Window: pagination.New(1, 1)})
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.Total)
		assert.Len(t, res.Products, 1)
		assert.Equal(t, 2, res.TotalPages)

		counts, err := readModel.CountByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts["draft"])
	})

	t.Run("delete all images", func(t *testing.T) {
		spannertest.Apply(t, client, images.DeleteAllMut("p-1"), products.DeleteMut("p-1"))
		spannertest.AssertRowCount(t, client, "product_images", 0)
		spannertest.AssertRowCount(t, client, "products", 2)
	})
}
