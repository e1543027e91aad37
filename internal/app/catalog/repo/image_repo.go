package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
	"github.com/light-bringer/procat-web/internal/models/m_product_image"
	"github.com/light-bringer/procat-web/internal/pkg/query"
)

// ImageRepo implements ImageRepository for Spanner.
type ImageRepo struct {
	client *spanner.Client
	model  *m_product_image.Model
}

// NewImageRepo creates a new ImageRepo.
func NewImageRepo(client *spanner.Client) contracts.ImageRepository {
	return &ImageRepo{
		client: client,
		model:  m_product_image.NewModel(),
	}
}

// InsertMut creates a mutation for inserting an image record.
func (r *ImageRepo) InsertMut(image *domain.Image) *spanner.Mutation {
	return r.model.InsertMut(&m_product_image.Data{
		ProductID:   image.ProductID,
		ImageID:     image.ID,
		URL:         image.URL,
		StoragePath: image.StoragePath,
		Alt:         image.Alt,
		Position:    image.Position,
	})
}

// DeleteMut creates a mutation deleting one image record.
func (r *ImageRepo) DeleteMut(productID, imageID string) *spanner.Mutation {
	return r.model.DeleteMut(productID, imageID)
}

// DeleteAllMut creates a mutation deleting every image record of a product.
func (r *ImageRepo) DeleteAllMut(productID string) *spanner.Mutation {
	return r.model.DeleteAllMut(productID)
}

// ListByProduct returns a product's images ordered by position.
func (r *ImageRepo) ListByProduct(ctx context.Context, productID string) ([]*domain.Image, error) {
	stmt := query.From(m_product_image.TableName).
		Select(m_product_image.AllColumns...).
		Where(query.Eq(m_product_image.ProductID, productID)).
		OrderBy(m_product_image.Position, query.Asc).
		ThenBy(m_product_image.CreatedAt, query.Asc).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var images []*domain.Image
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate images: %w", err)
		}

		var data m_product_image.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse image: %w", err)
		}
		images = append(images, &domain.Image{
			ID:          data.ImageID,
			ProductID:   data.ProductID,
			URL:         data.URL,
			StoragePath: data.StoragePath,
			Alt:         data.Alt,
			Position:    data.Position,
			CreatedAt:   data.CreatedAt,
		})
	}
	return images, nil
}
