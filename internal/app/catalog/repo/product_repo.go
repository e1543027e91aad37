package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
	"github.com/light-bringer/procat-web/internal/models/m_product"
	"github.com/light-bringer/procat-web/internal/pkg/query"
)

// ProductRepo implements ProductRepository for Spanner.
type ProductRepo struct {
	client *spanner.Client
	model  *m_product.Model
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(client *spanner.Client) contracts.ProductRepository {
	return &ProductRepo{
		client: client,
		model:  m_product.NewModel(),
	}
}

// InsertMut creates a mutation for inserting a new product.
func (r *ProductRepo) InsertMut(product *domain.Product) *spanner.Mutation {
	return r.model.InsertMut(DomainToData(product))
}

// UpdateMut creates a mutation for updating a product (only dirty fields).
func (r *ProductRepo) UpdateMut(product *domain.Product) *spanner.Mutation {
	updates := DirtyColumns(product)
	if len(updates) == 0 {
		return nil
	}
	return r.model.UpdateMut(product.ID(), updates)
}

// DeleteMut creates a mutation deleting the product row.
func (r *ProductRepo) DeleteMut(productID string) *spanner.Mutation {
	return r.model.DeleteMut(productID)
}

// GetByID retrieves a product by ID, reconstructing the domain aggregate.
func (r *ProductRepo) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	row, err := r.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{productID}, m_product.AllColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	var data m_product.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	return DataToDomain(&data), nil
}

// GetByIDs retrieves every existing product among productIDs.
func (r *ProductRepo) GetByIDs(ctx context.Context, productIDs []string) ([]*domain.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	stmt := query.From(m_product.TableName).
		Select(m_product.AllColumns...).
		Where(query.In(m_product.ProductID, productIDs)).
		OrderBy(m_product.CreatedAt, query.Desc).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	products := make([]*domain.Product, 0, len(productIDs))
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}

		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}
		products = append(products, DataToDomain(&data))
	}
	return products, nil
}

// SlugExists checks the unique slug index.
func (r *ProductRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := r.client.Single().ReadRowUsingIndex(ctx, m_product.TableName, m_product.SlugIndex, spanner.Key{slug}, []string{m_product.Slug})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return true, nil
}

// DirtyColumns maps the product's dirty fields to column updates.
func DirtyColumns(product *domain.Product) map[string]interface{} {
	changes := product.Changes()
	if !changes.HasChanges() {
		return nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldName) {
		updates[m_product.Name] = product.Name()
	}
	if changes.Dirty(domain.FieldDescription) {
		updates[m_product.Description] = product.Description()
	}
	if changes.Dirty(domain.FieldPrice) {
		updates[m_product.Price] = product.Price()
	}
	if changes.Dirty(domain.FieldSKU) {
		updates[m_product.SKU] = product.SKU()
	}
	if changes.Dirty(domain.FieldStock) {
		updates[m_product.Stock] = product.Stock()
	}
	if changes.Dirty(domain.FieldCategories) {
		updates[m_product.Categories] = product.Categories()
	}
	if changes.Dirty(domain.FieldTags) {
		updates[m_product.Tags] = product.Tags()
	}
	if changes.Dirty(domain.FieldStatus) {
		updates[m_product.Status] = string(product.Status())
	}
	if changes.Dirty(domain.FieldUpdatedBy) {
		updates[m_product.UpdatedBy] = product.UpdatedBy()
	}

	return updates
}

// DomainToData converts a domain Product to database Data.
func DomainToData(product *domain.Product) *m_product.Data {
	return &m_product.Data{
		ProductID:   product.ID(),
		Slug:        product.Slug(),
		Name:        product.Name(),
		Description: product.Description(),
		Price:       product.Price(),
		SKU:         product.SKU(),
		Stock:       product.Stock(),
		Categories:  product.Categories(),
		Tags:        product.Tags(),
		Status:      string(product.Status()),
		CreatedBy:   product.CreatedBy(),
		UpdatedBy:   product.UpdatedBy(),
		CreatedAt:   product.CreatedAt(),
		UpdatedAt:   product.UpdatedAt(),
	}
}

// DataToDomain converts database Data to a domain Product.
func DataToDomain(data *m_product.Data) *domain.Product {
	return domain.ReconstructProduct(
		data.ProductID,
		data.Slug,
		data.Name,
		data.Description,
		data.Price,
		data.SKU,
		data.Stock,
		data.Categories,
		data.Tags,
		domain.ProductStatus(data.Status),
		data.CreatedBy,
		data.UpdatedBy,
		data.CreatedAt,
		data.UpdatedAt,
	)
}
