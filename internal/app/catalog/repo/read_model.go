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
	"github.com/light-bringer/procat-web/internal/models/m_product_image"
	"github.com/light-bringer/procat-web/internal/pkg/query"
)

// ReadModelImpl implements ReadModel for Spanner.
type ReadModelImpl struct {
	client *spanner.Client
}

// NewReadModel creates a new ReadModel implementation.
func NewReadModel(client *spanner.Client) contracts.ReadModel {
	return &ReadModelImpl{
		client: client,
	}
}

// GetProductByID retrieves a product DTO by ID.
func (rm *ReadModelImpl) GetProductByID(ctx context.Context, productID string) (*contracts.ProductDTO, error) {
	row, err := rm.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{productID}, m_product.AllColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}
	return rm.withImages(ctx, row)
}

// GetProductBySlug retrieves a product DTO by slug.
func (rm *ReadModelImpl) GetProductBySlug(ctx context.Context, slug string) (*contracts.ProductDTO, error) {
	stmt := query.From(m_product.TableName).
		Select(m_product.AllColumns...).
		Where(query.Eq(m_product.Slug, slug)).
		Limit(1).
		Build()

	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read product: %w", err)
	}
	return rm.withImages(ctx, row)
}

// ListProducts retrieves one window of the filtered catalog and its total.
func (rm *ReadModelImpl) ListProducts(ctx context.Context, filter *contracts.ListFilter) (*contracts.ListResult, error) {
	builder := ListBuilder(filter)

	total, err := rm.count(ctx, builder.Count().Build())
	if err != nil {
		return nil, err
	}

	products, err := rm.queryProducts(ctx, builder.Window(filter.Window.From, filter.Window.To).Build())
	if err != nil {
		return nil, err
	}
	if err := rm.attachImages(ctx, products); err != nil {
		return nil, err
	}

	return &contracts.ListResult{
		Products:   products,
		Total:      total,
		Page:       filter.Window.Page,
		PageSize:   filter.Window.PageSize,
		TotalPages: filter.Window.TotalPages(total),
	}, nil
}

// ListAll returns every product with its images, newest first.
func (rm *ReadModelImpl) ListAll(ctx context.Context) ([]*contracts.ProductDTO, error) {
	stmt := query.From(m_product.TableName).
		Select(m_product.AllColumns...).
		OrderBy(m_product.CreatedAt, query.Desc).
		ThenBy(m_product.ProductID, query.Asc).
		Build()

	products, err := rm.queryProducts(ctx, stmt)
	if err != nil {
		return nil, err
	}
	if err := rm.attachImages(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// Taxonomy counts products per category and per tag.
func (rm *ReadModelImpl) Taxonomy(ctx context.Context, status string) (*contracts.Taxonomy, error) {
	categories, err := rm.labelCounts(ctx, TaxonomyStatement(m_product.Categories, status))
	if err != nil {
		return nil, err
	}
	tags, err := rm.labelCounts(ctx, TaxonomyStatement(m_product.Tags, status))
	if err != nil {
		return nil, err
	}
	return &contracts.Taxonomy{Categories: categories, Tags: tags}, nil
}

// CountByStatus returns the number of products per status.
func (rm *ReadModelImpl) CountByStatus(ctx context.Context) (map[string]int64, error) {
	stmt := spanner.Statement{
		SQL: fmt.Sprintf("SELECT %s, COUNT(*) FROM %s GROUP BY %s", m_product.Status, m_product.TableName, m_product.Status),
	}

	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	counts := make(map[string]int64)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to count products: %w", err)
		}
		var status string
		var n int64
		if err := row.Columns(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to parse product count: %w", err)
		}
		counts[status] = n
	}
	return counts, nil
}

// ListBuilder composes the product listing query for filter.
// The count query is derived from the same builder, so totals always
// describe the filtered set.
func ListBuilder(filter *contracts.ListFilter) *query.Builder {
	builder := query.From(m_product.TableName).Select(m_product.AllColumns...)

	if filter.Query != "" {
		builder = builder.Where(query.ILike(m_product.Name, filter.Query))
	}
	if cond := statusCondition(filter.Status); cond != nil {
		builder = builder.Where(cond)
	}
	if filter.Category != "" {
		builder = builder.Where(query.Contains(m_product.Categories, filter.Category))
	}
	if filter.Tag != "" {
		builder = builder.Where(query.Contains(m_product.Tags, filter.Tag))
	}

	switch filter.Sort {
	case contracts.SortPriceAsc:
		builder = builder.OrderBy(m_product.Price, query.Asc)
	case contracts.SortPriceDesc:
		builder = builder.OrderBy(m_product.Price, query.Desc)
	default:
		builder = builder.OrderBy(m_product.CreatedAt, query.Desc)
	}
	return builder.ThenBy(m_product.ProductID, query.Asc)
}

// TaxonomyStatement counts the values of an ARRAY<STRING> column.
func TaxonomyStatement(column, status string) spanner.Statement {
	sql := fmt.Sprintf("SELECT label, COUNT(*) AS uses FROM %s, UNNEST(%s) AS label", m_product.TableName, column)
	params := map[string]interface{}{}
	if cond := statusCondition(status); cond != nil {
		fragment, condParams := cond.SQL(0)
		sql += " WHERE " + fragment
		params = condParams
	}
	sql += " GROUP BY label ORDER BY uses DESC, label ASC"
	return spanner.Statement{SQL: sql, Params: params}
}

func statusCondition(status string) query.Condition {
	switch status {
	case contracts.StatusAll:
		return nil
	case "":
		return query.Eq(m_product.Status, string(domain.StatusPublished))
	default:
		return query.Eq(m_product.Status, status)
	}
}

func (rm *ReadModelImpl) count(ctx context.Context, stmt spanner.Statement) (int64, error) {
	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	var total int64
	if err := row.Columns(&total); err != nil {
		return 0, fmt.Errorf("failed to parse product count: %w", err)
	}
	return total, nil
}

func (rm *ReadModelImpl) queryProducts(ctx context.Context, stmt spanner.Statement) ([]*contracts.ProductDTO, error) {
	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	products := make([]*contracts.ProductDTO, 0)
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
		products = append(products, DataToDTO(&data))
	}
	return products, nil
}

func (rm *ReadModelImpl) withImages(ctx context.Context, row *spanner.Row) (*contracts.ProductDTO, error) {
	var data m_product.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}
	dto := DataToDTO(&data)
	if err := rm.attachImages(ctx, []*contracts.ProductDTO{dto}); err != nil {
		return nil, err
	}
	return dto, nil
}

// attachImages loads the images of all products in one query.
func (rm *ReadModelImpl) attachImages(ctx context.Context, products []*contracts.ProductDTO) error {
	if len(products) == 0 {
		return nil
	}

	byID := make(map[string]*contracts.ProductDTO, len(products))
	ids := make([]string, 0, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
		ids = append(ids, p.ProductID)
	}

	stmt := query.From(m_product_image.TableName).
		Select(m_product_image.AllColumns...).
		Where(query.In(m_product_image.ProductID, ids)).
		OrderBy(m_product_image.ProductID, query.Asc).
		ThenBy(m_product_image.Position, query.Asc).
		ThenBy(m_product_image.CreatedAt, query.Asc).
		Build()

	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to iterate images: %w", err)
		}

		var data m_product_image.Data
		if err := row.ToStruct(&data); err != nil {
			return fmt.Errorf("failed to parse image: %w", err)
		}
		if p, ok := byID[data.ProductID]; ok {
			p.Images = append(p.Images, &contracts.ImageDTO{
				ImageID:  data.ImageID,
				URL:      data.URL,
				Alt:      data.Alt,
				Position: data.Position,
			})
		}
	}
}

func (rm *ReadModelImpl) labelCounts(ctx context.Context, stmt spanner.Statement) ([]contracts.LabelCount, error) {
	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	counts := make([]contracts.LabelCount, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return counts, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate labels: %w", err)
		}
		var lc contracts.LabelCount
		if err := row.Columns(&lc.Name, &lc.Count); err != nil {
			return nil, fmt.Errorf("failed to parse label count: %w", err)
		}
		counts = append(counts, lc)
	}
}

// DataToDTO converts database Data to a ProductDTO without images.
func DataToDTO(data *m_product.Data) *contracts.ProductDTO {
	categories := data.Categories
	if categories == nil {
		categories = []string{}
	}
	tags := data.Tags
	if tags == nil {
		tags = []string{}
	}
	return &contracts.ProductDTO{
		ProductID:   data.ProductID,
		Slug:        data.Slug,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		SKU:         data.SKU,
		Stock:       data.Stock,
		Categories:  categories,
		Tags:        tags,
		Status:      data.Status,
		CreatedBy:   data.CreatedBy,
		UpdatedBy:   data.UpdatedBy,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
		Images:      []*contracts.ImageDTO{},
	}
}
