package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/light-bringer/procat-web/internal/pkg/changes"
)

// Field names for change tracking
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldSKU         = "sku"
	FieldStock       = "stock"
	FieldCategories  = "categories"
	FieldTags        = "tags"
	FieldStatus      = "status"
	FieldUpdatedBy   = "updated_by"
)

// Product is the aggregate root of the catalog.
// Prices are whole rupees. The slug is fixed at creation.
type Product struct {
	id          string
	slug        string
	name        string
	description string
	price       int64
	sku         string
	stock       int64
	categories  []string
	tags        []string
	status      ProductStatus
	createdBy   string
	updatedBy   string
	createdAt   time.Time
	updatedAt   time.Time

	// Change tracking for optimized repository updates
	changes *changes.Tracker
}

// NewProduct creates a new Product aggregate (for creation).
func NewProduct(id, slug, name string, price int64, status ProductStatus, createdBy string, now time.Time) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if slug == "" {
		return nil, ErrInvalidSlug
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if status == "" {
		status = StatusPublished
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}

	return &Product{
		id:         id,
		slug:       slug,
		name:       name,
		price:      price,
		status:     status,
		categories: []string{},
		tags:       []string{},
		createdBy:  createdBy,
		updatedBy:  createdBy,
		createdAt:  now,
		updatedAt:  now,
		changes:    changes.New(),
	}, nil
}

// ReconstructProduct reconstitutes a Product from the database.
func ReconstructProduct(
	id, slug, name, description string,
	price int64,
	sku string,
	stock int64,
	categories, tags []string,
	status ProductStatus,
	createdBy, updatedBy string,
	createdAt, updatedAt time.Time,
) *Product {
	return &Product{
		id:          id,
		slug:        slug,
		name:        name,
		description: description,
		price:       price,
		sku:         sku,
		stock:       stock,
		categories:  categories,
		tags:        tags,
		status:      status,
		createdBy:   createdBy,
		updatedBy:   updatedBy,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		changes:     changes.New(),
	}
}

// Getters
func (p *Product) ID() string                { return p.id }
func (p *Product) Slug() string              { return p.slug }
func (p *Product) Name() string              { return p.name }
func (p *Product) Description() string       { return p.description }
func (p *Product) Price() int64              { return p.price }
func (p *Product) SKU() string               { return p.sku }
func (p *Product) Stock() int64              { return p.stock }
func (p *Product) Categories() []string      { return slices.Clone(p.categories) }
func (p *Product) Tags() []string            { return slices.Clone(p.tags) }
func (p *Product) Status() ProductStatus     { return p.status }
func (p *Product) CreatedBy() string         { return p.createdBy }
func (p *Product) UpdatedBy() string         { return p.updatedBy }
func (p *Product) CreatedAt() time.Time      { return p.createdAt }
func (p *Product) UpdatedAt() time.Time      { return p.updatedAt }
func (p *Product) Changes() *changes.Tracker { return p.changes }

// SetName updates the product name. The slug is not regenerated.
func (p *Product) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if name != p.name {
		p.name = name
		p.changes.MarkDirty(FieldName)
	}
	return nil
}

// SetDescription updates the product description.
func (p *Product) SetDescription(description string) {
	if description != p.description {
		p.description = description
		p.changes.MarkDirty(FieldDescription)
	}
}

// SetPrice updates the price in whole rupees.
func (p *Product) SetPrice(price int64) error {
	if price < 0 {
		return ErrInvalidPrice
	}
	if price != p.price {
		p.price = price
		p.changes.MarkDirty(FieldPrice)
	}
	return nil
}

// SetSKU updates the stock keeping unit.
func (p *Product) SetSKU(sku string) {
	sku = strings.TrimSpace(sku)
	if sku != p.sku {
		p.sku = sku
		p.changes.MarkDirty(FieldSKU)
	}
}

// SetStock updates the units in stock.
func (p *Product) SetStock(stock int64) error {
	if stock < 0 {
		return ErrInvalidStock
	}
	if stock != p.stock {
		p.stock = stock
		p.changes.MarkDirty(FieldStock)
	}
	return nil
}

// SetCategories replaces the category set.
func (p *Product) SetCategories(categories []string) {
	normalized := NormalizeLabels(categories)
	if !slices.Equal(normalized, p.categories) {
		p.categories = normalized
		p.changes.MarkDirty(FieldCategories)
	}
}

// SetTags replaces the tag set.
func (p *Product) SetTags(tags []string) {
	normalized := NormalizeLabels(tags)
	if !slices.Equal(normalized, p.tags) {
		p.tags = normalized
		p.changes.MarkDirty(FieldTags)
	}
}

// SetStatus moves the product to another lifecycle status.
func (p *Product) SetStatus(status ProductStatus) error {
	if _, err := ParseStatus(string(status)); err != nil || status == "" {
		return ErrInvalidStatus
	}
	if status != p.status {
		p.status = status
		p.changes.MarkDirty(FieldStatus)
	}
	return nil
}

// MarkUpdated stamps the editor when there is anything to persist.
func (p *Product) MarkUpdated(updatedBy string, now time.Time) {
	if !p.changes.HasChanges() {
		return
	}
	p.updatedBy = updatedBy
	p.updatedAt = now
	p.changes.MarkDirty(FieldUpdatedBy)
}

// IsPublished reports whether the storefront may show the product.
func (p *Product) IsPublished() bool {
	return p.status == StatusPublished
}

// Snapshot returns the audited attributes of the product.
func (p *Product) Snapshot() map[string]any {
	return map[string]any{
		"slug":        p.slug,
		"name":        p.name,
		"description": p.description,
		"price":       p.price,
		"sku":         p.sku,
		"stock":       p.stock,
		"categories":  p.Categories(),
		"tags":        p.Tags(),
		"status":      string(p.status),
	}
}

// NormalizeLabels trims every label, drops empty ones and removes duplicates,
// keeping first-seen order.
func NormalizeLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

// SplitLabels parses a comma-separated form value into labels.
func SplitLabels(raw string) []string {
	return NormalizeLabels(strings.Split(raw, ","))
}
