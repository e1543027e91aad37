package domain

import "strings"

// ProductStatus represents the lifecycle status of a product.
type ProductStatus string

const (
	StatusDraft     ProductStatus = "draft"
	StatusPublished ProductStatus = "published"
	StatusArchived  ProductStatus = "archived"
)

// ParseStatus validates s. An empty value means published.
func ParseStatus(s string) (ProductStatus, error) {
	switch ProductStatus(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusPublished:
		return StatusPublished, nil
	case StatusDraft:
		return StatusDraft, nil
	case StatusArchived:
		return StatusArchived, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Statuses lists every status in display order.
func Statuses() []ProductStatus {
	return []ProductStatus{StatusDraft, StatusPublished, StatusArchived}
}
