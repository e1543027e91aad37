package domain

// BulkAction is an operation applied to many products at once.
type BulkAction string

const (
	BulkPublish BulkAction = "publish"
	BulkDraft   BulkAction = "draft"
	BulkArchive BulkAction = "archive"
	BulkDelete  BulkAction = "delete"
)

// ParseBulkAction validates s.
func ParseBulkAction(s string) (BulkAction, error) {
	switch a := BulkAction(s); a {
	case BulkPublish, BulkDraft, BulkArchive, BulkDelete:
		return a, nil
	default:
		return "", ErrInvalidBulkAction
	}
}

// TargetStatus is the status a non-delete action moves products to.
func (a BulkAction) TargetStatus() (ProductStatus, bool) {
	switch a {
	case BulkPublish:
		return StatusPublished, true
	case BulkDraft:
		return StatusDraft, true
	case BulkArchive:
		return StatusArchived, true
	default:
		return "", false
	}
}
