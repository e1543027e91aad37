package list_entries

import (
	"context"

	"github.com/light-bringer/procat-web/internal/app/audit/repo"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Request contains filtering and pagination parameters.
type Request struct {
	ResourceType string
	UserID       string
	Limit        int
	Offset       int
}

// Reader reads audit records.
type Reader interface {
	List(ctx context.Context, filter repo.ListFilter) (*repo.ListResult, error)
}

// Query handles the list audit entries query.
type Query struct {
	reader Reader
}

// NewQuery creates a new list entries query.
func NewQuery(reader Reader) *Query {
	return &Query{reader: reader}
}

// Execute returns audit records most recent first.
func (q *Query) Execute(ctx context.Context, req *Request) (*repo.ListResult, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	return q.reader.List(ctx, repo.ListFilter{
		ResourceType: req.ResourceType,
		UserID:       req.UserID,
		Limit:        int64(limit),
		Offset:       int64(offset),
	})
}
