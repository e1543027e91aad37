package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/app/audit/repo"
	"github.com/light-bringer/procat-web/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-web/internal/app/catalog/domain"
)

const recentActivity = 10

// ActivityReader reads audit records.
type ActivityReader interface {
	List(ctx context.Context, filter repo.ListFilter) (*repo.ListResult, error)
}

// Result is the admin landing page data.
type Result struct {
	Total    int64               `json:"total"`
	ByStatus map[string]int64    `json:"by_status"`
	Taxonomy *contracts.Taxonomy `json:"taxonomy"`
	Recent   []*audit.Record     `json:"recent"`
}

// Query assembles the admin dashboard.
type Query struct {
	readModel contracts.ReadModel
	activity  ActivityReader
}

// NewQuery creates a new dashboard query. activity may be nil for managers,
// who do not see the audit log.
func NewQuery(readModel contracts.ReadModel, activity ActivityReader) *Query {
	return &Query{readModel: readModel, activity: activity}
}

// Execute runs the reads concurrently. withActivity adds the latest audit records.
func (q *Query) Execute(ctx context.Context, withActivity bool) (*Result, error) {
	res := &Result{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		counts, err := q.readModel.CountByStatus(ctx)
		if err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		res.ByStatus = make(map[string]int64, len(domain.Statuses()))
		for _, s := range domain.Statuses() {
			res.ByStatus[string(s)] = counts[string(s)]
			res.Total += counts[string(s)]
		}
		return nil
	})
	g.Go(func() error {
		tax, err := q.readModel.Taxonomy(ctx, contracts.StatusAll)
		if err != nil {
			return fmt.Errorf("failed to load taxonomy: %w", err)
		}
		res.Taxonomy = tax
		return nil
	})
	if withActivity && q.activity != nil {
		g.Go(func() error {
			page, err := q.activity.List(ctx, repo.ListFilter{Limit: recentActivity})
			if err != nil {
				return fmt.Errorf("failed to load activity: %w", err)
			}
			res.Recent = page.Records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
