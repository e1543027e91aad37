package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/procat-web/internal/app/audit"
	"github.com/light-bringer/procat-web/internal/models/m_audit_log"
	"github.com/light-bringer/procat-web/internal/pkg/query"
)

// ListFilter narrows an audit listing. Empty fields match everything.
type ListFilter struct {
	ResourceType string
	UserID       string
	Limit        int64
	Offset       int64
}

// ListResult is one page of audit records plus the filtered total.
type ListResult struct {
	Records []*audit.Record
	Total   int64
}

// AuditRepo appends and reads audit_logs rows in Spanner.
type AuditRepo struct {
	client *spanner.Client
	model  *m_audit_log.Model
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(client *spanner.Client) *AuditRepo {
	return &AuditRepo{
		client: client,
		model:  m_audit_log.NewModel(),
	}
}

// Write implements audit.Sink.
func (r *AuditRepo) Write(ctx context.Context, entry audit.Entry) error {
	mut := r.model.InsertMut(EntryToData(uuid.New().String(), entry))
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{mut}); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// List returns audit records most recent first.
func (r *AuditRepo) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	builder := ListBuilder(filter)

	total, err := r.count(ctx, builder.Count().Build())
	if err != nil {
		return nil, err
	}

	iter := r.client.Single().Query(ctx, builder.Build())
	defer iter.Stop()

	records := make([]*audit.Record, 0, filter.Limit)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate audit logs: %w", err)
		}

		var data m_audit_log.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse audit log: %w", err)
		}
		records = append(records, DataToRecord(&data))
	}

	return &ListResult{Records: records, Total: total}, nil
}

func (r *AuditRepo) count(ctx context.Context, stmt spanner.Statement) (int64, error) {
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count audit logs: %w", err)
	}
	var total int64
	if err := row.Columns(&total); err != nil {
		return 0, fmt.Errorf("failed to parse audit log count: %w", err)
	}
	return total, nil
}

// Prune deletes audit records created before cutoff and returns how many
// matched. With dryRun nothing is deleted.
func (r *AuditRepo) Prune(ctx context.Context, cutoff time.Time, dryRun bool) (int64, error) {
	if dryRun {
		return r.count(ctx, pruneStatement("SELECT COUNT(*)", cutoff))
	}

	var deleted int64
	_, err := r.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		n, err := txn.Update(ctx, pruneStatement("DELETE", cutoff))
		if err != nil {
			return fmt.Errorf("failed to delete audit logs: %w", err)
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("prune transaction failed: %w", err)
	}
	return deleted, nil
}

func pruneStatement(verb string, cutoff time.Time) spanner.Statement {
	return spanner.Statement{
		SQL:    fmt.Sprintf("%s FROM %s WHERE %s < @cutoff", verb, m_audit_log.TableName, m_audit_log.CreatedAt),
		Params: map[string]interface{}{"cutoff": cutoff},
	}
}

// ListBuilder composes the listing query for filter.
func ListBuilder(filter ListFilter) *query.Builder {
	builder := query.From(m_audit_log.TableName).Select(m_audit_log.AllColumns...)
	if filter.ResourceType != "" {
		builder = builder.Where(query.Eq(m_audit_log.ResourceType, filter.ResourceType))
	}
	if filter.UserID != "" {
		builder = builder.Where(query.Eq(m_audit_log.UserID, filter.UserID))
	}
	return builder.
		OrderBy(m_audit_log.CreatedAt, query.Desc).
		ThenBy(m_audit_log.AuditID, query.Asc).
		Limit(filter.Limit).
		Offset(filter.Offset)
}

// EntryToData converts an audit entry to its row.
func EntryToData(auditID string, entry audit.Entry) *m_audit_log.Data {
	return &m_audit_log.Data{
		AuditID:      auditID,
		UserID:       entry.Actor.UserID,
		UserEmail:    entry.Actor.Email,
		Action:       string(entry.Action),
		ResourceType: string(entry.ResourceType),
		ResourceID:   entry.ResourceID,
		ResourceName: entry.ResourceName,
		OldValues:    toNullJSON(entry.OldValues),
		NewValues:    toNullJSON(entry.NewValues),
		IPAddress:    entry.Actor.IPAddress,
		UserAgent:    entry.Actor.UserAgent,
	}
}

// DataToRecord converts a row to a read-side record.
func DataToRecord(data *m_audit_log.Data) *audit.Record {
	return &audit.Record{
		AuditID:      data.AuditID,
		UserID:       data.UserID,
		UserEmail:    data.UserEmail,
		Action:       data.Action,
		ResourceType: data.ResourceType,
		ResourceID:   data.ResourceID,
		ResourceName: data.ResourceName,
		OldValues:    fromNullJSON(data.OldValues),
		NewValues:    fromNullJSON(data.NewValues),
		IPAddress:    data.IPAddress,
		UserAgent:    data.UserAgent,
		CreatedAt:    data.CreatedAt,
	}
}

func toNullJSON(values map[string]any) spanner.NullJSON {
	if values == nil {
		return spanner.NullJSON{}
	}
	return spanner.NullJSON{Value: values, Valid: true}
}

func fromNullJSON(v spanner.NullJSON) map[string]any {
	if !v.Valid {
		return nil
	}
	if m, ok := v.Value.(map[string]interface{}); ok {
		return m
	}
	return nil
}
