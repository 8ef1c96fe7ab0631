package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/schoolworks/staff-backend-go/internal/domain/audit"
	"github.com/schoolworks/staff-backend-go/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepository{db: db}
}

// Create appends a single audit event.
func (r *auditRepository) Create(ctx context.Context, event *audit.Event) error {
	q := GetQuerier(ctx, r.db)

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	metadataJSON, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal audit metadata: %w", err)
	}

	query := `
		INSERT INTO audit_events (id, actor_id, event_type, subject_type, subject_id, risk_level, ip_address, metadata, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = q.Exec(ctx, query,
		event.ID,
		event.ActorID,
		string(event.EventType),
		event.SubjectType,
		event.SubjectID,
		string(event.RiskLevel),
		event.IPAddress,
		metadataJSON,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit event: %w", err)
	}

	return nil
}

// CreateBatch appends multiple audit events in a single statement.
func (r *auditRepository) CreateBatch(ctx context.Context, events []*audit.Event) error {
	if len(events) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	valueStrings := make([]string, 0, len(events))
	valueArgs := make([]interface{}, 0, len(events)*9)

	for i, event := range events {
		if event.ID == "" {
			event.ID = uuid.New().String()
		}

		metadataJSON, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal audit metadata: %w", err)
		}

		base := i * 9
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
		))
		valueArgs = append(valueArgs,
			event.ID,
			event.ActorID,
			string(event.EventType),
			event.SubjectType,
			event.SubjectID,
			string(event.RiskLevel),
			event.IPAddress,
			metadataJSON,
			event.OccurredAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO audit_events (id, actor_id, event_type, subject_type, subject_id, risk_level, ip_address, metadata, occurred_at)
		VALUES %s
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to batch create audit events: %w", err)
	}

	return nil
}

// GetByID retrieves one audit event.
func (r *auditRepository) GetByID(ctx context.Context, id string) (*audit.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, actor_id, event_type, subject_type, subject_id, risk_level, ip_address, metadata, occurred_at
		FROM audit_events
		WHERE id = $1
	`

	var event audit.Event
	var metadataJSON []byte

	err := q.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.ActorID,
		&event.EventType,
		&event.SubjectType,
		&event.SubjectID,
		&event.RiskLevel,
		&event.IPAddress,
		&metadataJSON,
		&event.OccurredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, audit.ErrEventNotFound
		}
		return nil, err
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &event.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit metadata: %w", err)
		}
	}

	return &event, nil
}

// List queries the audit log with filters and pagination.
func (r *auditRepository) List(ctx context.Context, filter audit.Filter) ([]*audit.Event, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.ActorID != nil && *filter.ActorID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("actor_id = $%d", argIdx))
		args = append(args, *filter.ActorID)
		argIdx++
	}
	if filter.EventType != nil && *filter.EventType != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("event_type = $%d", argIdx))
		args = append(args, *filter.EventType)
		argIdx++
	}
	if filter.SubjectType != nil && *filter.SubjectType != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("subject_type = $%d", argIdx))
		args = append(args, *filter.SubjectType)
		argIdx++
	}
	if filter.SubjectID != nil && *filter.SubjectID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("subject_id = $%d", argIdx))
		args = append(args, *filter.SubjectID)
		argIdx++
	}
	if filter.RiskLevel != nil && *filter.RiskLevel != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("risk_level = $%d", argIdx))
		args = append(args, *filter.RiskLevel)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("occurred_at >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("occurred_at < ($%d::date + 1)", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}

	whereClause := "WHERE " + strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM audit_events %s`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page == 0 {
		page = 1
	}
	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`
		SELECT id, actor_id, event_type, subject_type, subject_id, risk_level, ip_address, metadata, occurred_at
		FROM audit_events
		%s
		ORDER BY occurred_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)

	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []*audit.Event
	for rows.Next() {
		var event audit.Event
		var metadataJSON []byte

		err := rows.Scan(
			&event.ID,
			&event.ActorID,
			&event.EventType,
			&event.SubjectType,
			&event.SubjectID,
			&event.RiskLevel,
			&event.IPAddress,
			&metadataJSON,
			&event.OccurredAt,
		)
		if err != nil {
			return nil, 0, err
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &event.Metadata); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal audit metadata: %w", err)
			}
		}

		events = append(events, &event)
	}

	return events, total, rows.Err()
}

// CountByRiskSince counts events at the given risk level over the last days.
func (r *auditRepository) CountByRiskSince(ctx context.Context, level audit.RiskLevel, days int) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM audit_events
		WHERE risk_level = $1 AND occurred_at >= NOW() - ($2 || ' days')::interval
	`

	var count int64
	if err := q.QueryRow(ctx, query, string(level), days).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
