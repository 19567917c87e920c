package postgres

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contaledger/contaledger/internal/domain"
	"github.com/contaledger/contaledger/internal/infrastructure/postgres/generated"
)

// AuditRepository implements audit log persistence
type AuditRepository struct {
	db generated.DBTX
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return newAuditRepository(pool)
}

func newAuditRepository(db generated.DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.OccurredAt.IsZero() {
		log.OccurredAt = time.Now().UTC()
	}

	var payload []byte
	if log.Payload != nil {
		var err error
		payload, err = json.Marshal(log.Payload)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_logs (id, user_id, action, status, description, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		log.ID,
		stringPtrToPgText(log.UserID),
		string(log.Action),
		string(log.Status),
		log.Description,
		payload,
		log.OccurredAt,
	)

	return err
}

// List retrieves audit logs with filtering, newest first
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, user_id, action, status, description, payload, occurred_at
		FROM audit_logs
		WHERE 1=1`)

	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.UserID != "" {
		sb.WriteString(" AND user_id = " + arg(filter.UserID))
	}
	if filter.Action != "" {
		sb.WriteString(" AND action = " + arg(filter.Action))
	}
	if filter.StartDate != nil {
		sb.WriteString(" AND occurred_at >= " + arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		sb.WriteString(" AND occurred_at <= " + arg(*filter.EndDate))
	}

	sb.WriteString(" ORDER BY occurred_at DESC")

	if filter.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(filter.Offset))
	}

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*domain.AuditLog{}
	for rows.Next() {
		var (
			log     domain.AuditLog
			userID  pgtype.Text
			action  string
			status  string
			payload []byte
		)

		if err := rows.Scan(
			&log.ID,
			&userID,
			&action,
			&status,
			&log.Description,
			&payload,
			&log.OccurredAt,
		); err != nil {
			return nil, err
		}

		log.UserID = pgTextToStringPtr(userID)
		log.Action = domain.AuditAction(action)
		log.Status = domain.AuditStatus(status)
		if payload != nil {
			_ = json.Unmarshal(payload, &log.Payload)
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
