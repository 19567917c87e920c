package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/contaledger/contaledger/internal/domain"
)

func TestAuditRepositoryCreateAssignsID(t *testing.T) {
	mockPool := newMockPool(t)
	user := "ana"

	mockPool.ExpectExec("INSERT INTO audit_logs").
		WithArgs(pgxmock.AnyArg(), pgtype.Text{String: "ana", Valid: true}, "closing.attempt", "attempt", "closing attempt", []byte(`{"period_id":"p1"}`), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	log := &domain.AuditLog{
		UserID:      &user,
		Action:      domain.AuditActionClosingAttempt,
		Status:      domain.AuditStatusAttempt,
		Description: "closing attempt",
		Payload:     domain.JSON{"period_id": "p1"},
	}
	if err := newAuditRepository(mockPool).Create(context.Background(), log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.ID == "" {
		t.Fatalf("expected generated ID")
	}
	if log.OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at to be stamped")
	}

	assertExpectations(t, mockPool)
}

func TestAuditRepositoryListBuildsPlaceholders(t *testing.T) {
	mockPool := newMockPool(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	at := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(`AND user_id = \$1 AND action = \$2 AND occurred_at >= \$3 ORDER BY occurred_at DESC LIMIT \$4 OFFSET \$5`).
		WithArgs("ana", "period.close", start, 10, 5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "action", "status", "description", "payload", "occurred_at"}).
			AddRow("l1", pgtype.Text{String: "ana", Valid: true}, "period.close", "success", "closed 2024-01", []byte(`{"closed":1}`), at).
			AddRow("l2", pgtype.Text{}, "period.close", "success", "closed 2024-02", []byte(nil), at))

	logs, err := newAuditRepository(mockPool).List(context.Background(), domain.AuditFilter{
		UserID:    "ana",
		Action:    "period.close",
		StartDate: &start,
		Limit:     10,
		Offset:    5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	if logs[0].UserID == nil || *logs[0].UserID != "ana" || logs[0].Action != domain.AuditActionPeriodClose {
		t.Fatalf("unexpected first log: %+v", logs[0])
	}
	if logs[0].Payload["closed"] != float64(1) {
		t.Fatalf("expected payload to decode, got %v", logs[0].Payload)
	}
	if logs[1].UserID != nil || logs[1].Payload != nil {
		t.Fatalf("expected anonymous log without payload, got %+v", logs[1])
	}

	assertExpectations(t, mockPool)
}
