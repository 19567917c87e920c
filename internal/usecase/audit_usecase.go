package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/contaledger/contaledger/internal/domain"
)

// AuditUseCase queries the audit trail.
type AuditUseCase struct {
	auditRepo AuditRepository
	logger    zerolog.Logger
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(auditRepo AuditRepository) *AuditUseCase {
	return &AuditUseCase{auditRepo: auditRepo, logger: log.Logger}
}

// WithLogger sets the logger used for technical failures.
func (uc *AuditUseCase) WithLogger(l zerolog.Logger) *AuditUseCase {
	uc.logger = l
	return uc
}

// List returns audit entries newest first.
func (uc *AuditUseCase) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	limit, offset, err := domain.ValidatePagination(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = limit, offset

	entries, err := uc.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, technicalError(uc.logger, "audit.list", err)
	}
	return entries, nil
}
