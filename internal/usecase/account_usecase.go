package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/contaledger/contaledger/internal/domain"
)

// maxAccountDepth bounds the parent walk used to reject cycles.
const maxAccountDepth = 64

// AccountUseCase handles the chart of accounts.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	idGen       IDGenerator
	retrier     Retrier
	audit       *auditRecorder
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *AccountUseCase {
	uc := &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		idGen:       idGen,
		logger:      log.Logger,
		now:         time.Now,
	}
	uc.audit = &auditRecorder{repo: auditRepo, logger: uc.logger, now: uc.now}
	return uc
}

// WithRetrier enables retries of transient storage conflicts.
func (uc *AccountUseCase) WithRetrier(r Retrier) *AccountUseCase {
	uc.retrier = r
	return uc
}

// WithLogger sets the logger used for technical failures.
func (uc *AccountUseCase) WithLogger(l zerolog.Logger) *AccountUseCase {
	uc.logger = l
	uc.audit.logger = l
	return uc
}

// WithNow overrides the clock for deterministic tests.
func (uc *AccountUseCase) WithNow(now func() time.Time) *AccountUseCase {
	if now != nil {
		uc.now = now
		uc.audit.now = now
	}
	return uc
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	ParentID         *string
	Code             string
	Name             string
	Type             string
	BalanceSide      string
	AcceptsMovements bool
}

// CreateAccount creates a new active account. A parent stops accepting
// movements once it has a child.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	code := strings.TrimSpace(input.Code)
	if err := domain.ValidateAccountCode(code); err != nil {
		return nil, err
	}
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}
	accountType, err := domain.ParseAccountType(input.Type)
	if err != nil {
		return nil, err
	}
	side, err := domain.ParseBalanceSide(input.BalanceSide)
	if err != nil {
		return nil, err
	}
	parentID := normalizeParentID(input.ParentID)

	now := uc.now().UTC()

	account := &domain.Account{
		ID:               uc.idGen.Generate(),
		Code:             code,
		Name:             strings.TrimSpace(input.Name),
		Type:             accountType,
		BalanceSide:      side,
		AcceptsMovements: input.AcceptsMovements,
		ParentID:         parentID,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
		if parentID != nil {
			if err := uc.checkParent(ctx, account.ID, *parentID); err != nil {
				return err
			}
		}
		if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
			return err
		}
		if parentID != nil {
			return uc.accountRepo.ClearAcceptsMovements(ctx, tx, *parentID, now)
		}
		return nil
	})
	if err != nil {
		return nil, technicalError(uc.logger, "account.create", err)
	}

	uc.audit.record(ctx, domain.AuditActionAccountCreate, domain.AuditStatusSuccess,
		"Account "+account.Code+" created", account)
	return account, nil
}

// UpdateAccountInput carries the fields to change. Nil fields keep their
// current value; an empty ParentID detaches the account from its parent.
type UpdateAccountInput struct {
	Name             *string
	Type             *string
	BalanceSide      *string
	AcceptsMovements *bool
	Active           *bool
	ParentID         *string
}

// UpdateAccount changes the name, classification, activity or parent of an
// account. Deactivated accounts are skipped by month-end closing.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, id string, input UpdateAccountInput) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, technicalError(uc.logger, "account.update", err)
	}
	before := *account

	if input.Name != nil {
		if err := domain.ValidateAccountName(*input.Name); err != nil {
			return nil, err
		}
		account.Name = strings.TrimSpace(*input.Name)
	}
	if input.Type != nil {
		if account.Type, err = domain.ParseAccountType(*input.Type); err != nil {
			return nil, err
		}
	}
	if input.BalanceSide != nil {
		if account.BalanceSide, err = domain.ParseBalanceSide(*input.BalanceSide); err != nil {
			return nil, err
		}
	}
	if input.AcceptsMovements != nil {
		account.AcceptsMovements = *input.AcceptsMovements
	}
	if input.Active != nil {
		account.Active = *input.Active
	}

	newParent := false
	if input.ParentID != nil {
		account.ParentID = normalizeParentID(input.ParentID)
		newParent = account.ParentID != nil && (before.ParentID == nil || *before.ParentID != *account.ParentID)
	}

	now := uc.now().UTC()
	account.UpdatedAt = now

	err = runInTx(ctx, uc.txManager, uc.retrier, func(tx Transaction) error {
		if newParent {
			if err := uc.checkParent(ctx, account.ID, *account.ParentID); err != nil {
				return err
			}
		}
		if err := uc.accountRepo.Update(ctx, tx, account); err != nil {
			return err
		}
		if newParent {
			return uc.accountRepo.ClearAcceptsMovements(ctx, tx, *account.ParentID, now)
		}
		return nil
	})
	if err != nil {
		return nil, technicalError(uc.logger, "account.update", err)
	}

	uc.audit.record(ctx, domain.AuditActionAccountUpdate, domain.AuditStatusSuccess,
		"Account "+account.Code+" updated", map[string]any{"before": before, "after": account})
	return account, nil
}

// checkParent rejects unknown parents and parents that descend from id.
func (uc *AccountUseCase) checkParent(ctx context.Context, id, parentID string) error {
	current := parentID
	for depth := 0; depth < maxAccountDepth; depth++ {
		if current == id {
			return fmt.Errorf("%w: an account cannot descend from itself", domain.ErrInvalidParent)
		}
		parent, err := uc.accountRepo.GetByID(ctx, current)
		if err != nil {
			if depth == 0 && errors.Is(err, domain.ErrAccountNotFound) {
				return fmt.Errorf("%w: %s does not exist", domain.ErrInvalidParent, parentID)
			}
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
	return fmt.Errorf("%w: hierarchy deeper than %d levels", domain.ErrInvalidParent, maxAccountDepth)
}

func normalizeParentID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, technicalError(uc.logger, "account.get", err)
	}
	return account, nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	if input.Offset < 0 {
		input.Offset = 0
	}
	accounts, err := uc.accountRepo.List(ctx, input.Limit, input.Offset)
	if err != nil {
		return nil, technicalError(uc.logger, "account.list", err)
	}
	return accounts, nil
}
