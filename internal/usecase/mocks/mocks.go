package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contaledger/contaledger/internal/domain"
	"github.com/contaledger/contaledger/internal/usecase"
)

// MockPeriodRepository is an in-memory implementation of PeriodRepository.
// Reads return copies so that callers never mutate stored state without Update.
type MockPeriodRepository struct {
	mu         sync.RWMutex
	periods    map[string]*domain.Period
	dependents map[string]bool

	ListFunc          func(ctx context.Context, filter domain.PeriodFilter) ([]*domain.Period, error)
	GetByIDFunc       func(ctx context.Context, id string) (*domain.Period, error)
	ListForUpdateFunc func(ctx context.Context, tx usecase.Transaction) ([]*domain.Period, error)
	CreateFunc        func(ctx context.Context, tx usecase.Transaction, period *domain.Period) error
	UpdateFunc        func(ctx context.Context, tx usecase.Transaction, period *domain.Period) error
	DeleteFunc        func(ctx context.Context, tx usecase.Transaction, id string) error
	SetActiveFunc     func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockPeriodRepository() *MockPeriodRepository {
	return &MockPeriodRepository{
		periods:    make(map[string]*domain.Period),
		dependents: make(map[string]bool),
	}
}

// Seed stores copies of periods.
func (m *MockPeriodRepository) Seed(periods ...*domain.Period) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range periods {
		cp := *p
		m.periods[p.ID] = &cp
	}
}

// MarkDependents flags a period as having journal entries or balances.
func (m *MockPeriodRepository) MarkDependents(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dependents[id] = true
}

// Snapshot returns copies of all stored periods ordered ascending.
func (m *MockPeriodRepository) Snapshot() []*domain.Period {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.SortPeriodsAsc(m.copies(func(*domain.Period) bool { return true }))
}

func (m *MockPeriodRepository) copies(keep func(*domain.Period) bool) []*domain.Period {
	out := make([]*domain.Period, 0, len(m.periods))
	for _, p := range m.periods {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out
}

func (m *MockPeriodRepository) List(ctx context.Context, filter domain.PeriodFilter) ([]*domain.Period, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.copies(func(p *domain.Period) bool {
		return filter.State == "" || p.State == filter.State
	}), nil
}

func (m *MockPeriodRepository) GetByID(ctx context.Context, id string) (*domain.Period, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.periods[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrPeriodNotFound
}

func (m *MockPeriodRepository) ListForUpdate(ctx context.Context, tx usecase.Transaction) ([]*domain.Period, error) {
	if m.ListForUpdateFunc != nil {
		return m.ListForUpdateFunc(ctx, tx)
	}
	return m.List(ctx, domain.PeriodFilter{})
}

func (m *MockPeriodRepository) Create(ctx context.Context, tx usecase.Transaction, period *domain.Period) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, period)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.periods {
		if p.YearMonth() == period.YearMonth() {
			return fmt.Errorf("duplicate period %s", period.YearMonth())
		}
	}
	cp := *period
	m.periods[period.ID] = &cp
	return nil
}

func (m *MockPeriodRepository) Update(ctx context.Context, tx usecase.Transaction, period *domain.Period) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, period)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.periods[period.ID]; !ok {
		return domain.ErrPeriodNotFound
	}
	cp := *period
	m.periods[period.ID] = &cp
	return nil
}

func (m *MockPeriodRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.periods, id)
	return nil
}

func (m *MockPeriodRepository) HasDependents(ctx context.Context, tx usecase.Transaction, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dependents[id], nil
}

func (m *MockPeriodRepository) SetActive(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.periods {
		p.IsActive = id != "" && p.ID == id
	}
	return nil
}

// MockAccountRepository is an in-memory implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc     func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	UpdateFunc     func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	ListActiveFunc func(ctx context.Context, tx usecase.Transaction) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Code == account.Code {
			return domain.ErrAccountExists
		}
	}
	cp := *account
	m.accounts[account.ID] = &cp
	return nil
}

func (m *MockAccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.accounts[account.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	cp := *account
	cp.Code = existing.Code
	cp.CreatedAt = existing.CreatedAt
	m.accounts[account.ID] = &cp
	return nil
}

func (m *MockAccountRepository) ClearAcceptsMovements(ctx context.Context, tx usecase.Transaction, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.AcceptsMovements = false
	acc.UpdatedAt = at
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		cp := *acc
		return &cp, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) sorted() []*domain.Account {
	out := make([]*domain.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.sorted()
	if offset >= len(all) {
		return []*domain.Account{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *MockAccountRepository) ListActive(ctx context.Context, tx usecase.Transaction) ([]*domain.Account, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx, tx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Account
	for _, a := range m.sorted() {
		if a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

type balanceKey struct {
	periodID  string
	accountID string
}

// MockBalanceRepository is an in-memory implementation of BalanceRepository.
type MockBalanceRepository struct {
	mu       sync.RWMutex
	balances map[balanceKey]*domain.AccountPeriodBalance

	UpsertFunc func(ctx context.Context, tx usecase.Transaction, balance *domain.AccountPeriodBalance) error
}

func NewMockBalanceRepository() *MockBalanceRepository {
	return &MockBalanceRepository{
		balances: make(map[balanceKey]*domain.AccountPeriodBalance),
	}
}

// SetBalance stores a balance directly.
func (m *MockBalanceRepository) SetBalance(periodID, accountID string, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[balanceKey{periodID, accountID}] = &domain.AccountPeriodBalance{
		PeriodID:  periodID,
		AccountID: accountID,
		Balance:   balance,
	}
}

func (m *MockBalanceRepository) Get(ctx context.Context, tx usecase.Transaction, periodID, accountID string) (decimal.Decimal, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.balances[balanceKey{periodID, accountID}]; ok {
		return b.Balance, true, nil
	}
	return decimal.Zero, false, nil
}

func (m *MockBalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, balance *domain.AccountPeriodBalance) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, balance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *balance
	m.balances[balanceKey{balance.PeriodID, balance.AccountID}] = &cp
	return nil
}

func (m *MockBalanceRepository) ListByPeriod(ctx context.Context, periodID string) ([]*domain.AccountPeriodBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AccountPeriodBalance
	for k, b := range m.balances {
		if k.periodID == periodID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// Count returns the number of stored balance rows.
func (m *MockBalanceRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.balances)
}

// MockMovementRepository serves fixed movements per (period, account).
type MockMovementRepository struct {
	mu        sync.RWMutex
	movements map[balanceKey]domain.Movement

	SumByAccountFunc func(ctx context.Context, tx usecase.Transaction, periodID, accountID string) (domain.Movement, error)
}

func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{
		movements: make(map[balanceKey]domain.Movement),
	}
}

// SetMovement stores the non-voided debit and credit sums of an account.
func (m *MockMovementRepository) SetMovement(periodID, accountID string, debit, credit decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movements[balanceKey{periodID, accountID}] = domain.Movement{Debit: debit, Credit: credit}
}

func (m *MockMovementRepository) SumByAccount(ctx context.Context, tx usecase.Transaction, periodID, accountID string) (domain.Movement, error) {
	if m.SumByAccountFunc != nil {
		return m.SumByAccountFunc(ctx, tx, periodID, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mv, ok := m.movements[balanceKey{periodID, accountID}]; ok {
		return mv, nil
	}
	return domain.Movement{Debit: decimal.Zero, Credit: decimal.Zero}, nil
}

// MockAuditRepository records audit entries in memory.
type MockAuditRepository struct {
	mu      sync.RWMutex
	entries []*domain.AuditLog

	CreateFunc func(ctx context.Context, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AuditLog
	for _, e := range m.entries {
		if filter.Action != "" && string(e.Action) != filter.Action {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Entries returns the recorded audit entries in write order.
func (m *MockAuditRepository) Entries() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.entries...)
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%04d", m.counter)
}

// MockCache is an in-memory implementation of Cache. TTLs are ignored.
type MockCache struct {
	mu   sync.Mutex
	data map[string][]byte

	Gets    int
	Sets    int
	Deletes int
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, usecase.ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	delete(m.data, key)
	return nil
}

// MockObserver counts observed outcomes.
type MockObserver struct {
	mu       sync.Mutex
	Closings map[string]int
	Periods  map[string]int
}

func NewMockObserver() *MockObserver {
	return &MockObserver{
		Closings: make(map[string]int),
		Periods:  make(map[string]int),
	}
}

func (m *MockObserver) ObserveClosing(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closings[outcome]++
}

func (m *MockObserver) ObservePeriodOperation(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Periods[operation+":"+outcome]++
}
