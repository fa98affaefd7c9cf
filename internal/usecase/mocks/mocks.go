package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/2025-demo-01/svc-wallet/internal/domain"
	"github.com/2025-demo-01/svc-wallet/internal/usecase"
)

// MockTransaction is a no-op transaction that records its outcome.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	mu           sync.Mutex
	Transactions []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// MockAccountRepository is an in-memory AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	GetForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	CreateTxFunc      func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	UpdateBalanceFunc func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

func (m *MockAccountRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		copied := *acc
		return &copied, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		copied := *account
		m.accounts[account.ID] = &copied
	}
	return nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = balance
	acc.UpdatedAt = updatedAt
	return nil
}

// Balance returns the stored balance for assertions.
func (m *MockAccountRepository) Balance(id string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc.Balance
	}
	return decimal.Zero
}

// MockEntryRepository is an in-memory EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	Entries []*domain.LedgerEntry

	CreateFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return nil
}

// SumDeltas reconstructs an account balance from recorded entries.
func (m *MockEntryRepository) SumDeltas(accountID string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.Entries {
		if e.AccountID == accountID {
			sum = sum.Add(e.Delta)
		}
	}
	return sum
}

// MockProcessedTradeRepository is an in-memory ProcessedTradeRepository.
type MockProcessedTradeRepository struct {
	mu      sync.RWMutex
	markers map[string]*domain.ProcessedTrade

	ExistsFunc func(ctx context.Context, tx usecase.Transaction, tradeID string) (bool, error)
	CreateFunc func(ctx context.Context, tx usecase.Transaction, marker *domain.ProcessedTrade) error
}

func NewMockProcessedTradeRepository() *MockProcessedTradeRepository {
	return &MockProcessedTradeRepository{markers: make(map[string]*domain.ProcessedTrade)}
}

func (m *MockProcessedTradeRepository) Exists(ctx context.Context, tx usecase.Transaction, tradeID string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, tx, tradeID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.markers[tradeID]
	return ok, nil
}

func (m *MockProcessedTradeRepository) Create(ctx context.Context, tx usecase.Transaction, marker *domain.ProcessedTrade) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, marker)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.markers[marker.TradeID]; ok {
		return domain.ErrTradeAlreadyProcessed
	}
	m.markers[marker.TradeID] = marker
	return nil
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
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
	m.next++
	return fmt.Sprintf("id-%04d", m.next)
}

// MockIdempotencyStore is an in-memory IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]struct{}

	SetIfAbsentFunc func(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{keys: make(map[string]struct{})}
}

func (m *MockIdempotencyStore) SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if m.SetIfAbsentFunc != nil {
		return m.SetIfAbsentFunc(ctx, key, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.keys[key]; ok {
		return false, nil
	}
	m.keys[key] = struct{}{}
	return true, nil
}

// MockWithdrawEnqueuer records enqueued withdraw messages.
type MockWithdrawEnqueuer struct {
	mu       sync.Mutex
	Messages []domain.WithdrawQueued

	EnqueueFunc func(ctx context.Context, msg domain.WithdrawQueued) (int64, error)
}

func NewMockWithdrawEnqueuer() *MockWithdrawEnqueuer {
	return &MockWithdrawEnqueuer{}
}

func (m *MockWithdrawEnqueuer) Enqueue(ctx context.Context, msg domain.WithdrawQueued) (int64, error) {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, msg)
	return int64(len(m.Messages)), nil
}

// MockSigner returns a fixed signing status.
type MockSigner struct {
	Status string
	Err    error

	SignFunc func(ctx context.Context, payload []byte) (string, error)
}

func NewMockSigner() *MockSigner {
	return &MockSigner{Status: "ok"}
}

func (m *MockSigner) Sign(ctx context.Context, payload []byte) (string, error) {
	if m.SignFunc != nil {
		return m.SignFunc(ctx, payload)
	}
	return m.Status, m.Err
}
