package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/mmconsole/internal/domain"
)

// StubAccountDirectory is a map-backed AccountDirectory with overridable calls.
type StubAccountDirectory struct {
	mu              sync.RWMutex
	accounts        map[string]domain.AccountReference
	balances        map[string]domain.BalanceSnapshot
	classifications map[string]domain.AccountClassification

	GetAccountFunc        func(ctx context.Context, accountNo string) (*domain.AccountReference, error)
	GetBalanceFunc        func(ctx context.Context, accountNo string) (*domain.BalanceSnapshot, error)
	GetClassificationFunc func(ctx context.Context, accountNo string) (*domain.AccountClassification, error)
}

func NewStubAccountDirectory() *StubAccountDirectory {
	return &StubAccountDirectory{
		accounts:        make(map[string]domain.AccountReference),
		balances:        make(map[string]domain.BalanceSnapshot),
		classifications: make(map[string]domain.AccountClassification),
	}
}

// Put registers an account with its balance.
func (s *StubAccountDirectory) Put(ref domain.AccountReference, balance domain.BalanceSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance.AccountNo = ref.AccountNo
	s.accounts[ref.AccountNo] = ref
	s.balances[ref.AccountNo] = balance
	s.classifications[ref.AccountNo] = domain.AccountClassification{
		AccountNo:          ref.AccountNo,
		IsOverdraftAccount: ref.IsOverdraftEnabled,
		IsAssetAccount:     ref.IsAsset,
	}
}

func (s *StubAccountDirectory) GetAccount(ctx context.Context, accountNo string) (*domain.AccountReference, error) {
	if s.GetAccountFunc != nil {
		return s.GetAccountFunc(ctx, accountNo)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ref, ok := s.accounts[accountNo]; ok {
		return &ref, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (s *StubAccountDirectory) GetBalance(ctx context.Context, accountNo string) (*domain.BalanceSnapshot, error) {
	if s.GetBalanceFunc != nil {
		return s.GetBalanceFunc(ctx, accountNo)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.balances[accountNo]; ok {
		return &b, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (s *StubAccountDirectory) GetClassification(ctx context.Context, accountNo string) (*domain.AccountClassification, error) {
	if s.GetClassificationFunc != nil {
		return s.GetClassificationFunc(ctx, accountNo)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.classifications[accountNo]; ok {
		return &c, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (s *StubAccountDirectory) ListAccounts(ctx context.Context, limit, offset int) ([]*domain.AccountReference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.AccountReference
	for _, ref := range s.accounts {
		r := ref
		out = append(out, &r)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// StubRateService serves fixed quotes keyed by pair.
type StubRateService struct {
	mu     sync.RWMutex
	quotes map[string]domain.ExchangeRateQuote
	calls  int

	LatestRateFunc func(ctx context.Context, pair domain.CurrencyPair) (*domain.ExchangeRateQuote, error)
}

func NewStubRateService() *StubRateService {
	return &StubRateService{quotes: make(map[string]domain.ExchangeRateQuote)}
}

func (s *StubRateService) Put(q domain.ExchangeRateQuote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[q.Pair.String()] = q
}

// Calls returns how many lookups reached the stub.
func (s *StubRateService) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

func (s *StubRateService) LatestRate(ctx context.Context, pair domain.CurrencyPair) (*domain.ExchangeRateQuote, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.LatestRateFunc != nil {
		return s.LatestRateFunc(ctx, pair)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if q, ok := s.quotes[pair.String()]; ok {
		return &q, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrRateUnavailable, pair)
}

// StubTransactionGateway records submitted transactions.
type StubTransactionGateway struct {
	mu        sync.Mutex
	Submitted []domain.NewTransaction

	CreateFunc func(ctx context.Context, tx domain.NewTransaction) (*domain.Transaction, error)
}

func (s *StubTransactionGateway) Create(ctx context.Context, tx domain.NewTransaction) (*domain.Transaction, error) {
	s.mu.Lock()
	s.Submitted = append(s.Submitted, tx)
	n := len(s.Submitted)
	s.mu.Unlock()
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, tx)
	}
	return &domain.Transaction{
		ID:        fmt.Sprintf("txn-%d", n),
		Status:    domain.StatusEntry,
		ValueDate: tx.ValueDate,
		Narration: tx.Narration,
		Lines:     tx.Lines,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SequenceIDGenerator returns id-1, id-2, ...
type SequenceIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewSequenceIDGenerator() *SequenceIDGenerator {
	return &SequenceIDGenerator{}
}

func (m *SequenceIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}

// MemoryIdempotencyStore is a map-backed IdempotencyStore.
type MemoryIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MemoryIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MemoryIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MemoryIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
