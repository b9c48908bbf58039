package usecase

import (
	"context"
	"time"

	"github.com/iho/mmconsole/internal/domain"
)

// AccountDirectory looks up accounts, balances and classifications in the
// core banking system.
type AccountDirectory interface {
	GetAccount(ctx context.Context, accountNo string) (*domain.AccountReference, error)
	GetBalance(ctx context.Context, accountNo string) (*domain.BalanceSnapshot, error)
	GetClassification(ctx context.Context, accountNo string) (*domain.AccountClassification, error)
	ListAccounts(ctx context.Context, limit, offset int) ([]*domain.AccountReference, error)
}

// ExchangeRateService returns the latest published quote for a pair.
type ExchangeRateService interface {
	LatestRate(ctx context.Context, pair domain.CurrencyPair) (*domain.ExchangeRateQuote, error)
}

// TransactionGateway posts a validated transaction to core banking.
type TransactionGateway interface {
	Create(ctx context.Context, tx domain.NewTransaction) (*domain.Transaction, error)
}

// DraftStore persists drafts between requests.
type DraftStore interface {
	Create(ctx context.Context, draft domain.Draft) error
	Get(ctx context.Context, id string) (domain.Draft, error)
	// Update loads the draft, applies fn and stores the result with its
	// version bumped. fn may run more than once when writers race.
	Update(ctx context.Context, id string, fn func(domain.Draft) (domain.Draft, error)) (domain.Draft, error)
	Delete(ctx context.Context, id string) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so that it may be retried.
	Release(ctx context.Context, key string) error
}
