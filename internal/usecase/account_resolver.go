package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iho/mmconsole/internal/domain"
	"github.com/iho/mmconsole/internal/infrastructure/metrics"
)

// AccountResolver turns an account number into a classified reference plus
// its balance snapshot.
type AccountResolver struct {
	directory AccountDirectory
	metrics   *metrics.Metrics
}

func NewAccountResolver(directory AccountDirectory, metrics *metrics.Metrics) *AccountResolver {
	return &AccountResolver{
		directory: directory,
		metrics:   metrics,
	}
}

// Resolve looks up accountNo. Unknown or malformed numbers yield
// ErrAccountNotFound; transport failures yield ErrServiceUnavailable.
func (r *AccountResolver) Resolve(ctx context.Context, accountNo string) (*domain.ResolvedAccount, error) {
	start := time.Now()

	resolved, err := r.resolve(ctx, strings.TrimSpace(accountNo))

	r.observe(start, err)

	return resolved, err
}

func (r *AccountResolver) resolve(ctx context.Context, accountNo string) (*domain.ResolvedAccount, error) {
	if err := domain.ValidateAccountNo(accountNo); err != nil {
		return nil, err
	}

	lookupCtx, cancel := context.WithTimeout(ctx, DefaultLookupTimeout)
	defer cancel()

	ref, err := r.directory.GetAccount(lookupCtx, accountNo)
	if err != nil {
		return nil, classifyLookupError(ctx, err)
	}

	var (
		balance        *domain.BalanceSnapshot
		classification *domain.AccountClassification
	)

	g, gctx := errgroup.WithContext(lookupCtx)
	g.Go(func() error {
		b, err := r.directory.GetBalance(gctx, accountNo)
		balance = b
		return err
	})
	g.Go(func() error {
		c, err := r.directory.GetClassification(gctx, accountNo)
		classification = c
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, classifyLookupError(ctx, err)
	}

	reference := *ref
	if classification != nil {
		reference = reference.Classify(*classification)
	}

	snapshot := domain.BalanceSnapshot{AccountNo: accountNo, AccountCcy: reference.Currency}
	if balance != nil {
		snapshot = *balance
		if snapshot.AccountCcy == "" {
			snapshot.AccountCcy = reference.Currency
		}
	}

	return &domain.ResolvedAccount{Reference: reference, Balance: snapshot}, nil
}

// List returns a page of accounts for lookup screens.
func (r *AccountResolver) List(ctx context.Context, limit, offset int) ([]*domain.AccountReference, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	accounts, err := r.directory.ListAccounts(ctx, limit, offset)
	if err != nil {
		return nil, classifyLookupError(ctx, err)
	}

	return accounts, nil
}

func (r *AccountResolver) observe(start time.Time, err error) {
	if r.metrics == nil {
		return
	}

	r.metrics.LookupDuration.WithLabelValues("account").Observe(time.Since(start).Seconds())
	r.metrics.Lookups.WithLabelValues("account", lookupOutcome(err)).Inc()
}

// classifyLookupError keeps NotFound and ServiceUnavailable as they are and
// folds anything else into ServiceUnavailable. Cancellation by the caller is
// passed through untouched.
func classifyLookupError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if errors.Is(err, domain.ErrAccountNotFound) || errors.Is(err, domain.ErrServiceUnavailable) {
		return err
	}

	return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
}

func lookupOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrInvalidAccountNo):
		return "not_found"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "unavailable"
	}
}
