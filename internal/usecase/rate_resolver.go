package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iho/mmconsole/internal/domain"
	"github.com/iho/mmconsole/internal/infrastructure/metrics"
)

// RateResolver fetches the latest quote for a currency pair, optionally
// through a short-lived cache.
type RateResolver struct {
	service  ExchangeRateService
	cache    Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

// NewRateResolver creates a resolver. A nil cache or zero TTL disables caching.
func NewRateResolver(service ExchangeRateService, cache Cache, cacheTTL time.Duration, metrics *metrics.Metrics) *RateResolver {
	return &RateResolver{
		service:  service,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
	}
}

// LatestRate returns the quote for pair or an error wrapping
// ErrRateUnavailable. A quote without a positive mid rate is unavailable.
func (r *RateResolver) LatestRate(ctx context.Context, pair domain.CurrencyPair) (*domain.ExchangeRateQuote, error) {
	start := time.Now()

	quote, err := r.latestRate(ctx, pair)

	if r.metrics != nil {
		outcome := "ok"
		switch {
		case errors.Is(err, context.Canceled):
			outcome = "canceled"
		case err != nil:
			outcome = "unavailable"
		}

		r.metrics.LookupDuration.WithLabelValues("rate").Observe(time.Since(start).Seconds())
		r.metrics.Lookups.WithLabelValues("rate", outcome).Inc()
	}

	return quote, err
}

func (r *RateResolver) latestRate(ctx context.Context, pair domain.CurrencyPair) (*domain.ExchangeRateQuote, error) {
	if pair.Base == pair.Quote {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidPair, pair)
	}

	key := rateCachePrefix + pair.String()

	if quote, ok := r.cached(ctx, key); ok {
		return quote, nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, DefaultLookupTimeout)
	defer cancel()

	quote, err := r.service.LatestRate(lookupCtx, pair)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if errors.Is(err, domain.ErrRateUnavailable) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %s: %v", domain.ErrRateUnavailable, pair, err)
	}

	if quote == nil || !quote.MidRate.IsPositive() {
		return nil, fmt.Errorf("%w: %s: no mid rate published", domain.ErrRateUnavailable, pair)
	}

	r.store(ctx, key, quote)

	return quote, nil
}

func (r *RateResolver) cached(ctx context.Context, key string) (*domain.ExchangeRateQuote, bool) {
	if r.cache == nil || r.cacheTTL <= 0 {
		return nil, false
	}

	data, err := r.cache.Get(ctx, key)
	if err != nil {
		r.cacheResult("miss")
		return nil, false
	}

	var quote domain.ExchangeRateQuote
	if err := json.Unmarshal(data, &quote); err != nil {
		r.cacheResult("miss")
		return nil, false
	}

	r.cacheResult("hit")

	return &quote, true
}

func (r *RateResolver) store(ctx context.Context, key string, quote *domain.ExchangeRateQuote) {
	if r.cache == nil || r.cacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(quote)
	if err != nil {
		return
	}

	// cache failures only cost a refetch
	_ = r.cache.Set(ctx, key, data, r.cacheTTL)
}

func (r *RateResolver) cacheResult(result string) {
	if r.metrics != nil {
		r.metrics.RateCacheResult.WithLabelValues(result).Inc()
	}
}
