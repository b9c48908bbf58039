package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/mmconsole/internal/domain"
	"github.com/iho/mmconsole/internal/infrastructure/postgres/generated"
)

// RateRepository implements usecase.ExchangeRateService on the published
// rate sheet.
type RateRepository struct {
	queries *generated.Queries
}

// NewRateRepository creates a new RateRepository.
func NewRateRepository(db generated.DBTX) *RateRepository {
	return &RateRepository{
		queries: generated.New(db),
	}
}

// LatestRate returns the most recently published quote for pair.
func (r *RateRepository) LatestRate(ctx context.Context, pair domain.CurrencyPair) (*domain.ExchangeRateQuote, error) {
	row, err := r.queries.GetLatestExchangeRate(ctx, generated.GetLatestExchangeRateParams{
		BaseCurrency:  pair.Base,
		QuoteCurrency: pair.Quote,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no rate published for %s", domain.ErrRateUnavailable, pair)
		}

		return nil, err
	}

	return &domain.ExchangeRateQuote{
		Pair:        pair,
		MidRate:     numericToDecimal(row.MidRate),
		BuyingRate:  numericToDecimal(row.BuyingRate),
		SellingRate: numericToDecimal(row.SellingRate),
		PublishedAt: row.PublishedAt.Time,
	}, nil
}
