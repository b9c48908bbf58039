package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	"github.com/iho/mmconsole/internal/domain"
)

func TestRateRepository_LatestRate(t *testing.T) {
	mock := newMockPool(t)
	published := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM exchange_rates").
		WithArgs("USD", "BDT").
		WillReturnRows(pgxmock.NewRows([]string{"base_currency", "quote_currency", "mid_rate", "buying_rate", "selling_rate", "published_at"}).
			AddRow("USD", "BDT", numeric("112"), numeric("111"), numeric("113"), pgtype.Timestamptz{Time: published, Valid: true}))

	pair, _ := domain.NewCurrencyPair("USD", "BDT")

	q, err := NewRateRepository(mock).LatestRate(context.Background(), pair)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !q.MidRate.Equal(decimal.NewFromInt(112)) || !q.SellingRate.Equal(decimal.NewFromInt(113)) {
		t.Fatalf("unexpected quote %+v", q)
	}
	if !q.PublishedAt.Equal(published) {
		t.Fatalf("unexpected publish time %v", q.PublishedAt)
	}

	assertExpectations(t, mock)
}

func TestRateRepository_NoRate(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("FROM exchange_rates").
		WithArgs("JPY", "BDT").
		WillReturnError(pgx.ErrNoRows)

	pair, _ := domain.NewCurrencyPair("JPY", "BDT")

	_, err := NewRateRepository(mock).LatestRate(context.Background(), pair)
	if !errors.Is(err, domain.ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
}
