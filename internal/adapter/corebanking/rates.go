package corebanking

import (
	"context"
	"fmt"
	"net/url"

	"github.com/iho/mmconsole/internal/domain"
)

// RateService implements usecase.ExchangeRateService over the latest-rate
// endpoint.
type RateService struct {
	client *Client
}

// NewRateService creates a new RateService.
func NewRateService(client *Client) *RateService {
	return &RateService{client: client}
}

// LatestRate returns the latest quote for pair. An unknown pair is
// ErrRateUnavailable.
func (s *RateService) LatestRate(ctx context.Context, pair domain.CurrencyPair) (*domain.ExchangeRateQuote, error) {
	q := url.Values{}
	q.Set("pair", pair.String())

	var r rateJSON
	err := s.client.getJSON(ctx, "/exchange-rates/latest?"+q.Encode(),
		fmt.Errorf("%w: %s", domain.ErrRateUnavailable, pair), &r)
	if err != nil {
		return nil, err
	}

	quote := &domain.ExchangeRateQuote{
		Pair:        pair,
		MidRate:     r.MidRate,
		BuyingRate:  r.BuyingRate,
		SellingRate: r.SellingRate,
	}
	if r.PublishedAt != nil {
		quote.PublishedAt = r.PublishedAt.UTC()
	}

	return quote, nil
}
