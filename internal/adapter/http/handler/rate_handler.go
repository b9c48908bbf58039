package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/mmconsole/internal/adapter/http/dto"
	"github.com/iho/mmconsole/internal/domain"
)

// RateService defines the behavior needed by RateHandler.
type RateService interface {
	LatestRate(ctx context.Context, pair domain.CurrencyPair) (*domain.ExchangeRateQuote, error)
}

// RateHandler serves the latest exchange rate for a pair.
type RateHandler struct {
	rates RateService
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(rates RateService) *RateHandler {
	return &RateHandler{rates: rates}
}

// Latest returns the latest quote for {base}/{quote}.
func (h *RateHandler) Latest(w http.ResponseWriter, r *http.Request) {
	pair, err := domain.NewCurrencyPair(chi.URLParam(r, "base"), chi.URLParam(r, "quote"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid currency pair", err.Error())
		return
	}

	quote, err := h.rates.LatestRate(r.Context(), pair)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get exchange rate", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.QuoteFromDomain(quote))
}
