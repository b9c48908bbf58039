package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// CurrencyPair is a base/quote pair such as USD/BDT.
type CurrencyPair struct {
	Base  string
	Quote string
}

// NewCurrencyPair validates both codes and that they differ.
func NewCurrencyPair(base, quote string) (CurrencyPair, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))

	if !currencyCodePattern.MatchString(base) {
		return CurrencyPair{}, fmt.Errorf("%w: base %q", ErrInvalidPair, base)
	}

	if !currencyCodePattern.MatchString(quote) {
		return CurrencyPair{}, fmt.Errorf("%w: quote %q", ErrInvalidPair, quote)
	}

	if base == quote {
		return CurrencyPair{}, fmt.Errorf("%w: %s/%s", ErrInvalidPair, base, quote)
	}

	return CurrencyPair{Base: base, Quote: quote}, nil
}

// ParseCurrencyPair parses "USD/BDT".
func ParseCurrencyPair(s string) (CurrencyPair, error) {
	base, quote, ok := strings.Cut(s, "/")
	if !ok {
		return CurrencyPair{}, fmt.Errorf("%w: %q", ErrInvalidPair, s)
	}

	return NewCurrencyPair(base, quote)
}

func (p CurrencyPair) String() string {
	return p.Base + "/" + p.Quote
}

// RateType names which rate a line uses.
type RateType string

const (
	RateMid     RateType = "MID"
	RateBuying  RateType = "BUYING"
	RateSelling RateType = "SELLING"
	RateWAE     RateType = "WAE"
	// RateDefault marks the fallback rate of 1 used when nothing was available.
	RateDefault RateType = "DEFAULT"
)

// ParseRateType accepts the user-selectable rate types.
func ParseRateType(s string) (RateType, error) {
	switch RateType(strings.ToUpper(strings.TrimSpace(s))) {
	case RateMid:
		return RateMid, nil
	case RateBuying:
		return RateBuying, nil
	case RateSelling:
		return RateSelling, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRateType, s)
	}
}

// ExchangeRateQuote is the latest published quote for a pair.
// buying <= mid <= selling is enforced where quotes are entered, not here.
type ExchangeRateQuote struct {
	Pair        CurrencyPair
	MidRate     decimal.Decimal
	BuyingRate  decimal.Decimal
	SellingRate decimal.Decimal
	PublishedAt time.Time
}

// Rate returns the quote's rate for t. WAE and the default are not quote rates.
func (q ExchangeRateQuote) Rate(t RateType) (decimal.Decimal, bool) {
	switch t {
	case RateMid:
		return q.MidRate, q.MidRate.IsPositive()
	case RateBuying:
		return q.BuyingRate, q.BuyingRate.IsPositive()
	case RateSelling:
		return q.SellingRate, q.SellingRate.IsPositive()
	default:
		return decimal.Zero, false
	}
}
