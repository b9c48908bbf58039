package domain

import "github.com/shopspring/decimal"

// IsSettlement reports whether a leg realizes foreign-exchange settlement:
// a debit to a liability account or a credit to an asset account.
func IsSettlement(account AccountReference, drCr DrCr) bool {
	if account.IsLiability() {
		return drCr == Debit
	}

	return drCr == Credit
}

// RateSelection is the outcome of choosing a rate for one line.
type RateSelection struct {
	Rate       decimal.Decimal
	Type       RateType
	Settlement bool
	Warning    WarningKind
}

// SelectRate applies the settlement rule. Settlement legs take the account's WAE
// when present and fall back to mid; all other legs take mid. Without a usable
// rate the result is 1 with a warning.
func SelectRate(account AccountReference, drCr DrCr, wae decimal.NullDecimal, quote *ExchangeRateQuote) RateSelection {
	sel := RateSelection{Settlement: IsSettlement(account, drCr)}

	if sel.Settlement && wae.Valid && wae.Decimal.IsPositive() {
		sel.Rate = wae.Decimal
		sel.Type = RateWAE

		return sel
	}

	if quote != nil {
		if mid, ok := quote.Rate(RateMid); ok {
			sel.Rate = mid
			sel.Type = RateMid

			if sel.Settlement {
				sel.Warning = WarnWAEMissing
			}

			return sel
		}
	}

	sel.Rate = decimal.NewFromInt(1)
	sel.Type = RateDefault
	sel.Warning = WarnRateMissing

	return sel
}

// SelectQuotedRate picks an explicit quote rate for lines whose rate type is not
// locked (local-currency account, foreign transaction currency).
func SelectQuotedRate(quote *ExchangeRateQuote, t RateType) RateSelection {
	if quote != nil {
		if rate, ok := quote.Rate(t); ok {
			return RateSelection{Rate: rate, Type: t}
		}
	}

	return RateSelection{Rate: decimal.NewFromInt(1), Type: RateDefault, Warning: WarnRateMissing}
}
