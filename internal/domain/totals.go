package domain

import "github.com/shopspring/decimal"

// BalanceTolerance is the largest debit/credit difference still treated as
// balanced.
var BalanceTolerance = decimal.New(1, -AmountPlaces)

// Totals are the aggregates shown in the draft summary.
type Totals struct {
	DebitLcy        decimal.Decimal
	CreditLcy       decimal.Decimal
	DebitFcy        decimal.Decimal
	CreditFcy       decimal.Decimal
	Difference      decimal.Decimal
	Balanced        bool
	DisplayCurrency string
}

// Recompute derives the totals of lines. FCY totals only carry meaning when
// DisplayCurrency is foreign.
func Recompute(lines []TransactionLine, localCcy string) Totals {
	t := Totals{
		DebitLcy:        decimal.Zero,
		CreditLcy:       decimal.Zero,
		DebitFcy:        decimal.Zero,
		CreditFcy:       decimal.Zero,
		DisplayCurrency: displayCurrency(lines, localCcy),
	}

	for _, l := range lines {
		switch l.DrCr {
		case Debit:
			t.DebitLcy = t.DebitLcy.Add(l.LcyAmt)
			t.DebitFcy = t.DebitFcy.Add(l.FcyAmt)
		case Credit:
			t.CreditLcy = t.CreditLcy.Add(l.LcyAmt)
			t.CreditFcy = t.CreditFcy.Add(l.FcyAmt)
		}
	}

	t.Difference = t.DebitLcy.Sub(t.CreditLcy)
	t.Balanced = t.Difference.Abs().LessThan(BalanceTolerance)

	return t
}

// displayCurrency is the foreign currency only when every line's resolved
// account uses that same foreign currency.
func displayCurrency(lines []TransactionLine, localCcy string) string {
	if len(lines) == 0 {
		return localCcy
	}

	var ccy string

	for _, l := range lines {
		if l.Account == nil || l.Account.Currency == "" {
			return localCcy
		}

		if ccy == "" {
			ccy = l.Account.Currency
		} else if ccy != l.Account.Currency {
			return localCcy
		}
	}

	return ccy
}
