package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of decimals local-currency amounts are rounded to.
const AmountPlaces = 2

// DrCr is the direction of a transaction leg.
type DrCr string

const (
	Debit  DrCr = "D"
	Credit DrCr = "C"
)

// ParseDrCr accepts D/C and DEBIT/CREDIT in any case.
func ParseDrCr(s string) (DrCr, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "D", "DEBIT", "DR":
		return Debit, nil
	case "C", "CREDIT", "CR":
		return Credit, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// WarningKind is a non-blocking condition reported next to a line.
type WarningKind string

const (
	WarnRateUnavailable WarningKind = "RateUnavailable"
	WarnRateMissing     WarningKind = "RateMissing"
	WarnWAEMissing      WarningKind = "WAEMissing"
)

// RoundAmount rounds half away from zero to two decimals.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}

// ParseAmount parses user input, tolerating thousands separators.
// Anything unparseable counts as zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}

// TransactionLine is one leg of a draft transaction plus the state resolved for
// its slot. Mutators return a repriced copy; the receiver is never changed.
type TransactionLine struct {
	ID           string
	AccountNo    string
	DrCr         DrCr
	Currency     string
	FcyAmt       decimal.Decimal
	ExchangeRate decimal.Decimal
	LcyAmt       decimal.Decimal
	Memo         string

	Account         *AccountReference
	Balance         *BalanceSnapshot
	Quote           *ExchangeRateQuote
	RateType        RateType
	RateOverride    bool
	RateUnavailable bool
	Warnings        []WarningKind
	RequestSeq      uint64
}

// NewLine returns an empty line in the local currency.
func NewLine(id string, drCr DrCr, localCcy string) TransactionLine {
	return TransactionLine{
		ID:           id,
		DrCr:         drCr,
		Currency:     localCcy,
		FcyAmt:       decimal.Zero,
		ExchangeRate: decimal.NewFromInt(1),
		LcyAmt:       decimal.Zero,
	}
}

// IsLocal reports whether the line is denominated in the local currency.
func (l TransactionLine) IsLocal(localCcy string) bool {
	return l.Currency == "" || l.Currency == localCcy
}

// IsResolved reports whether account and balance are known for the slot.
func (l TransactionLine) IsResolved() bool {
	return l.Account != nil && l.Balance != nil
}

// RateLocked reports whether the rate type follows the settlement rule only.
func (l TransactionLine) RateLocked(localCcy string) bool {
	return l.Account != nil && l.Account.IsForeign(localCcy)
}

// AmountInAccountCcy is the amount checked against the account: FCY for
// foreign-currency accounts, LCY otherwise.
func (l TransactionLine) AmountInAccountCcy(localCcy string) decimal.Decimal {
	if l.Account != nil {
		if l.Account.IsForeign(localCcy) {
			return l.FcyAmt
		}

		return l.LcyAmt
	}

	if l.IsLocal(localCcy) {
		return l.LcyAmt
	}

	return l.FcyAmt
}

// Pair returns the quote pair needed to price a foreign line.
func (l TransactionLine) Pair(localCcy string) (CurrencyPair, error) {
	return NewCurrencyPair(l.Currency, localCcy)
}

// HasWarning reports whether the line currently carries kind.
func (l TransactionLine) HasWarning(kind WarningKind) bool {
	for _, w := range l.Warnings {
		if w == kind {
			return true
		}
	}

	return false
}

// Reprice re-runs rate selection and derives the LCY amount.
func (l TransactionLine) Reprice(localCcy string) TransactionLine {
	l.Warnings = nil

	if l.IsLocal(localCcy) {
		l.ExchangeRate = decimal.NewFromInt(1)
		l.RateType = ""
		l.RateOverride = false
		l.RateUnavailable = false
		l.Quote = nil
		l.FcyAmt = RoundAmount(l.FcyAmt)
		l.LcyAmt = l.FcyAmt

		return l
	}

	var sel RateSelection

	switch {
	case l.RateLocked(localCcy):
		var wae decimal.NullDecimal
		if l.Balance != nil {
			wae = l.Balance.WAE
		}

		sel = SelectRate(*l.Account, l.DrCr, wae, l.Quote)
		l.RateType = sel.Type
	case l.RateOverride:
		sel = SelectQuotedRate(l.Quote, l.RateType)
	default:
		sel = SelectQuotedRate(l.Quote, RateMid)
		l.RateType = sel.Type
	}

	if l.RateUnavailable {
		l.Warnings = append(l.Warnings, WarnRateUnavailable)
	}

	if sel.Warning != "" && !(sel.Warning == WarnRateMissing && l.RateUnavailable) {
		l.Warnings = append(l.Warnings, sel.Warning)
	}

	l.ExchangeRate = sel.Rate
	l.LcyAmt = RoundAmount(l.FcyAmt.Mul(l.ExchangeRate))

	return l
}

// WithAccount binds a freshly resolved account to the line. The line currency
// follows the account currency, any earlier quote is dropped and the rate type
// returns to automatic selection.
func (l TransactionLine) WithAccount(resolved ResolvedAccount, localCcy string) TransactionLine {
	ref := resolved.Reference
	bal := resolved.Balance

	l.AccountNo = ref.AccountNo
	l.Account = &ref
	l.Balance = &bal
	l.Currency = ref.Currency
	if l.Currency == "" {
		l.Currency = localCcy
	}

	l.Quote = nil
	l.RateOverride = false
	l.RateUnavailable = false

	return l.Reprice(localCcy)
}

// WithoutAccount records an account number that could not be resolved and
// clears everything derived from the previous account.
func (l TransactionLine) WithoutAccount(accountNo, localCcy string) TransactionLine {
	l.AccountNo = accountNo
	l.Account = nil
	l.Balance = nil
	l.Currency = localCcy
	l.Quote = nil
	l.RateOverride = false
	l.RateUnavailable = false

	return l.Reprice(localCcy)
}

// WithDirection changes debit/credit. Automatic rate selection wins over any
// earlier manual rate type.
func (l TransactionLine) WithDirection(drCr DrCr, localCcy string) TransactionLine {
	l.DrCr = drCr
	l.RateOverride = false

	return l.Reprice(localCcy)
}

// WithAmount sets the independently entered amount: FCY for foreign lines,
// both FCY and LCY for local ones.
func (l TransactionLine) WithAmount(amount decimal.Decimal, localCcy string) TransactionLine {
	l.FcyAmt = amount

	return l.Reprice(localCcy)
}

// WithQuote applies a quote fetch outcome. A nil quote with unavailable set
// leaves the rate at 1 and flags the line.
func (l TransactionLine) WithQuote(quote *ExchangeRateQuote, unavailable bool, localCcy string) TransactionLine {
	l.Quote = quote
	l.RateUnavailable = unavailable

	return l.Reprice(localCcy)
}

// WithCurrency changes the transaction currency of a line whose account is not
// pinned to a foreign currency.
func (l TransactionLine) WithCurrency(ccy, localCcy string) (TransactionLine, error) {
	if l.RateLocked(localCcy) {
		return l, ErrCurrencyLocked
	}

	ccy = strings.ToUpper(strings.TrimSpace(ccy))
	if err := ValidateCurrency(ccy); err != nil {
		return l, err
	}

	if ccy != l.Currency {
		l.Quote = nil
		l.RateUnavailable = false
	}

	l.Currency = ccy
	l.RateOverride = false

	return l.Reprice(localCcy), nil
}

// WithRateType applies a manual buying/selling/mid choice.
func (l TransactionLine) WithRateType(t RateType, localCcy string) (TransactionLine, error) {
	if l.RateLocked(localCcy) {
		return l, ErrRateTypeLocked
	}

	if l.IsLocal(localCcy) {
		return l, ErrRateTypeNotRequired
	}

	l.RateType = t
	l.RateOverride = true

	return l.Reprice(localCcy), nil
}

// WithMemo sets the line memo.
func (l TransactionLine) WithMemo(memo string) TransactionLine {
	l.Memo = strings.TrimSpace(memo)

	return l
}
