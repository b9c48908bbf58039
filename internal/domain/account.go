package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// GL number prefixes used for classification.
const (
	AssetGLPrefix = "2"
	LoanGLPrefix  = "21"
)

// AccountReference identifies one account together with its GL classification.
// It is fetched fresh whenever an account is selected on a line and never mutated.
type AccountReference struct {
	AccountNo          string
	Name               string
	Currency           string
	GLNumber           string
	IsAsset            bool
	IsLoan             bool
	IsOverdraftEnabled bool
}

// AccountClassification is the answer of the overdraft/classification query.
type AccountClassification struct {
	AccountNo          string
	IsOverdraftAccount bool
	IsAssetAccount     bool
}

// ClassifyGL derives asset and loan flags from a GL number prefix.
func ClassifyGL(glNumber string) (isAsset, isLoan bool) {
	gl := strings.TrimSpace(glNumber)
	isAsset = strings.HasPrefix(gl, AssetGLPrefix)
	isLoan = strings.HasPrefix(gl, LoanGLPrefix)

	return isAsset, isLoan
}

// NewAccountReference builds a reference and classifies it from its GL number.
func NewAccountReference(accountNo, name, currency, glNumber string, overdraft bool) AccountReference {
	isAsset, isLoan := ClassifyGL(glNumber)

	return AccountReference{
		AccountNo:          accountNo,
		Name:               name,
		Currency:           strings.ToUpper(strings.TrimSpace(currency)),
		GLNumber:           glNumber,
		IsAsset:            isAsset,
		IsLoan:             isLoan,
		IsOverdraftEnabled: overdraft,
	}
}

// Classify merges the classification query result into the reference.
// The asset flag is true when either the GL prefix or the service says so.
func (a AccountReference) Classify(c AccountClassification) AccountReference {
	a.IsOverdraftEnabled = c.IsOverdraftAccount
	a.IsAsset = a.IsAsset || c.IsAssetAccount

	return a
}

// IsLiability reports whether the account sits on the liability side.
func (a AccountReference) IsLiability() bool {
	return !a.IsAsset
}

// IsForeign reports whether the account is denominated in a non-local currency.
func (a AccountReference) IsForeign(localCcy string) bool {
	return a.Currency != "" && a.Currency != localCcy
}

// BalanceSnapshot is the balance of one account at the moment of line entry,
// expressed in the account currency.
type BalanceSnapshot struct {
	AccountNo                 string
	AccountCcy                string
	PreviousDayOpeningBalance decimal.Decimal
	TodayCredits              decimal.Decimal
	TodayDebits               decimal.Decimal
	ComputedBalance           decimal.Decimal
	AvailableBalance          decimal.Decimal
	AvailableBalanceLcy       decimal.Decimal
	WAE                       decimal.NullDecimal
}

// ComputeBalance returns opening + credits - debits.
func ComputeBalance(opening, credits, debits decimal.Decimal) decimal.Decimal {
	return opening.Add(credits).Sub(debits)
}

// AvailableBalance returns the spendable balance. Asset accounts may draw up to
// their loan limit, so the limit is added to the (usually negative) balance.
func AvailableBalance(ref AccountReference, computed, loanLimit decimal.Decimal) decimal.Decimal {
	if ref.IsAsset {
		return loanLimit.Add(computed)
	}

	return computed
}

// HasWAE reports whether a usable weighted-average-exchange rate is present.
func (b BalanceSnapshot) HasWAE() bool {
	return b.WAE.Valid && b.WAE.Decimal.IsPositive()
}

// ResolvedAccount pairs an account reference with its balance snapshot.
type ResolvedAccount struct {
	Reference AccountReference
	Balance   BalanceSnapshot
}
