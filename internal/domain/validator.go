package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ViolationKind is a user-correctable condition that blocks submission.
type ViolationKind string

const (
	ViolationZeroOrNegativeAmount       ViolationKind = "ZeroOrNegativeAmount"
	ViolationInsufficientFunds          ViolationKind = "InsufficientFunds"
	ViolationLoanAccountPositiveBalance ViolationKind = "LoanAccountPositiveBalance"
	ViolationTransactionNotBalanced     ViolationKind = "TransactionNotBalanced"
	ViolationAccountNotResolved         ViolationKind = "AccountNotResolved"
)

// TransactionLevel is the line index used for violations not tied to one line.
const TransactionLevel = -1

// Violation describes one broken rule. Only the fields relevant to Kind are set.
type Violation struct {
	Kind             ViolationKind
	Line             int
	AccountNo        string
	Currency         string
	Available        decimal.Decimal
	Requested        decimal.Decimal
	ResultingBalance decimal.Decimal
	TotalDebit       decimal.Decimal
	TotalCredit      decimal.Decimal
	Difference       decimal.Decimal
	Message          string
}

// Notice is a non-blocking warning attached to a line.
type Notice struct {
	Line int
	Kind WarningKind
}

// ValidationResult lists violations and warnings of a draft.
type ValidationResult struct {
	Violations []Violation
	Warnings   []Notice
}

// OK reports whether the draft may be submitted.
func (r ValidationResult) OK() bool {
	return len(r.Violations) == 0
}

// Has reports whether any violation of kind is present.
func (r ValidationResult) Has(kind ViolationKind) bool {
	for _, v := range r.Violations {
		if v.Kind == kind {
			return true
		}
	}

	return false
}

// ValidateLine runs the per-line rules: positive amount, sufficiency of funds
// and the loan sign constraint.
func ValidateLine(idx int, l TransactionLine, localCcy string) []Violation {
	var out []Violation

	amount := l.AmountInAccountCcy(localCcy)

	if !amount.IsPositive() {
		out = append(out, Violation{
			Kind:      ViolationZeroOrNegativeAmount,
			Line:      idx,
			AccountNo: l.AccountNo,
			Requested: amount,
			Message:   fmt.Sprintf("line %d: amount must be greater than zero", idx+1),
		})
	}

	if !l.IsResolved() {
		return append(out, Violation{
			Kind:      ViolationAccountNotResolved,
			Line:      idx,
			AccountNo: l.AccountNo,
			Message:   fmt.Sprintf("line %d: select a valid account", idx+1),
		})
	}

	acc := l.Account
	balance := l.Balance.ComputedBalance

	if l.DrCr == Debit && !acc.IsOverdraftEnabled && !acc.IsAsset && amount.GreaterThan(balance) {
		out = append(out, Violation{
			Kind:      ViolationInsufficientFunds,
			Line:      idx,
			AccountNo: acc.AccountNo,
			Currency:  acc.Currency,
			Available: balance,
			Requested: amount,
			Message: fmt.Sprintf("line %d: insufficient funds in %s, available %s %s, requested %s %s",
				idx+1, acc.AccountNo, balance.StringFixed(AmountPlaces), acc.Currency,
				amount.StringFixed(AmountPlaces), acc.Currency),
		})
	}

	if acc.IsLoan {
		resulting := balance.Add(amount)
		if l.DrCr == Debit {
			resulting = balance.Sub(amount)
		}

		if resulting.IsPositive() {
			out = append(out, Violation{
				Kind:             ViolationLoanAccountPositiveBalance,
				Line:             idx,
				AccountNo:        acc.AccountNo,
				Currency:         acc.Currency,
				Requested:        amount,
				ResultingBalance: resulting,
				Message: fmt.Sprintf("line %d: loan account %s would carry a positive balance of %s",
					idx+1, acc.AccountNo, resulting.StringFixed(AmountPlaces)),
			})
		}
	}

	return out
}

// Validate is the authoritative check over a whole draft. It does not mutate
// the draft.
func Validate(d Draft, localCcy string) ValidationResult {
	var res ValidationResult

	for i, l := range d.Lines {
		res.Violations = append(res.Violations, ValidateLine(i, l, localCcy)...)

		for _, w := range l.Warnings {
			res.Warnings = append(res.Warnings, Notice{Line: i, Kind: w})
		}
	}

	totals := Recompute(d.Lines, localCcy)
	if !totals.Balanced {
		res.Violations = append(res.Violations, Violation{
			Kind:        ViolationTransactionNotBalanced,
			Line:        TransactionLevel,
			Currency:    localCcy,
			TotalDebit:  totals.DebitLcy,
			TotalCredit: totals.CreditLcy,
			Difference:  totals.Difference,
			Message: fmt.Sprintf("transaction is not balanced: debit %s, credit %s, difference %s",
				totals.DebitLcy.StringFixed(AmountPlaces), totals.CreditLcy.StringFixed(AmountPlaces),
				totals.Difference.StringFixed(AmountPlaces)),
		})
	}

	return res
}
