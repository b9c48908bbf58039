package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftOf(lines ...TransactionLine) Draft {
	return Draft{ID: "d1", ValueDate: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), Lines: lines}
}

func localLine(id string, drCr DrCr, ref AccountReference, balance, amount string) TransactionLine {
	return NewLine(id, drCr, bdt).
		WithAccount(resolved(ref, balance, decimal.NullDecimal{}), bdt).
		WithAmount(decimal.RequireFromString(amount), bdt)
}

func TestValidateLine_ZeroAmount(t *testing.T) {
	l := localLine("l1", Credit, localAccount("3001", "1102001"), "0", "0")

	got := ValidateLine(0, l, bdt)

	require.Len(t, got, 1)
	assert.Equal(t, ViolationZeroOrNegativeAmount, got[0].Kind)
}

func TestValidateLine_UnresolvedAccount(t *testing.T) {
	l := NewLine("l1", Debit, bdt).WithAmount(decimal.NewFromInt(5), bdt)

	got := ValidateLine(0, l, bdt)

	require.Len(t, got, 1)
	assert.Equal(t, ViolationAccountNotResolved, got[0].Kind)
}

func TestValidateLine_SufficiencyOfFunds(t *testing.T) {
	tests := []struct {
		name      string
		ref       AccountReference
		drCr      DrCr
		wantShort bool
	}{
		{"plain liability debit over balance", localAccount("3001", "1102001"), Debit, true},
		{"overdraft account exempt", NewAccountReference("3002", "od", bdt, "1102001", true), Debit, false},
		{"asset account exempt", localAccount("3003", "2301001"), Debit, false},
		{"credit never checked", localAccount("3004", "1102001"), Credit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := localLine("l1", tt.drCr, tt.ref, "100", "150")

			got := ValidateLine(0, l, bdt)

			var short *Violation
			for i := range got {
				if got[i].Kind == ViolationInsufficientFunds {
					short = &got[i]
				}
			}

			if !tt.wantShort {
				assert.Nil(t, short)
				return
			}

			require.NotNil(t, short)
			assert.Equal(t, "100", short.Available.String())
			assert.Equal(t, "150", short.Requested.String())
			assert.Equal(t, bdt, short.Currency)
		})
	}
}

func TestValidateLine_ForeignAccountComparesFCY(t *testing.T) {
	l := NewLine("l1", Debit, bdt).
		WithAccount(resolved(liabilityUSD(), "150", wae("110.5")), bdt).
		WithAmount(decimal.NewFromInt(100), bdt)

	// LCY is 11050 but the USD balance of 150 covers the USD 100 debit
	assert.Empty(t, ValidateLine(0, l, bdt))
}

func TestValidateLine_LoanSignConstraint(t *testing.T) {
	loan := localAccount("4001", "2101001")
	require.True(t, loan.IsLoan)
	require.True(t, loan.IsAsset)

	credit := localLine("l1", Credit, loan, "0", "10")
	got := ValidateLine(0, credit, bdt)
	require.Len(t, got, 1)
	assert.Equal(t, ViolationLoanAccountPositiveBalance, got[0].Kind)
	assert.Equal(t, "10", got[0].ResultingBalance.String())

	debit := localLine("l2", Debit, loan, "0", "10")
	assert.Empty(t, ValidateLine(1, debit, bdt))

	repayment := localLine("l3", Credit, loan, "-500", "500")
	assert.Empty(t, ValidateLine(2, repayment, bdt))
}

func TestValidate_NotBalanced(t *testing.T) {
	d := draftOf(
		localLine("l1", Debit, localAccount("3001", "1102001"), "1000", "500"),
		localLine("l2", Credit, localAccount("3002", "1102001"), "0", "400"),
	)

	res := Validate(d, bdt)

	require.False(t, res.OK())
	require.True(t, res.Has(ViolationTransactionNotBalanced))

	v := res.Violations[len(res.Violations)-1]
	assert.Equal(t, TransactionLevel, v.Line)
	assert.Equal(t, "500", v.TotalDebit.String())
	assert.Equal(t, "400", v.TotalCredit.String())
	assert.Equal(t, "100", v.Difference.String())
}

func TestValidate_IsPure(t *testing.T) {
	d := draftOf(
		localLine("l1", Debit, localAccount("3001", "1102001"), "10", "500"),
		localLine("l2", Credit, localAccount("3002", "1102001"), "0", "500"),
	)
	before := d.Lines[0]

	_ = Validate(d, bdt)

	assert.Equal(t, before, d.Lines[0])
}

func TestValidate_WarningsDoNotBlock(t *testing.T) {
	fx := NewLine("l1", Debit, bdt).
		WithAccount(resolved(liabilityUSD(), "1000", decimal.NullDecimal{}), bdt).
		WithQuote(usdQuote(), false, bdt).
		WithAmount(decimal.NewFromInt(10), bdt)

	d := draftOf(fx, localLine("l2", Credit, localAccount("3002", "1102001"), "0", "1120"))

	res := Validate(d, bdt)

	assert.True(t, res.OK(), "violations: %+v", res.Violations)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, Notice{Line: 0, Kind: WarnWAEMissing}, res.Warnings[0])
}

func TestValidate_LocalEndToEnd(t *testing.T) {
	a := localAccount("A", "1102001")
	b := localAccount("B", "1102002")

	d := draftOf(
		localLine("l1", Debit, a, "1000", "500"),
		localLine("l2", Credit, b, "0", "500"),
	)

	res := Validate(d, bdt)
	require.True(t, res.OK(), "violations: %+v", res.Violations)

	totals := d.Totals(bdt)
	assert.True(t, totals.Balanced)

	payload := d.ToNewTransaction(bdt)
	require.Len(t, payload.Lines, 2)
	for _, l := range payload.Lines {
		assert.True(t, l.ExchangeRate.Equal(decimal.NewFromInt(1)))
		assert.True(t, l.FcyAmt.Equal(decimal.NewFromInt(500)))
		assert.True(t, l.LcyAmt.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, bdt, l.TranCcy)
	}
	assert.Equal(t, Debit, payload.Lines[0].DrCr)
	assert.Equal(t, Credit, payload.Lines[1].DrCr)
}

func TestValidate_FXEndToEnd(t *testing.T) {
	usd := NewLine("l1", Debit, bdt).
		WithAccount(resolved(liabilityUSD(), "1000", wae("110.5")), bdt).
		WithQuote(usdQuote(), false, bdt).
		WithAmount(decimal.NewFromInt(100), bdt)

	office := localLine("l2", Credit, localAccount("9001", "1901001"), "0", "11050")

	d := draftOf(usd, office)

	require.Equal(t, "11050.00", usd.LcyAmt.StringFixed(2))
	require.True(t, usd.ExchangeRate.Equal(decimal.RequireFromString("110.5")))

	res := Validate(d, bdt)
	assert.True(t, res.OK(), "violations: %+v", res.Violations)
	assert.True(t, d.Totals(bdt).Balanced)
}
