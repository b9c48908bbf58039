package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRecompute_BalancedIffTotalsMatch(t *testing.T) {
	a := localAccount("3001", "1102001")
	b := localAccount("3002", "1102001")

	tests := []struct {
		name     string
		debit    []string
		credit   []string
		balanced bool
	}{
		{"equal single legs", []string{"500"}, []string{"500"}, true},
		{"split credit", []string{"1000"}, []string{"250.25", "749.75"}, true},
		{"one cent short", []string{"100.00"}, []string{"99.99"}, false},
		{"empty amounts", []string{"0"}, []string{"0"}, true},
		{"mismatch", []string{"10"}, []string{"20"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lines []TransactionLine
			for _, amt := range tt.debit {
				lines = append(lines, localLine("d", Debit, a, "100000", amt))
			}
			for _, amt := range tt.credit {
				lines = append(lines, localLine("c", Credit, b, "0", amt))
			}

			got := Recompute(lines, bdt)

			if got.Balanced != tt.balanced {
				t.Fatalf("balanced = %v, want %v (debit %s credit %s)", got.Balanced, tt.balanced, got.DebitLcy, got.CreditLcy)
			}

			sumsEqual := got.DebitLcy.Sub(got.CreditLcy).Abs().LessThan(BalanceTolerance)
			if sumsEqual != got.Balanced {
				t.Fatalf("balanced flag disagrees with totals")
			}
		})
	}
}

func TestRecompute_DisplayCurrency(t *testing.T) {
	usd1 := NewLine("1", Debit, bdt).WithAccount(resolved(liabilityUSD(), "0", decimal.NullDecimal{}), bdt)
	usd2 := NewLine("2", Credit, bdt).WithAccount(resolved(assetUSD(), "0", decimal.NullDecimal{}), bdt)
	local := localLine("3", Credit, localAccount("3001", "1102001"), "0", "1")
	unresolved := NewLine("4", Credit, bdt)

	eur := NewAccountReference("1002-EUR", "EUR current", "EUR", "1101002", false)
	eurLine := NewLine("5", Credit, bdt).WithAccount(resolved(eur, "0", decimal.NullDecimal{}), bdt)

	tests := []struct {
		name  string
		lines []TransactionLine
		want  string
	}{
		{"all usd", []TransactionLine{usd1, usd2}, "USD"},
		{"usd and local", []TransactionLine{usd1, local}, bdt},
		{"usd and eur", []TransactionLine{usd1, eurLine}, bdt},
		{"unresolved line", []TransactionLine{usd1, unresolved}, bdt},
		{"no lines", nil, bdt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Recompute(tt.lines, bdt).DisplayCurrency; got != tt.want {
				t.Errorf("display currency = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRecompute_FCYTotals(t *testing.T) {
	q := usdQuote()
	d := NewLine("1", Debit, bdt).
		WithAccount(resolved(liabilityUSD(), "0", decimal.NullDecimal{}), bdt).
		WithQuote(q, false, bdt).
		WithAmount(decimal.NewFromInt(40), bdt)
	c := NewLine("2", Credit, bdt).
		WithAccount(resolved(assetUSD(), "0", decimal.NullDecimal{}), bdt).
		WithQuote(q, false, bdt).
		WithAmount(decimal.NewFromInt(40), bdt)

	got := Recompute([]TransactionLine{d, c}, bdt)

	if !got.DebitFcy.Equal(decimal.NewFromInt(40)) || !got.CreditFcy.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("unexpected fcy totals: %s / %s", got.DebitFcy, got.CreditFcy)
	}
	if got.DisplayCurrency != "USD" || !got.Balanced {
		t.Fatalf("expected balanced USD summary, got %+v", got)
	}
}
