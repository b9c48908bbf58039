package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestClassifyGL(t *testing.T) {
	tests := []struct {
		gl        string
		wantAsset bool
		wantLoan  bool
	}{
		{"2101001", true, true},
		{"2201001", true, false},
		{"1101001", false, false},
		{" 21", true, true},
		{"", false, false},
	}

	for _, tt := range tests {
		asset, loan := ClassifyGL(tt.gl)
		if asset != tt.wantAsset || loan != tt.wantLoan {
			t.Errorf("ClassifyGL(%q) = (%v, %v), want (%v, %v)", tt.gl, asset, loan, tt.wantAsset, tt.wantLoan)
		}
	}
}

func TestAccountReference_Classify(t *testing.T) {
	ref := NewAccountReference("1", "n", "usd", "1101001", false)
	if ref.Currency != "USD" {
		t.Fatalf("expected upper-cased currency, got %s", ref.Currency)
	}

	ref = ref.Classify(AccountClassification{IsOverdraftAccount: true, IsAssetAccount: true})
	if !ref.IsOverdraftEnabled || !ref.IsAsset {
		t.Fatalf("expected classification to apply, got %+v", ref)
	}

	if !ref.IsForeign("BDT") || ref.IsForeign("USD") {
		t.Fatalf("unexpected IsForeign result")
	}
}

func TestComputeAndAvailableBalance(t *testing.T) {
	computed := ComputeBalance(decimal.NewFromInt(1000), decimal.NewFromInt(200), decimal.NewFromInt(50))
	if !computed.Equal(decimal.NewFromInt(1150)) {
		t.Fatalf("expected 1150, got %s", computed)
	}

	asset := NewAccountReference("2", "loan", "BDT", "2101001", false)
	avail := AvailableBalance(asset, decimal.NewFromInt(-400), decimal.NewFromInt(1000))
	if !avail.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected 600, got %s", avail)
	}

	liability := NewAccountReference("3", "savings", "BDT", "1101001", false)
	if !AvailableBalance(liability, computed, decimal.NewFromInt(1000)).Equal(computed) {
		t.Fatalf("liability available balance must equal computed balance")
	}
}

func TestCurrencyPair(t *testing.T) {
	p, err := ParseCurrencyPair("usd/bdt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.String() != "USD/BDT" {
		t.Fatalf("expected USD/BDT, got %s", p)
	}

	for _, bad := range []string{"USDBDT", "USD/USD", "US/BDT"} {
		if _, err := ParseCurrencyPair(bad); !errors.Is(err, ErrInvalidPair) {
			t.Errorf("ParseCurrencyPair(%q): expected ErrInvalidPair, got %v", bad, err)
		}
	}
}

func TestParseRateType(t *testing.T) {
	if rt, err := ParseRateType("selling"); err != nil || rt != RateSelling {
		t.Fatalf("expected SELLING, got %s %v", rt, err)
	}
	if _, err := ParseRateType("WAE"); !errors.Is(err, ErrInvalidRateType) {
		t.Fatalf("WAE is not user-selectable, got %v", err)
	}
}

func TestValidateCurrency(t *testing.T) {
	if err := ValidateCurrency("bdt"); err != nil {
		t.Fatalf("expected uppercase conversion to succeed, got %v", err)
	}

	if err := ValidateCurrency("XYZ"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestValidateAccountNo(t *testing.T) {
	if err := ValidateAccountNo("0101-0001"); err != nil {
		t.Fatalf("expected valid account number, got %v", err)
	}
	if err := ValidateAccountNo("  "); !errors.Is(err, ErrInvalidAccountNo) {
		t.Fatalf("expected ErrInvalidAccountNo, got %v", err)
	}
	if err := ValidateAccountNo("x'; drop"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected malformed number to be not found, got %v", err)
	}
}

func TestValidateNarration(t *testing.T) {
	if err := ValidateNarration("Call money placement"); err != nil {
		t.Fatalf("expected valid narration, got %v", err)
	}
	if err := ValidateNarration(strings.Repeat("a", MaxNarrationLength+1)); !errors.Is(err, ErrInvalidNarration) {
		t.Fatalf("expected ErrInvalidNarration, got %v", err)
	}
	if err := ValidateNarration("x; DROP TABLE"); !errors.Is(err, ErrInvalidNarration) {
		t.Fatalf("expected ErrInvalidNarration, got %v", err)
	}
}

func TestParseValueDate(t *testing.T) {
	now := time.Date(2026, 10, 15, 17, 30, 0, 0, time.UTC)

	got, err := ParseValueDate("", now)
	if err != nil || !got.Equal(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected today, got %v %v", got, err)
	}

	if _, err := ParseValueDate("15/10/2026", now); !errors.Is(err, ErrInvalidValueDate) {
		t.Fatalf("expected ErrInvalidValueDate, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := ValidatePagination(0, -5)
	if limit != 50 || offset != 0 {
		t.Fatalf("expected defaults, got %d %d", limit, offset)
	}

	if limit, _ := ValidatePagination(10000, 0); limit != 500 {
		t.Fatalf("expected cap at 500, got %d", limit)
	}
}

func TestValidateMemo(t *testing.T) {
	if err := ValidateMemo("placement to XYZ bank"); err != nil {
		t.Fatalf("expected valid memo, got %v", err)
	}
	if err := ValidateMemo(strings.Repeat("m", MaxMemoLength+1)); !errors.Is(err, ErrInvalidMemo) {
		t.Fatalf("expected ErrInvalidMemo, got %v", err)
	}
}
