package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	"github.com/iho/mmconsole/internal/domain"
)

var accountColumns = []string{"account_no", "name", "currency", "gl_number", "is_overdraft", "is_asset", "loan_limit", "created_at"}

var balanceColumns = []string{"account_no", "previous_day_opening_balance", "today_credits", "today_debits", "available_balance_lcy", "wae", "updated_at"}

func numeric(s string) pgtype.Numeric {
	return decimalToNumeric(decimal.RequireFromString(s))
}

func accountRow(no, ccy, gl string, overdraft, asset bool, loanLimit string) *pgxmock.Rows {
	return pgxmock.NewRows(accountColumns).AddRow(
		no, "acct "+no, ccy, gl, overdraft, asset, numeric(loanLimit),
		pgtype.Timestamptz{Time: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Valid: true},
	)
}

func TestAccountDirectory_GetAccount(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("FROM accounts WHERE account_no").
		WithArgs("2101-0001").
		WillReturnRows(accountRow("2101-0001", "bdt", "2101001", false, false, "0"))

	ref, err := NewAccountDirectory(mock).GetAccount(context.Background(), "2101-0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ref.Currency != "BDT" || !ref.IsAsset || !ref.IsLoan {
		t.Fatalf("expected loan asset in BDT, got %+v", ref)
	}

	assertExpectations(t, mock)
}

func TestAccountDirectory_GetAccountNotFound(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("FROM accounts WHERE account_no").
		WithArgs("404").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewAccountDirectory(mock).GetAccount(context.Background(), "404")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountDirectory_GetBalanceComputesFromComponents(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("FROM accounts WHERE account_no").
		WithArgs("2201-0001").
		WillReturnRows(accountRow("2201-0001", "USD", "2201001", false, true, "5000"))
	mock.ExpectQuery("FROM account_balances WHERE account_no").
		WithArgs("2201-0001").
		WillReturnRows(pgxmock.NewRows(balanceColumns).AddRow(
			"2201-0001", numeric("-1000"), numeric("200"), numeric("50"),
			numeric("-94000"), numeric("110.5"),
			pgtype.Timestamptz{Time: time.Now(), Valid: true},
		))

	b, err := NewAccountDirectory(mock).GetBalance(context.Background(), "2201-0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !b.ComputedBalance.Equal(decimal.NewFromInt(-850)) {
		t.Fatalf("expected computed balance -850, got %s", b.ComputedBalance)
	}
	if !b.AvailableBalance.Equal(decimal.NewFromInt(4150)) {
		t.Fatalf("expected available balance 4150, got %s", b.AvailableBalance)
	}
	if !b.HasWAE() || !b.WAE.Decimal.Equal(decimal.RequireFromString("110.5")) {
		t.Fatalf("expected WAE 110.5, got %+v", b.WAE)
	}
	if b.AccountCcy != "USD" {
		t.Fatalf("expected account currency USD, got %s", b.AccountCcy)
	}

	assertExpectations(t, mock)
}

func TestAccountDirectory_GetBalanceWithoutMovement(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("FROM accounts WHERE account_no").
		WithArgs("1101-0001").
		WillReturnRows(accountRow("1101-0001", "BDT", "1101001", false, false, "0"))
	mock.ExpectQuery("FROM account_balances WHERE account_no").
		WithArgs("1101-0001").
		WillReturnError(pgx.ErrNoRows)

	b, err := NewAccountDirectory(mock).GetBalance(context.Background(), "1101-0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !b.ComputedBalance.IsZero() || b.WAE.Valid {
		t.Fatalf("expected empty snapshot, got %+v", b)
	}
}

func TestAccountDirectory_GetClassification(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery("FROM accounts WHERE account_no").
		WithArgs("1102-0001").
		WillReturnRows(accountRow("1102-0001", "BDT", "1102001", true, false, "0"))

	c, err := NewAccountDirectory(mock).GetClassification(context.Background(), "1102-0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !c.IsOverdraftAccount || c.IsAssetAccount {
		t.Fatalf("unexpected classification %+v", c)
	}
}

func TestAccountDirectory_ListAccounts(t *testing.T) {
	mock := newMockPool(t)
	rows := pgxmock.NewRows(accountColumns).
		AddRow("A", "a", "BDT", "1101001", false, false, numeric("0"), pgtype.Timestamptz{Time: time.Now(), Valid: true}).
		AddRow("B", "b", "USD", "2201001", false, true, numeric("0"), pgtype.Timestamptz{Time: time.Now(), Valid: true})
	mock.ExpectQuery("FROM accounts ORDER BY account_no").
		WithArgs(int32(50), int32(0)).
		WillReturnRows(rows)

	accounts, err := NewAccountDirectory(mock).ListAccounts(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(accounts) != 2 || accounts[1].Currency != "USD" || !accounts[1].IsAsset {
		t.Fatalf("unexpected accounts %+v", accounts)
	}
}
