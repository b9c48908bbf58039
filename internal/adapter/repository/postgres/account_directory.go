package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/mmconsole/internal/domain"
	"github.com/iho/mmconsole/internal/infrastructure/postgres/generated"
)

// AccountDirectory implements usecase.AccountDirectory on the back-office
// account mirror.
type AccountDirectory struct {
	queries *generated.Queries
}

// NewAccountDirectory creates a new AccountDirectory.
func NewAccountDirectory(db generated.DBTX) *AccountDirectory {
	return &AccountDirectory{
		queries: generated.New(db),
	}
}

// GetAccount retrieves an account by number.
func (r *AccountDirectory) GetAccount(ctx context.Context, accountNo string) (*domain.AccountReference, error) {
	row, err := r.queries.GetAccount(ctx, accountNo)
	if err != nil {
		return nil, accountError(accountNo, err)
	}

	ref := rowToReference(row)

	return &ref, nil
}

// GetBalance returns today's balance snapshot. An account without a balance
// row has not moved yet and reports zero.
func (r *AccountDirectory) GetBalance(ctx context.Context, accountNo string) (*domain.BalanceSnapshot, error) {
	account, err := r.queries.GetAccount(ctx, accountNo)
	if err != nil {
		return nil, accountError(accountNo, err)
	}

	ref := rowToReference(account)
	snapshot := &domain.BalanceSnapshot{
		AccountNo:                 accountNo,
		AccountCcy:                ref.Currency,
		PreviousDayOpeningBalance: decimal.Zero,
		TodayCredits:              decimal.Zero,
		TodayDebits:               decimal.Zero,
	}

	row, err := r.queries.GetAccountBalance(ctx, accountNo)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("get balance %s: %w", accountNo, err)
	default:
		snapshot.PreviousDayOpeningBalance = numericToDecimal(row.PreviousDayOpeningBalance)
		snapshot.TodayCredits = numericToDecimal(row.TodayCredits)
		snapshot.TodayDebits = numericToDecimal(row.TodayDebits)
		snapshot.AvailableBalanceLcy = numericToDecimal(row.AvailableBalanceLcy)
		snapshot.WAE = numericToNullDecimal(row.Wae)
	}

	snapshot.ComputedBalance = domain.ComputeBalance(
		snapshot.PreviousDayOpeningBalance, snapshot.TodayCredits, snapshot.TodayDebits)
	snapshot.AvailableBalance = domain.AvailableBalance(ref, snapshot.ComputedBalance, numericToDecimal(account.LoanLimit))

	return snapshot, nil
}

// GetClassification returns the overdraft and asset flags of an account.
func (r *AccountDirectory) GetClassification(ctx context.Context, accountNo string) (*domain.AccountClassification, error) {
	row, err := r.queries.GetAccount(ctx, accountNo)
	if err != nil {
		return nil, accountError(accountNo, err)
	}

	return &domain.AccountClassification{
		AccountNo:          row.AccountNo,
		IsOverdraftAccount: row.IsOverdraft,
		IsAssetAccount:     row.IsAsset,
	}, nil
}

// ListAccounts returns accounts ordered by number.
func (r *AccountDirectory) ListAccounts(ctx context.Context, limit, offset int) ([]*domain.AccountReference, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.AccountReference, len(rows))
	for i, row := range rows {
		ref := rowToReference(row)
		accounts[i] = &ref
	}

	return accounts, nil
}

func rowToReference(row generated.Account) domain.AccountReference {
	return domain.NewAccountReference(row.AccountNo, row.Name, row.Currency, row.GlNumber, row.IsOverdraft)
}

func accountError(accountNo string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountNo)
	}

	return fmt.Errorf("get account %s: %w", accountNo, err)
}
