package corebanking

import (
	"context"
	"fmt"
	"net/url"

	"github.com/iho/mmconsole/internal/domain"
)

// AccountDirectory implements usecase.AccountDirectory over the core banking
// account and balance endpoints.
type AccountDirectory struct {
	client *Client
}

// NewAccountDirectory creates a new AccountDirectory.
func NewAccountDirectory(client *Client) *AccountDirectory {
	return &AccountDirectory{client: client}
}

func accountPath(accountNo string) string {
	return "/accounts/" + url.PathEscape(accountNo)
}

// GetAccount retrieves an account by number.
func (d *AccountDirectory) GetAccount(ctx context.Context, accountNo string) (*domain.AccountReference, error) {
	var a accountJSON
	if err := d.client.getJSON(ctx, accountPath(accountNo), notFound(accountNo), &a); err != nil {
		return nil, err
	}

	ref := a.reference()

	return &ref, nil
}

// GetBalance returns the balance snapshot. A missing computed balance is
// derived from its components; a missing available balance equals it.
func (d *AccountDirectory) GetBalance(ctx context.Context, accountNo string) (*domain.BalanceSnapshot, error) {
	var b balanceJSON
	if err := d.client.getJSON(ctx, accountPath(accountNo)+"/balance", notFound(accountNo), &b); err != nil {
		return nil, err
	}

	computed := b.ComputedBalance.Decimal
	if !b.ComputedBalance.Valid {
		computed = domain.ComputeBalance(b.PreviousDayOpeningBalance, b.TodayCredits, b.TodayDebits)
	}

	available := b.AvailableBalance.Decimal
	if !b.AvailableBalance.Valid {
		available = computed
	}

	return &domain.BalanceSnapshot{
		AccountNo:                 accountNo,
		AccountCcy:                b.AccountCcy,
		PreviousDayOpeningBalance: b.PreviousDayOpeningBalance,
		TodayCredits:              b.TodayCredits,
		TodayDebits:               b.TodayDebits,
		ComputedBalance:           computed,
		AvailableBalance:          available,
		AvailableBalanceLcy:       b.AvailableBalanceLcy,
		WAE:                       b.WAE,
	}, nil
}

// GetClassification returns the overdraft flag and, when the service reports
// it, the asset flag.
func (d *AccountDirectory) GetClassification(ctx context.Context, accountNo string) (*domain.AccountClassification, error) {
	var c classificationJSON
	if err := d.client.getJSON(ctx, accountPath(accountNo)+"/overdraft", notFound(accountNo), &c); err != nil {
		return nil, err
	}

	out := &domain.AccountClassification{
		AccountNo:          accountNo,
		IsOverdraftAccount: c.IsOverdraftAccount,
	}
	if c.IsAssetAccount != nil {
		out.IsAssetAccount = *c.IsAssetAccount
	}

	return out, nil
}

// ListAccounts returns one page of the account directory.
func (d *AccountDirectory) ListAccounts(ctx context.Context, limit, offset int) ([]*domain.AccountReference, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	q.Set("offset", fmt.Sprint(offset))

	var page []accountJSON
	if err := d.client.getJSON(ctx, "/accounts?"+q.Encode(), domain.ErrServiceUnavailable, &page); err != nil {
		return nil, err
	}

	accounts := make([]*domain.AccountReference, len(page))
	for i, a := range page {
		ref := a.reference()
		accounts[i] = &ref
	}

	return accounts, nil
}

func (a accountJSON) reference() domain.AccountReference {
	return domain.NewAccountReference(a.AccountNo, a.Name, a.Currency, a.GLNumber, false)
}

func notFound(accountNo string) error {
	return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountNo)
}
