package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/mmconsole/internal/domain"
	"github.com/iho/mmconsole/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// InvalidDraftResponse is returned when a submission fails validation.
type InvalidDraftResponse struct {
	Error string         `json:"error"`
	Draft *DraftResponse `json:"draft"`
}

// AccountResponse represents an account reference in API responses.
type AccountResponse struct {
	AccountNo          string `json:"account_no"`
	Name               string `json:"name"`
	Currency           string `json:"currency"`
	GLNumber           string `json:"gl_number"`
	IsAsset            bool   `json:"is_asset"`
	IsLoan             bool   `json:"is_loan"`
	IsOverdraftEnabled bool   `json:"is_overdraft_enabled"`
}

// AccountFromDomain converts a domain account reference to response.
func AccountFromDomain(a *domain.AccountReference) *AccountResponse {
	if a == nil {
		return nil
	}

	return &AccountResponse{
		AccountNo:          a.AccountNo,
		Name:               a.Name,
		Currency:           a.Currency,
		GLNumber:           a.GLNumber,
		IsAsset:            a.IsAsset,
		IsLoan:             a.IsLoan,
		IsOverdraftEnabled: a.IsOverdraftEnabled,
	}
}

// AccountsFromDomain converts domain account references to responses.
func AccountsFromDomain(accounts []*domain.AccountReference) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// BalanceResponse represents a balance snapshot in API responses.
type BalanceResponse struct {
	AccountCcy                string           `json:"account_ccy"`
	PreviousDayOpeningBalance decimal.Decimal  `json:"previous_day_opening_balance"`
	TodayCredits              decimal.Decimal  `json:"today_credits"`
	TodayDebits               decimal.Decimal  `json:"today_debits"`
	ComputedBalance           decimal.Decimal  `json:"computed_balance"`
	AvailableBalance          decimal.Decimal  `json:"available_balance"`
	AvailableBalanceLcy       decimal.Decimal  `json:"available_balance_lcy"`
	WAE                       *decimal.Decimal `json:"wae,omitempty"`
}

// BalanceFromDomain converts a balance snapshot to response.
func BalanceFromDomain(b *domain.BalanceSnapshot) *BalanceResponse {
	if b == nil {
		return nil
	}

	resp := &BalanceResponse{
		AccountCcy:                b.AccountCcy,
		PreviousDayOpeningBalance: b.PreviousDayOpeningBalance,
		TodayCredits:              b.TodayCredits,
		TodayDebits:               b.TodayDebits,
		ComputedBalance:           b.ComputedBalance,
		AvailableBalance:          b.AvailableBalance,
		AvailableBalanceLcy:       b.AvailableBalanceLcy,
	}
	if b.WAE.Valid {
		w := b.WAE.Decimal
		resp.WAE = &w
	}

	return resp
}

// ResolvedAccountResponse is an account together with its balance snapshot.
type ResolvedAccountResponse struct {
	Account *AccountResponse `json:"account"`
	Balance *BalanceResponse `json:"balance"`
}

// ResolvedAccountFromDomain converts a resolved account to response.
func ResolvedAccountFromDomain(r *domain.ResolvedAccount) *ResolvedAccountResponse {
	return &ResolvedAccountResponse{
		Account: AccountFromDomain(&r.Reference),
		Balance: BalanceFromDomain(&r.Balance),
	}
}

// QuoteResponse represents an exchange rate quote.
type QuoteResponse struct {
	Pair        string          `json:"pair"`
	MidRate     decimal.Decimal `json:"mid_rate"`
	BuyingRate  decimal.Decimal `json:"buying_rate"`
	SellingRate decimal.Decimal `json:"selling_rate"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
}

// QuoteFromDomain converts a quote to response.
func QuoteFromDomain(q *domain.ExchangeRateQuote) *QuoteResponse {
	if q == nil {
		return nil
	}

	resp := &QuoteResponse{
		Pair:        q.Pair.String(),
		MidRate:     q.MidRate,
		BuyingRate:  q.BuyingRate,
		SellingRate: q.SellingRate,
	}
	if !q.PublishedAt.IsZero() {
		at := q.PublishedAt
		resp.PublishedAt = &at
	}

	return resp
}

// LineResponse represents one draft line.
type LineResponse struct {
	Index           int              `json:"index"`
	ID              string           `json:"id"`
	AccountNo       string           `json:"account_no"`
	Account         *AccountResponse `json:"account,omitempty"`
	Balance         *BalanceResponse `json:"balance,omitempty"`
	DrCr            string           `json:"dr_cr"`
	Currency        string           `json:"currency"`
	FcyAmt          decimal.Decimal  `json:"fcy_amt"`
	ExchangeRate    decimal.Decimal  `json:"exchange_rate"`
	LcyAmt          decimal.Decimal  `json:"lcy_amt"`
	RateType        string           `json:"rate_type,omitempty"`
	RateOverride    bool             `json:"rate_override"`
	RateUnavailable bool             `json:"rate_unavailable"`
	Quote           *QuoteResponse   `json:"quote,omitempty"`
	Memo            string           `json:"memo,omitempty"`
	Warnings        []string         `json:"warnings,omitempty"`
}

// LineFromDomain converts a draft line to response.
func LineFromDomain(idx int, l domain.TransactionLine) LineResponse {
	resp := LineResponse{
		Index:           idx,
		ID:              l.ID,
		AccountNo:       l.AccountNo,
		Account:         AccountFromDomain(l.Account),
		Balance:         BalanceFromDomain(l.Balance),
		DrCr:            string(l.DrCr),
		Currency:        l.Currency,
		FcyAmt:          l.FcyAmt,
		ExchangeRate:    l.ExchangeRate,
		LcyAmt:          l.LcyAmt,
		RateType:        string(l.RateType),
		RateOverride:    l.RateOverride,
		RateUnavailable: l.RateUnavailable,
		Quote:           QuoteFromDomain(l.Quote),
		Memo:            l.Memo,
	}
	for _, w := range l.Warnings {
		resp.Warnings = append(resp.Warnings, string(w))
	}

	return resp
}

// TotalsResponse represents the draft summary.
type TotalsResponse struct {
	DebitLcy        decimal.Decimal `json:"debit_lcy"`
	CreditLcy       decimal.Decimal `json:"credit_lcy"`
	DebitFcy        decimal.Decimal `json:"debit_fcy"`
	CreditFcy       decimal.Decimal `json:"credit_fcy"`
	Difference      decimal.Decimal `json:"difference"`
	Balanced        bool            `json:"balanced"`
	DisplayCurrency string          `json:"display_currency"`
}

// TotalsFromDomain converts totals to response.
func TotalsFromDomain(t domain.Totals) TotalsResponse {
	return TotalsResponse{
		DebitLcy:        t.DebitLcy,
		CreditLcy:       t.CreditLcy,
		DebitFcy:        t.DebitFcy,
		CreditFcy:       t.CreditFcy,
		Difference:      t.Difference,
		Balanced:        t.Balanced,
		DisplayCurrency: t.DisplayCurrency,
	}
}

// ViolationResponse represents one blocking validation failure. Line is -1
// for transaction-level violations. Amount fields are set per kind.
type ViolationResponse struct {
	Kind             string           `json:"kind"`
	Line             int              `json:"line"`
	AccountNo        string           `json:"account_no,omitempty"`
	Currency         string           `json:"currency,omitempty"`
	Available        *decimal.Decimal `json:"available,omitempty"`
	Requested        *decimal.Decimal `json:"requested,omitempty"`
	ResultingBalance *decimal.Decimal `json:"resulting_balance,omitempty"`
	TotalDebit       *decimal.Decimal `json:"total_debit,omitempty"`
	TotalCredit      *decimal.Decimal `json:"total_credit,omitempty"`
	Difference       *decimal.Decimal `json:"difference,omitempty"`
	Message          string           `json:"message"`
}

// ViolationFromDomain converts a violation to response.
func ViolationFromDomain(v domain.Violation) ViolationResponse {
	resp := ViolationResponse{
		Kind:      string(v.Kind),
		Line:      v.Line,
		AccountNo: v.AccountNo,
		Currency:  v.Currency,
		Message:   v.Message,
	}

	switch v.Kind {
	case domain.ViolationInsufficientFunds:
		resp.Available = ptr(v.Available)
		resp.Requested = ptr(v.Requested)
	case domain.ViolationLoanAccountPositiveBalance:
		resp.ResultingBalance = ptr(v.ResultingBalance)
	case domain.ViolationTransactionNotBalanced:
		resp.TotalDebit = ptr(v.TotalDebit)
		resp.TotalCredit = ptr(v.TotalCredit)
		resp.Difference = ptr(v.Difference)
	}

	return resp
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// NoticeResponse represents a non-blocking line warning.
type NoticeResponse struct {
	Line int    `json:"line"`
	Kind string `json:"kind"`
}

// ValidationResponse represents the validation outcome of a draft.
type ValidationResponse struct {
	OK         bool                `json:"ok"`
	Violations []ViolationResponse `json:"violations"`
	Warnings   []NoticeResponse    `json:"warnings"`
}

// ValidationFromDomain converts a validation result to response.
func ValidationFromDomain(r domain.ValidationResult) ValidationResponse {
	resp := ValidationResponse{
		OK:         r.OK(),
		Violations: make([]ViolationResponse, len(r.Violations)),
		Warnings:   make([]NoticeResponse, len(r.Warnings)),
	}
	for i, v := range r.Violations {
		resp.Violations[i] = ViolationFromDomain(v)
	}
	for i, n := range r.Warnings {
		resp.Warnings[i] = NoticeResponse{Line: n.Line, Kind: string(n.Kind)}
	}

	return resp
}

// DraftResponse represents a draft with its derived totals and validation.
type DraftResponse struct {
	ID         string             `json:"id"`
	ValueDate  string             `json:"value_date"`
	Narration  string             `json:"narration"`
	Version    int64              `json:"version"`
	Lines      []LineResponse     `json:"lines"`
	Totals     TotalsResponse     `json:"totals"`
	Validation ValidationResponse `json:"validation"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// DraftFromView converts a draft view to response.
func DraftFromView(v *usecase.DraftView) *DraftResponse {
	d := v.Draft

	resp := &DraftResponse{
		ID:         d.ID,
		ValueDate:  d.ValueDate.Format(domain.ValueDateLayout),
		Narration:  d.Narration,
		Version:    d.Version,
		Lines:      make([]LineResponse, len(d.Lines)),
		Totals:     TotalsFromDomain(v.Totals),
		Validation: ValidationFromDomain(v.Validation),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	for i, l := range d.Lines {
		resp.Lines[i] = LineFromDomain(i, l)
	}

	return resp
}

// TransactionResponse represents a created transaction.
type TransactionResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	ValueDate string    `json:"value_date"`
	Narration string    `json:"narration"`
	Lines     int       `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionFromDomain converts a created transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:        t.ID,
		Status:    string(t.Status),
		ValueDate: t.ValueDate.Format(domain.ValueDateLayout),
		Narration: t.Narration,
		Lines:     len(t.Lines),
		CreatedAt: t.CreatedAt,
	}
}
