package dto

import (
	"github.com/iho/mmconsole/internal/usecase"
)

// CreateDraftRequest opens a new draft. An empty value date means today.
type CreateDraftRequest struct {
	ValueDate string `json:"value_date"`
	Narration string `json:"narration"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDraftRequest) ToUseCaseInput() usecase.CreateDraftInput {
	return usecase.CreateDraftInput{
		ValueDate: r.ValueDate,
		Narration: r.Narration,
	}
}

// UpdateHeaderRequest replaces the value date and narration of a draft.
type UpdateHeaderRequest struct {
	ValueDate string `json:"value_date"`
	Narration string `json:"narration"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateHeaderRequest) ToUseCaseInput() usecase.UpdateHeaderInput {
	return usecase.UpdateHeaderInput{
		ValueDate: r.ValueDate,
		Narration: r.Narration,
	}
}

// AddLineRequest appends a line with the given direction ("D" or "C").
type AddLineRequest struct {
	DrCr string `json:"dr_cr"`
}

// SelectAccountRequest selects the account of a line.
type SelectAccountRequest struct {
	AccountNo string `json:"account_no"`
}

// SetDirectionRequest changes the debit/credit flag of a line.
type SetDirectionRequest struct {
	DrCr string `json:"dr_cr"`
}

// SetAmountRequest sets the transaction-currency amount of a line. The amount
// is taken as typed; unparseable input counts as zero.
type SetAmountRequest struct {
	Amount string `json:"amount"`
}

// SetMemoRequest sets the memo of a line.
type SetMemoRequest struct {
	Memo string `json:"memo"`
}

// SetCurrencyRequest sets the currency of a line with a local-currency account.
type SetCurrencyRequest struct {
	Currency string `json:"currency"`
}

// SetRateTypeRequest picks MID, BUYING or SELLING on a line that allows it.
type SetRateTypeRequest struct {
	RateType string `json:"rate_type"`
}
