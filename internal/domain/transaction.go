package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the workflow status assigned by the creation endpoint.
type TransactionStatus string

// StatusEntry means created but not yet posted to ledger balances.
const StatusEntry TransactionStatus = "Entry"

// NewTransactionLine is one leg of the submission payload.
type NewTransactionLine struct {
	AccountNo    string
	DrCr         DrCr
	TranCcy      string
	FcyAmt       decimal.Decimal
	ExchangeRate decimal.Decimal
	LcyAmt       decimal.Decimal
	Memo         string
}

// NewTransaction is submitted as one atomic unit.
type NewTransaction struct {
	DraftID   string
	ValueDate time.Time
	Narration string
	Lines     []NewTransactionLine
}

// Transaction is what the creation endpoint returns.
type Transaction struct {
	ID        string
	Status    TransactionStatus
	ValueDate time.Time
	Narration string
	Lines     []NewTransactionLine
	CreatedAt time.Time
}
