package domain

import "errors"

var (
	// Resolution errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidAccountNo   = errors.New("account number must not be empty")
	ErrServiceUnavailable = errors.New("upstream service unavailable")
	ErrRateUnavailable    = errors.New("exchange rate unavailable")
	ErrInvalidPair        = errors.New("invalid currency pair")

	// Draft errors
	ErrDraftNotFound       = errors.New("draft not found")
	ErrMinimumLines        = errors.New("a transaction needs at least two lines")
	ErrLineOutOfRange      = errors.New("line index out of range")
	ErrInvalidDirection    = errors.New("direction must be D or C")
	ErrInvalidRateType     = errors.New("invalid rate type")
	ErrRateTypeLocked      = errors.New("rate type is locked for foreign-currency accounts")
	ErrRateTypeNotRequired = errors.New("local-currency lines do not take a rate type")
	ErrCurrencyLocked      = errors.New("line currency follows the foreign-currency account")
	ErrStaleResponse       = errors.New("response superseded by a newer request for the same line")
	ErrDraftConflict       = errors.New("draft was modified concurrently")

	// Submission errors
	ErrTransactionInvalid = errors.New("transaction failed validation")
	ErrSubmissionRejected = errors.New("transaction rejected by server")
)
