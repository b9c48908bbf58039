package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Validation errors
var (
	ErrInvalidNarration = errors.New("invalid narration")
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrInvalidValueDate = errors.New("invalid value date")
	ErrInvalidMemo      = errors.New("invalid memo")
)

// Validation constants
const (
	MaxNarrationLength = 255
	MaxMemoLength      = 140
	MaxAccountNoLength = 34
	ValueDateLayout    = "2006-01-02"
)

// Currencies handled by the money-market desk (ISO 4217)
var validCurrencies = map[string]bool{
	"BDT": true, "USD": true, "EUR": true, "GBP": true,
	"JPY": true, "CNY": true, "AUD": true, "CAD": true,
	"CHF": true, "SGD": true, "HKD": true, "INR": true,
	"SAR": true, "AED": true, "MYR": true, "SEK": true,
	"NOK": true, "DKK": true, "KRW": true, "NZD": true,
}

var accountNoPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// ValidateAccountNo validates the shape of an account number
func ValidateAccountNo(accountNo string) error {
	accountNo = strings.TrimSpace(accountNo)

	if accountNo == "" {
		return ErrInvalidAccountNo
	}

	if len(accountNo) > MaxAccountNoLength || !accountNoPattern.MatchString(accountNo) {
		return fmt.Errorf("%w: malformed account number %q", ErrAccountNotFound, accountNo)
	}

	return nil
}

// ValidateCurrency validates currency code
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a supported ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateNarration validates the transaction narration
func ValidateNarration(narration string) error {
	narration = strings.TrimSpace(narration)

	if len(narration) > MaxNarrationLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidNarration, MaxNarrationLength)
	}

	// Check for SQL injection attempts
	dangerous := []string{"--", "/*", "*/", ";"}
	for _, pattern := range dangerous {
		if strings.Contains(narration, pattern) {
			return fmt.Errorf("%w: contains forbidden characters", ErrInvalidNarration)
		}
	}

	return nil
}

// ValidateMemo validates a line memo
func ValidateMemo(memo string) error {
	if len(strings.TrimSpace(memo)) > MaxMemoLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidMemo, MaxMemoLength)
	}

	return nil
}

// ParseValueDate parses a YYYY-MM-DD value date; empty means today.
func ParseValueDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		y, m, d := now.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}

	t, err := time.Parse(ValueDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidValueDate, s)
	}

	return t, nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 500
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
