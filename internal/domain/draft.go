package domain

import (
	"strings"
	"time"
)

// MinLines is the smallest number of legs a draft may have.
const MinLines = 2

// Draft is a transaction under construction. It is treated as an immutable
// value: every mutator returns a new Draft with its own line slice.
type Draft struct {
	ID        string
	ValueDate time.Time
	Narration string
	Lines     []TransactionLine
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDraft starts a draft with one debit and one credit line.
func NewDraft(id string, lineIDs [MinLines]string, valueDate time.Time, narration, localCcy string, now time.Time) Draft {
	return Draft{
		ID:        id,
		ValueDate: valueDate,
		Narration: strings.TrimSpace(narration),
		Lines: []TransactionLine{
			NewLine(lineIDs[0], Debit, localCcy),
			NewLine(lineIDs[1], Credit, localCcy),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (d Draft) clone() Draft {
	lines := make([]TransactionLine, len(d.Lines))
	copy(lines, d.Lines)
	d.Lines = lines

	return d
}

// Line returns the line at idx.
func (d Draft) Line(idx int) (TransactionLine, error) {
	if idx < 0 || idx >= len(d.Lines) {
		return TransactionLine{}, ErrLineOutOfRange
	}

	return d.Lines[idx], nil
}

// WithLine replaces the line at idx.
func (d Draft) WithLine(idx int, l TransactionLine) (Draft, error) {
	if idx < 0 || idx >= len(d.Lines) {
		return d, ErrLineOutOfRange
	}

	out := d.clone()
	out.Lines[idx] = l

	return out, nil
}

// AddLine appends a line.
func (d Draft) AddLine(l TransactionLine) Draft {
	out := d.clone()
	out.Lines = append(out.Lines, l)

	return out
}

// RemoveLine drops the line at idx, keeping at least MinLines.
func (d Draft) RemoveLine(idx int) (Draft, error) {
	if idx < 0 || idx >= len(d.Lines) {
		return d, ErrLineOutOfRange
	}

	if len(d.Lines) <= MinLines {
		return d, ErrMinimumLines
	}

	lines := make([]TransactionLine, 0, len(d.Lines)-1)
	lines = append(lines, d.Lines[:idx]...)
	lines = append(lines, d.Lines[idx+1:]...)
	d.Lines = lines

	return d, nil
}

// WithHeader sets value date and narration.
func (d Draft) WithHeader(valueDate time.Time, narration string) Draft {
	out := d.clone()
	out.ValueDate = valueDate
	out.Narration = strings.TrimSpace(narration)

	return out
}

// Totals recomputes the summary of the current lines.
func (d Draft) Totals(localCcy string) Totals {
	return Recompute(d.Lines, localCcy)
}

// ToNewTransaction builds the submission payload.
func (d Draft) ToNewTransaction(localCcy string) NewTransaction {
	lines := make([]NewTransactionLine, len(d.Lines))
	for i, l := range d.Lines {
		ccy := l.Currency
		if ccy == "" {
			ccy = localCcy
		}

		lines[i] = NewTransactionLine{
			AccountNo:    l.AccountNo,
			DrCr:         l.DrCr,
			TranCcy:      ccy,
			FcyAmt:       l.FcyAmt,
			ExchangeRate: l.ExchangeRate,
			LcyAmt:       l.LcyAmt,
			Memo:         l.Memo,
		}
	}

	return NewTransaction{
		DraftID:   d.ID,
		ValueDate: d.ValueDate,
		Narration: d.Narration,
		Lines:     lines,
	}
}

// LineIndex returns the position of the line with id, or -1.
func (d Draft) LineIndex(id string) int {
	for i, l := range d.Lines {
		if l.ID == id {
			return i
		}
	}

	return -1
}
