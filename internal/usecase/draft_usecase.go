package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iho/mmconsole/internal/domain"
	"github.com/iho/mmconsole/internal/infrastructure/metrics"
)

// DraftView is a draft together with everything derived from it.
type DraftView struct {
	Draft      domain.Draft
	Totals     domain.Totals
	Validation domain.ValidationResult
}

// ValidationError is returned by Submit when the draft has violations.
type ValidationError struct {
	View *DraftView
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d violation(s)", domain.ErrTransactionInvalid, len(e.View.Validation.Violations))
}

func (e *ValidationError) Unwrap() error {
	return domain.ErrTransactionInvalid
}

// DraftUseCase drives a transaction draft from creation to submission.
type DraftUseCase struct {
	store    DraftStore
	accounts *AccountResolver
	rates    *RateResolver
	gateway  TransactionGateway
	idGen    IDGenerator
	localCcy string
	metrics  *metrics.Metrics
	fetches  *fetchTracker
	now      func() time.Time
}

func NewDraftUseCase(
	store DraftStore,
	accounts *AccountResolver,
	rates *RateResolver,
	gateway TransactionGateway,
	idGen IDGenerator,
	localCcy string,
	metrics *metrics.Metrics,
) *DraftUseCase {
	return &DraftUseCase{
		store:    store,
		accounts: accounts,
		rates:    rates,
		gateway:  gateway,
		idGen:    idGen,
		localCcy: strings.ToUpper(localCcy),
		metrics:  metrics,
		fetches:  newFetchTracker(),
		now:      time.Now,
	}
}

// LocalCurrency returns the currency LCY amounts are expressed in.
func (uc *DraftUseCase) LocalCurrency() string {
	return uc.localCcy
}

// CreateDraftInput holds the header of a new draft.
type CreateDraftInput struct {
	ValueDate string
	Narration string
}

// Create starts a draft with one debit and one credit line.
func (uc *DraftUseCase) Create(ctx context.Context, input CreateDraftInput) (*DraftView, error) {
	now := uc.now().UTC()

	valueDate, err := domain.ParseValueDate(input.ValueDate, now)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateNarration(input.Narration); err != nil {
		return nil, err
	}

	d := domain.NewDraft(
		uc.idGen.Generate(),
		[domain.MinLines]string{uc.idGen.Generate(), uc.idGen.Generate()},
		valueDate,
		input.Narration,
		uc.localCcy,
		now,
	)

	if err := uc.store.Create(ctx, d); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DraftsCreated.Inc()
	}

	return uc.view(d), nil
}

// Get returns the draft with fresh totals and validation.
func (uc *DraftUseCase) Get(ctx context.Context, id string) (*DraftView, error) {
	d, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return uc.view(d), nil
}

// Discard drops a draft without submitting it.
func (uc *DraftUseCase) Discard(ctx context.Context, id string) error {
	if err := uc.store.Delete(ctx, id); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.DraftsDiscarded.Inc()
	}

	return nil
}

// UpdateHeaderInput holds the draft header fields.
type UpdateHeaderInput struct {
	ValueDate string
	Narration string
}

// SetHeader changes value date and narration.
func (uc *DraftUseCase) SetHeader(ctx context.Context, id string, input UpdateHeaderInput) (*DraftView, error) {
	valueDate, err := domain.ParseValueDate(input.ValueDate, uc.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateNarration(input.Narration); err != nil {
		return nil, err
	}

	d, err := uc.update(ctx, id, func(d domain.Draft) (domain.Draft, error) {
		return d.WithHeader(valueDate, input.Narration), nil
	})
	if err != nil {
		return nil, err
	}

	return uc.view(d), nil
}

// AddLine appends an empty line with the given direction.
func (uc *DraftUseCase) AddLine(ctx context.Context, id string, drCr string) (*DraftView, error) {
	dir, err := domain.ParseDrCr(drCr)
	if err != nil {
		return nil, err
	}

	lineID := uc.idGen.Generate()

	d, err := uc.update(ctx, id, func(d domain.Draft) (domain.Draft, error) {
		return d.AddLine(domain.NewLine(lineID, dir, uc.localCcy)), nil
	})
	if err != nil {
		return nil, err
	}

	return uc.view(d), nil
}

// RemoveLine drops the line at idx. A draft keeps at least two lines.
func (uc *DraftUseCase) RemoveLine(ctx context.Context, id string, idx int) (*DraftView, error) {
	d, err := uc.update(ctx, id, func(d domain.Draft) (domain.Draft, error) {
		return d.RemoveLine(idx)
	})
	if err != nil {
		return nil, err
	}

	return uc.view(d), nil
}

// SetDirection switches a line between debit and credit.
func (uc *DraftUseCase) SetDirection(ctx context.Context, id string, idx int, drCr string) (*DraftView, error) {
	dir, err := domain.ParseDrCr(drCr)
	if err != nil {
		return nil, err
	}

	return uc.mutateLine(ctx, id, idx, func(l domain.TransactionLine) (domain.TransactionLine, error) {
		return l.WithDirection(dir, uc.localCcy), nil
	})
}

// SetAmount sets the entered amount. Unparseable input counts as zero so the
// validator reports it.
func (uc *DraftUseCase) SetAmount(ctx context.Context, id string, idx int, amount string) (*DraftView, error) {
	value := domain.ParseAmount(amount)

	return uc.mutateLine(ctx, id, idx, func(l domain.TransactionLine) (domain.TransactionLine, error) {
		return l.WithAmount(value, uc.localCcy), nil
	})
}

// SetMemo sets the free-text memo of a line.
func (uc *DraftUseCase) SetMemo(ctx context.Context, id string, idx int, memo string) (*DraftView, error) {
	if err := domain.ValidateMemo(memo); err != nil {
		return nil, err
	}

	return uc.mutateLine(ctx, id, idx, func(l domain.TransactionLine) (domain.TransactionLine, error) {
		return l.WithMemo(memo), nil
	})
}

// SetCurrency changes the currency of a line whose account is not in a
// foreign currency and fetches a quote when the new currency is foreign.
func (uc *DraftUseCase) SetCurrency(ctx context.Context, id string, idx int, ccy string) (*DraftView, error) {
	view, err := uc.mutateLine(ctx, id, idx, func(l domain.TransactionLine) (domain.TransactionLine, error) {
		return l.WithCurrency(ccy, uc.localCcy)
	})
	if err != nil {
		return nil, err
	}

	return uc.fetchRate(ctx, id, view.Draft.Lines[idx].ID, view)
}

// SetRateType applies a manual mid/buying/selling choice and refreshes the quote.
func (uc *DraftUseCase) SetRateType(ctx context.Context, id string, idx int, rateType string) (*DraftView, error) {
	t, err := domain.ParseRateType(rateType)
	if err != nil {
		return nil, err
	}

	view, err := uc.mutateLine(ctx, id, idx, func(l domain.TransactionLine) (domain.TransactionLine, error) {
		return l.WithRateType(t, uc.localCcy)
	})
	if err != nil {
		return nil, err
	}

	return uc.fetchRate(ctx, id, view.Draft.Lines[idx].ID, view)
}

// RefreshRate refetches the quote of a foreign line.
func (uc *DraftUseCase) RefreshRate(ctx context.Context, id string, idx int) (*DraftView, error) {
	d, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	l, err := d.Line(idx)
	if err != nil {
		return nil, err
	}

	return uc.fetchRate(ctx, id, l.ID, uc.view(d))
}

// SelectAccount resolves accountNo into the line at idx. The lookup is keyed
// by the line's request sequence: if the slot changes while it runs, the
// result is discarded with ErrStaleResponse.
func (uc *DraftUseCase) SelectAccount(ctx context.Context, id string, idx int, accountNo string) (*DraftView, error) {
	accountNo = strings.TrimSpace(accountNo)
	if err := domain.ValidateAccountNo(accountNo); err != nil {
		return nil, err
	}

	ticket, err := uc.claim(ctx, id, slot{index: idx}, func(l domain.TransactionLine) (domain.TransactionLine, error) {
		l.AccountNo = accountNo
		return l, nil
	})
	if err != nil {
		return nil, err
	}

	fctx, release := uc.fetches.begin(ctx, fetchKey(id, ticket.lineID), ticket.seq)
	resolved, resolveErr := uc.accounts.Resolve(fctx, accountNo)
	superseded := fctx.Err() != nil && ctx.Err() == nil
	release()

	if resolveErr != nil {
		if superseded {
			return nil, uc.stale()
		}

		// keep the slot honest: the typed number is shown, nothing derived from
		// the previous account survives
		if _, err := uc.apply(ctx, id, ticket, func(l domain.TransactionLine) domain.TransactionLine {
			return l.WithoutAccount(accountNo, uc.localCcy)
		}); err != nil && !errors.Is(err, domain.ErrStaleResponse) {
			return nil, err
		}

		return nil, resolveErr
	}

	d, err := uc.apply(ctx, id, ticket, func(l domain.TransactionLine) domain.TransactionLine {
		return l.WithAccount(*resolved, uc.localCcy)
	})
	if err != nil {
		return nil, err
	}

	view := uc.view(d)

	return uc.fetchRate(ctx, id, ticket.lineID, view)
}

// fetchRate refreshes the quote of line lineID. Local lines need none and the
// given view is returned as is. An unavailable rate is not an error: the line
// keeps rate 1 and carries a warning.
func (uc *DraftUseCase) fetchRate(ctx context.Context, id, lineID string, current *DraftView) (*DraftView, error) {
	var pair domain.CurrencyPair

	ticket, err := uc.claim(ctx, id, slot{lineID: lineID}, func(l domain.TransactionLine) (domain.TransactionLine, error) {
		if l.IsLocal(uc.localCcy) {
			return l, errNoFetch
		}

		p, err := l.Pair(uc.localCcy)
		if err != nil {
			return l, err
		}
		pair = p

		return l, nil
	})
	if errors.Is(err, errNoFetch) {
		return current, nil
	}
	if err != nil {
		return nil, err
	}

	fctx, release := uc.fetches.begin(ctx, fetchKey(id, lineID), ticket.seq)
	quote, fetchErr := uc.rates.LatestRate(fctx, pair)
	superseded := fctx.Err() != nil && ctx.Err() == nil
	release()

	unavailable := false
	if fetchErr != nil {
		switch {
		case superseded:
			return nil, uc.stale()
		case errors.Is(fetchErr, domain.ErrRateUnavailable):
			unavailable = true
			quote = nil
		default:
			return nil, fetchErr
		}
	}

	d, err := uc.apply(ctx, id, ticket, func(l domain.TransactionLine) domain.TransactionLine {
		return l.WithQuote(quote, unavailable, uc.localCcy)
	})
	if err != nil {
		return nil, err
	}

	return uc.view(d), nil
}

// Validate runs the authoritative validation without changing the draft.
func (uc *DraftUseCase) Validate(ctx context.Context, id string) (*DraftView, error) {
	d, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	view := uc.view(d)
	uc.recordValidation(view.Validation)

	return view, nil
}

// Submit validates the draft and creates the transaction in core banking. A
// draft with violations yields a *ValidationError. A rejection by the server
// leaves the draft in place for correction; on success the draft is removed.
func (uc *DraftUseCase) Submit(ctx context.Context, id string) (*domain.Transaction, error) {
	start := time.Now()

	d, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	view := uc.view(d)
	uc.recordValidation(view.Validation)

	if !view.Validation.OK() {
		uc.submitFailed("invalid")
		return nil, &ValidationError{View: view}
	}

	tx, err := uc.gateway.Create(ctx, d.ToNewTransaction(uc.localCcy))
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionRejected) {
			uc.submitFailed("rejected")
		} else {
			uc.submitFailed("unavailable")
		}

		return nil, fmt.Errorf("submit draft %s: %w", id, err)
	}

	// the transaction exists now; a leftover draft expires with its TTL
	_ = uc.store.Delete(ctx, id)

	if uc.metrics != nil {
		uc.metrics.DraftsSubmitted.Inc()
		uc.metrics.SubmitDuration.Observe(time.Since(start).Seconds())
	}

	return tx, nil
}

var errNoFetch = errors.New("line needs no fetch")

// slot addresses a line either by position or, once a fetch is under way,
// by its stable id.
type slot struct {
	index  int
	lineID string
}

func (s slot) find(d domain.Draft) (int, error) {
	if s.lineID == "" {
		if s.index < 0 || s.index >= len(d.Lines) {
			return 0, domain.ErrLineOutOfRange
		}

		return s.index, nil
	}

	idx := d.LineIndex(s.lineID)
	if idx < 0 {
		return 0, domain.ErrStaleResponse
	}

	return idx, nil
}

type fetchTicket struct {
	lineID string
	seq    uint64
}

// claim applies prepare to the line and bumps its request sequence. The
// returned ticket identifies the fetch that is about to start.
func (uc *DraftUseCase) claim(ctx context.Context, id string, s slot, prepare func(domain.TransactionLine) (domain.TransactionLine, error)) (fetchTicket, error) {
	var ticket fetchTicket

	_, err := uc.update(ctx, id, func(d domain.Draft) (domain.Draft, error) {
		idx, err := s.find(d)
		if err != nil {
			return d, err
		}

		l, err := prepare(d.Lines[idx])
		if err != nil {
			return d, err
		}

		l.RequestSeq++
		ticket = fetchTicket{lineID: l.ID, seq: l.RequestSeq}

		return d.WithLine(idx, l)
	})

	return ticket, err
}

// apply stores a fetch result if the slot has not moved on since claim.
func (uc *DraftUseCase) apply(ctx context.Context, id string, ticket fetchTicket, fn func(domain.TransactionLine) domain.TransactionLine) (domain.Draft, error) {
	d, err := uc.update(ctx, id, func(d domain.Draft) (domain.Draft, error) {
		idx := d.LineIndex(ticket.lineID)
		if idx < 0 || d.Lines[idx].RequestSeq != ticket.seq {
			return d, domain.ErrStaleResponse
		}

		return d.WithLine(idx, fn(d.Lines[idx]))
	})
	if errors.Is(err, domain.ErrStaleResponse) {
		return d, uc.stale()
	}

	return d, err
}

func (uc *DraftUseCase) mutateLine(ctx context.Context, id string, idx int, fn func(domain.TransactionLine) (domain.TransactionLine, error)) (*DraftView, error) {
	d, err := uc.update(ctx, id, func(d domain.Draft) (domain.Draft, error) {
		l, err := d.Line(idx)
		if err != nil {
			return d, err
		}

		l, err = fn(l)
		if err != nil {
			return d, err
		}

		return d.WithLine(idx, l)
	})
	if err != nil {
		return nil, err
	}

	return uc.view(d), nil
}

func (uc *DraftUseCase) update(ctx context.Context, id string, fn func(domain.Draft) (domain.Draft, error)) (domain.Draft, error) {
	return uc.store.Update(ctx, id, func(d domain.Draft) (domain.Draft, error) {
		out, err := fn(d)
		if err != nil {
			return d, err
		}

		out.UpdatedAt = uc.now().UTC()

		return out, nil
	})
}

func (uc *DraftUseCase) view(d domain.Draft) *DraftView {
	return &DraftView{
		Draft:      d,
		Totals:     d.Totals(uc.localCcy),
		Validation: domain.Validate(d, uc.localCcy),
	}
}

func (uc *DraftUseCase) stale() error {
	if uc.metrics != nil {
		uc.metrics.StaleResponses.Inc()
	}

	return domain.ErrStaleResponse
}

func (uc *DraftUseCase) recordValidation(res domain.ValidationResult) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.ValidationRuns.Inc()

	for _, v := range res.Violations {
		uc.metrics.ValidationViolations.WithLabelValues(string(v.Kind)).Inc()
	}

	for _, w := range res.Warnings {
		uc.metrics.LineWarnings.WithLabelValues(string(w.Kind)).Inc()
	}
}

func (uc *DraftUseCase) submitFailed(reason string) {
	if uc.metrics != nil {
		uc.metrics.SubmitErrors.WithLabelValues(reason).Inc()
	}
}
