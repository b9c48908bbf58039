package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/mmconsole/internal/adapter/http/dto"
	"github.com/iho/mmconsole/internal/domain"
	"github.com/iho/mmconsole/internal/usecase"
)

// DraftService defines the behavior needed by DraftHandler.
type DraftService interface {
	Create(ctx context.Context, input usecase.CreateDraftInput) (*usecase.DraftView, error)
	Get(ctx context.Context, id string) (*usecase.DraftView, error)
	Discard(ctx context.Context, id string) error
	SetHeader(ctx context.Context, id string, input usecase.UpdateHeaderInput) (*usecase.DraftView, error)
	AddLine(ctx context.Context, id string, drCr string) (*usecase.DraftView, error)
	RemoveLine(ctx context.Context, id string, idx int) (*usecase.DraftView, error)
	SelectAccount(ctx context.Context, id string, idx int, accountNo string) (*usecase.DraftView, error)
	SetDirection(ctx context.Context, id string, idx int, drCr string) (*usecase.DraftView, error)
	SetAmount(ctx context.Context, id string, idx int, amount string) (*usecase.DraftView, error)
	SetMemo(ctx context.Context, id string, idx int, memo string) (*usecase.DraftView, error)
	SetCurrency(ctx context.Context, id string, idx int, ccy string) (*usecase.DraftView, error)
	SetRateType(ctx context.Context, id string, idx int, rateType string) (*usecase.DraftView, error)
	RefreshRate(ctx context.Context, id string, idx int) (*usecase.DraftView, error)
	Validate(ctx context.Context, id string) (*usecase.DraftView, error)
	Submit(ctx context.Context, id string) (*domain.Transaction, error)
}

// DraftHandler handles draft-related HTTP requests.
type DraftHandler struct {
	drafts DraftService
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(drafts DraftService) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

// Create opens a new draft.
func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDraftRequest
	if !decode(w, r, &req) {
		return
	}

	view, err := h.drafts.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create draft", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DraftFromView(view))
}

// Get returns a draft with its totals and validation.
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.drafts.Get(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, view, err, "failed to get draft")
}

// Discard deletes a draft.
func (h *DraftHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.drafts.Discard(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, mapDomainError(err), "failed to discard draft", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateHeader replaces value date and narration.
func (h *DraftHandler) UpdateHeader(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateHeaderRequest
	if !decode(w, r, &req) {
		return
	}

	view, err := h.drafts.SetHeader(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	h.respond(w, view, err, "failed to update header")
}

// AddLine appends a line.
func (h *DraftHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req dto.AddLineRequest
	if !decode(w, r, &req) {
		return
	}

	view, err := h.drafts.AddLine(r.Context(), chi.URLParam(r, "id"), req.DrCr)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to add line", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DraftFromView(view))
}

// RemoveLine deletes the line at {idx}.
func (h *DraftHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	h.withLine(w, r, "failed to remove line", func(ctx context.Context, id string, idx int) (*usecase.DraftView, error) {
		return h.drafts.RemoveLine(ctx, id, idx)
	})
}

// SelectAccount resolves an account into the line at {idx}.
func (h *DraftHandler) SelectAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectAccountRequest
	if !decode(w, r, &req) {
		return
	}

	h.withLine(w, r, "failed to select account", func(ctx context.Context, id string, idx int) (*usecase.DraftView, error) {
		return h.drafts.SelectAccount(ctx, id, idx, req.AccountNo)
	})
}

// SetDirection changes the debit/credit flag of the line at {idx}.
func (h *DraftHandler) SetDirection(w http.ResponseWriter, r *http.Request) {
	var req dto.SetDirectionRequest
	if !decode(w, r, &req) {
		return
	}

	h.withLine(w, r, "failed to set direction", func(ctx context.Context, id string, idx int) (*usecase.DraftView, error) {
		return h.drafts.SetDirection(ctx, id, idx, req.DrCr)
	})
}

// SetAmount sets the amount of the line at {idx}.
func (h *DraftHandler) SetAmount(w http.ResponseWriter, r *http.Request) {
	var req dto.SetAmountRequest
	if !decode(w, r, &req) {
		return
	}

	h.withLine(w, r, "failed to set amount", func(ctx context.Context, id string, idx int) (*usecase.DraftView, error) {
		return h.drafts.SetAmount(ctx, id, idx, req.Amount)
	})
}

// SetMemo sets the memo of the line at {idx}.
func (h *DraftHandler) SetMemo(w http.ResponseWriter, r *http.Request) {
	var req dto.SetMemoRequest
	if !decode(w, r, &req) {
		return
	}

	h.withLine(w, r, "failed to set memo", func(ctx context.Context, id string, idx int) (*usecase.DraftView, error) {
		return h.drafts.SetMemo(ctx, id, idx, req.Memo)
	})
}

// SetCurrency sets the currency of the line at {idx}.
func (h *DraftHandler) SetCurrency(w http.ResponseWriter, r *http.Request) {
	var req dto.SetCurrencyRequest
	if !decode(w, r, &req) {
		return
	}

	h.withLine(w, r, "failed to set currency", func(ctx context.Context, id string, idx int) (*usecase.DraftView, error) {
		return h.drafts.SetCurrency(ctx, id, idx, req.Currency)
	})
}

// SetRateType overrides the rate type of the line at {idx}.
func (h *DraftHandler) SetRateType(w http.ResponseWriter, r *http.Request) {
	var req dto.SetRateTypeRequest
	if !decode(w, r, &req) {
		return
	}

	h.withLine(w, r, "failed to set rate type", func(ctx context.Context, id string, idx int) (*usecase.DraftView, error) {
		return h.drafts.SetRateType(ctx, id, idx, req.RateType)
	})
}

// RefreshRate fetches a fresh quote for the line at {idx}.
func (h *DraftHandler) RefreshRate(w http.ResponseWriter, r *http.Request) {
	h.withLine(w, r, "failed to refresh rate", func(ctx context.Context, id string, idx int) (*usecase.DraftView, error) {
		return h.drafts.RefreshRate(ctx, id, idx)
	})
}

// Validate runs the authoritative validation.
func (h *DraftHandler) Validate(w http.ResponseWriter, r *http.Request) {
	view, err := h.drafts.Validate(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, view, err, "failed to validate draft")
}

// Submit creates the transaction. A draft that fails validation is answered
// with 422 and the draft including its violations.
func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	tx, err := h.drafts.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		var invalid *usecase.ValidationError
		if errors.As(err, &invalid) {
			writeJSON(w, http.StatusUnprocessableEntity, dto.InvalidDraftResponse{
				Error: err.Error(),
				Draft: dto.DraftFromView(invalid.View),
			})
			return
		}

		writeError(w, mapDomainError(err), "failed to submit draft", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

func (h *DraftHandler) withLine(w http.ResponseWriter, r *http.Request, failure string, fn func(ctx context.Context, id string, idx int) (*usecase.DraftView, error)) {
	idx, err := lineIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid line index", err.Error())
		return
	}

	view, err := fn(r.Context(), chi.URLParam(r, "id"), idx)
	h.respond(w, view, err, failure)
}

func (h *DraftHandler) respond(w http.ResponseWriter, view *usecase.DraftView, err error, failure string) {
	if err != nil {
		writeError(w, mapDomainError(err), failure, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DraftFromView(view))
}
