package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/mmconsole/internal/adapter/http/dto"
	"github.com/iho/mmconsole/internal/domain"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	Resolve(ctx context.Context, accountNo string) (*domain.ResolvedAccount, error)
	List(ctx context.Context, limit, offset int) ([]*domain.AccountReference, error)
}

// AccountHandler serves the account picker.
type AccountHandler struct {
	accounts AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Get resolves an account and its balance snapshot.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "accountNo")
	if accountNo == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return
	}

	resolved, err := h.accounts.Resolve(r.Context(), accountNo)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ResolvedAccountFromDomain(resolved))
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	accounts, err := h.accounts.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}
