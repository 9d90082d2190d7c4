package handler

import (
	"net/http"

	"expvote/internal/domain"
	"expvote/internal/middleware"
	"expvote/internal/service"
	"expvote/pkg/errors"
	"expvote/pkg/logger"

	"github.com/go-chi/chi/v5"
)

type AccountHandler struct {
	accounts service.AccountManager
	logger   *logger.Logger
}

func NewAccountHandler(accounts service.AccountManager, logger *logger.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// GetBalance handles GET /api/v1/accounts/{account}/balance
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	balance, err := h.accounts.BalanceOf(r.Context(), account)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, domain.BalanceResponse{Account: account, Balance: balance})
}

// Credit handles POST /api/v1/admin/accounts/{account}/credit
func (h *AccountHandler) Credit(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, r, errors.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	account := chi.URLParam(r, "account")

	var req domain.CreditRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	if err := h.accounts.Credit(r.Context(), actor, account, req.Amount); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	balance, err := h.accounts.BalanceOf(r.Context(), account)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, domain.BalanceResponse{Account: account, Balance: balance})
}
