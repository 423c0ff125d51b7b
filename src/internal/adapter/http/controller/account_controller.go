package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/api-sage/invest-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type AccountService interface {
	OpenAccount(ctx context.Context, principal domain.Principal, req domain.NewAccount) (domain.Account, error)
	GetAccount(ctx context.Context, principal domain.Principal, id string) (domain.Account, error)
}

type AccountController struct {
	service AccountService
}

func NewAccountController(service AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/accounts/me", c.me).Methods(http.MethodGet)
	r.HandleFunc("/admin/accounts", c.open).Methods(http.MethodPost)
}

func (c *AccountController) me(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	account, err := c.service.GetAccount(r.Context(), p, p.AccountID)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "account retrieved", models.NewAccountResponse(account))
}

func (c *AccountController) open(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	var req models.CreateAccountRequest
	if err := decode(w, r, &req); err != nil {
		respondInvalid(w, r, start, "invalid request body", err)
		return
	}
	logRequest(r, req)
	if err := req.Validate(); err != nil {
		respondInvalid(w, r, start, "validation failed", err)
		return
	}

	account, err := c.service.OpenAccount(r.Context(), p, req.ToDomain())
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusCreated, "account created", models.NewAccountResponse(account))
}
