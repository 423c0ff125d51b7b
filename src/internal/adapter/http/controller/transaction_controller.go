package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/api-sage/invest-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type TransactionService interface {
	RequestDeposit(ctx context.Context, principal domain.Principal, req domain.DepositRequest) (domain.Transaction, error)
	RequestWithdrawal(ctx context.Context, principal domain.Principal, req domain.WithdrawalRequest) (domain.Transaction, error)
	Approve(ctx context.Context, principal domain.Principal, id string, note string) (domain.Transaction, error)
	Reject(ctx context.Context, principal domain.Principal, id string, note string) (domain.Transaction, error)
	ListMine(ctx context.Context, principal domain.Principal, limit int) ([]domain.Transaction, error)
	List(ctx context.Context, principal domain.Principal, filter domain.TransactionFilter) ([]domain.Transaction, error)
}

type TransactionController struct {
	service TransactionService
}

func NewTransactionController(service TransactionService) *TransactionController {
	return &TransactionController{service: service}
}

func (c *TransactionController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/transactions/deposits", c.deposit).Methods(http.MethodPost)
	r.HandleFunc("/transactions/withdrawals", c.withdraw).Methods(http.MethodPost)
	r.HandleFunc("/transactions", c.listMine).Methods(http.MethodGet)
	r.HandleFunc("/admin/transactions", c.list).Methods(http.MethodGet)
	r.HandleFunc("/admin/transactions/{id}/approve", c.approve).Methods(http.MethodPost)
	r.HandleFunc("/admin/transactions/{id}/reject", c.reject).Methods(http.MethodPost)
}

func (c *TransactionController) deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	var req models.DepositRequest
	if err := decode(w, r, &req); err != nil {
		respondInvalid(w, r, start, "invalid request body", err)
		return
	}
	logRequest(r, req)

	deposit, err := req.ToDomain()
	if err != nil {
		respondInvalid(w, r, start, "validation failed", err)
		return
	}

	tx, err := c.service.RequestDeposit(r.Context(), p, deposit)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusCreated, "deposit request submitted", models.NewTransactionResponse(tx))
}

func (c *TransactionController) withdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	var req models.WithdrawalRequest
	if err := decode(w, r, &req); err != nil {
		respondInvalid(w, r, start, "invalid request body", err)
		return
	}
	logRequest(r, req)

	withdrawal, err := req.ToDomain()
	if err != nil {
		respondInvalid(w, r, start, "validation failed", err)
		return
	}

	tx, err := c.service.RequestWithdrawal(r.Context(), p, withdrawal)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusCreated, "withdrawal request submitted", models.NewTransactionResponse(tx))
}

func (c *TransactionController) listMine(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	p, ok := principal(w, r, start)
	if !ok {
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		respondInvalid(w, r, start, "validation failed", err)
		return
	}

	txs, err := c.service.ListMine(r.Context(), p, limit)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "transactions retrieved", models.NewTransactionResponses(txs))
}

func (c *TransactionController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := domain.TransactionFilter{
		AccountID: query.Get("accountId"),
		Type:      domain.TransactionType(query.Get("type")),
		Status:    domain.TransactionStatus(query.Get("status")),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		respondInvalid(w, r, start, "validation failed", fmt.Errorf("unknown transaction type %q", filter.Type))
		return
	}
	if filter.Status != "" && !filter.Status.Valid() {
		respondInvalid(w, r, start, "validation failed", fmt.Errorf("unknown transaction status %q", filter.Status))
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		respondInvalid(w, r, start, "validation failed", err)
		return
	}
	filter.Limit = limit

	txs, err := c.service.List(r.Context(), p, filter)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "transactions retrieved", models.NewTransactionResponses(txs))
}

func (c *TransactionController) approve(w http.ResponseWriter, r *http.Request) {
	c.resolve(w, r, c.service.Approve, "transaction approved")
}

func (c *TransactionController) reject(w http.ResponseWriter, r *http.Request) {
	c.resolve(w, r, c.service.Reject, "transaction rejected")
}

func (c *TransactionController) resolve(
	w http.ResponseWriter,
	r *http.Request,
	decide func(ctx context.Context, principal domain.Principal, id string, note string) (domain.Transaction, error),
	message string,
) {
	start := time.Now()
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	var req models.ResolveRequest
	if err := decode(w, r, &req); err != nil {
		respondInvalid(w, r, start, "invalid request body", err)
		return
	}
	logRequest(r, req)

	tx, err := decide(r.Context(), p, mux.Vars(r)["id"], req.Note)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, message, models.NewTransactionResponse(tx))
}
