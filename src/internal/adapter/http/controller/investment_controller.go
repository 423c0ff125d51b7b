package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/usecase/services"
)

type InvestmentService interface {
	CreateInvestment(ctx context.Context, principal domain.Principal, packID string, amount decimal.Decimal) (domain.Investment, error)
	GetInvestment(ctx context.Context, principal domain.Principal, id string) (domain.Investment, error)
	ListMyInvestments(ctx context.Context, principal domain.Principal) ([]domain.Investment, error)
	List(ctx context.Context, principal domain.Principal, filter domain.InvestmentFilter) ([]domain.Investment, error)
	Accrual(ctx context.Context, principal domain.Principal, id string) (domain.Accrual, error)
	ChartData(ctx context.Context, principal domain.Principal) ([]services.InvestmentSeries, error)
	CancelInvestment(ctx context.Context, principal domain.Principal, id string) (domain.Investment, error)
}

type InvestmentController struct {
	service InvestmentService
}

func NewInvestmentController(service InvestmentService) *InvestmentController {
	return &InvestmentController{service: service}
}

// RegisterRoutes registers /investments/chart ahead of /investments/{id}.
func (c *InvestmentController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/investments", c.create).Methods(http.MethodPost)
	r.HandleFunc("/investments", c.listMine).Methods(http.MethodGet)
	r.HandleFunc("/investments/chart", c.chart).Methods(http.MethodGet)
	r.HandleFunc("/investments/{id}", c.get).Methods(http.MethodGet)
	r.HandleFunc("/admin/investments", c.list).Methods(http.MethodGet)
	r.HandleFunc("/admin/investments/{id}/cancel", c.cancel).Methods(http.MethodPost)
}

func (c *InvestmentController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	var req models.CreateInvestmentRequest
	if err := decode(w, r, &req); err != nil {
		respondInvalid(w, r, start, "invalid request body", err)
		return
	}
	logRequest(r, req)

	amount, err := req.ParsedAmount()
	if err != nil {
		respondInvalid(w, r, start, "validation failed", err)
		return
	}

	inv, err := c.service.CreateInvestment(r.Context(), p, req.PackID, amount)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusCreated, "investment created", models.NewInvestmentResponse(inv))
}

func (c *InvestmentController) listMine(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	investments, err := c.service.ListMyInvestments(r.Context(), p)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "investments retrieved", models.NewInvestmentResponses(investments))
}

func (c *InvestmentController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := domain.InvestmentFilter{
		AccountID: query.Get("accountId"),
		Status:    domain.InvestmentStatus(query.Get("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		respondInvalid(w, r, start, "validation failed", fmt.Errorf("unknown investment status %q", filter.Status))
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		respondInvalid(w, r, start, "validation failed", err)
		return
	}
	filter.Limit = limit

	investments, err := c.service.List(r.Context(), p, filter)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "investments retrieved", models.NewInvestmentResponses(investments))
}

func (c *InvestmentController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	p, ok := principal(w, r, start)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	inv, err := c.service.GetInvestment(r.Context(), p, id)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	accrual, err := c.service.Accrual(r.Context(), p, id)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "investment retrieved", models.NewInvestmentDetailResponse(inv, accrual))
}

func (c *InvestmentController) chart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	series, err := c.service.ChartData(r.Context(), p)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	out := make([]models.InvestmentSeriesResponse, 0, len(series))
	for _, s := range series {
		out = append(out, models.NewInvestmentSeriesResponse(s.InvestmentID, s.PackName, s.Points))
	}
	respond(w, r, start, http.StatusOK, "chart data retrieved", out)
}

func (c *InvestmentController) cancel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	inv, err := c.service.CancelInvestment(r.Context(), p, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "investment cancelled", models.NewInvestmentResponse(inv))
}
