package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type CommissionService interface {
	Rate() decimal.Decimal
	ListMine(ctx context.Context, principal domain.Principal) ([]domain.ReferralCommission, error)
}

type ReferralController struct {
	service CommissionService
}

func NewReferralController(service CommissionService) *ReferralController {
	return &ReferralController{service: service}
}

func (c *ReferralController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/referrals", c.listMine).Methods(http.MethodGet)
}

func (c *ReferralController) listMine(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	commissions, err := c.service.ListMine(r.Context(), p)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "referral commissions retrieved", models.NewReferralCommissionsResponse(c.service.Rate(), commissions))
}
