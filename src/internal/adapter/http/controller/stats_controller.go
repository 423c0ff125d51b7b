package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/api-sage/invest-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type ReportingService interface {
	UserStats(ctx context.Context, principal domain.Principal) (domain.UserStats, error)
	ReferralStats(ctx context.Context, principal domain.Principal) (domain.ReferralStats, error)
	AdminStats(ctx context.Context, principal domain.Principal) (domain.AdminStats, error)
	AffiliateStats(ctx context.Context, principal domain.Principal) ([]domain.AffiliateStat, error)
}

type StatsController struct {
	service ReportingService
}

func NewStatsController(service ReportingService) *StatsController {
	return &StatsController{service: service}
}

func (c *StatsController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/stats", c.user).Methods(http.MethodGet)
	r.HandleFunc("/referrals/stats", c.referrals).Methods(http.MethodGet)
	r.HandleFunc("/admin/stats", c.admin).Methods(http.MethodGet)
	r.HandleFunc("/admin/affiliates", c.affiliates).Methods(http.MethodGet)
}

func (c *StatsController) user(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	stats, err := c.service.UserStats(r.Context(), p)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "stats retrieved", models.NewUserStatsResponse(stats))
}

func (c *StatsController) referrals(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	stats, err := c.service.ReferralStats(r.Context(), p)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "referral stats retrieved", models.NewReferralStatsResponse(stats))
}

func (c *StatsController) admin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	stats, err := c.service.AdminStats(r.Context(), p)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "platform stats retrieved", models.NewAdminStatsResponse(stats))
}

func (c *StatsController) affiliates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	stats, err := c.service.AffiliateStats(r.Context(), p)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "affiliate stats retrieved", models.NewAffiliateResponses(stats))
}
