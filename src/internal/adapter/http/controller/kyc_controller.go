package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/api-sage/invest-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type KYCService interface {
	Submit(ctx context.Context, principal domain.Principal, submission domain.KYCSubmission) (domain.KYCVerification, error)
	Status(ctx context.Context, principal domain.Principal) (domain.KYCVerification, error)
	Approve(ctx context.Context, principal domain.Principal, id string, note string) (domain.KYCVerification, error)
	Reject(ctx context.Context, principal domain.Principal, id string, note string) (domain.KYCVerification, error)
	ListByStatus(ctx context.Context, principal domain.Principal, status domain.KYCStatus) ([]domain.KYCVerification, error)
}

type KYCController struct {
	service KYCService
}

func NewKYCController(service KYCService) *KYCController {
	return &KYCController{service: service}
}

func (c *KYCController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/kyc", c.submit).Methods(http.MethodPost)
	r.HandleFunc("/kyc", c.status).Methods(http.MethodGet)
	r.HandleFunc("/admin/kyc", c.list).Methods(http.MethodGet)
	r.HandleFunc("/admin/kyc/{id}/approve", c.approve).Methods(http.MethodPost)
	r.HandleFunc("/admin/kyc/{id}/reject", c.reject).Methods(http.MethodPost)
}

func (c *KYCController) submit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	var req models.SubmitKYCRequest
	if err := decode(w, r, &req); err != nil {
		respondInvalid(w, r, start, "invalid request body", err)
		return
	}
	logRequest(r, req)

	submission, err := req.ToDomain()
	if err != nil {
		respondInvalid(w, r, start, "validation failed", err)
		return
	}

	kyc, err := c.service.Submit(r.Context(), p, submission)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusCreated, "kyc submitted", models.NewKYCResponse(kyc))
}

// status reports not_submitted instead of 404 for accounts that never applied.
func (c *KYCController) status(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	kyc, err := c.service.Status(r.Context(), p)
	if errors.Is(err, domain.ErrNotFound) {
		kyc, err = domain.KYCVerification{AccountID: p.AccountID, Status: domain.KYCStatusNotSubmitted}, nil
	}
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "kyc status retrieved", models.NewKYCResponse(kyc))
}

func (c *KYCController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	list, err := c.service.ListByStatus(r.Context(), p, domain.KYCStatus(r.URL.Query().Get("status")))
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "kyc verifications retrieved", models.NewKYCResponses(list))
}

func (c *KYCController) approve(w http.ResponseWriter, r *http.Request) {
	c.review(w, r, c.service.Approve, "kyc approved")
}

func (c *KYCController) reject(w http.ResponseWriter, r *http.Request) {
	c.review(w, r, c.service.Reject, "kyc rejected")
}

func (c *KYCController) review(
	w http.ResponseWriter,
	r *http.Request,
	decide func(ctx context.Context, principal domain.Principal, id string, note string) (domain.KYCVerification, error),
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

	kyc, err := decide(r.Context(), p, mux.Vars(r)["id"], req.Note)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, message, models.NewKYCResponse(kyc))
}
