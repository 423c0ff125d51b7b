package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/api-sage/invest-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type PackService interface {
	ListActive(ctx context.Context) ([]domain.InvestmentPack, error)
	ListAll(ctx context.Context, principal domain.Principal) ([]domain.InvestmentPack, error)
	CreatePack(ctx context.Context, principal domain.Principal, pack domain.InvestmentPack) (domain.InvestmentPack, error)
	SetPackActive(ctx context.Context, principal domain.Principal, id string, active bool) (domain.InvestmentPack, error)
}

type PackController struct {
	service PackService
}

func NewPackController(service PackService) *PackController {
	return &PackController{service: service}
}

func (c *PackController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/packs", c.listActive).Methods(http.MethodGet)
	r.HandleFunc("/admin/packs", c.listAll).Methods(http.MethodGet)
	r.HandleFunc("/admin/packs", c.create).Methods(http.MethodPost)
	r.HandleFunc("/admin/packs/{id}", c.update).Methods(http.MethodPatch)
}

func (c *PackController) listActive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	if _, ok := principal(w, r, start); !ok {
		return
	}

	packs, err := c.service.ListActive(r.Context())
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "packs retrieved", models.NewPackResponses(packs))
}

func (c *PackController) listAll(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	packs, err := c.service.ListAll(r.Context(), p)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "packs retrieved", models.NewPackResponses(packs))
}

func (c *PackController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	var req models.CreatePackRequest
	if err := decode(w, r, &req); err != nil {
		respondInvalid(w, r, start, "invalid request body", err)
		return
	}
	logRequest(r, req)

	pack, err := req.ToDomain()
	if err != nil {
		respondInvalid(w, r, start, "validation failed", err)
		return
	}

	created, err := c.service.CreatePack(r.Context(), p, pack)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusCreated, "pack created", models.NewPackResponse(created))
}

func (c *PackController) update(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	p, ok := principal(w, r, start)
	if !ok {
		return
	}

	var req models.UpdatePackRequest
	if err := decode(w, r, &req); err != nil {
		respondInvalid(w, r, start, "invalid request body", err)
		return
	}
	logRequest(r, req)
	if err := req.Validate(); err != nil {
		respondInvalid(w, r, start, "validation failed", err)
		return
	}

	pack, err := c.service.SetPackActive(r.Context(), p, mux.Vars(r)["id"], *req.Active)
	if err != nil {
		respondError(w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusOK, "pack updated", models.NewPackResponse(pack))
}

