package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type CreatePackRequest struct {
	Name            string `json:"name"`
	MinAmount       string `json:"minAmount"`
	MaxAmount       string `json:"maxAmount"`
	DailyReturnRate string `json:"dailyReturnRate"`
	DurationDays    int    `json:"durationDays"`
	Active          *bool  `json:"active,omitempty"`
}

func (r CreatePackRequest) Validate() error {
	_, err := r.ToDomain()
	return err
}

func (r CreatePackRequest) ToDomain() (domain.InvestmentPack, error) {
	var errs []string

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	minAmount := parseMoney("minAmount", r.MinAmount, &errs)
	maxAmount := parseMoney("maxAmount", r.MaxAmount, &errs)
	rate := parsePositive("dailyReturnRate", r.DailyReturnRate, &errs)
	if r.DurationDays <= 0 {
		errs = append(errs, "durationDays must be greater than zero")
	}
	if len(errs) > 0 {
		return domain.InvestmentPack{}, errors.New(strings.Join(errs, "; "))
	}

	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return domain.InvestmentPack{
		Name:            r.Name,
		MinAmount:       minAmount,
		MaxAmount:       maxAmount,
		DailyReturnRate: rate,
		DurationDays:    r.DurationDays,
		Active:          active,
	}, nil
}

type UpdatePackRequest struct {
	Active *bool `json:"active"`
}

func (r UpdatePackRequest) Validate() error {
	if r.Active == nil {
		return errors.New("active is required")
	}
	return nil
}

type PackResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MinAmount       string `json:"minAmount"`
	MaxAmount       string `json:"maxAmount"`
	DailyReturnRate string `json:"dailyReturnRate"`
	DurationDays    int    `json:"durationDays"`
	TotalReturnRate string `json:"totalReturnRate"`
	Active          bool   `json:"active"`
	CreatedAt       string `json:"createdAt"`
}

func NewPackResponse(p domain.InvestmentPack) PackResponse {
	return PackResponse{
		ID:              p.ID,
		Name:            p.Name,
		MinAmount:       formatMoney(p.MinAmount),
		MaxAmount:       formatMoney(p.MaxAmount),
		DailyReturnRate: p.DailyReturnRate.String(),
		DurationDays:    p.DurationDays,
		TotalReturnRate: p.DailyReturnRate.Mul(decimal.NewFromInt(int64(p.DurationDays))).String(),
		Active:          p.Active,
		CreatedAt:       formatTime(p.CreatedAt),
	}
}

func NewPackResponses(packs []domain.InvestmentPack) []PackResponse {
	out := make([]PackResponse, 0, len(packs))
	for _, p := range packs {
		out = append(out, NewPackResponse(p))
	}
	return out
}
