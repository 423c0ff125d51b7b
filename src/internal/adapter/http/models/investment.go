package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type CreateInvestmentRequest struct {
	PackID string `json:"packId"`
	Amount string `json:"amount"`
}

func (r CreateInvestmentRequest) Validate() error {
	_, err := r.ParsedAmount()
	return err
}

func (r CreateInvestmentRequest) ParsedAmount() (decimal.Decimal, error) {
	var errs []string
	if strings.TrimSpace(r.PackID) == "" {
		errs = append(errs, "packId is required")
	}
	amount := parseMoney("amount", r.Amount, &errs)
	if len(errs) > 0 {
		return decimal.Zero, errors.New(strings.Join(errs, "; "))
	}
	return amount, nil
}

type InvestmentResponse struct {
	ID              string  `json:"id"`
	AccountID       string  `json:"accountId"`
	PackID          string  `json:"packId"`
	PackName        string  `json:"packName"`
	Amount          string  `json:"amount"`
	DailyReturnRate string  `json:"dailyReturnRate"`
	DurationDays    int     `json:"durationDays"`
	DailyReturn     string  `json:"dailyReturn"`
	TotalReturn     string  `json:"totalReturn"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	Status          string  `json:"status"`
	CompletedAt     *string `json:"completedAt,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

func NewInvestmentResponse(inv domain.Investment) InvestmentResponse {
	return InvestmentResponse{
		ID:              inv.ID,
		AccountID:       inv.AccountID,
		PackID:          inv.PackID,
		PackName:        inv.PackName,
		Amount:          formatMoney(inv.Amount),
		DailyReturnRate: inv.DailyReturnRate.String(),
		DurationDays:    inv.DurationDays,
		DailyReturn:     formatMoney(inv.DailyReturn),
		TotalReturn:     formatMoney(inv.TotalReturn),
		StartDate:       inv.StartDate.Format(dateLayout),
		EndDate:         inv.EndDate.Format(dateLayout),
		Status:          string(inv.Status),
		CompletedAt:     formatOptionalTime(inv.CompletedAt),
		CreatedAt:       formatTime(inv.CreatedAt),
	}
}

func NewInvestmentResponses(investments []domain.Investment) []InvestmentResponse {
	out := make([]InvestmentResponse, 0, len(investments))
	for _, inv := range investments {
		out = append(out, NewInvestmentResponse(inv))
	}
	return out
}

type AccrualPointResponse struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type InvestmentDetailResponse struct {
	InvestmentResponse
	DaysElapsed int    `json:"daysElapsed"`
	Accrued     string `json:"accrued"`
}

func NewInvestmentDetailResponse(inv domain.Investment, accrual domain.Accrual) InvestmentDetailResponse {
	return InvestmentDetailResponse{
		InvestmentResponse: NewInvestmentResponse(inv),
		DaysElapsed:        accrual.DaysElapsed,
		Accrued:            formatMoney(accrual.Accrued),
	}
}

type InvestmentSeriesResponse struct {
	InvestmentID string                 `json:"investmentId"`
	PackName     string                 `json:"packName"`
	Points       []AccrualPointResponse `json:"points"`
}

func NewInvestmentSeriesResponse(investmentID, packName string, points []domain.AccrualPoint) InvestmentSeriesResponse {
	out := InvestmentSeriesResponse{
		InvestmentID: investmentID,
		PackName:     packName,
		Points:       make([]AccrualPointResponse, 0, len(points)),
	}
	for _, p := range points {
		out.Points = append(out.Points, AccrualPointResponse{Date: p.Date.Format(dateLayout), Value: formatMoney(p.Value)})
	}
	return out
}
