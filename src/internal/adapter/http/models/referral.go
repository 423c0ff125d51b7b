package models

import (
	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type ReferralCommissionResponse struct {
	ID             string `json:"id"`
	ReferredUserID string `json:"referredUserId"`
	InvestmentID   string `json:"investmentId"`
	Amount         string `json:"amount"`
	CreatedAt      string `json:"createdAt"`
}

// ReferralCommissionsResponse carries the rate so clients can show what the
// next referred investment will pay.
type ReferralCommissionsResponse struct {
	CommissionRate string                       `json:"commissionRate"`
	Commissions    []ReferralCommissionResponse `json:"commissions"`
}

func NewReferralCommissionsResponse(rate decimal.Decimal, commissions []domain.ReferralCommission) ReferralCommissionsResponse {
	out := ReferralCommissionsResponse{
		CommissionRate: rate.String(),
		Commissions:    make([]ReferralCommissionResponse, 0, len(commissions)),
	}
	for _, c := range commissions {
		out.Commissions = append(out.Commissions, ReferralCommissionResponse{
			ID:             c.ID,
			ReferredUserID: c.ReferredUserID,
			InvestmentID:   c.InvestmentID,
			Amount:         formatMoney(c.Amount),
			CreatedAt:      formatTime(c.CreatedAt),
		})
	}
	return out
}
