package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferralCommission is append-only; there is at most one per investment.
type ReferralCommission struct {
	ID             string
	ReferrerID     string
	ReferredUserID string
	InvestmentID   string
	Amount         decimal.Decimal
	CreatedAt      time.Time
}

type ReferralMilestone struct {
	ID                string
	Name              string
	RequiredReferrals int
	RewardAmount      decimal.Decimal
	Icon              string
}

// DefaultReferralMilestones are the tiers every fresh installation starts with.
func DefaultReferralMilestones() []ReferralMilestone {
	return []ReferralMilestone{
		{ID: "bronze", Name: "Bronze", RequiredReferrals: 5, RewardAmount: decimal.NewFromInt(25), Icon: "bronze"},
		{ID: "silver", Name: "Silver", RequiredReferrals: 10, RewardAmount: decimal.NewFromInt(50), Icon: "silver"},
		{ID: "gold", Name: "Gold", RequiredReferrals: 20, RewardAmount: decimal.NewFromInt(150), Icon: "gold"},
		{ID: "vip", Name: "VIP", RequiredReferrals: 40, RewardAmount: decimal.NewFromInt(1000), Icon: "vip"},
	}
}
