package domain

import "context"

type ReferralCommissionRepository interface {
	// Create returns ErrDuplicate when the investment already has a commission.
	Create(ctx context.Context, commission ReferralCommission) (ReferralCommission, error)
	GetByInvestmentID(ctx context.Context, investmentID string) (ReferralCommission, error)
	ListByReferrer(ctx context.Context, referrerID string) ([]ReferralCommission, error)
}

type ReferralMilestoneRepository interface {
	List(ctx context.Context) ([]ReferralMilestone, error)
}
