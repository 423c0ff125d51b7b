package implementations

import (
	"context"
	"fmt"

	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
)

const commissionColumns = `id, referrer_id, referred_user_id, investment_id, amount, created_at`

type ReferralCommissionRepository struct {
	q dbtx
}

// Create relies on the unique investment_id constraint as the last line
// against paying the same investment twice.
func (r *ReferralCommissionRepository) Create(ctx context.Context, commission domain.ReferralCommission) (domain.ReferralCommission, error) {
	const query = `
INSERT INTO referral_commissions (referrer_id, referred_user_id, investment_id, amount)
VALUES ($1, $2, $3, $4)
RETURNING ` + commissionColumns

	created, err := scanCommission(r.q.QueryRowContext(ctx, query,
		commission.ReferrerID,
		commission.ReferredUserID,
		commission.InvestmentID,
		commission.Amount,
	))
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return domain.ReferralCommission{}, fmt.Errorf("commission for investment %s: %w", commission.InvestmentID, domain.ErrDuplicate)
		}
		logger.Error("referral commission repository create failed", err, logger.Fields{
			"investmentId": commission.InvestmentID,
		})
		return domain.ReferralCommission{}, fmt.Errorf("create referral commission: %w", err)
	}
	return created, nil
}

func (r *ReferralCommissionRepository) GetByInvestmentID(ctx context.Context, investmentID string) (domain.ReferralCommission, error) {
	const query = `SELECT ` + commissionColumns + ` FROM referral_commissions WHERE investment_id = $1`

	commission, err := scanCommission(r.q.QueryRowContext(ctx, query, investmentID))
	if err != nil {
		return domain.ReferralCommission{}, notFound(err, "commission for investment", investmentID)
	}
	return commission, nil
}

func (r *ReferralCommissionRepository) ListByReferrer(ctx context.Context, referrerID string) ([]domain.ReferralCommission, error) {
	const query = `
SELECT ` + commissionColumns + `
FROM referral_commissions
WHERE referrer_id = $1
ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, referrerID)
	if err != nil {
		return nil, fmt.Errorf("list referral commissions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ReferralCommission, 0)
	for rows.Next() {
		commission, err := scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan referral commission: %w", err)
		}
		out = append(out, commission)
	}
	return out, rows.Err()
}

func scanCommission(row rowScanner) (domain.ReferralCommission, error) {
	var commission domain.ReferralCommission
	err := row.Scan(
		&commission.ID,
		&commission.ReferrerID,
		&commission.ReferredUserID,
		&commission.InvestmentID,
		&commission.Amount,
		&commission.CreatedAt,
	)
	return commission, err
}

type ReferralMilestoneRepository struct {
	q dbtx
}

func (r *ReferralMilestoneRepository) List(ctx context.Context) ([]domain.ReferralMilestone, error) {
	const query = `
SELECT id, name, required_referrals, reward_amount, icon
FROM referral_milestones
ORDER BY required_referrals`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list referral milestones: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ReferralMilestone, 0, 4)
	for rows.Next() {
		var m domain.ReferralMilestone
		if err := rows.Scan(&m.ID, &m.Name, &m.RequiredReferrals, &m.RewardAmount, &m.Icon); err != nil {
			return nil, fmt.Errorf("scan referral milestone: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
