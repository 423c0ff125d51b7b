package memory

import (
	"context"
	"fmt"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type ReferralCommissionRepository struct {
	repositories
}

func (r *ReferralCommissionRepository) Create(ctx context.Context, commission domain.ReferralCommission) (domain.ReferralCommission, error) {
	err := r.write(ctx, func(st *state) error {
		for _, existing := range st.commissions {
			if existing.InvestmentID == commission.InvestmentID {
				return fmt.Errorf("commission for investment %s: %w", commission.InvestmentID, domain.ErrDuplicate)
			}
		}
		commission.ID = st.nextID()
		commission.CreatedAt = r.now()
		st.commissions[commission.ID] = commission
		return nil
	})
	if err != nil {
		return domain.ReferralCommission{}, err
	}
	return commission, nil
}

func (r *ReferralCommissionRepository) GetByInvestmentID(_ context.Context, investmentID string) (domain.ReferralCommission, error) {
	var commission domain.ReferralCommission
	err := r.read(func(st *state) error {
		for _, existing := range st.commissions {
			if existing.InvestmentID == investmentID {
				commission = existing
				return nil
			}
		}
		return fmt.Errorf("commission for investment %s: %w", investmentID, domain.ErrNotFound)
	})
	return commission, err
}

func (r *ReferralCommissionRepository) ListByReferrer(_ context.Context, referrerID string) ([]domain.ReferralCommission, error) {
	var out []domain.ReferralCommission
	err := r.read(func(st *state) error {
		ids := make([]string, 0)
		for id, commission := range st.commissions {
			if commission.ReferrerID == referrerID {
				ids = append(ids, id)
			}
		}
		st.newestFirst(ids)
		out = make([]domain.ReferralCommission, 0, len(ids))
		for _, id := range ids {
			out = append(out, st.commissions[id])
		}
		return nil
	})
	return out, err
}

type ReferralMilestoneRepository struct {
	repositories
}

func (r *ReferralMilestoneRepository) List(_ context.Context) ([]domain.ReferralMilestone, error) {
	var out []domain.ReferralMilestone
	err := r.read(func(st *state) error {
		out = append([]domain.ReferralMilestone(nil), st.milestones...)
		return nil
	})
	return out, err
}
