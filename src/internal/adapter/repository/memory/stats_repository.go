package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type StatsRepository struct {
	repositories
}

func (r *StatsRepository) CountCustomers(_ context.Context) (int64, error) {
	var count int64
	err := r.read(func(st *state) error {
		for _, account := range st.accounts {
			if account.Role == domain.RoleCustomer {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *StatsRepository) CountInvestments(_ context.Context, status domain.InvestmentStatus) (int64, error) {
	var count int64
	err := r.read(func(st *state) error {
		for _, inv := range st.investments {
			if inv.Status == status {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *StatsRepository) CountTransactions(_ context.Context, txType domain.TransactionType, status domain.TransactionStatus) (int64, error) {
	var count int64
	err := r.read(func(st *state) error {
		for _, tx := range st.transactions {
			if tx.Type == txType && tx.Status == status {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *StatsRepository) CountKYC(_ context.Context, status domain.KYCStatus) (int64, error) {
	var count int64
	err := r.read(func(st *state) error {
		for _, kyc := range st.kyc {
			if kyc.Status == status {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *StatsRepository) SumCustomerBalances(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.read(func(st *state) error {
		for _, account := range st.accounts {
			if account.Role == domain.RoleCustomer {
				total = total.Add(account.Balance)
			}
		}
		return nil
	})
	return total, err
}

func (r *StatsRepository) SumTransactions(_ context.Context, txType domain.TransactionType, status domain.TransactionStatus) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.read(func(st *state) error {
		for _, tx := range st.transactions {
			if tx.Type == txType && tx.Status == status {
				total = total.Add(tx.Amount)
			}
		}
		return nil
	})
	return total, err
}

// ListAffiliates reports every account that referred at least one other,
// largest commission total first.
func (r *StatsRepository) ListAffiliates(_ context.Context) ([]domain.AffiliateStat, error) {
	var out []domain.AffiliateStat
	err := r.read(func(st *state) error {
		byReferrer := map[string]*domain.AffiliateStat{}
		stat := func(id string) *domain.AffiliateStat {
			if s, ok := byReferrer[id]; ok {
				return s
			}
			s := &domain.AffiliateStat{ReferrerID: id, Username: st.accounts[id].Username, CommissionTotal: decimal.Zero}
			byReferrer[id] = s
			return s
		}
		for _, account := range st.accounts {
			if account.HasReferrer() {
				stat(*account.ReferrerID).ReferralCount++
			}
		}
		for _, commission := range st.commissions {
			s := stat(commission.ReferrerID)
			s.CommissionCount++
			s.CommissionTotal = s.CommissionTotal.Add(commission.Amount)
		}

		out = make([]domain.AffiliateStat, 0, len(byReferrer))
		for _, s := range byReferrer {
			out = append(out, *s)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].CommissionTotal.Equal(out[j].CommissionTotal) {
				return out[i].ReferrerID < out[j].ReferrerID
			}
			return out[i].CommissionTotal.GreaterThan(out[j].CommissionTotal)
		})
		return nil
	})
	return out, err
}
