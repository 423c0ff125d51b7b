package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type InvestmentRepository struct {
	repositories
}

func (r *InvestmentRepository) Create(ctx context.Context, inv domain.Investment) (domain.Investment, error) {
	err := r.write(ctx, func(st *state) error {
		if _, ok := st.accounts[inv.AccountID]; !ok {
			return fmt.Errorf("account %s: %w", inv.AccountID, domain.ErrNotFound)
		}
		inv.ID = st.nextID()
		inv.CreatedAt = r.now()
		st.investments[inv.ID] = inv
		return nil
	})
	if err != nil {
		return domain.Investment{}, err
	}
	return inv, nil
}

func (r *InvestmentRepository) GetByID(_ context.Context, id string) (domain.Investment, error) {
	var inv domain.Investment
	err := r.read(func(st *state) error {
		found, ok := st.investments[id]
		if !ok {
			return fmt.Errorf("investment %s: %w", id, domain.ErrNotFound)
		}
		inv = found
		return nil
	})
	return inv, err
}

// Lock is a plain read; units of work are already serialized.
func (r *InvestmentRepository) Lock(ctx context.Context, id string) (domain.Investment, error) {
	return r.GetByID(ctx, id)
}

func (r *InvestmentRepository) ListByAccount(_ context.Context, accountID string) ([]domain.Investment, error) {
	var out []domain.Investment
	err := r.read(func(st *state) error {
		ids := make([]string, 0)
		for id, inv := range st.investments {
			if inv.AccountID == accountID {
				ids = append(ids, id)
			}
		}
		st.newestFirst(ids)
		out = make([]domain.Investment, 0, len(ids))
		for _, id := range ids {
			out = append(out, st.investments[id])
		}
		return nil
	})
	return out, err
}

func (r *InvestmentRepository) List(_ context.Context, filter domain.InvestmentFilter) ([]domain.Investment, error) {
	var out []domain.Investment
	err := r.read(func(st *state) error {
		ids := make([]string, 0)
		for id, inv := range st.investments {
			if filter.AccountID != "" && inv.AccountID != filter.AccountID {
				continue
			}
			if filter.Status != "" && domain.EffectiveStatus(inv, filter.AsOf) != filter.Status {
				continue
			}
			ids = append(ids, id)
		}
		st.newestFirst(ids)
		if filter.Limit > 0 && len(ids) > filter.Limit {
			ids = ids[:filter.Limit]
		}
		out = make([]domain.Investment, 0, len(ids))
		for _, id := range ids {
			out = append(out, st.investments[id])
		}
		return nil
	})
	return out, err
}

func (r *InvestmentRepository) ListMatured(_ context.Context, asOf time.Time, limit int) ([]domain.Investment, error) {
	var out []domain.Investment
	cutoff := domain.DateOf(asOf)
	err := r.read(func(st *state) error {
		ids := make([]string, 0)
		for id, inv := range st.investments {
			if inv.Status == domain.InvestmentStatusActive && !inv.EndDate.After(cutoff) {
				ids = append(ids, id)
			}
		}
		st.newestFirst(ids)
		if limit > 0 && len(ids) > limit {
			ids = ids[:limit]
		}
		out = make([]domain.Investment, 0, len(ids))
		for _, id := range ids {
			out = append(out, st.investments[id])
		}
		return nil
	})
	return out, err
}

func (r *InvestmentRepository) Complete(ctx context.Context, id string, totalReturn decimal.Decimal, at time.Time) (domain.Investment, error) {
	return r.finish(ctx, id, func(inv *domain.Investment) {
		inv.Status = domain.InvestmentStatusCompleted
		inv.TotalReturn = totalReturn
		completedAt := at.UTC()
		inv.CompletedAt = &completedAt
	})
}

func (r *InvestmentRepository) Cancel(ctx context.Context, id string, _ time.Time) (domain.Investment, error) {
	return r.finish(ctx, id, func(inv *domain.Investment) {
		inv.Status = domain.InvestmentStatusCancelled
	})
}

func (r *InvestmentRepository) finish(ctx context.Context, id string, apply func(inv *domain.Investment)) (domain.Investment, error) {
	var out domain.Investment
	err := r.write(ctx, func(st *state) error {
		found, ok := st.investments[id]
		if !ok {
			return fmt.Errorf("investment %s: %w", id, domain.ErrNotFound)
		}
		if found.Status != domain.InvestmentStatusActive {
			return fmt.Errorf("investment %s is %s: %w", id, found.Status, domain.ErrAlreadyResolved)
		}
		apply(&found)
		st.investments[id] = found
		out = found
		return nil
	})
	return out, err
}
