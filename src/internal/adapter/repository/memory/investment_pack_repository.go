package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type InvestmentPackRepository struct {
	repositories
}

func (r *InvestmentPackRepository) Create(ctx context.Context, pack domain.InvestmentPack) (domain.InvestmentPack, error) {
	err := r.write(ctx, func(st *state) error {
		pack.ID = st.nextID()
		pack.CreatedAt = r.now()
		st.packs[pack.ID] = pack
		return nil
	})
	if err != nil {
		return domain.InvestmentPack{}, err
	}
	return pack, nil
}

func (r *InvestmentPackRepository) GetByID(_ context.Context, id string) (domain.InvestmentPack, error) {
	var pack domain.InvestmentPack
	err := r.read(func(st *state) error {
		found, ok := st.packs[id]
		if !ok {
			return fmt.Errorf("investment pack %s: %w", id, domain.ErrNotFound)
		}
		pack = found
		return nil
	})
	return pack, err
}

// List orders packs by minimum amount, the way the catalogue is shown.
func (r *InvestmentPackRepository) List(_ context.Context, activeOnly bool) ([]domain.InvestmentPack, error) {
	var out []domain.InvestmentPack
	err := r.read(func(st *state) error {
		out = make([]domain.InvestmentPack, 0, len(st.packs))
		for _, pack := range st.packs {
			if activeOnly && !pack.Active {
				continue
			}
			out = append(out, pack)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].MinAmount.Equal(out[j].MinAmount) {
				return out[i].Name < out[j].Name
			}
			return out[i].MinAmount.LessThan(out[j].MinAmount)
		})
		return nil
	})
	return out, err
}

func (r *InvestmentPackRepository) SetActive(ctx context.Context, id string, active bool) (domain.InvestmentPack, error) {
	var pack domain.InvestmentPack
	err := r.write(ctx, func(st *state) error {
		found, ok := st.packs[id]
		if !ok {
			return fmt.Errorf("investment pack %s: %w", id, domain.ErrNotFound)
		}
		found.Active = active
		st.packs[id] = found
		pack = found
		return nil
	})
	return pack, err
}
