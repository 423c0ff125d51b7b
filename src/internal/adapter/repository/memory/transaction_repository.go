package memory

import (
	"context"
	"fmt"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type TransactionRepository struct {
	repositories
}

func (r *TransactionRepository) Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	err := r.write(ctx, func(st *state) error {
		if _, ok := st.accounts[tx.AccountID]; !ok {
			return fmt.Errorf("account %s: %w", tx.AccountID, domain.ErrNotFound)
		}
		if !tx.Amount.IsPositive() {
			return fmt.Errorf("transaction amount %s: %w", tx.Amount, domain.ErrInvalidAmount)
		}
		now := r.now()
		tx.ID = st.nextID()
		tx.CreatedAt = now
		tx.UpdatedAt = now
		st.transactions[tx.ID] = tx
		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

func (r *TransactionRepository) GetByID(_ context.Context, id string) (domain.Transaction, error) {
	var tx domain.Transaction
	err := r.read(func(st *state) error {
		found, ok := st.transactions[id]
		if !ok {
			return fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
		}
		tx = found
		return nil
	})
	return tx, err
}

func (r *TransactionRepository) Lock(ctx context.Context, id string) (domain.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r *TransactionRepository) Resolve(ctx context.Context, id string, resolution domain.Resolution) (domain.Transaction, error) {
	var tx domain.Transaction
	err := r.write(ctx, func(st *state) error {
		found, ok := st.transactions[id]
		if !ok {
			return fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
		}
		if !found.IsPending() {
			return fmt.Errorf("transaction %s is %s: %w", id, found.Status, domain.ErrAlreadyResolved)
		}
		resolvedBy := resolution.ResolvedBy
		resolvedAt := resolution.ResolvedAt.UTC()
		found.Status = resolution.Status
		found.AdminNote = resolution.AdminNote
		found.ResolvedBy = &resolvedBy
		found.ResolvedAt = &resolvedAt
		found.UpdatedAt = r.now()
		st.transactions[id] = found
		tx = found
		return nil
	})
	return tx, err
}

func (r *TransactionRepository) List(_ context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	var out []domain.Transaction
	err := r.read(func(st *state) error {
		ids := make([]string, 0)
		for id, tx := range st.transactions {
			if filter.AccountID != "" && tx.AccountID != filter.AccountID {
				continue
			}
			if filter.Type != "" && tx.Type != filter.Type {
				continue
			}
			if filter.Status != "" && tx.Status != filter.Status {
				continue
			}
			ids = append(ids, id)
		}
		st.newestFirst(ids)
		if filter.Limit > 0 && len(ids) > filter.Limit {
			ids = ids[:filter.Limit]
		}
		out = make([]domain.Transaction, 0, len(ids))
		for _, id := range ids {
			out = append(out, st.transactions[id])
		}
		return nil
	})
	return out, err
}
