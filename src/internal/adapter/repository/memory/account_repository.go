package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type AccountRepository struct {
	repositories
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	err := r.write(ctx, func(st *state) error {
		for _, existing := range st.accounts {
			switch {
			case strings.EqualFold(existing.Username, account.Username):
				return fmt.Errorf("username %q already taken: %w", account.Username, domain.ErrDuplicate)
			case strings.EqualFold(existing.Email, account.Email):
				return fmt.Errorf("email %q already registered: %w", account.Email, domain.ErrDuplicate)
			case existing.ReferralCode == account.ReferralCode:
				return fmt.Errorf("%s: %w", account.ReferralCode, domain.ErrReferralCodeTaken)
			}
		}
		if account.Balance.IsNegative() {
			return fmt.Errorf("opening balance %s: %w", account.Balance, domain.ErrInvalidAmount)
		}

		now := r.now()
		account.ID = st.nextID()
		account.CreatedAt = now
		account.UpdatedAt = now
		st.accounts[account.ID] = account
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (domain.Account, error) {
	var account domain.Account
	err := r.read(func(st *state) error {
		found, ok := st.accounts[id]
		if !ok {
			return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
		}
		account = found
		return nil
	})
	return account, err
}

func (r *AccountRepository) GetByReferralCode(_ context.Context, code string) (domain.Account, error) {
	var account domain.Account
	err := r.read(func(st *state) error {
		for _, candidate := range st.accounts {
			if candidate.ReferralCode == code {
				account = candidate
				return nil
			}
		}
		return fmt.Errorf("referral code %s: %w", code, domain.ErrNotFound)
	})
	return account, err
}

func (r *AccountRepository) Credit(ctx context.Context, id string, amount decimal.Decimal) (domain.Account, error) {
	return r.adjust(ctx, id, amount)
}

func (r *AccountRepository) Debit(ctx context.Context, id string, amount decimal.Decimal) (domain.Account, error) {
	return r.adjust(ctx, id, amount.Neg())
}

func (r *AccountRepository) adjust(ctx context.Context, id string, delta decimal.Decimal) (domain.Account, error) {
	var account domain.Account
	err := r.write(ctx, func(st *state) error {
		found, ok := st.accounts[id]
		if !ok {
			return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
		}
		next := found.Balance.Add(delta)
		if next.IsNegative() {
			return fmt.Errorf("account %s balance %s: %w", id, found.Balance, domain.ErrInsufficientFunds)
		}
		found.Balance = next
		found.UpdatedAt = r.now()
		st.accounts[id] = found
		account = found
		return nil
	})
	return account, err
}

func (r *AccountRepository) SetKYCVerified(ctx context.Context, id string, verified bool) error {
	return r.write(ctx, func(st *state) error {
		found, ok := st.accounts[id]
		if !ok {
			return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
		}
		found.KYCVerified = verified
		found.UpdatedAt = r.now()
		st.accounts[id] = found
		return nil
	})
}

func (r *AccountRepository) CountReferrals(_ context.Context, referrerID string) (int, error) {
	count := 0
	err := r.read(func(st *state) error {
		for _, account := range st.accounts {
			if account.ReferrerID != nil && *account.ReferrerID == referrerID {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *AccountRepository) ListRecentCustomers(_ context.Context, limit int) ([]domain.Account, error) {
	var out []domain.Account
	err := r.read(func(st *state) error {
		ids := make([]string, 0, len(st.accounts))
		for id, account := range st.accounts {
			if account.Role == domain.RoleCustomer {
				ids = append(ids, id)
			}
		}
		st.newestFirst(ids)
		if limit > 0 && len(ids) > limit {
			ids = ids[:limit]
		}
		out = make([]domain.Account, 0, len(ids))
		for _, id := range ids {
			out = append(out, st.accounts[id])
		}
		return nil
	})
	return out, err
}
