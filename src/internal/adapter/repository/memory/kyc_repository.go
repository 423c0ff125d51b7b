package memory

import (
	"context"
	"fmt"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type KYCRepository struct {
	repositories
}

func (r *KYCRepository) Create(ctx context.Context, kyc domain.KYCVerification) (domain.KYCVerification, error) {
	err := r.write(ctx, func(st *state) error {
		if _, ok := st.accounts[kyc.AccountID]; !ok {
			return fmt.Errorf("account %s: %w", kyc.AccountID, domain.ErrNotFound)
		}
		for _, existing := range st.kyc {
			if existing.AccountID == kyc.AccountID {
				return fmt.Errorf("kyc for account %s: %w", kyc.AccountID, domain.ErrAlreadySubmitted)
			}
		}
		kyc.ID = st.nextID()
		kyc.SubmittedAt = r.now()
		st.kyc[kyc.ID] = kyc
		return nil
	})
	if err != nil {
		return domain.KYCVerification{}, err
	}
	return kyc, nil
}

func (r *KYCRepository) GetByID(_ context.Context, id string) (domain.KYCVerification, error) {
	var kyc domain.KYCVerification
	err := r.read(func(st *state) error {
		found, ok := st.kyc[id]
		if !ok {
			return fmt.Errorf("kyc %s: %w", id, domain.ErrNotFound)
		}
		kyc = found
		return nil
	})
	return kyc, err
}

func (r *KYCRepository) GetByAccountID(_ context.Context, accountID string) (domain.KYCVerification, error) {
	var kyc domain.KYCVerification
	err := r.read(func(st *state) error {
		for _, existing := range st.kyc {
			if existing.AccountID == accountID {
				kyc = existing
				return nil
			}
		}
		return fmt.Errorf("kyc for account %s: %w", accountID, domain.ErrNotFound)
	})
	return kyc, err
}

func (r *KYCRepository) Lock(ctx context.Context, id string) (domain.KYCVerification, error) {
	return r.GetByID(ctx, id)
}

func (r *KYCRepository) Review(ctx context.Context, id string, review domain.KYCReview) (domain.KYCVerification, error) {
	var kyc domain.KYCVerification
	err := r.write(ctx, func(st *state) error {
		found, ok := st.kyc[id]
		if !ok {
			return fmt.Errorf("kyc %s: %w", id, domain.ErrNotFound)
		}
		if found.Status != domain.KYCStatusPending {
			return fmt.Errorf("kyc %s is %s: %w", id, found.Status, domain.ErrAlreadyResolved)
		}
		reviewedBy := review.ReviewedBy
		reviewedAt := review.ReviewedAt.UTC()
		found.Status = review.Status
		found.AdminNote = review.AdminNote
		found.ReviewedBy = &reviewedBy
		found.ReviewedAt = &reviewedAt
		st.kyc[id] = found
		kyc = found
		return nil
	})
	return kyc, err
}

func (r *KYCRepository) ListByStatus(_ context.Context, status domain.KYCStatus) ([]domain.KYCVerification, error) {
	var out []domain.KYCVerification
	err := r.read(func(st *state) error {
		ids := make([]string, 0)
		for id, kyc := range st.kyc {
			if status == "" || kyc.Status == status {
				ids = append(ids, id)
			}
		}
		st.newestFirst(ids)
		out = make([]domain.KYCVerification, 0, len(ids))
		for _, id := range ids {
			out = append(out, st.kyc[id])
		}
		return nil
	})
	return out, err
}
