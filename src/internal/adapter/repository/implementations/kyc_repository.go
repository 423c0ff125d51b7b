package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
)

const kycColumns = `id, account_id, full_name, date_of_birth, country, id_type, id_number, status, admin_note,
	submitted_at, reviewed_at, reviewed_by`

type KYCRepository struct {
	q dbtx
}

func (r *KYCRepository) Create(ctx context.Context, kyc domain.KYCVerification) (domain.KYCVerification, error) {
	const query = `
INSERT INTO kyc_verifications (account_id, full_name, date_of_birth, country, id_type, id_number, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + kycColumns

	created, err := scanKYC(r.q.QueryRowContext(ctx, query,
		kyc.AccountID,
		kyc.FullName,
		kyc.DateOfBirth,
		kyc.Country,
		kyc.IDType,
		kyc.IDNumber,
		kyc.Status,
	))
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return domain.KYCVerification{}, fmt.Errorf("kyc for account %s: %w", kyc.AccountID, domain.ErrAlreadySubmitted)
		}
		logger.Error("kyc repository create failed", err, logger.Fields{"accountId": kyc.AccountID})
		return domain.KYCVerification{}, fmt.Errorf("create kyc verification: %w", err)
	}
	return created, nil
}

func (r *KYCRepository) GetByID(ctx context.Context, id string) (domain.KYCVerification, error) {
	const query = `SELECT ` + kycColumns + ` FROM kyc_verifications WHERE id = $1`

	kyc, err := scanKYC(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.KYCVerification{}, notFound(err, "kyc", id)
	}
	return kyc, nil
}

func (r *KYCRepository) GetByAccountID(ctx context.Context, accountID string) (domain.KYCVerification, error) {
	const query = `SELECT ` + kycColumns + ` FROM kyc_verifications WHERE account_id = $1`

	kyc, err := scanKYC(r.q.QueryRowContext(ctx, query, accountID))
	if err != nil {
		return domain.KYCVerification{}, notFound(err, "kyc for account", accountID)
	}
	return kyc, nil
}

func (r *KYCRepository) Lock(ctx context.Context, id string) (domain.KYCVerification, error) {
	const query = `SELECT ` + kycColumns + ` FROM kyc_verifications WHERE id = $1 FOR UPDATE`

	kyc, err := scanKYC(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.KYCVerification{}, notFound(err, "kyc", id)
	}
	return kyc, nil
}

func (r *KYCRepository) Review(ctx context.Context, id string, review domain.KYCReview) (domain.KYCVerification, error) {
	const query = `
UPDATE kyc_verifications
SET status = $2,
    admin_note = $3,
    reviewed_by = $4,
    reviewed_at = $5
WHERE id = $1
  AND status = 'pending'
RETURNING ` + kycColumns

	kyc, err := scanKYC(r.q.QueryRowContext(ctx, query,
		id,
		review.Status,
		review.AdminNote,
		review.ReviewedBy,
		review.ReviewedAt.UTC(),
	))
	if err == nil {
		return kyc, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		logger.Error("kyc repository review failed", err, logger.Fields{"kycId": id})
		return domain.KYCVerification{}, notFound(err, "kyc", id)
	}

	current, lookupErr := r.GetByID(ctx, id)
	if lookupErr != nil {
		return domain.KYCVerification{}, lookupErr
	}
	return domain.KYCVerification{}, fmt.Errorf("kyc %s is %s: %w", id, current.Status, domain.ErrAlreadyResolved)
}

func (r *KYCRepository) ListByStatus(ctx context.Context, status domain.KYCStatus) ([]domain.KYCVerification, error) {
	const query = `
SELECT ` + kycColumns + `
FROM kyc_verifications
WHERE $1::text = '' OR status = $1
ORDER BY submitted_at DESC`

	rows, err := r.q.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("list kyc verifications: %w", err)
	}
	defer rows.Close()

	out := make([]domain.KYCVerification, 0)
	for rows.Next() {
		kyc, err := scanKYC(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kyc verification: %w", err)
		}
		out = append(out, kyc)
	}
	return out, rows.Err()
}

func scanKYC(row rowScanner) (domain.KYCVerification, error) {
	var (
		kyc        domain.KYCVerification
		reviewedAt sql.NullTime
		reviewedBy sql.NullString
	)
	if err := row.Scan(
		&kyc.ID,
		&kyc.AccountID,
		&kyc.FullName,
		&kyc.DateOfBirth,
		&kyc.Country,
		&kyc.IDType,
		&kyc.IDNumber,
		&kyc.Status,
		&kyc.AdminNote,
		&kyc.SubmittedAt,
		&reviewedAt,
		&reviewedBy,
	); err != nil {
		return domain.KYCVerification{}, err
	}
	if reviewedAt.Valid {
		kyc.ReviewedAt = &reviewedAt.Time
	}
	if reviewedBy.Valid {
		kyc.ReviewedBy = &reviewedBy.String
	}
	return kyc, nil
}
