package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
)

const accountColumns = `id, username, email, role, balance, referrer_id, referral_code, kyc_verified, withdrawal_pin_hash, created_at, updated_at`

type AccountRepository struct {
	q dbtx
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"username":     account.Username,
		"referralCode": account.ReferralCode,
	})

	const query = `
INSERT INTO accounts (
	username,
	email,
	role,
	balance,
	referrer_id,
	referral_code,
	withdrawal_pin_hash
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + accountColumns

	created, err := scanAccount(r.q.QueryRowContext(
		ctx,
		query,
		account.Username,
		account.Email,
		account.Role,
		account.Balance,
		account.ReferrerID,
		account.ReferralCode,
		account.WithdrawalPinHash,
	))
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok {
			if constraint == "accounts_referral_code_key" {
				return domain.Account{}, fmt.Errorf("%s: %w", account.ReferralCode, domain.ErrReferralCodeTaken)
			}
			return domain.Account{}, fmt.Errorf("%s: %w", constraint, domain.ErrDuplicate)
		}
		logger.Error("account repository create failed", err, logger.Fields{"username": account.Username})
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	logger.Info("account repository create success", logger.Fields{"accountId": created.ID})
	return created, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.Account{}, notFound(err, "account", id)
	}
	return account, nil
}

func (r *AccountRepository) GetByReferralCode(ctx context.Context, code string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE referral_code = $1`

	account, err := scanAccount(r.q.QueryRowContext(ctx, query, code))
	if err != nil {
		return domain.Account{}, notFound(err, "referral code", code)
	}
	return account, nil
}

func (r *AccountRepository) Credit(ctx context.Context, id string, amount decimal.Decimal) (domain.Account, error) {
	const query = `
UPDATE accounts
SET balance = balance + $2::numeric,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRowContext(ctx, query, id, amount))
	if err != nil {
		logger.Error("account repository credit failed", err, logger.Fields{"accountId": id})
		return domain.Account{}, notFound(err, "account", id)
	}
	return account, nil
}

// Debit only touches the row when the balance covers the amount. The row lock
// taken by the UPDATE is held until the surrounding transaction ends.
func (r *AccountRepository) Debit(ctx context.Context, id string, amount decimal.Decimal) (domain.Account, error) {
	const query = `
UPDATE accounts
SET balance = balance - $2::numeric,
    updated_at = NOW()
WHERE id = $1
  AND balance >= $2::numeric
RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRowContext(ctx, query, id, amount))
	if err == nil {
		return account, nil
	}
	if isCheckViolation(err, "accounts_balance_check") {
		return domain.Account{}, fmt.Errorf("account %s: %w", id, domain.ErrInsufficientFunds)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		logger.Error("account repository debit failed", err, logger.Fields{"accountId": id})
		return domain.Account{}, fmt.Errorf("debit account %s: %w", id, err)
	}

	if _, lookupErr := r.GetByID(ctx, id); lookupErr != nil {
		return domain.Account{}, lookupErr
	}
	return domain.Account{}, fmt.Errorf("account %s: %w", id, domain.ErrInsufficientFunds)
}

func (r *AccountRepository) SetKYCVerified(ctx context.Context, id string, verified bool) error {
	const query = `UPDATE accounts SET kyc_verified = $2, updated_at = NOW() WHERE id = $1`

	if err := execRequiredRows(ctx, r.q, query, id, verified); err != nil {
		return notFound(err, "account", id)
	}
	return nil
}

func (r *AccountRepository) CountReferrals(ctx context.Context, referrerID string) (int, error) {
	var count int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(1) FROM accounts WHERE referrer_id = $1`, referrerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count referrals: %w", err)
	}
	return count, nil
}

func (r *AccountRepository) ListRecentCustomers(ctx context.Context, limit int) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE role = 'customer'
ORDER BY created_at DESC
LIMIT $1`

	rows, err := r.q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent customers: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Account, 0, limit)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, account)
	}
	return out, rows.Err()
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		account    domain.Account
		referrerID sql.NullString
	)
	if err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.Role,
		&account.Balance,
		&referrerID,
		&account.ReferralCode,
		&account.KYCVerified,
		&account.WithdrawalPinHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return domain.Account{}, err
	}
	if referrerID.Valid {
		account.ReferrerID = &referrerID.String
	}
	return account, nil
}

// execRequiredRows fails with sql.ErrNoRows when the statement matched nothing.
func execRequiredRows(ctx context.Context, q dbtx, query string, args ...any) error {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("execute statement: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
