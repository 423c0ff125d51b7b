package implementations

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type StatsRepository struct {
	q dbtx
}

func (r *StatsRepository) CountCustomers(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(1) FROM accounts WHERE role = 'customer'`)
}

func (r *StatsRepository) CountInvestments(ctx context.Context, status domain.InvestmentStatus) (int64, error) {
	return r.count(ctx, `SELECT COUNT(1) FROM investments WHERE status = $1`, status)
}

func (r *StatsRepository) CountTransactions(ctx context.Context, txType domain.TransactionType, status domain.TransactionStatus) (int64, error) {
	return r.count(ctx, `SELECT COUNT(1) FROM transactions WHERE type = $1 AND status = $2`, txType, status)
}

func (r *StatsRepository) CountKYC(ctx context.Context, status domain.KYCStatus) (int64, error) {
	return r.count(ctx, `SELECT COUNT(1) FROM kyc_verifications WHERE status = $1`, status)
}

func (r *StatsRepository) SumCustomerBalances(ctx context.Context) (decimal.Decimal, error) {
	return r.sum(ctx, `SELECT COALESCE(SUM(balance), 0) FROM accounts WHERE role = 'customer'`)
}

func (r *StatsRepository) SumTransactions(ctx context.Context, txType domain.TransactionType, status domain.TransactionStatus) (decimal.Decimal, error) {
	return r.sum(ctx, `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type = $1 AND status = $2`, txType, status)
}

func (r *StatsRepository) ListAffiliates(ctx context.Context) ([]domain.AffiliateStat, error) {
	const query = `
SELECT a.id,
       a.username,
       (SELECT COUNT(1) FROM accounts r WHERE r.referrer_id = a.id) AS referral_count,
       COUNT(c.id) AS commission_count,
       COALESCE(SUM(c.amount), 0) AS commission_total
FROM accounts a
LEFT JOIN referral_commissions c ON c.referrer_id = a.id
WHERE EXISTS (SELECT 1 FROM accounts r WHERE r.referrer_id = a.id)
   OR c.id IS NOT NULL
GROUP BY a.id, a.username
ORDER BY commission_total DESC, a.id`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list affiliates: %w", err)
	}
	defer rows.Close()

	out := make([]domain.AffiliateStat, 0)
	for rows.Next() {
		var stat domain.AffiliateStat
		if err := rows.Scan(&stat.ReferrerID, &stat.Username, &stat.ReferralCount, &stat.CommissionCount, &stat.CommissionTotal); err != nil {
			return nil, fmt.Errorf("scan affiliate: %w", err)
		}
		out = append(out, stat)
	}
	return out, rows.Err()
}

func (r *StatsRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var count int64
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return count, nil
}

func (r *StatsRepository) sum(ctx context.Context, query string, args ...any) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum: %w", err)
	}
	return total, nil
}
