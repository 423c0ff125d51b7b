package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
)

const investmentColumns = `id, account_id, pack_id, pack_name, amount, daily_return_rate, duration_days, daily_return,
	total_return, start_date, end_date, status, completed_at, created_at`

type InvestmentRepository struct {
	q dbtx
}

func (r *InvestmentRepository) Create(ctx context.Context, inv domain.Investment) (domain.Investment, error) {
	const query = `
INSERT INTO investments (
	account_id,
	pack_id,
	pack_name,
	amount,
	daily_return_rate,
	duration_days,
	daily_return,
	total_return,
	start_date,
	end_date,
	status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + investmentColumns

	created, err := scanInvestment(r.q.QueryRowContext(ctx, query,
		inv.AccountID,
		inv.PackID,
		inv.PackName,
		inv.Amount,
		inv.DailyReturnRate,
		inv.DurationDays,
		inv.DailyReturn,
		inv.TotalReturn,
		inv.StartDate,
		inv.EndDate,
		inv.Status,
	))
	if err != nil {
		logger.Error("investment repository create failed", err, logger.Fields{
			"accountId": inv.AccountID,
			"packId":    inv.PackID,
		})
		return domain.Investment{}, fmt.Errorf("create investment: %w", err)
	}
	return created, nil
}

func (r *InvestmentRepository) GetByID(ctx context.Context, id string) (domain.Investment, error) {
	const query = `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1`

	inv, err := scanInvestment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.Investment{}, notFound(err, "investment", id)
	}
	return inv, nil
}

func (r *InvestmentRepository) Lock(ctx context.Context, id string) (domain.Investment, error) {
	const query = `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1 FOR UPDATE`

	inv, err := scanInvestment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.Investment{}, notFound(err, "investment", id)
	}
	return inv, nil
}

func (r *InvestmentRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Investment, error) {
	const query = `
SELECT ` + investmentColumns + `
FROM investments
WHERE account_id = $1
ORDER BY created_at DESC`

	return r.list(ctx, query, accountID)
}

func (r *InvestmentRepository) List(ctx context.Context, filter domain.InvestmentFilter) ([]domain.Investment, error) {
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		conditions = append(conditions, fmt.Sprintf("account_id = $%d", len(args)))
	}
	switch filter.Status {
	case "":
	case domain.InvestmentStatusActive:
		args = append(args, domain.DateOf(filter.AsOf))
		conditions = append(conditions, fmt.Sprintf("status = 'active' AND end_date > $%d::date", len(args)))
	case domain.InvestmentStatusCompleted:
		args = append(args, domain.DateOf(filter.AsOf))
		conditions = append(conditions, fmt.Sprintf("(status = 'completed' OR (status = 'active' AND end_date <= $%d::date))", len(args)))
	default:
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + investmentColumns + ` FROM investments`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	return r.list(ctx, query, args...)
}

func (r *InvestmentRepository) ListMatured(ctx context.Context, asOf time.Time, limit int) ([]domain.Investment, error) {
	const query = `
SELECT ` + investmentColumns + `
FROM investments
WHERE status = 'active'
  AND end_date <= $1::date
ORDER BY end_date
LIMIT $2`

	return r.list(ctx, query, domain.DateOf(asOf), limit)
}

func (r *InvestmentRepository) Complete(ctx context.Context, id string, totalReturn decimal.Decimal, at time.Time) (domain.Investment, error) {
	const query = `
UPDATE investments
SET status = 'completed',
    total_return = $2,
    completed_at = $3
WHERE id = $1
  AND status = 'active'
RETURNING ` + investmentColumns

	return r.finish(ctx, id, query, id, totalReturn, at.UTC())
}

func (r *InvestmentRepository) Cancel(ctx context.Context, id string, _ time.Time) (domain.Investment, error) {
	const query = `
UPDATE investments
SET status = 'cancelled'
WHERE id = $1
  AND status = 'active'
RETURNING ` + investmentColumns

	return r.finish(ctx, id, query, id)
}

// finish runs a guarded status change and tells a missing row apart from one
// that already left the active state.
func (r *InvestmentRepository) finish(ctx context.Context, id string, query string, args ...any) (domain.Investment, error) {
	inv, err := scanInvestment(r.q.QueryRowContext(ctx, query, args...))
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Investment{}, notFound(err, "investment", id)
	}

	current, lookupErr := r.GetByID(ctx, id)
	if lookupErr != nil {
		return domain.Investment{}, lookupErr
	}
	return domain.Investment{}, fmt.Errorf("investment %s is %s: %w", id, current.Status, domain.ErrAlreadyResolved)
}

func (r *InvestmentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Investment, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Investment, 0)
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func scanInvestment(row rowScanner) (domain.Investment, error) {
	var (
		inv         domain.Investment
		completedAt sql.NullTime
	)
	if err := row.Scan(
		&inv.ID,
		&inv.AccountID,
		&inv.PackID,
		&inv.PackName,
		&inv.Amount,
		&inv.DailyReturnRate,
		&inv.DurationDays,
		&inv.DailyReturn,
		&inv.TotalReturn,
		&inv.StartDate,
		&inv.EndDate,
		&inv.Status,
		&completedAt,
		&inv.CreatedAt,
	); err != nil {
		return domain.Investment{}, err
	}
	inv.StartDate = domain.DateOf(inv.StartDate)
	inv.EndDate = domain.DateOf(inv.EndDate)
	if completedAt.Valid {
		inv.CompletedAt = &completedAt.Time
	}
	return inv, nil
}
