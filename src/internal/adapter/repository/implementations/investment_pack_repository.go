package implementations

import (
	"context"
	"fmt"

	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
)

const packColumns = `id, name, min_amount, max_amount, daily_return_rate, duration_days, active, created_at`

type InvestmentPackRepository struct {
	q dbtx
}

func (r *InvestmentPackRepository) Create(ctx context.Context, pack domain.InvestmentPack) (domain.InvestmentPack, error) {
	const query = `
INSERT INTO investment_packs (name, min_amount, max_amount, daily_return_rate, duration_days, active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + packColumns

	created, err := scanPack(r.q.QueryRowContext(ctx, query,
		pack.Name,
		pack.MinAmount,
		pack.MaxAmount,
		pack.DailyReturnRate,
		pack.DurationDays,
		pack.Active,
	))
	if err != nil {
		logger.Error("investment pack repository create failed", err, logger.Fields{"name": pack.Name})
		return domain.InvestmentPack{}, fmt.Errorf("create investment pack: %w", err)
	}
	return created, nil
}

func (r *InvestmentPackRepository) GetByID(ctx context.Context, id string) (domain.InvestmentPack, error) {
	const query = `SELECT ` + packColumns + ` FROM investment_packs WHERE id = $1`

	pack, err := scanPack(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.InvestmentPack{}, notFound(err, "investment pack", id)
	}
	return pack, nil
}

func (r *InvestmentPackRepository) List(ctx context.Context, activeOnly bool) ([]domain.InvestmentPack, error) {
	const query = `
SELECT ` + packColumns + `
FROM investment_packs
WHERE active OR NOT $1
ORDER BY min_amount, name`

	rows, err := r.q.QueryContext(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list investment packs: %w", err)
	}
	defer rows.Close()

	out := make([]domain.InvestmentPack, 0)
	for rows.Next() {
		pack, err := scanPack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan investment pack: %w", err)
		}
		out = append(out, pack)
	}
	return out, rows.Err()
}

func (r *InvestmentPackRepository) SetActive(ctx context.Context, id string, active bool) (domain.InvestmentPack, error) {
	const query = `UPDATE investment_packs SET active = $2 WHERE id = $1 RETURNING ` + packColumns

	pack, err := scanPack(r.q.QueryRowContext(ctx, query, id, active))
	if err != nil {
		return domain.InvestmentPack{}, notFound(err, "investment pack", id)
	}
	return pack, nil
}

func scanPack(row rowScanner) (domain.InvestmentPack, error) {
	var pack domain.InvestmentPack
	err := row.Scan(
		&pack.ID,
		&pack.Name,
		&pack.MinAmount,
		&pack.MaxAmount,
		&pack.DailyReturnRate,
		&pack.DurationDays,
		&pack.Active,
		&pack.CreatedAt,
	)
	return pack, err
}
