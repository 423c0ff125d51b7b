package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type InvestmentRepository interface {
	Create(ctx context.Context, inv Investment) (Investment, error)
	GetByID(ctx context.Context, id string) (Investment, error)
	// Lock reads the investment and holds it until the unit of work ends.
	Lock(ctx context.Context, id string) (Investment, error)
	ListByAccount(ctx context.Context, accountID string) ([]Investment, error)
	// List returns investments newest first.
	List(ctx context.Context, filter InvestmentFilter) ([]Investment, error)
	// ListMatured returns active investments with EndDate on or before asOf.
	ListMatured(ctx context.Context, asOf time.Time, limit int) ([]Investment, error)
	Complete(ctx context.Context, id string, totalReturn decimal.Decimal, at time.Time) (Investment, error)
	Cancel(ctx context.Context, id string, at time.Time) (Investment, error)
}
