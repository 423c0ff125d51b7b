package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// AccountRepository is the only path to an account balance. Debit must refuse,
// never clamp, when the balance is short.
type AccountRepository interface {
	Create(ctx context.Context, account Account) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
	GetByReferralCode(ctx context.Context, code string) (Account, error)
	Credit(ctx context.Context, id string, amount decimal.Decimal) (Account, error)
	Debit(ctx context.Context, id string, amount decimal.Decimal) (Account, error)
	SetKYCVerified(ctx context.Context, id string, verified bool) error
	CountReferrals(ctx context.Context, referrerID string) (int, error)
	ListRecentCustomers(ctx context.Context, limit int) ([]Account, error)
}
