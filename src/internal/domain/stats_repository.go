package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type StatsRepository interface {
	CountCustomers(ctx context.Context) (int64, error)
	CountInvestments(ctx context.Context, status InvestmentStatus) (int64, error)
	CountTransactions(ctx context.Context, txType TransactionType, status TransactionStatus) (int64, error)
	CountKYC(ctx context.Context, status KYCStatus) (int64, error)
	SumCustomerBalances(ctx context.Context) (decimal.Decimal, error)
	SumTransactions(ctx context.Context, txType TransactionType, status TransactionStatus) (decimal.Decimal, error)
	ListAffiliates(ctx context.Context) ([]AffiliateStat, error)
}
