package domain

import "context"

type Repositories interface {
	Accounts() AccountRepository
	Packs() InvestmentPackRepository
	Investments() InvestmentRepository
	Transactions() TransactionRepository
	Commissions() ReferralCommissionRepository
	KYC() KYCRepository
	Milestones() ReferralMilestoneRepository
	Stats() StatsRepository
}

// Store hands out repositories over committed data and runs units of work.
// Every write made through the repos passed to fn commits together or not at all.
type Store interface {
	Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
