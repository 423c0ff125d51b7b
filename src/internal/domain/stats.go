package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserStats struct {
	Balance            decimal.Decimal
	ActiveInvestments  int
	TotalInvested      decimal.Decimal
	AccruedEarnings    decimal.Decimal
	ReferralCount      int
	ReferralEarnings   decimal.Decimal
	PendingWithdrawals decimal.Decimal
	RecentTransactions []Transaction
}

type MilestoneProgress struct {
	Milestone ReferralMilestone
	Achieved  bool
	Remaining int
}

type ReferralStats struct {
	ReferralCode    string
	ReferralCount   int
	TotalCommission decimal.Decimal
	Milestones      []MilestoneProgress
}

type AdminStats struct {
	TotalCustomers     int64
	ActiveInvestments  int64
	PendingDeposits    int64
	PendingWithdrawals int64
	PendingKYC         int64
	PlatformBalance    decimal.Decimal
	CompletedEarnings  decimal.Decimal
	RecentCustomers    []Account
	GeneratedAt        time.Time
}

type AffiliateStat struct {
	ReferrerID      string
	Username        string
	ReferralCount   int64
	CommissionCount int64
	CommissionTotal decimal.Decimal
}
