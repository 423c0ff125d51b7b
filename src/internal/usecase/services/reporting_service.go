package services

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

const recentItems = 5

// ReportingService builds read-only dashboards. Figures come from separate
// reads and are not a single consistent snapshot.
type ReportingService struct {
	store domain.Store
	now   Clock
}

func NewReportingService(store domain.Store, now Clock) *ReportingService {
	if now == nil {
		now = SystemClock
	}
	return &ReportingService{store: store, now: now}
}

func (s *ReportingService) UserStats(ctx context.Context, principal domain.Principal) (domain.UserStats, error) {
	if err := authenticated(principal); err != nil {
		return domain.UserStats{}, err
	}

	var (
		account     domain.Account
		investments []domain.Investment
		commissions []domain.ReferralCommission
		referrals   int
		withdrawals []domain.Transaction
		recent      []domain.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		account, err = s.store.Accounts().GetByID(gctx, principal.AccountID)
		return err
	})
	g.Go(func() (err error) {
		investments, err = s.store.Investments().ListByAccount(gctx, principal.AccountID)
		return err
	})
	g.Go(func() (err error) {
		commissions, err = s.store.Commissions().ListByReferrer(gctx, principal.AccountID)
		return err
	})
	g.Go(func() (err error) {
		referrals, err = s.store.Accounts().CountReferrals(gctx, principal.AccountID)
		return err
	})
	g.Go(func() (err error) {
		withdrawals, err = s.store.Transactions().List(gctx, domain.TransactionFilter{
			AccountID: principal.AccountID,
			Type:      domain.TransactionTypeWithdrawal,
			Status:    domain.TransactionStatusPending,
		})
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.store.Transactions().List(gctx, domain.TransactionFilter{
			AccountID: principal.AccountID,
			Limit:     recentItems,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.UserStats{}, err
	}

	now := s.now()
	stats := domain.UserStats{
		Balance:            account.Balance,
		TotalInvested:      decimal.Zero,
		AccruedEarnings:    decimal.Zero,
		ReferralCount:      referrals,
		ReferralEarnings:   decimal.Zero,
		PendingWithdrawals: decimal.Zero,
		RecentTransactions: recent,
	}
	for _, inv := range investments {
		if inv.Status == domain.InvestmentStatusCancelled {
			continue
		}
		stats.TotalInvested = stats.TotalInvested.Add(inv.Amount)
		stats.AccruedEarnings = stats.AccruedEarnings.Add(domain.ComputeAccrual(inv, now).Accrued)
		if domain.EffectiveStatus(inv, now) == domain.InvestmentStatusActive {
			stats.ActiveInvestments++
		}
	}
	for _, commission := range commissions {
		stats.ReferralEarnings = stats.ReferralEarnings.Add(commission.Amount)
	}
	for _, tx := range withdrawals {
		stats.PendingWithdrawals = stats.PendingWithdrawals.Add(tx.Amount)
	}
	return stats, nil
}

func (s *ReportingService) ReferralStats(ctx context.Context, principal domain.Principal) (domain.ReferralStats, error) {
	if err := authenticated(principal); err != nil {
		return domain.ReferralStats{}, err
	}

	account, err := s.store.Accounts().GetByID(ctx, principal.AccountID)
	if err != nil {
		return domain.ReferralStats{}, err
	}
	count, err := s.store.Accounts().CountReferrals(ctx, principal.AccountID)
	if err != nil {
		return domain.ReferralStats{}, err
	}
	commissions, err := s.store.Commissions().ListByReferrer(ctx, principal.AccountID)
	if err != nil {
		return domain.ReferralStats{}, err
	}
	milestones, err := s.store.Milestones().List(ctx)
	if err != nil {
		return domain.ReferralStats{}, err
	}

	stats := domain.ReferralStats{
		ReferralCode:    account.ReferralCode,
		ReferralCount:   count,
		TotalCommission: decimal.Zero,
		Milestones:      make([]domain.MilestoneProgress, 0, len(milestones)),
	}
	for _, commission := range commissions {
		stats.TotalCommission = stats.TotalCommission.Add(commission.Amount)
	}
	for _, milestone := range milestones {
		remaining := milestone.RequiredReferrals - count
		if remaining < 0 {
			remaining = 0
		}
		stats.Milestones = append(stats.Milestones, domain.MilestoneProgress{
			Milestone: milestone,
			Achieved:  count >= milestone.RequiredReferrals,
			Remaining: remaining,
		})
	}
	return stats, nil
}

// AdminStats runs each aggregate concurrently; the first failure cancels the rest.
func (s *ReportingService) AdminStats(ctx context.Context, principal domain.Principal) (domain.AdminStats, error) {
	if err := Authorize(principal, domain.CapabilityViewPlatformStats); err != nil {
		return domain.AdminStats{}, err
	}

	stats := domain.AdminStats{GeneratedAt: s.now()}
	repo := s.store.Stats()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalCustomers, err = repo.CountCustomers(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveInvestments, err = repo.CountInvestments(gctx, domain.InvestmentStatusActive)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingDeposits, err = repo.CountTransactions(gctx, domain.TransactionTypeDeposit, domain.TransactionStatusPending)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingWithdrawals, err = repo.CountTransactions(gctx, domain.TransactionTypeWithdrawal, domain.TransactionStatusPending)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingKYC, err = repo.CountKYC(gctx, domain.KYCStatusPending)
		return err
	})
	g.Go(func() (err error) {
		stats.PlatformBalance, err = repo.SumCustomerBalances(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.CompletedEarnings, err = repo.SumTransactions(gctx, domain.TransactionTypeEarning, domain.TransactionStatusCompleted)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentCustomers, err = s.store.Accounts().ListRecentCustomers(gctx, recentItems)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.AdminStats{}, err
	}
	return stats, nil
}

func (s *ReportingService) AffiliateStats(ctx context.Context, principal domain.Principal) ([]domain.AffiliateStat, error) {
	if err := Authorize(principal, domain.CapabilityViewPlatformStats); err != nil {
		return nil, err
	}
	return s.store.Stats().ListAffiliates(ctx)
}
