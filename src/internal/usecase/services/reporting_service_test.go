package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

func TestReportingServiceUserStats(t *testing.T) {
	h := newHarness(t)
	pack := h.starterPack(t)
	referrer, referrerPrincipal := h.customer(t, "alice", 500, "")
	_, investorPrincipal := h.customer(t, "bob", 2000, referrer.ReferralCode)

	if _, err := h.investments.CreateInvestment(context.Background(), investorPrincipal, pack.ID, decimal.NewFromInt(1000)); err != nil {
		t.Fatalf("create investment: %v", err)
	}
	if _, err := h.transactions.RequestWithdrawal(context.Background(), investorPrincipal, domain.WithdrawalRequest{
		Amount:        decimal.NewFromInt(100),
		WalletAddress: "TXwallet",
	}); err != nil {
		t.Fatalf("request withdrawal: %v", err)
	}
	h.clock.Advance(4)

	stats, err := h.reporting.UserStats(context.Background(), investorPrincipal)
	if err != nil {
		t.Fatalf("user stats: %v", err)
	}
	if !stats.Balance.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("expected balance 900, got %s", stats.Balance)
	}
	if stats.ActiveInvestments != 1 || !stats.TotalInvested.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected investment figures %+v", stats)
	}
	if !stats.AccruedEarnings.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected 4 days of 25 accrued, got %s", stats.AccruedEarnings)
	}
	if !stats.PendingWithdrawals.Equal(decimal.NewFromInt(100)) || len(stats.RecentTransactions) != 1 {
		t.Fatalf("unexpected withdrawal figures %+v", stats)
	}

	referrerStats, err := h.reporting.UserStats(context.Background(), referrerPrincipal)
	if err != nil {
		t.Fatalf("referrer stats: %v", err)
	}
	if referrerStats.ReferralCount != 1 || !referrerStats.ReferralEarnings.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("unexpected referral figures %+v", referrerStats)
	}
}

func TestReportingServiceReferralMilestones(t *testing.T) {
	h := newHarness(t)
	referrer, principal := h.customer(t, "alice", 0, "")
	for _, name := range []string{"r1", "r2", "r3", "r4", "r5"} {
		h.customer(t, name, 0, referrer.ReferralCode)
	}

	stats, err := h.reporting.ReferralStats(context.Background(), principal)
	if err != nil {
		t.Fatalf("referral stats: %v", err)
	}
	if stats.ReferralCount != 5 || stats.ReferralCode != referrer.ReferralCode {
		t.Fatalf("unexpected referral stats %+v", stats)
	}
	if len(stats.Milestones) != 4 {
		t.Fatalf("expected 4 milestones, got %d", len(stats.Milestones))
	}
	if !stats.Milestones[0].Achieved || stats.Milestones[1].Achieved || stats.Milestones[1].Remaining != 5 {
		t.Fatalf("unexpected milestone progress %+v", stats.Milestones[:2])
	}
}

func TestReportingServiceAdminStats(t *testing.T) {
	h := newHarness(t)
	pack := h.starterPack(t)
	referrer, _ := h.customer(t, "alice", 100, "")
	_, investor := h.customer(t, "bob", 1000, referrer.ReferralCode)

	if _, err := h.investments.CreateInvestment(context.Background(), investor, pack.ID, decimal.NewFromInt(500)); err != nil {
		t.Fatalf("create investment: %v", err)
	}
	if _, err := h.transactions.RequestDeposit(context.Background(), investor, domain.DepositRequest{Amount: decimal.NewFromInt(10)}); err != nil {
		t.Fatalf("request deposit: %v", err)
	}
	if _, err := h.kyc.Submit(context.Background(), investor, validSubmission()); err != nil {
		t.Fatalf("submit kyc: %v", err)
	}

	if _, err := h.reporting.AdminStats(context.Background(), investor); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for customer, got %v", err)
	}

	stats, err := h.reporting.AdminStats(context.Background(), admin)
	if err != nil {
		t.Fatalf("admin stats: %v", err)
	}
	if stats.TotalCustomers != 2 || stats.ActiveInvestments != 1 || stats.PendingDeposits != 1 || stats.PendingKYC != 1 {
		t.Fatalf("unexpected counts %+v", stats)
	}
	// 100 + 15 commission for alice, 500 left for bob
	if !stats.PlatformBalance.Equal(decimal.NewFromInt(615)) {
		t.Fatalf("expected platform balance 615, got %s", stats.PlatformBalance)
	}
	if len(stats.RecentCustomers) != 2 || stats.RecentCustomers[0].Username != "bob" {
		t.Fatalf("expected newest customer first, got %+v", stats.RecentCustomers)
	}

	affiliates, err := h.reporting.AffiliateStats(context.Background(), admin)
	if err != nil {
		t.Fatalf("affiliate stats: %v", err)
	}
	if len(affiliates) != 1 || affiliates[0].ReferrerID != referrer.ID || affiliates[0].CommissionCount != 1 || !affiliates[0].CommissionTotal.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("unexpected affiliates %+v", affiliates)
	}
}
