package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

func TestInvestmentServiceCreateDebitsAndFreezesTerms(t *testing.T) {
	h := newHarness(t)
	pack := h.starterPack(t)
	account, principal := h.customer(t, "alice", 1000, "")

	inv, err := h.investments.CreateInvestment(context.Background(), principal, pack.ID, decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expectBalance(t, h, account.ID, "0")
	if !inv.DailyReturn.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected daily return 25, got %s", inv.DailyReturn)
	}
	wantStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !inv.StartDate.Equal(wantStart) || !inv.EndDate.Equal(wantStart.AddDate(0, 0, 60)) {
		t.Fatalf("unexpected dates %s..%s", inv.StartDate, inv.EndDate)
	}
	if inv.Status != domain.InvestmentStatusActive {
		t.Fatalf("expected active, got %s", inv.Status)
	}

	commissions, _ := h.store.Commissions().ListByReferrer(context.Background(), account.ID)
	if len(commissions) != 0 {
		t.Fatalf("expected no commission without referrer, got %d", len(commissions))
	}
}

func TestInvestmentServiceCreatePaysReferrerOnce(t *testing.T) {
	h := newHarness(t)
	pack := h.starterPack(t)
	referrer, _ := h.customer(t, "alice", 0, "")
	investor, principal := h.customer(t, "bob", 1000, referrer.ReferralCode)

	inv, err := h.investments.CreateInvestment(context.Background(), principal, pack.ID, decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expectBalance(t, h, investor.ID, "0")
	expectBalance(t, h, referrer.ID, "30")

	commissions, _ := h.store.Commissions().ListByReferrer(context.Background(), referrer.ID)
	if len(commissions) != 1 || commissions[0].InvestmentID != inv.ID || !commissions[0].Amount.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected one commission of 30 for %s, got %+v", inv.ID, commissions)
	}

	txs, _ := h.store.Transactions().List(context.Background(), domain.TransactionFilter{AccountID: referrer.ID})
	if len(txs) != 1 || txs[0].Type != domain.TransactionTypeReferralCommission || txs[0].Status != domain.TransactionStatusCompleted {
		t.Fatalf("expected one completed referral_commission transaction, got %+v", txs)
	}

	again, err := h.commissions.PayForInvestment(context.Background(), inv.ID)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if again == nil || again.ID != commissions[0].ID {
		t.Fatalf("expected retry to return existing commission, got %+v", again)
	}
	expectBalance(t, h, referrer.ID, "30")
	txs, _ = h.store.Transactions().List(context.Background(), domain.TransactionFilter{AccountID: referrer.ID})
	if len(txs) != 1 {
		t.Fatalf("expected retry to add no transaction, got %d", len(txs))
	}
}

func TestInvestmentServiceCreateValidationOrder(t *testing.T) {
	h := newHarness(t)
	pack := h.starterPack(t)
	account, principal := h.customer(t, "alice", 50, "")

	if _, err := h.investments.CreateInvestment(context.Background(), principal, pack.ID, decimal.NewFromInt(50)); !errors.Is(err, domain.ErrAmountOutOfRange) {
		t.Fatalf("expected ErrAmountOutOfRange below min, got %v", err)
	}
	if _, err := h.investments.CreateInvestment(context.Background(), principal, pack.ID, decimal.NewFromInt(6000)); !errors.Is(err, domain.ErrAmountOutOfRange) {
		t.Fatalf("expected ErrAmountOutOfRange above max, got %v", err)
	}
	if _, err := h.investments.CreateInvestment(context.Background(), principal, pack.ID, decimal.NewFromInt(200)); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if _, err := h.investments.CreateInvestment(context.Background(), principal, "missing", decimal.NewFromInt(200)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown pack, got %v", err)
	}

	if _, err := h.packs.SetPackActive(context.Background(), admin, pack.ID, false); err != nil {
		t.Fatalf("deactivate pack: %v", err)
	}
	if _, err := h.investments.CreateInvestment(context.Background(), principal, pack.ID, decimal.NewFromInt(6000)); !errors.Is(err, domain.ErrPackInactive) {
		t.Fatalf("expected ErrPackInactive before range check, got %v", err)
	}

	expectBalance(t, h, account.ID, "50")
	investments, _ := h.investments.ListMyInvestments(context.Background(), principal)
	if len(investments) != 0 {
		t.Fatalf("expected no investments, got %d", len(investments))
	}
}

func TestInvestmentServiceRejectsSubCentAmountsAtRangeBoundaries(t *testing.T) {
	h := newHarness(t)
	pack := h.starterPack(t)
	account, principal := h.customer(t, "alice", 6000, "")

	for _, raw := range []string{"99.995", "5000.004", "100.001"} {
		_, err := h.investments.CreateInvestment(context.Background(), principal, pack.ID, decimal.RequireFromString(raw))
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount for %s, got %v", raw, err)
		}
	}
	expectBalance(t, h, account.ID, "6000")

	if _, err := h.investments.CreateInvestment(context.Background(), principal, pack.ID, decimal.RequireFromString("99.99")); !errors.Is(err, domain.ErrAmountOutOfRange) {
		t.Fatalf("expected ErrAmountOutOfRange for 99.99, got %v", err)
	}
	if _, err := h.investments.CreateInvestment(context.Background(), principal, pack.ID, decimal.RequireFromString("5000.01")); !errors.Is(err, domain.ErrAmountOutOfRange) {
		t.Fatalf("expected ErrAmountOutOfRange for 5000.01, got %v", err)
	}
	expectBalance(t, h, account.ID, "6000")

	for _, raw := range []string{"100", "5000.00"} {
		inv, err := h.investments.CreateInvestment(context.Background(), principal, pack.ID, decimal.RequireFromString(raw))
		if err != nil {
			t.Fatalf("expected %s to be accepted, got %v", raw, err)
		}
		if !inv.Amount.Equal(decimal.RequireFromString(raw)) {
			t.Fatalf("expected amount %s, got %s", raw, inv.Amount)
		}
	}
	expectBalance(t, h, account.ID, "900")
}

func TestInvestmentServiceInactivePackCheckedBeforeAmount(t *testing.T) {
	h := newHarness(t)
	pack := h.starterPack(t)
	account, principal := h.customer(t, "alice", 500, "")

	if _, err := h.packs.SetPackActive(context.Background(), admin, pack.ID, false); err != nil {
		t.Fatalf("deactivate pack: %v", err)
	}
	for _, raw := range []string{"0", "-10", "150.005"} {
		_, err := h.investments.CreateInvestment(context.Background(), principal, pack.ID, decimal.RequireFromString(raw))
		if !errors.Is(err, domain.ErrPackInactive) {
			t.Fatalf("expected ErrPackInactive for %s, got %v", raw, err)
		}
	}
	expectBalance(t, h, account.ID, "500")
}

func TestInvestmentServiceCommissionStopsAtDirectReferrer(t *testing.T) {
	h := newHarness(t)
	pack := h.starterPack(t)
	grandparent, _ := h.customer(t, "alice", 0, "")
	parent, _ := h.customer(t, "bob", 0, grandparent.ReferralCode)
	investor, principal := h.customer(t, "carol", 1000, parent.ReferralCode)

	inv, err := h.investments.CreateInvestment(context.Background(), principal, pack.ID, decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expectBalance(t, h, investor.ID, "0")
	expectBalance(t, h, parent.ID, "30")
	expectBalance(t, h, grandparent.ID, "0")

	total := 0
	for _, account := range []domain.Account{grandparent, parent, investor} {
		commissions, err := h.store.Commissions().ListByReferrer(context.Background(), account.ID)
		if err != nil {
			t.Fatalf("list commissions of %s: %v", account.Username, err)
		}
		total += len(commissions)
	}
	if total != 1 {
		t.Fatalf("expected exactly one commission in the chain, got %d", total)
	}
	paid, _ := h.store.Commissions().ListByReferrer(context.Background(), parent.ID)
	if len(paid) != 1 || paid[0].InvestmentID != inv.ID || paid[0].ReferredUserID != investor.ID {
		t.Fatalf("expected bob to earn the only commission, got %+v", paid)
	}
}

func TestInvestmentServiceRollsBackWhenReferrerMissing(t *testing.T) {
	h := newHarness(t)
	pack := h.starterPack(t)
	ghost := "ghost-account"
	investor, err := h.store.Accounts().Create(context.Background(), domain.Account{
		Username:     "orphan",
		Email:        "orphan@example.com",
		Role:         domain.RoleCustomer,
		Balance:      decimal.NewFromInt(500),
		ReferralCode: "ORPHAN01",
		ReferrerID:   &ghost,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	principal := domain.Principal{AccountID: investor.ID, Role: domain.RoleCustomer}

	_, err = h.investments.CreateInvestment(context.Background(), principal, pack.ID, decimal.NewFromInt(500))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing referrer, got %v", err)
	}
	expectBalance(t, h, investor.ID, "500")
	investments, _ := h.store.Investments().ListByAccount(context.Background(), investor.ID)
	if len(investments) != 0 {
		t.Fatalf("expected investment to be rolled back, got %d", len(investments))
	}
}

func TestInvestmentServiceDerivedStatusAndSweep(t *testing.T) {
	h := newHarness(t)
	pack := h.starterPack(t)
	_, principal := h.customer(t, "alice", 1000, "")

	inv, err := h.investments.CreateInvestment(context.Background(), principal, pack.ID, decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("create investment: %v", err)
	}

	h.clock.Advance(10)
	accrual, err := h.investments.Accrual(context.Background(), principal, inv.ID)
	if err != nil {
		t.Fatalf("accrual: %v", err)
	}
	if accrual.DaysElapsed != 10 || !accrual.Accrued.Equal(decimal.NewFromInt(250)) || len(accrual.Points) != 11 {
		t.Fatalf("unexpected accrual after 10 days: %+v", accrual)
	}

	h.clock.Advance(50)
	got, err := h.investments.GetInvestment(context.Background(), principal, inv.ID)
	if err != nil {
		t.Fatalf("get investment: %v", err)
	}
	if got.Status != domain.InvestmentStatusCompleted || !got.TotalReturn.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected derived completed with 1500 total, got %s %s", got.Status, got.TotalReturn)
	}
	stored, _ := h.store.Investments().GetByID(context.Background(), inv.ID)
	if stored.Status != domain.InvestmentStatusActive {
		t.Fatalf("expected stored status to stay active before the sweep, got %s", stored.Status)
	}

	completed, err := h.investments.CompleteMatured(context.Background(), h.clock.Now())
	if err != nil || completed != 1 {
		t.Fatalf("expected one completion, got %d (%v)", completed, err)
	}
	stored, _ = h.store.Investments().GetByID(context.Background(), inv.ID)
	if stored.Status != domain.InvestmentStatusCompleted || !stored.TotalReturn.Equal(got.TotalReturn) || stored.CompletedAt == nil {
		t.Fatalf("expected persisted completion matching derived view, got %+v", stored)
	}

	completed, err = h.investments.CompleteMatured(context.Background(), h.clock.Now())
	if err != nil || completed != 0 {
		t.Fatalf("expected second sweep to be a no-op, got %d (%v)", completed, err)
	}
}

func TestInvestmentServiceAdminList(t *testing.T) {
	h := newHarness(t)
	pack := h.starterPack(t)
	alice, alicePrincipal := h.customer(t, "alice", 1000, "")
	_, bobPrincipal := h.customer(t, "bob", 200, "")

	first, err := h.investments.CreateInvestment(context.Background(), alicePrincipal, pack.ID, decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("create alice investment: %v", err)
	}
	h.clock.Advance(10)
	second, err := h.investments.CreateInvestment(context.Background(), bobPrincipal, pack.ID, decimal.NewFromInt(200))
	if err != nil {
		t.Fatalf("create bob investment: %v", err)
	}
	h.clock.Advance(55)

	if _, err := h.investments.List(context.Background(), alicePrincipal, domain.InvestmentFilter{}); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for customer, got %v", err)
	}

	all, err := h.investments.List(context.Background(), admin, domain.InvestmentFilter{})
	if err != nil {
		t.Fatalf("list investments: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("expected both investments newest first, got %+v", all)
	}
	if all[1].Status != domain.InvestmentStatusCompleted || !all[1].TotalReturn.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected matured investment to read as completed, got %s %s", all[1].Status, all[1].TotalReturn)
	}

	completed, _ := h.investments.List(context.Background(), admin, domain.InvestmentFilter{Status: domain.InvestmentStatusCompleted})
	if len(completed) != 1 || completed[0].ID != first.ID {
		t.Fatalf("expected only the matured investment, got %+v", completed)
	}
	active, _ := h.investments.List(context.Background(), admin, domain.InvestmentFilter{Status: domain.InvestmentStatusActive})
	if len(active) != 1 || active[0].ID != second.ID {
		t.Fatalf("expected only the running investment, got %+v", active)
	}
	mine, _ := h.investments.List(context.Background(), admin, domain.InvestmentFilter{AccountID: alice.ID})
	if len(mine) != 1 || mine[0].ID != first.ID {
		t.Fatalf("expected alice's investment only, got %+v", mine)
	}
	limited, _ := h.investments.List(context.Background(), admin, domain.InvestmentFilter{Limit: 1})
	if len(limited) != 1 || limited[0].ID != second.ID {
		t.Fatalf("expected newest investment only, got %+v", limited)
	}
}

func TestInvestmentServiceOwnershipAndCancel(t *testing.T) {
	h := newHarness(t)
	pack := h.starterPack(t)
	owner, principal := h.customer(t, "alice", 1000, "")
	_, stranger := h.customer(t, "mallory", 0, "")

	inv, err := h.investments.CreateInvestment(context.Background(), principal, pack.ID, decimal.NewFromInt(400))
	if err != nil {
		t.Fatalf("create investment: %v", err)
	}

	if _, err := h.investments.GetInvestment(context.Background(), stranger, inv.ID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for stranger, got %v", err)
	}
	if _, err := h.investments.CancelInvestment(context.Background(), principal, inv.ID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected customers to be refused cancel, got %v", err)
	}

	cancelled, err := h.investments.CancelInvestment(context.Background(), admin, inv.ID)
	if err != nil || cancelled.Status != domain.InvestmentStatusCancelled {
		t.Fatalf("expected cancellation, got %+v (%v)", cancelled, err)
	}
	if _, err := h.investments.CancelInvestment(context.Background(), admin, inv.ID); !errors.Is(err, domain.ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved on second cancel, got %v", err)
	}
	expectBalance(t, h, owner.ID, "600")

	series, err := h.investments.ChartData(context.Background(), principal)
	if err != nil || len(series) != 0 {
		t.Fatalf("expected no chart series for cancelled investment, got %d (%v)", len(series), err)
	}
}

func TestMaturitySweeperSweepOnce(t *testing.T) {
	h := newHarness(t)
	pack := h.starterPack(t)
	_, principal := h.customer(t, "alice", 1000, "")
	if _, err := h.investments.CreateInvestment(context.Background(), principal, pack.ID, decimal.NewFromInt(300)); err != nil {
		t.Fatalf("create investment: %v", err)
	}

	sweeper := newSweeper(h)
	if got := sweeper.SweepOnce(context.Background()); got != 0 {
		t.Fatalf("expected nothing to sweep on day 0, got %d", got)
	}
	h.clock.Advance(60)
	if got := sweeper.SweepOnce(context.Background()); got != 1 {
		t.Fatalf("expected one investment swept at maturity, got %d", got)
	}
}
