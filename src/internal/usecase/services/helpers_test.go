package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/usecase/services"
)

var admin = domain.Principal{AccountID: "admin-1", Role: domain.RoleAdmin}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(days int) {
	c.now = c.now.AddDate(0, 0, days)
}

type harness struct {
	store        *memory.Store
	clock        *testClock
	ledger       *services.LedgerService
	commissions  *services.CommissionService
	investments  *services.InvestmentService
	transactions *services.TransactionService
	kyc          *services.KYCService
	packs        *services.PackService
	accounts     *services.AccountService
	reporting    *services.ReportingService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewStore()
	clock := &testClock{now: time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)}
	ledger := services.NewLedgerService(store)
	commissions := services.NewCommissionService(store, ledger, decimal.RequireFromString("0.03"))

	return &harness{
		store:        store,
		clock:        clock,
		ledger:       ledger,
		commissions:  commissions,
		investments:  services.NewInvestmentService(store, ledger, commissions, clock.Now),
		transactions: services.NewTransactionService(store, ledger, clock.Now),
		kyc:          services.NewKYCService(store, clock.Now),
		packs:        services.NewPackService(store),
		accounts:     services.NewAccountService(store),
		reporting:    services.NewReportingService(store, clock.Now),
	}
}

// customer opens an account through the service and funds it directly.
func (h *harness) customer(t *testing.T, username string, balance int64, referralCode string) (domain.Account, domain.Principal) {
	t.Helper()
	account, err := h.accounts.OpenAccount(context.Background(), admin, domain.NewAccount{
		Username:     username,
		Email:        username + "@example.com",
		ReferralCode: referralCode,
	})
	if err != nil {
		t.Fatalf("open account %s: %v", username, err)
	}
	if balance > 0 {
		if account, err = h.ledger.Credit(context.Background(), account.ID, decimal.NewFromInt(balance)); err != nil {
			t.Fatalf("fund account %s: %v", username, err)
		}
	}
	return account, domain.Principal{AccountID: account.ID, Role: domain.RoleCustomer}
}

func (h *harness) starterPack(t *testing.T) domain.InvestmentPack {
	t.Helper()
	pack, err := h.packs.CreatePack(context.Background(), admin, domain.InvestmentPack{
		Name:            "Starter",
		MinAmount:       decimal.NewFromInt(100),
		MaxAmount:       decimal.NewFromInt(5000),
		DailyReturnRate: decimal.RequireFromString("2.5"),
		DurationDays:    60,
		Active:          true,
	})
	if err != nil {
		t.Fatalf("create pack: %v", err)
	}
	return pack
}

func (h *harness) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	balance, err := h.ledger.Balance(context.Background(), accountID)
	if err != nil {
		t.Fatalf("balance of %s: %v", accountID, err)
	}
	return balance
}

func expectBalance(t *testing.T, h *harness, accountID string, want string) {
	t.Helper()
	if got := h.balance(t, accountID); !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("expected balance %s, got %s", want, got.StringFixed(2))
	}
}

func newSweeper(h *harness) *services.MaturitySweeper {
	return services.NewMaturitySweeper(h.investments, time.Hour, h.clock.Now)
}
