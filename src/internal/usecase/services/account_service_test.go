package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

func TestAccountServiceOpenAccountValidationError(t *testing.T) {
	h := newHarness(t)

	_, err := h.accounts.OpenAccount(context.Background(), admin, domain.NewAccount{Email: "not-an-email"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAccountServiceOpenAccountRequiresAdmin(t *testing.T) {
	h := newHarness(t)
	_, principal := h.customer(t, "alice", 0, "")

	_, err := h.accounts.OpenAccount(context.Background(), principal, domain.NewAccount{Username: "bob", Email: "bob@example.com"})
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestAccountServiceOpenAccountResolvesReferrer(t *testing.T) {
	h := newHarness(t)
	referrer, _ := h.customer(t, "alice", 0, "")

	if len(referrer.ReferralCode) != 8 {
		t.Fatalf("expected 8 character referral code, got %q", referrer.ReferralCode)
	}

	referred, _ := h.customer(t, "bob", 0, referrer.ReferralCode)
	if referred.ReferrerID == nil || *referred.ReferrerID != referrer.ID {
		t.Fatalf("expected referrer %s, got %v", referrer.ID, referred.ReferrerID)
	}
	if referred.ReferralCode == referrer.ReferralCode {
		t.Fatalf("expected distinct referral codes")
	}

	_, err := h.accounts.OpenAccount(context.Background(), admin, domain.NewAccount{
		Username:     "carol",
		Email:        "carol@example.com",
		ReferralCode: "NOPE0000",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown referral code, got %v", err)
	}
}

func TestAccountServiceGetAccountOwnership(t *testing.T) {
	h := newHarness(t)
	alice, alicePrincipal := h.customer(t, "alice", 0, "")
	_, bobPrincipal := h.customer(t, "bob", 0, "")

	if _, err := h.accounts.GetAccount(context.Background(), bobPrincipal, alice.ID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if got, err := h.accounts.GetAccount(context.Background(), alicePrincipal, alice.ID); err != nil || got.ID != alice.ID {
		t.Fatalf("expected own account, got %+v (%v)", got, err)
	}
	if _, err := h.accounts.GetAccount(context.Background(), admin, alice.ID); err != nil {
		t.Fatalf("expected admin access, got %v", err)
	}
}

func TestPackServiceCreateAndToggle(t *testing.T) {
	h := newHarness(t)
	_, customer := h.customer(t, "alice", 0, "")

	invalid := domain.InvestmentPack{
		Name:            "Broken",
		MinAmount:       decimal.NewFromInt(500),
		MaxAmount:       decimal.NewFromInt(100),
		DailyReturnRate: decimal.NewFromInt(-1),
		DurationDays:    0,
	}
	if _, err := h.packs.CreatePack(context.Background(), admin, invalid); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	pack := h.starterPack(t)
	if _, err := h.packs.CreatePack(context.Background(), customer, pack); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	active, err := h.packs.ListActive(context.Background())
	if err != nil || len(active) != 1 {
		t.Fatalf("expected one active pack, got %d (%v)", len(active), err)
	}

	if _, err := h.packs.SetPackActive(context.Background(), admin, pack.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	active, _ = h.packs.ListActive(context.Background())
	if len(active) != 0 {
		t.Fatalf("expected no active packs, got %d", len(active))
	}
	all, err := h.packs.ListAll(context.Background(), admin)
	if err != nil || len(all) != 1 || all[0].Active {
		t.Fatalf("expected the inactive pack in the full list, got %+v (%v)", all, err)
	}
}
