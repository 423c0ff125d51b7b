package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
	"github.com/api-sage/invest-ledger/src/internal/metrics"
)

// CommissionService pays a single level of referral commission per investment.
type CommissionService struct {
	store  domain.Store
	ledger *LedgerService
	rate   decimal.Decimal
}

func NewCommissionService(store domain.Store, ledger *LedgerService, rate decimal.Decimal) *CommissionService {
	return &CommissionService{store: store, ledger: ledger, rate: rate}
}

func (s *CommissionService) Rate() decimal.Decimal {
	return s.rate
}

// PayForInvestment settles the commission for an already persisted investment.
// Calling it again returns the recorded commission and changes nothing. A nil
// commission means the investor has no referrer.
func (s *CommissionService) PayForInvestment(ctx context.Context, investmentID string) (*domain.ReferralCommission, error) {
	var paid *domain.ReferralCommission
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		inv, err := repos.Investments().Lock(ctx, investmentID)
		if err != nil {
			return err
		}
		investor, err := repos.Accounts().GetByID(ctx, inv.AccountID)
		if err != nil {
			return err
		}
		paid, err = s.PayIn(ctx, repos, inv, investor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// PayIn records, credits and journals the commission inside the caller's unit
// of work. An existing commission for the investment is returned untouched.
func (s *CommissionService) PayIn(ctx context.Context, repos domain.Repositories, inv domain.Investment, investor domain.Account) (*domain.ReferralCommission, error) {
	if !investor.HasReferrer() {
		return nil, nil
	}

	existing, err := repos.Commissions().GetByInvestmentID(ctx, inv.ID)
	if err == nil {
		logger.Info("commission service pay skipped existing commission", logger.Fields{
			"investmentId": inv.ID,
			"commissionId": existing.ID,
		})
		return &existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	referrerID := *investor.ReferrerID
	if _, err := repos.Accounts().GetByID(ctx, referrerID); err != nil {
		return nil, fmt.Errorf("referrer of account %s: %w", investor.ID, err)
	}

	amount := inv.Amount.Mul(s.rate).Round(domain.MoneyPlaces)
	commission, err := repos.Commissions().Create(ctx, domain.ReferralCommission{
		ReferrerID:     referrerID,
		ReferredUserID: investor.ID,
		InvestmentID:   inv.ID,
		Amount:         amount,
	})
	if err != nil {
		logger.Error("commission service record commission failed", err, logger.Fields{
			"investmentId": inv.ID,
			"referrerId":   referrerID,
		})
		return nil, fmt.Errorf("record commission: %w", err)
	}

	// Sub-cent commissions are recorded but move no money.
	if !amount.IsPositive() {
		return &commission, nil
	}

	if _, err := s.ledger.CreditIn(ctx, repos.Accounts(), referrerID, amount); err != nil {
		return nil, fmt.Errorf("credit referrer: %w", err)
	}

	if _, err := repos.Transactions().Create(ctx, domain.Transaction{
		AccountID: referrerID,
		Type:      domain.TransactionTypeReferralCommission,
		Amount:    amount,
		Status:    domain.TransactionStatusCompleted,
		AdminNote: fmt.Sprintf("Referral commission from %s", investor.Username),
	}); err != nil {
		return nil, fmt.Errorf("journal commission: %w", err)
	}

	metrics.CommissionsPaid.Inc()
	logger.Info("commission service pay success", logger.Fields{
		"investmentId": inv.ID,
		"referrerId":   referrerID,
		"amount":       amount.StringFixed(domain.MoneyPlaces),
	})
	return &commission, nil
}

func (s *CommissionService) ListMine(ctx context.Context, principal domain.Principal) ([]domain.ReferralCommission, error) {
	if err := authenticated(principal); err != nil {
		return nil, err
	}
	return s.store.Commissions().ListByReferrer(ctx, principal.AccountID)
}
