package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
	"github.com/api-sage/invest-ledger/src/internal/metrics"
)

// LedgerService is the only writer of account balances.
type LedgerService struct {
	store domain.Store
}

func NewLedgerService(store domain.Store) *LedgerService {
	return &LedgerService{store: store}
}

func (s *LedgerService) Credit(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error) {
	var account domain.Account
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		account, err = s.CreditIn(ctx, repos.Accounts(), accountID, amount)
		return err
	})
	return account, err
}

func (s *LedgerService) Debit(ctx context.Context, accountID string, amount decimal.Decimal) (domain.Account, error) {
	var account domain.Account
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		account, err = s.DebitIn(ctx, repos.Accounts(), accountID, amount)
		return err
	})
	return account, err
}

// CreditIn joins the caller's unit of work.
func (s *LedgerService) CreditIn(ctx context.Context, accounts domain.AccountRepository, accountID string, amount decimal.Decimal) (domain.Account, error) {
	return s.apply(ctx, "credit", accountID, amount, accounts.Credit)
}

// DebitIn joins the caller's unit of work. It fails with ErrInsufficientFunds
// rather than letting the balance go below zero.
func (s *LedgerService) DebitIn(ctx context.Context, accounts domain.AccountRepository, accountID string, amount decimal.Decimal) (domain.Account, error) {
	return s.apply(ctx, "debit", accountID, amount, accounts.Debit)
}

func (s *LedgerService) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

func (s *LedgerService) apply(
	ctx context.Context,
	operation string,
	accountID string,
	amount decimal.Decimal,
	mutate func(context.Context, string, decimal.Decimal) (domain.Account, error),
) (domain.Account, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		metrics.LedgerOperations.WithLabelValues(operation, "invalid_amount").Inc()
		return domain.Account{}, err
	}

	account, err := mutate(ctx, accountID, amount)
	if err != nil {
		outcome := metrics.Outcome(err)
		if errors.Is(err, domain.ErrInsufficientFunds) {
			outcome = "insufficient_funds"
		}
		metrics.LedgerOperations.WithLabelValues(operation, outcome).Inc()
		logger.Error("ledger service "+operation+" failed", err, logger.Fields{
			"accountId": accountID,
			"amount":    amount.StringFixed(domain.MoneyPlaces),
		})
		return domain.Account{}, err
	}

	metrics.LedgerOperations.WithLabelValues(operation, "ok").Inc()
	logger.Info("ledger service "+operation+" success", logger.Fields{
		"accountId": accountID,
		"amount":    amount.StringFixed(domain.MoneyPlaces),
		"balance":   account.Balance.StringFixed(domain.MoneyPlaces),
	})
	return account, nil
}
