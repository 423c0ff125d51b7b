package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
	"github.com/api-sage/invest-ledger/src/internal/metrics"
)

const defaultTransactionLimit = 50

type TransactionService struct {
	store  domain.Store
	ledger *LedgerService
	now    Clock
}

func NewTransactionService(store domain.Store, ledger *LedgerService, now Clock) *TransactionService {
	if now == nil {
		now = SystemClock
	}
	return &TransactionService{store: store, ledger: ledger, now: now}
}

// RequestDeposit records a pending deposit. The balance moves only on approval.
func (s *TransactionService) RequestDeposit(ctx context.Context, principal domain.Principal, req domain.DepositRequest) (domain.Transaction, error) {
	if err := authenticated(principal); err != nil {
		return domain.Transaction{}, err
	}
	amount := req.Amount
	if err := domain.ValidateAmount(amount); err != nil {
		return domain.Transaction{}, err
	}

	tx, err := s.store.Transactions().Create(ctx, domain.Transaction{
		AccountID:       principal.AccountID,
		Type:            domain.TransactionTypeDeposit,
		Amount:          amount,
		Status:          domain.TransactionStatusPending,
		WalletAddress:   strings.TrimSpace(req.WalletAddress),
		TransactionHash: strings.TrimSpace(req.TransactionHash),
	})
	if err != nil {
		logger.Error("transaction service deposit request failed", err, logger.Fields{"accountId": principal.AccountID})
		return domain.Transaction{}, err
	}

	logger.Info("transaction service deposit request success", logger.Fields{
		"transactionId": tx.ID,
		"accountId":     tx.AccountID,
		"amount":        tx.Amount.StringFixed(domain.MoneyPlaces),
	})
	return tx, nil
}

// RequestWithdrawal holds the funds immediately by debiting the balance and
// records a pending withdrawal in the same unit of work.
func (s *TransactionService) RequestWithdrawal(ctx context.Context, principal domain.Principal, req domain.WithdrawalRequest) (domain.Transaction, error) {
	if err := authenticated(principal); err != nil {
		return domain.Transaction{}, err
	}
	amount := req.Amount
	if err := domain.ValidateAmount(amount); err != nil {
		return domain.Transaction{}, err
	}

	account, err := s.store.Accounts().GetByID(ctx, principal.AccountID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if err := verifyWithdrawalPin(account, req.Pin); err != nil {
		logger.Info("transaction service withdrawal pin rejected", logger.Fields{"accountId": account.ID})
		return domain.Transaction{}, err
	}

	var tx domain.Transaction
	err = s.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if _, err := s.ledger.DebitIn(ctx, repos.Accounts(), principal.AccountID, amount); err != nil {
			return err
		}
		var err error
		tx, err = repos.Transactions().Create(ctx, domain.Transaction{
			AccountID:     principal.AccountID,
			Type:          domain.TransactionTypeWithdrawal,
			Amount:        amount,
			Status:        domain.TransactionStatusPending,
			WalletAddress: strings.TrimSpace(req.WalletAddress),
		})
		return err
	})
	if err != nil {
		logger.Error("transaction service withdrawal request failed", err, logger.Fields{"accountId": principal.AccountID})
		return domain.Transaction{}, err
	}

	logger.Info("transaction service withdrawal request success", logger.Fields{
		"transactionId": tx.ID,
		"accountId":     tx.AccountID,
		"amount":        tx.Amount.StringFixed(domain.MoneyPlaces),
	})
	return tx, nil
}

func (s *TransactionService) Approve(ctx context.Context, principal domain.Principal, id string, note string) (domain.Transaction, error) {
	return s.resolve(ctx, principal, id, note, domain.TransactionStatusApproved)
}

func (s *TransactionService) Reject(ctx context.Context, principal domain.Principal, id string, note string) (domain.Transaction, error) {
	return s.resolve(ctx, principal, id, note, domain.TransactionStatusRejected)
}

// resolve applies the ledger effect of a decision and closes the transaction.
// Approved deposits credit the account; rejected withdrawals release the hold.
func (s *TransactionService) resolve(ctx context.Context, principal domain.Principal, id string, note string, decision domain.TransactionStatus) (domain.Transaction, error) {
	if err := Authorize(principal, domain.CapabilityReviewTransactions); err != nil {
		return domain.Transaction{}, err
	}

	var resolved domain.Transaction
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		pending, err := repos.Transactions().Lock(ctx, id)
		if err != nil {
			return err
		}
		if !pending.IsPending() {
			return fmt.Errorf("transaction %s is %s: %w", id, pending.Status, domain.ErrAlreadyResolved)
		}

		switch {
		case decision == domain.TransactionStatusApproved && pending.Type == domain.TransactionTypeDeposit,
			decision == domain.TransactionStatusRejected && pending.Type == domain.TransactionTypeWithdrawal:
			if _, err := s.ledger.CreditIn(ctx, repos.Accounts(), pending.AccountID, pending.Amount); err != nil {
				return err
			}
		}

		resolved, err = repos.Transactions().Resolve(ctx, id, domain.Resolution{
			Status:     decision,
			AdminNote:  strings.TrimSpace(note),
			ResolvedBy: principal.AccountID,
			ResolvedAt: s.now(),
		})
		return err
	})
	if err != nil {
		logger.Error("transaction service resolve failed", err, logger.Fields{
			"transactionId": id,
			"decision":      decision,
		})
		return domain.Transaction{}, err
	}

	metrics.TransactionResolutions.WithLabelValues(string(resolved.Type), string(decision)).Inc()
	logger.Info("transaction service resolve success", logger.Fields{
		"transactionId": id,
		"type":          resolved.Type,
		"decision":      decision,
		"resolvedBy":    principal.AccountID,
	})
	return resolved, nil
}

func (s *TransactionService) ListMine(ctx context.Context, principal domain.Principal, limit int) ([]domain.Transaction, error) {
	if err := authenticated(principal); err != nil {
		return nil, err
	}
	return s.store.Transactions().List(ctx, domain.TransactionFilter{
		AccountID: principal.AccountID,
		Limit:     clampLimit(limit),
	})
}

// List is the admin queue view, filtered by type and status.
func (s *TransactionService) List(ctx context.Context, principal domain.Principal, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	if err := Authorize(principal, domain.CapabilityReviewTransactions); err != nil {
		return nil, err
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("unknown transaction type %q: %w", filter.Type, domain.ErrInvalidInput)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("unknown transaction status %q: %w", filter.Status, domain.ErrInvalidInput)
	}
	filter.Limit = clampLimit(filter.Limit)
	return s.store.Transactions().List(ctx, filter)
}

func verifyWithdrawalPin(account domain.Account, pin string) error {
	if !account.HasWithdrawalPin() {
		return nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(account.WithdrawalPinHash), []byte(strings.TrimSpace(pin)))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return fmt.Errorf("withdrawal pin mismatch: %w", domain.ErrPermissionDenied)
	}
	if err != nil {
		return fmt.Errorf("verify withdrawal pin: %w", err)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return defaultTransactionLimit
	}
	return limit
}
