package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
)

const (
	referralCodeLength   = 8
	referralCodeAttempts = 5
	minPinLength         = 4
)

type AccountService struct {
	store domain.Store
}

func NewAccountService(store domain.Store) *AccountService {
	return &AccountService{store: store}
}

// OpenAccount creates an account with a fresh referral code. An unknown
// referral code fails the request instead of opening an unreferred account.
func (s *AccountService) OpenAccount(ctx context.Context, principal domain.Principal, req domain.NewAccount) (domain.Account, error) {
	if err := Authorize(principal, domain.CapabilityManageAccounts); err != nil {
		return domain.Account{}, err
	}

	logger.Info("account service open account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := validateNewAccount(req); err != nil {
		return domain.Account{}, err
	}

	account := domain.Account{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Role:     req.Role,
	}
	if account.Role == "" {
		account.Role = domain.RoleCustomer
	}

	if code := strings.ToUpper(strings.TrimSpace(req.ReferralCode)); code != "" {
		referrer, err := s.store.Accounts().GetByReferralCode(ctx, code)
		if err != nil {
			return domain.Account{}, fmt.Errorf("resolve referral code: %w", err)
		}
		account.ReferrerID = &referrer.ID
	}

	if pin := strings.TrimSpace(req.WithdrawalPin); pin != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			return domain.Account{}, fmt.Errorf("hash withdrawal pin: %w", err)
		}
		account.WithdrawalPinHash = string(hash)
	}

	for attempt := 0; attempt < referralCodeAttempts; attempt++ {
		account.ReferralCode = newReferralCode()
		created, err := s.store.Accounts().Create(ctx, account)
		if err == nil {
			logger.Info("account service open account success", logger.Fields{
				"accountId":    created.ID,
				"referralCode": created.ReferralCode,
				"referred":     created.HasReferrer(),
			})
			return created, nil
		}
		if !errors.Is(err, domain.ErrReferralCodeTaken) {
			logger.Error("account service open account failed", err, logger.Fields{"username": account.Username})
			return domain.Account{}, err
		}
	}

	return domain.Account{}, fmt.Errorf("could not allocate a unique referral code")
}

func (s *AccountService) GetAccount(ctx context.Context, principal domain.Principal, id string) (domain.Account, error) {
	if err := authorizeOwner(principal, id); err != nil {
		return domain.Account{}, err
	}
	return s.store.Accounts().GetByID(ctx, id)
}

func validateNewAccount(req domain.NewAccount) error {
	errs := make([]string, 0)
	if strings.TrimSpace(req.Username) == "" {
		errs = append(errs, "username is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		errs = append(errs, "email is invalid")
	}
	if req.Role != "" && !req.Role.Valid() {
		errs = append(errs, "role must be customer or admin")
	}
	if pin := strings.TrimSpace(req.WithdrawalPin); pin != "" && len(pin) < minPinLength {
		errs = append(errs, fmt.Sprintf("withdrawalPin must be at least %d characters", minPinLength))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(errs, "; "), domain.ErrInvalidInput)
	}
	return nil
}

func newReferralCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:referralCodeLength])
}
