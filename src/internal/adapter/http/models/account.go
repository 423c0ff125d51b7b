package models

import (
	"errors"
	"strings"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type CreateAccountRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Role          string `json:"role,omitempty"`
	ReferralCode  string `json:"referralCode,omitempty"`
	WithdrawalPin string `json:"withdrawalPin,omitempty"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, "username is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if r.Role != "" && !domain.Role(r.Role).Valid() {
		errs = append(errs, "role must be customer or admin")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (r CreateAccountRequest) ToDomain() domain.NewAccount {
	return domain.NewAccount{
		Username:      strings.TrimSpace(r.Username),
		Email:         strings.TrimSpace(r.Email),
		Role:          domain.Role(r.Role),
		ReferralCode:  strings.TrimSpace(r.ReferralCode),
		WithdrawalPin: r.WithdrawalPin,
	}
}

type AccountResponse struct {
	ID               string  `json:"id"`
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	Role             string  `json:"role"`
	Balance          string  `json:"balance"`
	ReferrerID       *string `json:"referrerId,omitempty"`
	ReferralCode     string  `json:"referralCode"`
	KYCVerified      bool    `json:"kycVerified"`
	HasWithdrawalPin bool    `json:"hasWithdrawalPin"`
	CreatedAt        string  `json:"createdAt"`
}

func NewAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		ID:               a.ID,
		Username:         a.Username,
		Email:            a.Email,
		Role:             string(a.Role),
		Balance:          formatMoney(a.Balance),
		ReferrerID:       a.ReferrerID,
		ReferralCode:     a.ReferralCode,
		KYCVerified:      a.KYCVerified,
		HasWithdrawalPin: a.HasWithdrawalPin(),
		CreatedAt:        formatTime(a.CreatedAt),
	}
}
