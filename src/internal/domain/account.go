package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

type Account struct {
	ID                string
	Username          string
	Email             string
	Role              Role
	Balance           decimal.Decimal
	ReferrerID        *string
	ReferralCode      string
	KYCVerified       bool
	WithdrawalPinHash string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (a Account) HasReferrer() bool {
	return a.ReferrerID != nil && *a.ReferrerID != ""
}

func (a Account) HasWithdrawalPin() bool {
	return a.WithdrawalPinHash != ""
}

// NewAccount carries the fields needed to open an account. ReferralCode is the
// code of the referring account, not the code of the new one.
type NewAccount struct {
	Username      string
	Email         string
	Role          Role
	ReferralCode  string
	WithdrawalPin string
}
