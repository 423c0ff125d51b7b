package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit            TransactionType = "deposit"
	TransactionTypeWithdrawal         TransactionType = "withdrawal"
	TransactionTypeEarning            TransactionType = "earning"
	TransactionTypeReferralCommission TransactionType = "referral_commission"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeEarning, TransactionTypeReferralCommission:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusApproved  TransactionStatus = "approved"
	TransactionStatusRejected  TransactionStatus = "rejected"
	TransactionStatusCompleted TransactionStatus = "completed"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusApproved, TransactionStatusRejected, TransactionStatusCompleted:
		return true
	}
	return false
}

type Transaction struct {
	ID              string
	AccountID       string
	Type            TransactionType
	Amount          decimal.Decimal
	Status          TransactionStatus
	WalletAddress   string
	TransactionHash string
	AdminNote       string
	ResolvedBy      *string
	ResolvedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t Transaction) IsPending() bool {
	return t.Status == TransactionStatusPending
}

type DepositRequest struct {
	Amount          decimal.Decimal
	WalletAddress   string
	TransactionHash string
}

type WithdrawalRequest struct {
	Amount        decimal.Decimal
	WalletAddress string
	Pin           string
}

// Resolution is the single state change a pending transaction may go through.
type Resolution struct {
	Status     TransactionStatus
	AdminNote  string
	ResolvedBy string
	ResolvedAt time.Time
}

type TransactionFilter struct {
	AccountID string
	Type      TransactionType
	Status    TransactionStatus
	Limit     int
}
