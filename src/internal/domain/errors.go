package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrPackInactive      = errors.New("investment pack is not active")
	ErrAmountOutOfRange  = errors.New("amount is outside the pack range")
	ErrAlreadySubmitted  = errors.New("kyc verification already submitted")
	ErrAlreadyResolved   = errors.New("already resolved")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicate         = errors.New("duplicate record")
)

// ErrReferralCodeTaken is a duplicate that callers may retry with a new code.
var ErrReferralCodeTaken = fmt.Errorf("referral code already issued: %w", ErrDuplicate)
