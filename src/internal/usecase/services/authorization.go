package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

// Clock is injected so maturity and accrual can be tested at fixed instants.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}

// Authorize is the single gate for privileged operations.
func Authorize(principal domain.Principal, capability domain.Capability) error {
	if err := authenticated(principal); err != nil {
		return err
	}
	if !principal.Can(capability) {
		return fmt.Errorf("%s requires %s: %w", principal.Role, capability, domain.ErrPermissionDenied)
	}
	return nil
}

// authorizeOwner lets a principal act on its own account, and admins on any.
func authorizeOwner(principal domain.Principal, accountID string) error {
	if err := authenticated(principal); err != nil {
		return err
	}
	if principal.AccountID != accountID && !principal.IsAdmin() {
		return fmt.Errorf("account %s does not belong to caller: %w", accountID, domain.ErrPermissionDenied)
	}
	return nil
}

func authenticated(principal domain.Principal) error {
	if strings.TrimSpace(principal.AccountID) == "" || !principal.Role.Valid() {
		return fmt.Errorf("missing principal: %w", domain.ErrPermissionDenied)
	}
	return nil
}
