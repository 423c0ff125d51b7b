package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentPack is a product tier. Rate and duration are fixed once created;
// only Active may change.
type InvestmentPack struct {
	ID              string
	Name            string
	MinAmount       decimal.Decimal
	MaxAmount       decimal.Decimal
	DailyReturnRate decimal.Decimal
	DurationDays    int
	Active          bool
	CreatedAt       time.Time
}

func (p InvestmentPack) Validate() error {
	errs := make([]string, 0)
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	if p.MinAmount.IsNegative() {
		errs = append(errs, "minAmount must not be negative")
	}
	if !p.MinAmount.Equal(p.MinAmount.Round(MoneyPlaces)) || !p.MaxAmount.Equal(p.MaxAmount.Round(MoneyPlaces)) {
		errs = append(errs, "minAmount and maxAmount must have at most 2 decimal places")
	}
	if p.MinAmount.GreaterThan(p.MaxAmount) {
		errs = append(errs, "minAmount must not exceed maxAmount")
	}
	if p.DailyReturnRate.IsNegative() {
		errs = append(errs, "dailyReturnRate must not be negative")
	}
	if p.DurationDays <= 0 {
		errs = append(errs, "durationDays must be greater than zero")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(errs, "; "), ErrInvalidInput)
	}
	return nil
}

func (p InvestmentPack) Accepts(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(p.MinAmount) && amount.LessThanOrEqual(p.MaxAmount)
}
