package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// ValidateAmount rejects amounts that are not strictly positive or that carry
// more precision than a cent. Amounts are never rounded on the way in.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount %s must be greater than zero: %w", amount.String(), ErrInvalidAmount)
	}
	if !amount.Equal(amount.Round(MoneyPlaces)) {
		return fmt.Errorf("amount %s has more than %d decimal places: %w", amount.String(), MoneyPlaces, ErrInvalidAmount)
	}
	return nil
}

func percentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred).Round(MoneyPlaces)
}
