package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

const dateLayout = "2006-01-02"

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyPlaces)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// parsePositive appends a message to errs unless raw is a positive number.
func parsePositive(field, raw string, errs *[]string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*errs = append(*errs, field+" is required")
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		*errs = append(*errs, field+" must be numeric")
		return decimal.Zero
	}
	if parsed.LessThanOrEqual(decimal.Zero) {
		*errs = append(*errs, field+" must be greater than zero")
	}
	return parsed
}

// parseMoney is parsePositive restricted to whole cents.
func parseMoney(field, raw string, errs *[]string) decimal.Decimal {
	parsed := parsePositive(field, raw, errs)
	if !parsed.Equal(parsed.Round(domain.MoneyPlaces)) {
		*errs = append(*errs, fmt.Sprintf("%s must have at most %d decimal places", field, domain.MoneyPlaces))
	}
	return parsed
}
