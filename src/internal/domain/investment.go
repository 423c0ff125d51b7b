package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvestmentStatus string

const (
	InvestmentStatusActive    InvestmentStatus = "active"
	InvestmentStatusCompleted InvestmentStatus = "completed"
	InvestmentStatusCancelled InvestmentStatus = "cancelled"
)

func (s InvestmentStatus) Valid() bool {
	switch s {
	case InvestmentStatusActive, InvestmentStatusCompleted, InvestmentStatusCancelled:
		return true
	}
	return false
}

// InvestmentFilter narrows an investment listing. Status is matched against
// the status derived at AsOf, so matured positions count as completed.
type InvestmentFilter struct {
	AccountID string
	Status    InvestmentStatus
	AsOf      time.Time
	Limit     int
}

// Investment keeps its own copy of the pack terms so later pack edits never
// change what an existing position earns.
type Investment struct {
	ID              string
	AccountID       string
	PackID          string
	PackName        string
	Amount          decimal.Decimal
	DailyReturnRate decimal.Decimal
	DurationDays    int
	DailyReturn     decimal.Decimal
	TotalReturn     decimal.Decimal
	StartDate       time.Time
	EndDate         time.Time
	Status          InvestmentStatus
	CompletedAt     *time.Time
	CreatedAt       time.Time
}

func NewInvestment(accountID string, pack InvestmentPack, amount decimal.Decimal, now time.Time) Investment {
	start := DateOf(now)
	return Investment{
		AccountID:       accountID,
		PackID:          pack.ID,
		PackName:        pack.Name,
		Amount:          amount,
		DailyReturnRate: pack.DailyReturnRate,
		DurationDays:    pack.DurationDays,
		DailyReturn:     percentOf(amount, pack.DailyReturnRate),
		TotalReturn:     decimal.Zero,
		StartDate:       start,
		EndDate:         start.AddDate(0, 0, pack.DurationDays),
		Status:          InvestmentStatusActive,
	}
}

type AccrualPoint struct {
	Date  time.Time
	Value decimal.Decimal
}

type Accrual struct {
	DaysElapsed int
	Accrued     decimal.Decimal
	Points      []AccrualPoint
}

// ComputeAccrual returns the earnings schedule of inv up to asOf. Finished and
// cancelled investments report the full duration.
func ComputeAccrual(inv Investment, asOf time.Time) Accrual {
	days := inv.DurationDays
	if inv.Status == InvestmentStatusActive {
		until := DateOf(asOf)
		if until.After(inv.EndDate) {
			until = inv.EndDate
		}
		days = daysBetween(inv.StartDate, until)
	}
	if days < 0 {
		days = 0
	}
	if days > inv.DurationDays {
		days = inv.DurationDays
	}

	points := make([]AccrualPoint, 0, days+1)
	for d := 0; d <= days; d++ {
		points = append(points, AccrualPoint{
			Date:  inv.StartDate.AddDate(0, 0, d),
			Value: inv.DailyReturn.Mul(decimal.NewFromInt(int64(d))),
		})
	}

	return Accrual{
		DaysElapsed: days,
		Accrued:     inv.DailyReturn.Mul(decimal.NewFromInt(int64(days))),
		Points:      points,
	}
}

// EffectiveStatus reports completed for active investments whose end date has
// passed, whether or not the maturity sweep has persisted it yet.
func EffectiveStatus(inv Investment, asOf time.Time) InvestmentStatus {
	if inv.Status == InvestmentStatusActive && !DateOf(asOf).Before(inv.EndDate) {
		return InvestmentStatusCompleted
	}
	return inv.Status
}

// Effective returns a copy with the derived status and, for matured
// investments, the total return filled in.
func (inv Investment) Effective(asOf time.Time) Investment {
	status := EffectiveStatus(inv, asOf)
	if status == InvestmentStatusCompleted && inv.Status == InvestmentStatusActive {
		inv.TotalReturn = ComputeAccrual(inv, inv.EndDate).Accrued
	}
	inv.Status = status
	return inv
}

func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}
