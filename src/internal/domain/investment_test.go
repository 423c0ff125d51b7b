package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testInvestment(start time.Time) Investment {
	pack := InvestmentPack{
		ID:              "pack-1",
		Name:            "Starter",
		MinAmount:       decimal.NewFromInt(100),
		MaxAmount:       decimal.NewFromInt(4999),
		DailyReturnRate: decimal.RequireFromString("2.5"),
		DurationDays:    60,
		Active:          true,
	}
	return NewInvestment("acct-1", pack, decimal.NewFromInt(1000), start)
}

func TestNewInvestmentFreezesTerms(t *testing.T) {
	inv := testInvestment(time.Date(2026, 1, 10, 23, 59, 0, 0, time.UTC))

	if !inv.DailyReturn.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected daily return 25, got %s", inv.DailyReturn)
	}
	if !inv.StartDate.Equal(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected start truncated to the day, got %s", inv.StartDate)
	}
	if !inv.EndDate.Equal(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected end 60 days later, got %s", inv.EndDate)
	}
}

func TestComputeAccrualPoints(t *testing.T) {
	start := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	inv := testInvestment(start)

	cases := []struct {
		name string
		asOf time.Time
		days int
	}{
		{"before start", start.AddDate(0, 0, -3), 0},
		{"same day", start.Add(6 * time.Hour), 0},
		{"mid term", start.AddDate(0, 0, 12), 12},
		{"at end", start.AddDate(0, 0, 60), 60},
		{"after end", start.AddDate(0, 0, 400), 60},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			accrual := ComputeAccrual(inv, tc.asOf)
			if accrual.DaysElapsed != tc.days {
				t.Fatalf("expected %d days, got %d", tc.days, accrual.DaysElapsed)
			}
			if len(accrual.Points) != tc.days+1 {
				t.Fatalf("expected %d points, got %d", tc.days+1, len(accrual.Points))
			}
			last := accrual.Points[len(accrual.Points)-1]
			if !last.Value.Equal(accrual.Accrued) {
				t.Fatalf("expected last point %s to equal accrued %s", last.Value, accrual.Accrued)
			}
			if !accrual.Accrued.Equal(inv.DailyReturn.Mul(decimal.NewFromInt(int64(tc.days)))) {
				t.Fatalf("unexpected accrued %s", accrual.Accrued)
			}
			if !accrual.Points[0].Date.Equal(inv.StartDate) || !accrual.Points[0].Value.IsZero() {
				t.Fatalf("expected first point at start with zero value, got %+v", accrual.Points[0])
			}
		})
	}
}

func TestComputeAccrualFinishedInvestmentsReportFullTerm(t *testing.T) {
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	inv := testInvestment(start)
	inv.Status = InvestmentStatusCancelled

	accrual := ComputeAccrual(inv, start.AddDate(0, 0, 2))
	if accrual.DaysElapsed != 60 || !accrual.Accrued.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected full term for non-active investment, got %d days %s", accrual.DaysElapsed, accrual.Accrued)
	}
}

func TestEffectiveStatusMatchesSweepTotal(t *testing.T) {
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	inv := testInvestment(start)

	if got := EffectiveStatus(inv, start.AddDate(0, 0, 59)); got != InvestmentStatusActive {
		t.Fatalf("expected active on day 59, got %s", got)
	}
	if got := EffectiveStatus(inv, start.AddDate(0, 0, 60)); got != InvestmentStatusCompleted {
		t.Fatalf("expected completed on end date, got %s", got)
	}

	derived := inv.Effective(start.AddDate(0, 0, 75))
	swept := inv
	swept.Status = InvestmentStatusCompleted
	swept.TotalReturn = ComputeAccrual(inv, inv.EndDate).Accrued

	if derived.Status != swept.Status || !derived.TotalReturn.Equal(swept.TotalReturn) {
		t.Fatalf("derived %s/%s disagrees with swept %s/%s", derived.Status, derived.TotalReturn, swept.Status, swept.TotalReturn)
	}
	if !ComputeAccrual(derived, start.AddDate(0, 0, 75)).Accrued.Equal(ComputeAccrual(inv, start.AddDate(0, 0, 75)).Accrued) {
		t.Fatalf("accrual changed after status derivation")
	}
}

func TestInvestmentPackValidate(t *testing.T) {
	pack := InvestmentPack{Name: "Elite", MinAmount: decimal.NewFromInt(50000), MaxAmount: decimal.NewFromInt(999999999), DailyReturnRate: decimal.RequireFromString("12.5"), DurationDays: 60}
	if err := pack.Validate(); err != nil {
		t.Fatalf("expected valid pack, got %v", err)
	}
	if !pack.Accepts(decimal.NewFromInt(50000)) || pack.Accepts(decimal.NewFromInt(49999)) {
		t.Fatalf("unexpected range check")
	}
}

func TestPrincipalCapabilities(t *testing.T) {
	admin := Principal{AccountID: "a", Role: RoleAdmin}
	customer := Principal{AccountID: "c", Role: RoleCustomer}
	unknown := Principal{AccountID: "u", Role: Role("auditor")}

	if !admin.Can(CapabilityReviewKYC) || customer.Can(CapabilityReviewKYC) || unknown.Can(CapabilityReviewKYC) {
		t.Fatalf("unexpected capability table")
	}
}
