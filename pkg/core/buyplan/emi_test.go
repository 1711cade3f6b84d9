package buyplan

import (
	"math"
	"testing"
)

func TestRegularEMIPlansCoverPrincipal(t *testing.T) {
	price := 45999.0
	plans := RegularEMIPlans(price)

	if len(plans) != 6 {
		t.Fatalf("expected 6 tenures, got %d", len(plans))
	}
	for _, plan := range plans {
		total := plan.EMIPerMonth * float64(plan.TenureMonths)
		// Interest-bearing schedules must repay at least the principal.
		if total < price-0.01 {
			t.Errorf("tenure %d: EMI x months = %.2f < principal %.2f", plan.TenureMonths, total, price)
		}
		if plan.TotalInterest < 0 {
			t.Errorf("tenure %d: negative interest %.2f", plan.TenureMonths, plan.TotalInterest)
		}
		if plan.ProcessingFee != 199.0 {
			t.Errorf("tenure %d: processing fee %.2f, want 199", plan.TenureMonths, plan.ProcessingFee)
		}
	}
}

func TestRegularEMIKnownValue(t *testing.T) {
	// P=12000, 12 months at 15% annual: r=0.0125.
	// EMI = 12000*0.0125*1.0125^12 / (1.0125^12-1) = 1083.10
	plans := RegularEMIPlans(12000)
	var plan *EMIPlan
	for i := range plans {
		if plans[i].TenureMonths == 12 {
			plan = &plans[i]
		}
	}
	if plan == nil {
		t.Fatal("no 12-month plan")
	}
	if math.Abs(plan.EMIPerMonth-1083.10) > 0.05 {
		t.Errorf("12-month EMI = %.2f, want ~1083.10", plan.EMIPerMonth)
	}
	if plan.InterestRateAnnual != 15.0 {
		t.Errorf("rate = %.1f, want 15.0", plan.InterestRateAnnual)
	}
}

func TestNoCostEMIExactSum(t *testing.T) {
	// 9999.99 does not divide evenly by 3: the last installment must absorb
	// the rounding so the schedule totals the sticker price exactly.
	price := 9999.99
	plans := NoCostEMIPlans(price)

	for _, plan := range plans {
		paid := plan.EMIPerMonth*float64(plan.TenureMonths-1) + plan.LastInstallment
		if math.Abs(paid-price) > 0.001 {
			t.Errorf("tenure %d: installments sum to %.4f, want exactly %.2f", plan.TenureMonths, paid, price)
		}
		if plan.TotalInterest != 0 {
			t.Errorf("tenure %d: no-cost plan has interest %.2f", plan.TenureMonths, plan.TotalInterest)
		}
		if math.Abs(plan.TotalPayable-(price+199.0)) > 0.001 {
			t.Errorf("tenure %d: total payable %.2f, want price + fee", plan.TenureMonths, plan.TotalPayable)
		}
	}
}

func TestEMIEligibility(t *testing.T) {
	if EMIEligible(4999.99) {
		t.Error("4999.99 should not be EMI eligible")
	}
	if !EMIEligible(5000) {
		t.Error("5000 should be EMI eligible")
	}
}
