package buyplan

import (
	"github.com/shopspring/decimal"
)

// EMI eligibility floor and the flat processing fee banks charge.
const (
	EMIMinPrice   = 5000.0
	ProcessingFee = 199.0
)

// Standard tenures and their annual interest rates for regular EMI.
var regularTenures = []int{3, 6, 9, 12, 18, 24}

var annualRates = map[int]float64{
	3:  12.0,
	6:  13.0,
	9:  14.0,
	12: 15.0,
	18: 16.0,
	24: 17.0,
}

var noCostTenures = []int{3, 6, 9, 12}

// EMIEligible reports whether a price qualifies for installment plans.
func EMIEligible(price float64) bool {
	return price >= EMIMinPrice
}

// RegularEMIPlans computes annuity schedules for the standard tenures:
// EMI = P*r*(1+r)^n / ((1+r)^n - 1), r = annual/12/100.
func RegularEMIPlans(price float64) []EMIPlan {
	principal := decimal.NewFromFloat(price)
	plans := make([]EMIPlan, 0, len(regularTenures))

	for _, months := range regularTenures {
		annual, ok := annualRates[months]
		if !ok {
			annual = 15.0
		}
		r := decimal.NewFromFloat(annual).Div(decimal.NewFromInt(12)).Div(decimal.NewFromInt(100))
		n := decimal.NewFromInt(int64(months))

		var emi decimal.Decimal
		if r.IsZero() {
			emi = principal.Div(n)
		} else {
			growth := decimal.NewFromInt(1).Add(r).Pow(n)
			emi = principal.Mul(r).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1)))
		}
		emi = emi.Round(2)

		total := emi.Mul(n).Round(2)
		interest := total.Sub(principal).Round(2)

		plans = append(plans, EMIPlan{
			TenureMonths:       months,
			EMIPerMonth:        emi.InexactFloat64(),
			TotalAmount:        total.InexactFloat64(),
			TotalInterest:      interest.InexactFloat64(),
			InterestRateAnnual: annual,
			ProcessingFee:      ProcessingFee,
			PlanType:           "regular_emi",
		})
	}
	return plans
}

// NoCostEMIPlans computes zero-interest schedules: the total paid equals
// the sticker price exactly, with the last installment absorbing rounding.
func NoCostEMIPlans(price float64) []EMIPlan {
	principal := decimal.NewFromFloat(price)
	plans := make([]EMIPlan, 0, len(noCostTenures))

	for _, months := range noCostTenures {
		n := decimal.NewFromInt(int64(months))
		monthly := principal.Div(n).Round(2)
		last := principal.Sub(monthly.Mul(decimal.NewFromInt(int64(months - 1)))).Round(2)

		plans = append(plans, EMIPlan{
			TenureMonths:       months,
			EMIPerMonth:        monthly.InexactFloat64(),
			LastInstallment:    last.InexactFloat64(),
			TotalAmount:        principal.Round(2).InexactFloat64(),
			TotalInterest:      0,
			InterestRateAnnual: 0,
			ProcessingFee:      ProcessingFee,
			PlanType:           "no_cost_emi",
			TotalPayable:       principal.Add(decimal.NewFromFloat(ProcessingFee)).Round(2).InexactFloat64(),
		})
	}
	return plans
}
