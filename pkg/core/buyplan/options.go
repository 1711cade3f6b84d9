package buyplan

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"shopagent/pkg/core/catalog"

	"github.com/shopspring/decimal"
)

// BuildPaymentOptions enumerates every way to pay: the full-price baseline
// plus one option per applicable active offer, sorted by total savings.
// total_savings = (MRP - price) + additional offer savings.
func BuildPaymentOptions(price, mrp float64, offers []catalog.CardOffer, now time.Time) []PaymentOption {
	baseDiscount := 0.0
	if mrp > price {
		baseDiscount = round2(mrp - price)
	}

	options := []PaymentOption{{
		OptionName:      "Full Price Payment",
		PaymentMethod:   "Any Card/Cash",
		FinalPrice:      price,
		DiscountFromMRP: baseDiscount,
		TotalSavings:    baseDiscount,
		SavingsPercent:  savingsPercent(baseDiscount, mrp),
		PaymentType:     PaymentOneTime,
	}}

	for _, offer := range offers {
		if !offerApplies(offer, price, now) {
			continue
		}
		switch offer.OfferType {
		case catalog.OfferInstantDiscount:
			options = append(options, instantDiscountOption(offer, price, mrp, baseDiscount))
		case catalog.OfferCashback:
			options = append(options, cashbackOption(offer, price, mrp, baseDiscount))
		case catalog.OfferNoCostEMI, catalog.OfferRegularEMI:
			if opt, ok := emiOption(offer, price, mrp, baseDiscount); ok {
				options = append(options, opt)
			}
		case catalog.OfferCombo:
			options = append(options, comboOption(offer, price, mrp, baseDiscount))
		}
	}

	sort.SliceStable(options, func(i, j int) bool {
		return options[i].TotalSavings > options[j].TotalSavings
	})
	return options
}

func offerApplies(offer catalog.CardOffer, price float64, now time.Time) bool {
	if !offer.IsActive {
		return false
	}
	if offer.MinTransaction != nil && price < *offer.MinTransaction {
		return false
	}
	if offer.ValidFrom != nil && now.Before(*offer.ValidFrom) {
		return false
	}
	if offer.ValidTill != nil && now.After(*offer.ValidTill) {
		return false
	}
	return true
}

func instantDiscountOption(offer catalog.CardOffer, price, mrp, baseDiscount float64) PaymentOption {
	savings := offerDiscount(offer, price)
	return PaymentOption{
		OptionName:        offer.BankName + " Instant Discount",
		PaymentMethod:     offer.BankName + " Card",
		FinalPrice:        round2(price - savings),
		DiscountFromMRP:   baseDiscount,
		AdditionalSavings: round2(savings),
		TotalSavings:      round2(baseDiscount + savings),
		SavingsPercent:    savingsPercent(baseDiscount+savings, mrp),
		PaymentType:       PaymentOneTime,
		OfferDetails:      offer.Description,
	}
}

func cashbackOption(offer catalog.CardOffer, price, mrp, baseDiscount float64) PaymentOption {
	cashback := 0.0
	if offer.CashbackAmount != nil {
		cashback = *offer.CashbackAmount
	}
	return PaymentOption{
		OptionName:         offer.BankName + " Cashback",
		PaymentMethod:      offer.BankName + " Card",
		FinalPrice:         price, // paid upfront, cashback credited later
		CashbackAmount:     round2(cashback),
		EffectivePrice:     round2(price - cashback),
		DiscountFromMRP:    baseDiscount,
		AdditionalSavings:  round2(cashback),
		TotalSavings:       round2(baseDiscount + cashback),
		SavingsPercent:     savingsPercent(baseDiscount+cashback, mrp),
		PaymentType:        PaymentCashback,
		CashbackCreditDays: 90,
		OfferDetails:       offer.Description,
	}
}

func emiOption(offer catalog.CardOffer, price, mrp, baseDiscount float64) (PaymentOption, bool) {
	if offer.EMITenureMonths == nil || *offer.EMITenureMonths <= 0 {
		return PaymentOption{}, false
	}
	months := *offer.EMITenureMonths
	noCost := offer.OfferType == catalog.OfferNoCostEMI || offer.IsNoCostEMI

	var monthly, total, interest decimal.Decimal
	principal := decimal.NewFromFloat(price)
	if noCost {
		monthly = principal.Div(decimal.NewFromInt(int64(months))).Round(2)
		total = principal.Round(2)
		interest = decimal.Zero
	} else {
		annual, ok := annualRates[months]
		if !ok {
			annual = 15.0
		}
		r := decimal.NewFromFloat(annual).Div(decimal.NewFromInt(1200))
		growth := decimal.NewFromInt(1).Add(r).Pow(decimal.NewFromInt(int64(months)))
		monthly = principal.Mul(r).Mul(growth).Div(growth.Sub(decimal.NewFromInt(1))).Round(2)
		total = monthly.Mul(decimal.NewFromInt(int64(months))).Round(2)
		interest = total.Sub(principal).Round(2)
	}

	name := offer.BankName + " EMI"
	if noCost {
		name = offer.BankName + " No Cost EMI"
	}
	return PaymentOption{
		OptionName:      name,
		PaymentMethod:   offer.BankName + " Card",
		EMIPerMonth:     monthly.InexactFloat64(),
		TenureMonths:    months,
		TotalAmount:     total.InexactFloat64(),
		ProcessingFee:   ProcessingFee,
		TotalInterest:   interest.InexactFloat64(),
		DiscountFromMRP: baseDiscount,
		TotalSavings:    baseDiscount,
		SavingsPercent:  savingsPercent(baseDiscount, mrp),
		PaymentType:     PaymentEMI,
		OfferDetails:    offer.Description,
	}, true
}

// comboOption stacks an instant discount with cashback on one card.
func comboOption(offer catalog.CardOffer, price, mrp, baseDiscount float64) PaymentOption {
	discount := offerDiscount(offer, price)
	cashback := 0.0
	if offer.CashbackAmount != nil {
		cashback = *offer.CashbackAmount
	}
	extra := discount + cashback
	return PaymentOption{
		OptionName:         offer.BankName + " Combo Offer",
		PaymentMethod:      offer.BankName + " Card",
		FinalPrice:         round2(price - discount),
		CashbackAmount:     round2(cashback),
		EffectivePrice:     round2(price - extra),
		DiscountFromMRP:    baseDiscount,
		AdditionalSavings:  round2(extra),
		TotalSavings:       round2(baseDiscount + extra),
		SavingsPercent:     savingsPercent(baseDiscount+extra, mrp),
		PaymentType:        PaymentOneTime,
		CashbackCreditDays: 90,
		OfferDetails:       offer.Description,
	}
}

func offerDiscount(offer catalog.CardOffer, price float64) float64 {
	if offer.DiscountAmount != nil && *offer.DiscountAmount > 0 {
		return *offer.DiscountAmount
	}
	if offer.DiscountPercent != nil && *offer.DiscountPercent > 0 {
		return price * *offer.DiscountPercent / 100
	}
	return 0
}

// BestSelections picks the best-in-class option per category. best_emi
// prefers the lowest monthly payment; with no offer-based EMI it falls back
// to the first no-cost schedule.
func BestSelections(options []PaymentOption, noCostPlans []EMIPlan) Recommendations {
	var recs Recommendations
	for i := range options {
		opt := &options[i]
		switch {
		case opt.PaymentType == PaymentOneTime && strings.Contains(opt.OptionName, "Instant Discount"):
			if recs.BestInstantSavings == nil || opt.TotalSavings > recs.BestInstantSavings.TotalSavings {
				recs.BestInstantSavings = opt
			}
		case opt.PaymentType == PaymentCashback:
			if recs.BestCashback == nil || opt.TotalSavings > recs.BestCashback.TotalSavings {
				recs.BestCashback = opt
			}
		case opt.PaymentType == PaymentEMI:
			if recs.BestEMI == nil || opt.EMIPerMonth < recs.BestEMI.EMIPerMonth {
				recs.BestEMI = opt
			}
		}
	}
	if recs.BestEMI == nil && len(noCostPlans) > 0 {
		plan := noCostPlans[0]
		recs.BestEMI = &PaymentOption{
			OptionName:    "No Cost EMI (Best for Budget)",
			PaymentMethod: "Any Card",
			EMIPerMonth:   plan.EMIPerMonth,
			TenureMonths:  plan.TenureMonths,
			TotalAmount:   plan.TotalAmount,
			ProcessingFee: plan.ProcessingFee,
			PaymentType:   PaymentEMI,
		}
	}
	return recs
}

// SelectByPreference applies the user's stated preference to the sorted
// option list and explains the pick.
func SelectByPreference(options []PaymentOption, recs Recommendations, preference string) (*PaymentOption, string) {
	var chosen *PaymentOption
	switch preference {
	case PreferenceInstantSavings:
		chosen = recs.BestInstantSavings
	case PreferenceCashback:
		chosen = recs.BestCashback
	case PreferenceEMI:
		chosen = recs.BestEMI
	default: // balanced
		for i := range options {
			if chosen == nil || options[i].TotalSavings > chosen.TotalSavings {
				chosen = &options[i]
			}
		}
	}
	if chosen == nil && len(options) > 0 {
		chosen = &options[0]
	}
	return chosen, explainChoice(chosen, preference)
}

// FilterByCards keeps only options on the user's banks, plus the baseline.
func FilterByCards(options []PaymentOption, banks []string) []PaymentOption {
	if len(banks) == 0 {
		return options
	}
	filtered := make([]PaymentOption, 0, len(options))
	for _, opt := range options {
		if opt.PaymentMethod == "Any Card/Cash" {
			filtered = append(filtered, opt)
			continue
		}
		for _, bank := range banks {
			if strings.Contains(strings.ToLower(opt.PaymentMethod), strings.ToLower(bank)) {
				filtered = append(filtered, opt)
				break
			}
		}
	}
	return filtered
}

func explainChoice(opt *PaymentOption, preference string) string {
	if opt == nil {
		return "No specific recommendation available. Choose based on your preference."
	}
	var reasons []string
	switch preference {
	case PreferenceInstantSavings:
		reasons = append(reasons, "Maximizes immediate savings")
		if opt.AdditionalSavings > 0 {
			reasons = append(reasons, fmt.Sprintf("Save Rs. %.2f instantly", opt.AdditionalSavings))
		}
	case PreferenceEMI:
		reasons = append(reasons, "Spreads payment over time")
		if opt.EMIPerMonth > 0 {
			reasons = append(reasons, fmt.Sprintf("Affordable EMI of Rs. %.2f/month", opt.EMIPerMonth))
		}
	default:
		if opt.TotalSavings > 0 {
			reasons = append(reasons, fmt.Sprintf("Best overall value with Rs. %.2f total savings", opt.TotalSavings))
		}
	}
	if opt.PaymentType == PaymentEMI && opt.TotalInterest == 0 {
		reasons = append(reasons, "Zero interest (No Cost EMI)")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "Best available option")
	}
	return strings.Join(reasons, ". ") + "."
}

func savingsPercent(savings, mrp float64) float64 {
	if mrp <= 0 {
		return 0
	}
	return round2(savings / mrp * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
