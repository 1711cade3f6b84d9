// Package buyplan optimizes how to pay for a product: card offers, EMI
// schedules, best-in-class selections and a preference-aware
// recommendation.
package buyplan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopagent/pkg/core/catalog"
	"shopagent/pkg/core/llm"
	"shopagent/pkg/core/prompt"
	"shopagent/pkg/core/result"
	"shopagent/pkg/core/utils"

	"go.uber.org/zap"
)

const llmTimeout = 8 * time.Second

// Optimizer is the buy-plan agent.
type Optimizer struct {
	store    catalog.Store
	provider llm.Provider
	log      *zap.Logger
	now      func() time.Time
}

func NewOptimizer(store catalog.Store, provider llm.Provider, log *zap.Logger) *Optimizer {
	return &Optimizer{store: store, provider: provider, log: log, now: time.Now}
}

// CreatePlan builds the full purchase plan for a product. userCards, when
// non-empty, restricts options to banks the user actually holds.
func (o *Optimizer) CreatePlan(ctx context.Context, productID int64, preference string, userCards []string) result.Result[Plan] {
	if preference == "" {
		preference = PreferenceBalanced
	}

	product, err := o.store.Product(ctx, productID)
	if err != nil {
		return result.Failed[Plan]("Product not found")
	}

	offers, err := o.store.ActiveOffers(ctx, productID)
	if err != nil {
		return result.Failed[Plan](fmt.Sprintf("load offers: %v", err))
	}

	price := product.Price
	mrp := product.MRPOrPrice()

	options := BuildPaymentOptions(price, mrp, offers, o.now())
	options = FilterByCards(options, userCards)

	var regular, noCost []EMIPlan
	if EMIEligible(price) {
		regular = RegularEMIPlans(price)
		noCost = NoCostEMIPlans(price)
	}

	recs := BestSelections(options, noCost)
	recommended, reason := SelectByPreference(options, recs, preference)
	recs.AIRecommendation = o.narrate(ctx, product, recs, preference, reason)

	plan := Plan{
		ProductID:       productID,
		ProductName:     product.Name,
		ProductPrice:    price,
		ProductMRP:      mrp,
		EMIEligible:     EMIEligible(price),
		PaymentOptions:  options,
		RegularEMIPlans: regular,
		NoCostEMIPlans:  noCost,
		Recommendations: recs,
		Recommended:     recommended,
		RecommendReason: reason,
	}
	plan.Summary = buildSummary(plan)
	return result.Ok(plan)
}

func (o *Optimizer) narrate(ctx context.Context, product *catalog.Product, recs Recommendations, preference, fallbackReason string) string {
	var lines strings.Builder
	if opt := recs.BestInstantSavings; opt != nil {
		fmt.Fprintf(&lines, "1. INSTANT SAVINGS: %s\n   Final Price: Rs. %.2f\n   You Save: Rs. %.2f\n\n",
			opt.OptionName, opt.FinalPrice, opt.AdditionalSavings)
	}
	if opt := recs.BestCashback; opt != nil {
		fmt.Fprintf(&lines, "2. CASHBACK: %s\n   Cashback: Rs. %.2f\n   Effective Price: Rs. %.2f\n\n",
			opt.OptionName, opt.CashbackAmount, opt.EffectivePrice)
	}
	if opt := recs.BestEMI; opt != nil {
		fmt.Fprintf(&lines, "3. EMI: %s\n   EMI: Rs. %.2f/month x %d months\n\n",
			opt.OptionName, opt.EMIPerMonth, opt.TenureMonths)
	}

	promptText, err := prompt.Render(prompt.IDBuyPlan, map[string]any{
		"ProductName": product.Name,
		"Price":       fmt.Sprintf("%.2f", product.Price),
		"MRP":         fmt.Sprintf("%.2f", product.MRPOrPrice()),
		"OptionLines": lines.String(),
		"Preference":  preference,
	})
	if err != nil {
		return fallbackReason
	}

	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	text, err := o.provider.Generate(ctx, promptText,
		"You are a helpful financial advisor specializing in purchase optimization. Be concise and practical.",
		llm.Options{Temperature: 0.7, MaxTokens: 200})
	if err != nil {
		o.log.Warn("buy-plan narrative falling back", zap.String("agent", "buyplan"), zap.Error(err))
		return fallbackReason
	}
	if cleaned := utils.CleanNarrative(text); cleaned != "" && utils.ValidMarkdown(cleaned) {
		return cleaned
	}
	return fallbackReason
}

func buildSummary(plan Plan) string {
	var sb strings.Builder
	sb.WriteString("PURCHASE PLAN SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&sb, "\nProduct: %s\nPrice: Rs. %.2f\n", plan.ProductName, plan.ProductPrice)

	if opt := plan.Recommendations.BestInstantSavings; opt != nil {
		fmt.Fprintf(&sb, "\nBest Instant Savings:\n  %s\n  Final Price: Rs. %.2f\n  You Save: Rs. %.2f\n",
			opt.OptionName, opt.FinalPrice, opt.AdditionalSavings)
	}
	if opt := plan.Recommendations.BestCashback; opt != nil {
		fmt.Fprintf(&sb, "\nBest Cashback:\n  %s\n  Cashback: Rs. %.2f\n  (Credited in 90 days)\n",
			opt.OptionName, opt.CashbackAmount)
	}
	if opt := plan.Recommendations.BestEMI; opt != nil {
		fmt.Fprintf(&sb, "\nBest EMI Option:\n  %s\n  Rs. %.2f/month x %d months\n",
			opt.OptionName, opt.EMIPerMonth, opt.TenureMonths)
	}

	fmt.Fprintf(&sb, "\nRECOMMENDATION:\n  %s\n", plan.Recommendations.AIRecommendation)
	sb.WriteString("\n" + strings.Repeat("=", 50))
	return sb.String()
}
