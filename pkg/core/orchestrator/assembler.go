package orchestrator

import (
	"fmt"
	"time"

	"shopagent/pkg/core/buyplan"
	"shopagent/pkg/core/compare"
	"shopagent/pkg/core/price"
	"shopagent/pkg/core/result"
	"shopagent/pkg/core/review"
	"shopagent/pkg/core/search"
)

// Display names reported in response metadata.
var agentNames = []string{
	"Product Search",
	"Review Analyzer",
	"Price Tracker",
	"Comparison Specialist",
	"Buy Plan Optimizer",
}

// assemble normalizes the gathered agent outcomes into the final response
// shape. Products keep retrieval order; per-product results attach by ID.
func (o *Orchestrator) assemble(query, requestID string, products []search.ProductDetail, g *gather) *Response {
	formatted := make([]FormattedProduct, 0, len(products))
	for i, p := range products {
		formatted = append(formatted, FormattedProduct{
			Rank:  i + 1,
			ID:    p.ID,
			Name:  p.Name,
			Brand: p.Brand,
			Pricing: PricingBlock{
				CurrentPrice:    p.Price,
				MRP:             p.MRP,
				DiscountPercent: p.DiscountPercent,
				YouSave:         p.MRP - p.Price,
				InStock:         p.InStock,
			},
			Ratings: RatingsBlock{
				AverageRating: p.Rating,
				TotalReviews:  p.ReviewCount,
				RatingBadge:   ratingBadge(p.Rating),
			},
			ReviewAnalysis: reviewBlock(g.reviews[p.ID]),
			PriceTracking:  priceBlock(p, g.prices[p.ID], o.now()),
		})
	}

	resp := &Response{
		Success:    true,
		Query:      query,
		Timestamp:  o.now().UTC().Format(time.RFC3339),
		Products:   formatted,
		Comparison: comparisonBlock(g.compared),
		BuyPlan:    buyPlanBlock(g.plan),
		Metadata: &Metadata{
			RequestID:     requestID,
			AgentsUsed:    agentNames,
			TotalAgents:   len(agentNames),
			ExecutionType: "parallel",
			LLMModel:      o.modelName,
		},
	}
	resp.Summary = executiveSummary(query, products)
	return resp
}

func executiveSummary(query string, products []search.ProductDetail) *ExecutiveSummary {
	summary := &ExecutiveSummary{TotalProductsFound: len(products)}
	if len(products) == 0 {
		summary.TopRecommendation = "N/A"
		summary.AIRecommendation = fmt.Sprintf("No products found for '%s'.", query)
		return summary
	}
	top := products[0]
	summary.TopRecommendation = top.Name
	summary.TopPrice = top.Price
	summary.TopRating = top.Rating

	text := fmt.Sprintf("Based on your search for '%s', I recommend the %s at ₹%.0f. ", query, top.Name, top.Price)
	if top.Rating > 0 {
		text += fmt.Sprintf("It has a rating of %.1f/5 stars. ", top.Rating)
	}
	if len(products) > 1 {
		text += fmt.Sprintf("I've also analyzed %d alternative options for comparison. ", len(products)-1)
	}
	text += "Check the detailed analysis above for reviews, price trends, and payment options."
	summary.AIRecommendation = text
	return summary
}

func reviewBlock(res result.Result[review.Analysis]) ReviewBlock {
	if !res.IsOk() {
		return ReviewBlock{
			Available: false,
			Error:     res.Reason,
			Sentiment: "N/A",
			Pros:      []string{},
			Cons:      []string{},
			TopPro:    "No pros available",
			TopCon:    "No cons mentioned",
		}
	}
	a := res.Value
	block := ReviewBlock{
		Available:         true,
		Sentiment:         a.Sentiment,
		SentimentEmoji:    sentimentEmoji(a.Sentiment),
		TrustScore:        a.TrustScore,
		TrustScorePercent: fmt.Sprintf("%.0f%%", a.TrustScore*100),
		Pros:              a.Pros,
		Cons:              a.Cons,
		Summary:           a.Summary,
		Statistics:        a.Statistics,
		FullAnalysis:      a.FullAnalysis,
		TopPro:            "No pros available",
		TopCon:            "No cons mentioned",
	}
	if len(a.Pros) > 0 {
		block.TopPro = a.Pros[0]
	}
	if len(a.Cons) > 0 {
		block.TopCon = a.Cons[0]
	}
	return block
}

// priceBlock always carries chart data: when the agent produced none (no
// history, timeout, failure) a synthetic 30-day series around the current
// price keeps the UI contract intact, distinguishable by history_days=0.
func priceBlock(p search.ProductDetail, res result.Result[price.Analysis], now time.Time) PriceBlock {
	if !res.IsOk() {
		return PriceBlock{
			Available:           false,
			Error:               res.Reason,
			Recommendation:      "N/A",
			RecommendationBadge: priceBadge(price.RecommendWait),
			CurrentPrice:        p.Price,
			AveragePrice:        p.Price,
			LowestPrice:         p.Price,
			HighestPrice:        p.Price,
			PriceTrend:          price.TrendStable,
			Confidence:          price.ConfidenceMedium,
			ChartData:           price.SyntheticChart(p.ID, p.Price, now),
			DataPoints:          30,
			HistoryDays:         0,
		}
	}

	a := res.Value
	block := PriceBlock{
		Available:           true,
		Recommendation:      a.Recommendation,
		RecommendationBadge: priceBadge(a.Recommendation),
		CurrentPrice:        a.PriceData.CurrentPrice,
		AveragePrice:        a.PriceData.AveragePrice,
		LowestPrice:         a.PriceData.MinPrice,
		HighestPrice:        a.PriceData.MaxPrice,
		PriceTrend:          a.PriceData.Trend,
		PriceChangePercent:  a.PriceData.PriceChangePct,
		AIRecommendation:    a.AIRecommendation,
		Confidence:          a.Confidence,
		ChartData:           a.PriceData.ChartData,
		DataPoints:          a.PriceData.DataPoints,
		HistoryDays:         a.PriceData.DataPoints,
	}
	if block.ChartData == nil || len(block.ChartData.Labels) == 0 {
		block.ChartData = price.SyntheticChart(p.ID, p.Price, now)
		block.DataPoints = 30
		block.HistoryDays = 0
	}
	return block
}

func comparisonBlock(res result.Result[compare.Comparison]) *ComparisonBlock {
	if res.Status == result.StatusSkipped {
		// top_n=1: comparison is simply omitted, not an error.
		return nil
	}
	if !res.IsOk() {
		return &ComparisonBlock{Available: false, Error: res.Reason}
	}

	c := res.Value
	block := &ComparisonBlock{
		Available:     true,
		WinnerName:    c.Winners.BestOverall.Product,
		WinnerReason:  c.Winners.BestOverall.Reason,
		Differences:   &c.Differences,
		AIComparison:  c.AIAnalysis,
		FrontendTable: c.FrontendTable,
		Battle:        c.Battle,
	}

	var minPrice, maxRating, maxDiscount float64
	if len(c.Products) > 0 {
		minPrice = c.Products[0].Price
		for _, p := range c.Products {
			if p.Price < minPrice {
				minPrice = p.Price
			}
			if p.Rating > maxRating {
				maxRating = p.Rating
			}
			if p.DiscountPct > maxDiscount {
				maxDiscount = p.DiscountPct
			}
			if p.Name == c.Winners.BestOverall.Product {
				block.WinnerID = p.ID
			}
		}
	}

	block.CategoryWinners = &CategoryWinners{
		BestPrice: WinnerEntry{
			ProductName: c.Winners.BestPrice.Product,
			Value:       c.Winners.BestPrice.Value,
			Raw:         minPrice,
			Reason:      c.Winners.BestPrice.Reason,
		},
		BestRating: WinnerEntry{
			ProductName: c.Winners.BestRating.Product,
			Value:       c.Winners.BestRating.Value,
			Raw:         maxRating,
			Reason:      c.Winners.BestRating.Reason,
		},
		BestValue: WinnerEntry{
			ProductName: c.Winners.BestValue.Product,
			Value:       c.Winners.BestValue.Value,
			Raw:         maxDiscount,
			Reason:      c.Winners.BestValue.Reason,
		},
	}
	return block
}

func buyPlanBlock(res result.Result[buyplan.Plan]) *BuyPlanBlock {
	if !res.IsOk() {
		return &BuyPlanBlock{Available: false, Error: res.Reason}
	}
	plan := res.Value
	return &BuyPlanBlock{
		Available:       true,
		ProductName:     plan.ProductName,
		ProductPrice:    plan.ProductPrice,
		EMIEligible:     plan.EMIEligible,
		PaymentOptions:  plan.PaymentOptions,
		RegularEMIPlans: plan.RegularEMIPlans,
		NoCostEMIPlans:  plan.NoCostEMIPlans,
		Recommendations: &plan.Recommendations,
		Summary:         plan.Summary,
	}
}

// Rating badge thresholds per the response contract.
func ratingBadge(rating float64) string {
	switch {
	case rating >= 4.5:
		return "⭐ Excellent"
	case rating >= 4.0:
		return "👍 Very Good"
	case rating >= 3.5:
		return "✅ Good"
	case rating >= 3.0:
		return "⚠️ Average"
	default:
		return "❌ Below Average"
	}
}

func sentimentEmoji(sentiment string) string {
	switch sentiment {
	case review.SentimentPositive:
		return "😊 Positive"
	case review.SentimentNegative:
		return "😞 Negative"
	default:
		return "😐 Neutral"
	}
}

func priceBadge(recommendation string) string {
	switch recommendation {
	case price.RecommendBuyNow:
		return "🟢 Buy Now"
	case price.RecommendGoodTime:
		return "🟡 Good Deal"
	default:
		return "🔴 Wait"
	}
}
