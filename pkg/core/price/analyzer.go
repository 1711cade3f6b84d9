// Package price tracks price history: trend classification, buy/wait
// recommendations with chart-ready series, and discount/flash-deal
// discovery across the catalog.
package price

import (
	"context"
	"fmt"
	"math"
	"time"

	"shopagent/pkg/core/cache"
	"shopagent/pkg/core/catalog"
	"shopagent/pkg/core/llm"
	"shopagent/pkg/core/prompt"
	"shopagent/pkg/core/result"
	"shopagent/pkg/core/utils"

	"go.uber.org/zap"
)

const (
	historyDays   = 30
	llmTimeout    = 25 * time.Second
	historyReturn = 10
)

// Analyzer is the price tracking agent.
type Analyzer struct {
	store    catalog.Store
	cache    cache.Cache
	provider llm.Provider
	log      *zap.Logger
}

func NewAnalyzer(store catalog.Store, c cache.Cache, provider llm.Provider, log *zap.Logger) *Analyzer {
	return &Analyzer{store: store, cache: c, provider: provider, log: log}
}

// Analyze computes the 30-day price picture for a product. Results are
// cached for 3 minutes; prices move faster than reviews.
func (a *Analyzer) Analyze(ctx context.Context, productID int64) result.Result[Analysis] {
	key := fmt.Sprintf("price_analysis_%d", productID)
	var cached Analysis
	if a.cache.Get(ctx, key, &cached) {
		return result.Ok(cached)
	}

	product, err := a.store.Product(ctx, productID)
	if err != nil {
		return result.Failed[Analysis](fmt.Sprintf("product %d not found", productID))
	}

	points, err := a.store.PriceHistory(ctx, productID, historyDays)
	if err != nil {
		return result.Failed[Analysis](fmt.Sprintf("load price history: %v", err))
	}
	history := toEntries(points)

	trend := ComputeTrend(history, product.Price)

	analysis := Analysis{
		ProductID:      productID,
		ProductName:    product.Name,
		PriceData:      trend,
		History:        headEntries(history, historyReturn),
		Recommendation: trend.Recommendation,
		Confidence:     Confidence(trend),
	}
	analysis.AIRecommendation = a.narrate(ctx, product.Name, trend)

	a.cache.Set(ctx, key, analysis)
	return result.Ok(analysis)
}

// ComputeTrend derives statistics and the buy/wait call from a newest-first
// history. currentPrice comes from the product record, not history, which
// may lag the live price.
func ComputeTrend(history []HistoryEntry, currentPrice float64) TrendData {
	if len(history) == 0 {
		return TrendData{
			CurrentPrice:   currentPrice,
			Trend:          TrendUnknown,
			Recommendation: RecommendWait,
		}
	}

	sum, minPrice, maxPrice := 0.0, history[0].Price, history[0].Price
	for _, h := range history {
		sum += h.Price
		if h.Price < minPrice {
			minPrice = h.Price
		}
		if h.Price > maxPrice {
			maxPrice = h.Price
		}
	}
	avgPrice := sum / float64(len(history))

	trend := TrendInsufficientData
	if len(history) >= 14 {
		recentAvg := meanOf(history[:7])
		olderAvg := meanOf(history[7:14])
		switch {
		case recentAvg < olderAvg*0.95:
			trend = TrendDecreasing
		case recentAvg > olderAvg*1.05:
			trend = TrendIncreasing
		default:
			trend = TrendStable
		}
	}

	// Change measured from the 30-day high.
	priceChangePct := 0.0
	if maxPrice > 0 {
		priceChangePct = (currentPrice - maxPrice) / maxPrice * 100
	}

	recommendation := RecommendGoodTime
	switch {
	case currentPrice <= minPrice*1.05:
		recommendation = RecommendBuyNow
	case trend == TrendDecreasing:
		recommendation = RecommendWait
	case currentPrice >= avgPrice:
		recommendation = RecommendWait
	}

	return TrendData{
		CurrentPrice:   currentPrice,
		AveragePrice:   math.Round(avgPrice*100) / 100,
		MinPrice:       minPrice,
		MaxPrice:       maxPrice,
		Trend:          trend,
		PriceChangePct: math.Round(priceChangePct*100) / 100,
		Recommendation: recommendation,
		DataPoints:     len(history),
		ChartData:      BuildChart(history, currentPrice, math.Round(avgPrice*100)/100, minPrice, maxPrice),
	}
}

// Confidence: high needs a solid sample and a near-minimum price; medium
// just a decent sample.
func Confidence(trend TrendData) string {
	switch {
	case trend.DataPoints >= 20 && trend.CurrentPrice <= trend.MinPrice*1.05:
		return ConfidenceHigh
	case trend.DataPoints >= 10:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func (a *Analyzer) narrate(ctx context.Context, productName string, trend TrendData) string {
	promptText, err := prompt.Render(prompt.IDPrice, map[string]any{
		"ProductName":    productName,
		"CurrentPrice":   fmt.Sprintf("₹%.0f", trend.CurrentPrice),
		"AveragePrice":   fmt.Sprintf("₹%.0f", trend.AveragePrice),
		"MinPrice":       fmt.Sprintf("₹%.0f", trend.MinPrice),
		"MaxPrice":       fmt.Sprintf("₹%.0f", trend.MaxPrice),
		"Trend":          trend.Trend,
		"PriceChangePct": fmt.Sprintf("%.1f", trend.PriceChangePct),
		"DataPoints":     trend.DataPoints,
		"Recommendation": trend.Recommendation,
	})
	if err != nil {
		return FallbackNarrative(trend)
	}

	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	text, err := a.provider.Generate(ctx, promptText, "", llm.Options{Temperature: 0.7, MaxTokens: 200})
	if err != nil {
		a.log.Warn("price narrative falling back", zap.String("agent", "price"), zap.Error(err))
		return FallbackNarrative(trend)
	}
	if cleaned := utils.CleanNarrative(text); cleaned != "" && utils.ValidMarkdown(cleaned) {
		return cleaned
	}
	return FallbackNarrative(trend)
}

// FallbackNarrative is the rule-based narration used when the LLM is
// unavailable.
func FallbackNarrative(trend TrendData) string {
	switch trend.Recommendation {
	case RecommendBuyNow:
		return fmt.Sprintf("BUY NOW! Price is at ₹%.0f, which is near the all-time low. This is an excellent time to purchase.", trend.CurrentPrice)
	case RecommendGoodTime:
		return fmt.Sprintf("GOOD DEAL! Current price (₹%.0f) is below the 30-day average (₹%.0f). Fair time to buy.", trend.CurrentPrice, trend.AveragePrice)
	default:
		return fmt.Sprintf("WAIT! Price is currently ₹%.0f, which is above average. Consider waiting for a better deal.", trend.CurrentPrice)
	}
}

func toEntries(points []catalog.PricePoint) []HistoryEntry {
	entries := make([]HistoryEntry, len(points))
	for i, p := range points {
		entries[i] = HistoryEntry{Price: p.Price, Date: p.RecordedAt.Format(time.RFC3339)}
	}
	return entries
}

func headEntries(entries []HistoryEntry, n int) []HistoryEntry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}

func meanOf(entries []HistoryEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range entries {
		sum += e.Price
	}
	return sum / float64(len(entries))
}
