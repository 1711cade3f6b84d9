package price

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

// entries builds newest-first entries at the given prices.
func entries(prices ...float64) []HistoryEntry {
	out := make([]HistoryEntry, len(prices))
	for i, p := range prices {
		out[i] = HistoryEntry{Price: p, Date: fmt.Sprintf("2026-07-%02dT00:00:00Z", 30-i)}
	}
	return out
}

func repeated(price float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}

func TestComputeTrendEmptyHistory(t *testing.T) {
	trend := ComputeTrend(nil, 999)
	if trend.Trend != TrendUnknown {
		t.Errorf("trend = %s, want unknown", trend.Trend)
	}
	if trend.Recommendation != RecommendWait {
		t.Errorf("recommendation = %s, want wait", trend.Recommendation)
	}
	if trend.CurrentPrice != 999 {
		t.Errorf("current price = %f, want 999", trend.CurrentPrice)
	}
}

func TestComputeTrendDecreasing(t *testing.T) {
	// Recent week averages 900, older week 1000: decreasing (< 0.95x).
	prices := append(repeated(900, 7), repeated(1000, 7)...)
	trend := ComputeTrend(entries(prices...), 950)
	if trend.Trend != TrendDecreasing {
		t.Errorf("trend = %s, want decreasing", trend.Trend)
	}
}

func TestComputeTrendIncreasing(t *testing.T) {
	prices := append(repeated(1100, 7), repeated(1000, 7)...)
	trend := ComputeTrend(entries(prices...), 1100)
	if trend.Trend != TrendIncreasing {
		t.Errorf("trend = %s, want increasing", trend.Trend)
	}
}

func TestComputeTrendStable(t *testing.T) {
	prices := append(repeated(1010, 7), repeated(1000, 7)...)
	trend := ComputeTrend(entries(prices...), 1000)
	if trend.Trend != TrendStable {
		t.Errorf("trend = %s, want stable", trend.Trend)
	}
}

func TestComputeTrendInsufficientData(t *testing.T) {
	trend := ComputeTrend(entries(1000, 1000, 1000), 1000)
	if trend.Trend != TrendInsufficientData {
		t.Errorf("trend = %s, want insufficient_data", trend.Trend)
	}
}

func TestRecommendationBuyNow(t *testing.T) {
	// Current within 5% of the 30-day minimum.
	trend := ComputeTrend(entries(1000, 1050, 1100, 1200), 1020)
	if trend.Recommendation != RecommendBuyNow {
		t.Errorf("recommendation = %s, want buy_now", trend.Recommendation)
	}
}

func TestRecommendationWaitAboveAverage(t *testing.T) {
	trend := ComputeTrend(entries(1000, 1100, 1200, 1300), 1300)
	if trend.Recommendation != RecommendWait {
		t.Errorf("recommendation = %s, want wait", trend.Recommendation)
	}
}

func TestRecommendationWaitWhileDecreasing(t *testing.T) {
	// Price is falling: wait even though current is below average.
	prices := append(repeated(2000, 7), repeated(3000, 7)...)
	trend := ComputeTrend(entries(prices...), 2200)
	if trend.Trend != TrendDecreasing {
		t.Fatalf("trend = %s, want decreasing", trend.Trend)
	}
	if trend.Recommendation != RecommendWait {
		t.Errorf("recommendation = %s, want wait", trend.Recommendation)
	}
}

func TestPriceChangeMeasuredFromHigh(t *testing.T) {
	trend := ComputeTrend(entries(900, 1000, 1100, 1250), 1000)
	want := (1000.0 - 1250.0) / 1250.0 * 100
	if math.Abs(trend.PriceChangePct-math.Round(want*100)/100) > 0.001 {
		t.Errorf("price change = %f, want %f", trend.PriceChangePct, want)
	}
}

func TestConfidenceLevels(t *testing.T) {
	if got := Confidence(TrendData{DataPoints: 25, CurrentPrice: 100, MinPrice: 99}); got != ConfidenceHigh {
		t.Errorf("confidence = %s, want high", got)
	}
	if got := Confidence(TrendData{DataPoints: 12, CurrentPrice: 150, MinPrice: 99}); got != ConfidenceMedium {
		t.Errorf("confidence = %s, want medium", got)
	}
	if got := Confidence(TrendData{DataPoints: 4, CurrentPrice: 150, MinPrice: 99}); got != ConfidenceLow {
		t.Errorf("confidence = %s, want low", got)
	}
}

func TestChartOldestFirst(t *testing.T) {
	history := []HistoryEntry{
		{Price: 300, Date: "2026-07-30T00:00:00Z"},
		{Price: 200, Date: "2026-07-29T00:00:00Z"},
		{Price: 100, Date: "2026-07-28T00:00:00Z"},
	}
	chart := BuildChart(history, 300, 200, 100, 300)
	if chart.Labels[0] != "2026-07-28" || chart.Labels[2] != "2026-07-30" {
		t.Errorf("labels not oldest-first: %v", chart.Labels)
	}
	if chart.Datasets[0].Data[0] != 100 || chart.Datasets[0].Data[2] != 300 {
		t.Errorf("prices not aligned with labels: %v", chart.Datasets[0].Data)
	}
	for _, v := range chart.Datasets[1].Data {
		if v != 200 {
			t.Errorf("average overlay not constant: %v", chart.Datasets[1].Data)
		}
	}
	if chart.Markers["current_price"].Value != 300 {
		t.Errorf("current marker = %v", chart.Markers["current_price"])
	}
}

func TestFallbackNarrative(t *testing.T) {
	buy := FallbackNarrative(TrendData{Recommendation: RecommendBuyNow, CurrentPrice: 999})
	if buy == "" || !contains(buy, "BUY NOW") {
		t.Errorf("buy narrative = %q", buy)
	}
	wait := FallbackNarrative(TrendData{Recommendation: RecommendWait, CurrentPrice: 999})
	if !contains(wait, "WAIT") {
		t.Errorf("wait narrative = %q", wait)
	}
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
