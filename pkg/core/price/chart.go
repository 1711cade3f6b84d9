package price

import (
	"math"
	"math/rand"
	"time"
)

// ChartData is a frontend-ready line chart: oldest-first labels, the price
// series, a constant average overlay, and current/lowest/highest markers.
type ChartData struct {
	Type     string            `json:"type"`
	Labels   []string          `json:"labels"`
	Datasets []Dataset         `json:"datasets"`
	Markers  map[string]Marker `json:"markers"`
}

type Dataset struct {
	Label       string    `json:"label"`
	Data        []float64 `json:"data"`
	BorderColor string    `json:"borderColor"`
	BorderDash  []int     `json:"borderDash,omitempty"`
	Fill        bool      `json:"fill"`
}

type Marker struct {
	Value float64 `json:"value"`
	Color string  `json:"color"`
	Label string  `json:"label"`
}

// BuildChart renders history (given newest-first) into chart form.
func BuildChart(history []HistoryEntry, currentPrice, avgPrice, minPrice, maxPrice float64) *ChartData {
	// Oldest first for the x-axis.
	labels := make([]string, len(history))
	prices := make([]float64, len(history))
	for i, h := range history {
		j := len(history) - 1 - i
		labels[j] = h.Date
		if len(h.Date) >= 10 {
			labels[j] = h.Date[:10]
		}
		prices[j] = h.Price
	}

	avgLine := make([]float64, len(labels))
	for i := range avgLine {
		avgLine[i] = avgPrice
	}

	return &ChartData{
		Type:   "line",
		Labels: labels,
		Datasets: []Dataset{
			{Label: "Price History", Data: prices, BorderColor: "#3b82f6", Fill: true},
			{Label: "30-Day Average", Data: avgLine, BorderColor: "#10b981", BorderDash: []int{5, 5}},
		},
		Markers: map[string]Marker{
			"current_price": {Value: currentPrice, Color: "#ef4444", Label: "Current"},
			"lowest_price":  {Value: minPrice, Color: "#22c55e", Label: "Lowest"},
			"highest_price": {Value: maxPrice, Color: "#f59e0b", Label: "Highest"},
		},
	}
}

// SyntheticChart fabricates a 30-day series around the current price when a
// product has no recorded history; the UI contract always needs a series to
// render. Prices walk within +/-5% of base. The generator is seeded with the
// product ID so repeated calls produce identical charts.
func SyntheticChart(productID int64, currentPrice float64, now time.Time) *ChartData {
	rng := rand.New(rand.NewSource(productID))
	labels := make([]string, 0, 30)
	prices := make([]float64, 0, 30)
	for i := 30; i > 0; i-- {
		day := now.AddDate(0, 0, -i)
		variation := (rng.Float64() - 0.5) * 0.1 // uniform in [-0.05, 0.05]
		price := math.Round(currentPrice*(1+variation)*100) / 100
		labels = append(labels, day.Format("2006-01-02"))
		prices = append(prices, price)
	}

	avgLine := make([]float64, len(labels))
	for i := range avgLine {
		avgLine[i] = currentPrice
	}

	return &ChartData{
		Type:   "line",
		Labels: labels,
		Datasets: []Dataset{
			{Label: "Price History", Data: prices, BorderColor: "#3b82f6", Fill: true},
			{Label: "30-Day Average", Data: avgLine, BorderColor: "#10b981", BorderDash: []int{5, 5}},
		},
		Markers: map[string]Marker{
			"current_price": {Value: currentPrice, Color: "#ef4444", Label: "Current"},
		},
	}
}
