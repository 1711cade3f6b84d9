package review

import "shopagent/pkg/core/catalog"

// Sentiment labels.
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
)

// Themes are keyword-window excerpts grouped by polarity.
type Themes struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

// Analysis is the review agent's output for one product.
type Analysis struct {
	ProductID    int64               `json:"product_id"`
	Statistics   catalog.ReviewStats `json:"statistics"`
	Sentiment    string              `json:"sentiment"`
	Pros         []string            `json:"pros"`
	Cons         []string            `json:"cons"`
	Summary      string              `json:"summary"`
	TrustScore   float64             `json:"trust_score"`
	Themes       Themes              `json:"themes"`
	FullAnalysis string              `json:"full_analysis"`
}
