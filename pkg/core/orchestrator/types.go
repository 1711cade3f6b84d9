package orchestrator

import (
	"shopagent/pkg/core/buyplan"
	"shopagent/pkg/core/catalog"
	"shopagent/pkg/core/compare"
	"shopagent/pkg/core/price"
)

// Request is the orchestration input.
type Request struct {
	Query          string   `json:"query"`
	Category       string   `json:"category,omitempty"`
	MinPrice       *float64 `json:"min_price,omitempty"`
	MaxPrice       *float64 `json:"max_price,omitempty"`
	TopN           int      `json:"top_n,omitempty"`
	UserPreference string   `json:"user_preference,omitempty"`
	UserCards      []string `json:"user_cards,omitempty"`
}

// Response is the frontend-ready orchestration result.
type Response struct {
	Success              bool               `json:"success"`
	Error                string             `json:"error,omitempty"`
	Query                string             `json:"query"`
	Timestamp            string             `json:"timestamp,omitempty"`
	ExecutionTimeSeconds float64            `json:"execution_time_seconds"`
	Summary              *ExecutiveSummary  `json:"summary,omitempty"`
	Products             []FormattedProduct `json:"products,omitempty"`
	Comparison           *ComparisonBlock   `json:"comparison,omitempty"`
	BuyPlan              *BuyPlanBlock      `json:"buy_plan,omitempty"`
	Metadata             *Metadata          `json:"metadata,omitempty"`
}

// ExecutiveSummary is the top-of-response digest.
type ExecutiveSummary struct {
	TotalProductsFound int     `json:"total_products_found"`
	TopRecommendation  string  `json:"top_recommendation"`
	TopPrice           float64 `json:"top_price"`
	TopRating          float64 `json:"top_rating"`
	AIRecommendation   string  `json:"ai_recommendation"`
}

// FormattedProduct is one product with its analysis sections.
type FormattedProduct struct {
	Rank           int          `json:"rank"`
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	Brand          string       `json:"brand"`
	Pricing        PricingBlock `json:"pricing"`
	Ratings        RatingsBlock `json:"ratings"`
	ReviewAnalysis ReviewBlock  `json:"review_analysis"`
	PriceTracking  PriceBlock   `json:"price_tracking"`
}

type PricingBlock struct {
	CurrentPrice    float64 `json:"current_price"`
	MRP             float64 `json:"mrp"`
	DiscountPercent float64 `json:"discount_percent"`
	YouSave         float64 `json:"you_save"`
	InStock         bool    `json:"in_stock"`
}

type RatingsBlock struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
	RatingBadge   string  `json:"rating_badge"`
}

// ReviewBlock is explicit about availability so the UI never guesses.
type ReviewBlock struct {
	Available         bool                `json:"available"`
	Error             string              `json:"error,omitempty"`
	Sentiment         string              `json:"sentiment"`
	SentimentEmoji    string              `json:"sentiment_emoji"`
	TrustScore        float64             `json:"trust_score"`
	TrustScorePercent string              `json:"trust_score_percent"`
	Pros              []string            `json:"pros"`
	Cons              []string            `json:"cons"`
	Summary           string              `json:"summary"`
	TopPro            string              `json:"top_pro"`
	TopCon            string              `json:"top_con"`
	Statistics        catalog.ReviewStats `json:"statistics"`
	FullAnalysis      string              `json:"full_analysis"`
}

type PriceBlock struct {
	Available           bool             `json:"available"`
	Error               string           `json:"error,omitempty"`
	Recommendation      string           `json:"recommendation"`
	RecommendationBadge string           `json:"recommendation_badge"`
	CurrentPrice        float64          `json:"current_price"`
	AveragePrice        float64          `json:"average_price"`
	LowestPrice         float64          `json:"lowest_price"`
	HighestPrice        float64          `json:"highest_price"`
	PriceTrend          string           `json:"price_trend"`
	PriceChangePercent  float64          `json:"price_change_percent"`
	AIRecommendation    string           `json:"ai_recommendation"`
	Confidence          string           `json:"confidence"`
	ChartData           *price.ChartData `json:"chart_data"`
	DataPoints          int              `json:"data_points"`
	HistoryDays         int              `json:"history_days"`
}

// WinnerEntry carries both the display string and the raw numeric value.
type WinnerEntry struct {
	ProductName string  `json:"product_name"`
	Value       string  `json:"value"`
	Raw         float64 `json:"raw"`
	Reason      string  `json:"reason"`
}

type CategoryWinners struct {
	BestPrice  WinnerEntry `json:"best_price"`
	BestRating WinnerEntry `json:"best_rating"`
	BestValue  WinnerEntry `json:"best_value"`
}

type ComparisonBlock struct {
	Available       bool                 `json:"available"`
	Error           string               `json:"error,omitempty"`
	WinnerName      string               `json:"winner_name,omitempty"`
	WinnerID        int64                `json:"winner_id,omitempty"`
	WinnerReason    string               `json:"winner_reason,omitempty"`
	CategoryWinners *CategoryWinners     `json:"category_winners,omitempty"`
	Differences     *compare.Differences `json:"differences,omitempty"`
	AIComparison    string               `json:"ai_comparison,omitempty"`
	FrontendTable   *compare.TableData   `json:"frontend_table,omitempty"`
	Battle          *compare.Battle      `json:"battle,omitempty"`
}

type BuyPlanBlock struct {
	Available       bool                     `json:"available"`
	Error           string                   `json:"error,omitempty"`
	ProductName     string                   `json:"product_name,omitempty"`
	ProductPrice    float64                  `json:"product_price,omitempty"`
	EMIEligible     bool                     `json:"emi_eligible"`
	PaymentOptions  []buyplan.PaymentOption  `json:"payment_options,omitempty"`
	RegularEMIPlans []buyplan.EMIPlan        `json:"regular_emi_plans,omitempty"`
	NoCostEMIPlans  []buyplan.EMIPlan        `json:"no_cost_emi_plans,omitempty"`
	Recommendations *buyplan.Recommendations `json:"recommendations,omitempty"`
	Summary         string                   `json:"summary,omitempty"`
}

type Metadata struct {
	RequestID     string   `json:"request_id"`
	AgentsUsed    []string `json:"agents_used"`
	TotalAgents   int      `json:"total_agents"`
	ExecutionType string   `json:"execution_type"`
	LLMModel      string   `json:"llm_model"`
}
