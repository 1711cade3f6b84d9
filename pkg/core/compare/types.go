package compare

// Comparison styles.
const (
	StyleTable    = "table"
	StyleBattle   = "battle"
	StyleWinner   = "winner"
	StyleDetailed = "detailed"
	StyleUseCase  = "use_case"
)

// Product is a comparison participant.
type Product struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Brand          string            `json:"brand"`
	Model          string            `json:"model"`
	Category       string            `json:"category"`
	Subcategory    string            `json:"subcategory"`
	Price          float64           `json:"price"`
	MRP            *float64          `json:"mrp"`
	DiscountPct    float64           `json:"discount_pct"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"review_count"`
	InStock        bool              `json:"in_stock"`
	Description    string            `json:"description"`
	Specifications map[string]string `json:"specifications"`
	Features       []string          `json:"features"`
}

// ValueScore is the best-overall metric: (rating x review_count) /
// (price / 1000).
func (p Product) ValueScore() float64 {
	if p.Price <= 0 {
		return 0
	}
	return p.Rating * float64(p.ReviewCount) / (p.Price / 1000)
}

// PriceAnalysis summarizes price spread across the set.
type PriceAnalysis struct {
	Cheapest         float64 `json:"cheapest"`
	MostExpensive    float64 `json:"most_expensive"`
	PriceDifference  float64 `json:"price_difference"`
	CheapestProduct  string  `json:"cheapest_product"`
	ExpensiveProduct string  `json:"expensive_product"`
}

type RatingAnalysis struct {
	HighestRated float64 `json:"highest_rated"`
	LowestRated  float64 `json:"lowest_rated"`
	BestProduct  string  `json:"best_product"`
	WorstProduct string  `json:"worst_product"`
}

type DiscountAnalysis struct {
	BestDiscount    float64 `json:"best_discount"`
	WorstDiscount   float64 `json:"worst_discount"`
	BestDealProduct string  `json:"best_deal_product"`
}

// Differences is the computed comparison block.
type Differences struct {
	PriceAnalysis    PriceAnalysis                `json:"price_analysis"`
	RatingAnalysis   RatingAnalysis               `json:"rating_analysis"`
	DiscountAnalysis DiscountAnalysis             `json:"discount_analysis"`
	SpecComparison   map[string]map[string]string `json:"specification_comparison"`
	ProductCount     int                          `json:"product_count"`
}

// Winner names a category winner with a pre-formatted value and reason.
type Winner struct {
	Product string `json:"product"`
	Value   string `json:"value"`
	Reason  string `json:"reason"`
}

// Winners holds the fixed winner categories.
type Winners struct {
	BestPrice   Winner `json:"best_price"`
	BestValue   Winner `json:"best_value"`
	BestRating  Winner `json:"best_rating"`
	MostPopular Winner `json:"most_popular"`
	BestOverall Winner `json:"best_overall"`
}

// Cell is one frontend table cell with rendering hints.
type Cell struct {
	Value string `json:"value"`
	Raw   any    `json:"raw"`
	Style string `json:"style"`
	Color string `json:"color,omitempty"`
}

// Column describes one frontend table column.
type Column struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Width     int    `json:"width"`
	ProductID int64  `json:"product_id,omitempty"`
}

// TableData is the structured comparison table for frontend rendering.
type TableData struct {
	Columns         []Column          `json:"columns"`
	Rows            []map[string]any  `json:"rows"`
	Winners         Winners           `json:"winners"`
	Recommendations map[string]string `json:"recommendations"`
	TotalProducts   int               `json:"total_products"`
	AIAnalysis      string            `json:"ai_analysis,omitempty"`
}

// Round is one battle round.
type Round struct {
	Name   string            `json:"name"`
	Values map[string]string `json:"values"`
	Winner string            `json:"winner"`
	Reason string            `json:"reason"`
}

// Battle is the round-by-round rendering for exactly two products.
type Battle struct {
	Rounds []Round `json:"rounds"`
	Winner string  `json:"winner"` // empty on tie
	Tie    bool    `json:"tie"`
	Text   string  `json:"text"`
}

// Comparison is the comparator agent's output.
type Comparison struct {
	Products      []Product   `json:"products"`
	Differences   Differences `json:"differences"`
	Winners       Winners     `json:"winners"`
	StyledOutput  string      `json:"comparison_output,omitempty"`
	Battle        *Battle     `json:"battle,omitempty"`
	FrontendTable *TableData  `json:"frontend_table,omitempty"`
	AIAnalysis    string      `json:"ai_analysis"`
	Style         string      `json:"comparison_style"`
}
