package search

import "shopagent/pkg/core/intent"

// Filters are the caller-supplied overrides applied on top of parsed intent.
type Filters struct {
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Limit     int
}

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Candidate is one fused retrieval hit before enrichment.
type Candidate struct {
	ProductID      int64    `json:"product_id"`
	SemanticScore  *float64 `json:"semantic_score,omitempty"`
	PredicateMatch bool     `json:"predicate_match"`
	FusedScore     float64  `json:"fused_score"`
}

// ProductDetail is a fully enriched retrieval result.
type ProductDetail struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Brand           string            `json:"brand"`
	Model           string            `json:"model"`
	Category        string            `json:"category"`
	Subcategory     string            `json:"subcategory"`
	Price           float64           `json:"price"`
	MRP             float64           `json:"mrp"`
	DiscountPercent float64           `json:"discount_percent"`
	Rating          float64           `json:"rating"`
	ReviewCount     int               `json:"review_count"`
	InStock         bool              `json:"in_stock"`
	Description     string            `json:"description"`
	Features        []string          `json:"features"`
	Specifications  map[string]string `json:"specifications"`
	KeySpecs        []string          `json:"key_specs"`
	SearchScore     float64           `json:"search_score"`
}

// Result is the search agent's response.
type Result struct {
	Query            string              `json:"query"`
	Products         []ProductDetail     `json:"products"`
	Count            int                 `json:"count"`
	Intent           intent.SearchIntent `json:"intent"`
	SearchMethod     string              `json:"search_method"`
	SemanticCount    int                 `json:"semantic_count"`
	TraditionalCount int                 `json:"traditional_count"`
	Summary          string              `json:"reasoning"`
	Recommendations  []string            `json:"recommendations"`
}
