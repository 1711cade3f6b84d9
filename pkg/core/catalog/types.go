package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// Product is a catalog row. Features and Specifications are stored as JSON
// text in the products table and decoded on scan.
type Product struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Brand          string            `json:"brand"`
	Model          string            `json:"model"`
	Category       string            `json:"category"`
	Subcategory    string            `json:"subcategory"`
	Price          float64           `json:"price"`
	MRP            *float64          `json:"mrp"`
	Description    string            `json:"description"`
	Features       []string          `json:"features"`
	Specifications map[string]string `json:"specifications"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"review_count"`
	InStock        bool              `json:"in_stock"`
}

// MRPOrPrice returns MRP when present, else the selling price.
func (p *Product) MRPOrPrice() float64 {
	if p.MRP != nil && *p.MRP > 0 {
		return *p.MRP
	}
	return p.Price
}

// DiscountPercent returns the derived discount, 0 when no MRP is recorded
// or MRP does not exceed the selling price.
func (p *Product) DiscountPercent() float64 {
	if p.MRP == nil || *p.MRP <= 0 || *p.MRP <= p.Price {
		return 0
	}
	pct := (*p.MRP - p.Price) / *p.MRP * 100
	return math.Round(pct*100) / 100
}

// Review is a customer review row.
type Review struct {
	ProductID        int64     `json:"product_id"`
	Rating           int       `json:"rating"`
	Text             string    `json:"text"`
	VerifiedPurchase bool      `json:"verified"`
	HelpfulCount     int       `json:"helpful_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// PricePoint is one entry of a product's price history.
type PricePoint struct {
	ProductID  int64     `json:"product_id"`
	Price      float64   `json:"price"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Offer kinds as stored in card_offers.offer_type.
const (
	OfferInstantDiscount = "instant_discount"
	OfferCashback        = "cashback"
	OfferNoCostEMI       = "no_cost_emi"
	OfferRegularEMI      = "regular_emi"
	OfferCombo           = "combo"
)

// CardOffer is a bank payment offer attached to a product. EMITenureMonths
// is normalized to integer months even though the column stores text.
type CardOffer struct {
	ID              int64      `json:"id"`
	ProductID       int64      `json:"product_id"`
	BankName        string     `json:"bank_name"`
	CardType        string     `json:"card_type"`
	OfferType       string     `json:"offer_type"`
	DiscountAmount  *float64   `json:"discount_amount"`
	DiscountPercent *float64   `json:"discount_percent"`
	CashbackAmount  *float64   `json:"cashback_amount"`
	MinTransaction  *float64   `json:"min_transaction_amount"`
	EMITenureMonths *int       `json:"emi_tenure_months"`
	IsNoCostEMI     bool       `json:"is_no_cost_emi"`
	Description     string     `json:"description"`
	IsActive        bool       `json:"is_active"`
	ValidFrom       *time.Time `json:"valid_from"`
	ValidTill       *time.Time `json:"valid_till"`
}

// ReviewStats summarizes a product's review profile.
type ReviewStats struct {
	TotalReviews      int             `json:"total_reviews"`
	AverageRating     float64         `json:"average_rating"`
	Distribution      map[int]int     `json:"rating_distribution"`
	DistributionPct   map[int]float64 `json:"rating_distribution_pct"`
	VerifiedPurchases int             `json:"verified_purchases"`
}

// ComputeReviewStats derives statistics from a review slice.
func ComputeReviewStats(reviews []Review) ReviewStats {
	stats := ReviewStats{
		Distribution:    map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		DistributionPct: map[int]float64{},
	}
	if len(reviews) == 0 {
		return stats
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		stats.Distribution[r.Rating]++
		if r.VerifiedPurchase {
			stats.VerifiedPurchases++
		}
	}
	stats.TotalReviews = len(reviews)
	stats.AverageRating = math.Round(float64(sum)/float64(len(reviews))*100) / 100
	for rating, count := range stats.Distribution {
		stats.DistributionPct[rating] = float64(count) / float64(len(reviews)) * 100
	}
	return stats
}

func decodeFeatures(raw string) []string {
	if raw == "" {
		return nil
	}
	var features []string
	if err := json.Unmarshal([]byte(raw), &features); err == nil {
		return features
	}
	return nil
}

func decodeSpecifications(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	var generic map[string]any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil
	}
	specs := make(map[string]string, len(generic))
	for k, v := range generic {
		specs[k] = fmt.Sprint(v)
	}
	return specs
}

// SpecKeys returns the sorted union of specification keys across products.
func SpecKeys(products []Product) []string {
	seen := map[string]struct{}{}
	for _, p := range products {
		for k := range p.Specifications {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
