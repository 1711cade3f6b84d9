// Package prompt is the registry of LLM prompt templates used by the
// agents. Templates are registered at init and rendered with
// text/template; an unknown ID or a render failure is a programming error
// surfaced as an error so agents can fall back to rule-based output.
package prompt

import (
	"fmt"
	"strings"
	"sync"
	"text/template"
)

// Template IDs.
const (
	IDIntent        = "search.intent"
	IDSearchSummary = "search.summary"
	IDReview        = "review.analysis"
	IDPrice         = "price.recommendation"
	IDCompare       = "compare.analysis"
	IDBuyPlan       = "buyplan.recommendation"
)

type Registry struct {
	templates map[string]*template.Template
	mu        sync.RWMutex
}

var globalRegistry *Registry
var once sync.Once

// Get returns the global registry singleton.
func Get() *Registry {
	once.Do(func() {
		globalRegistry = &Registry{templates: make(map[string]*template.Template)}
		for id, body := range builtins {
			globalRegistry.templates[id] = template.Must(template.New(id).Parse(body))
		}
	})
	return globalRegistry
}

// Register adds or replaces a template.
func (r *Registry) Register(id, body string) error {
	tmpl, err := template.New(id).Parse(body)
	if err != nil {
		return fmt.Errorf("prompt: parse %s: %w", id, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[id] = tmpl
	return nil
}

// Render executes the template with data.
func (r *Registry) Render(id string, data any) (string, error) {
	r.mu.RLock()
	tmpl, ok := r.templates[id]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("prompt: unknown template %s", id)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("prompt: render %s: %w", id, err)
	}
	return sb.String(), nil
}

// Render is the package-level convenience over the global registry.
func Render(id string, data any) (string, error) {
	return Get().Render(id, data)
}

var builtins = map[string]string{
	IDIntent: `Analyze this product search query and extract structured information.

Query: "{{.Query}}"

Extract the following information in JSON format:
{
    "category": "product category if identifiable",
    "brand": "brand name if mentioned",
    "keywords": ["list", "of", "important", "keywords"],
    "price_range": [min_price_number_only, max_price_number_only] or null,
    "features": ["specific", "features", "mentioned"],
    "intent": "brief description of what user wants"
}

Examples:
- "best gaming laptop under 80000" -> {"category": "Laptops", "keywords": ["gaming"], "price_range": [null, 80000]}
- "Samsung phone with good camera" -> {"category": "Smartphones", "brand": "Samsung", "keywords": ["camera"]}
- "wireless headphones" -> {"category": "Headphones", "keywords": ["wireless"]}

Return ONLY valid JSON, no other text.`,

	IDSearchSummary: `You are a helpful shopping assistant. Summarize these search results for the user.

User Query: "{{.Query}}"
User Intent: {{.Intent}}

Found {{.Count}} products. Here are the top picks:

{{.ProductLines}}
Provide a helpful 2-3 sentence summary:
1. What products were found
2. Price range and best deals
3. One key recommendation

Keep it conversational and helpful. Maximum 3 sentences.`,

	IDReview: `Product Review Analysis:
Rating: {{.AvgRating}}/5 ({{.TotalReviews}} reviews, {{.VerifiedPct}}% verified)

Positive: {{.TopPositive}}
Negative: {{.TopNegative}}

Provide:
1. Sentiment (Positive/Neutral/Negative)
2. Top 3 pros (brief)
3. Top 2 cons (brief)
4. One sentence summary

Be concise.`,

	IDPrice: `You are a price analysis expert helping shoppers make smart buying decisions.

Analyze this price data for "{{.ProductName}}":

PRICE STATISTICS:
- Current Price: {{.CurrentPrice}}
- Average Price (30 days): {{.AveragePrice}}
- Lowest Price: {{.MinPrice}}
- Highest Price: {{.MaxPrice}}

TREND ANALYSIS:
- Trend: {{.Trend}}
- Price Change: {{.PriceChangePct}}%
- Data Points: {{.DataPoints}} days

SYSTEM RECOMMENDATION: {{.Recommendation}}

Provide a recommendation in 2-3 sentences:
1. Should the user BUY NOW or WAIT?
2. Why? (based on the data)
3. What's the confidence level? (high/medium/low)

Keep it conversational and helpful. Start with your recommendation.`,

	IDCompare: `Compare {{.Count}} products:

{{.ProductLines}}
Price: {{.PriceRange}}
Ratings: {{.RatingRange}}/5
Best Deal: {{.BestDiscount}}% off {{.BestDealProduct}}

Winners:
- Price: {{.BestPrice}}
- Rating: {{.BestRating}}
- Value: {{.BestValue}}
- Overall: {{.BestOverall}}

Provide:
1. Key differences
2. Category winners
3. Recommendation
4. Best for scenarios

{{.Style}} style. 200 words max.`,

	IDBuyPlan: `You are a Buy Plan Optimizer Agent helping users make smart purchase decisions.

Product: {{.ProductName}}
Price: Rs. {{.Price}}
MRP: Rs. {{.MRP}}

Available Payment Options:
{{.OptionLines}}
User Preference: {{.Preference}}

Provide a recommendation in 2-3 sentences. Consider:
- Maximum savings
- Payment convenience
- User preference if specified
- Time value of money (cashback takes 90 days)

Keep it conversational and helpful.`,
}
