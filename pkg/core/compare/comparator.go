// Package compare analyzes 2-5 products against each other: computed
// differences, category winners, optional table/battle renderings and an
// LLM narrative with a rule-based fallback.
package compare

import (
	"context"
	"fmt"
	"sort"
	"strings"
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
	MinProducts = 2
	MaxProducts = 5

	llmTimeout = 50 * time.Second
)

// Comparator is the comparison agent.
type Comparator struct {
	store    catalog.Store
	cache    cache.Cache
	provider llm.Provider
	log      *zap.Logger
}

func NewComparator(store catalog.Store, c cache.Cache, provider llm.Provider, log *zap.Logger) *Comparator {
	return &Comparator{store: store, cache: c, provider: provider, log: log}
}

// Compare runs the comparison. IDs are sorted before caching so the output
// is invariant under permutation of the input list.
func (c *Comparator) Compare(ctx context.Context, productIDs []int64, style string) result.Result[Comparison] {
	if style == "" {
		style = StyleDetailed
	}
	if len(productIDs) < MinProducts {
		return result.Failed[Comparison]("Need at least 2 products to compare")
	}
	if len(productIDs) > MaxProducts {
		return result.Failed[Comparison]("Maximum 5 products can be compared at once")
	}
	if style == StyleBattle && len(productIDs) != 2 {
		return result.Skipped[Comparison]("battle mode requires exactly 2 products")
	}

	sorted := append([]int64(nil), productIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idParts := make([]string, len(sorted))
	for i, id := range sorted {
		idParts[i] = fmt.Sprintf("%d", id)
	}
	key := fmt.Sprintf("comparison_%s_%s", strings.Join(idParts, "_"), style)

	var cached Comparison
	if c.cache.Get(ctx, key, &cached) {
		c.log.Debug("comparison cache hit", zap.String("key", key))
		return result.Ok(cached)
	}

	rows, err := c.store.Products(ctx, sorted)
	if err != nil {
		return result.Failed[Comparison](fmt.Sprintf("load products: %v", err))
	}
	if len(rows) < len(sorted) {
		return result.Failed[Comparison](fmt.Sprintf("Only found %d out of %d products", len(rows), len(sorted)))
	}

	products := toCompareProducts(rows, sorted)
	differences := CalculateDifferences(products)
	winners := DetermineWinners(products)

	comparison := Comparison{
		Products:      products,
		Differences:   differences,
		Winners:       winners,
		FrontendTable: FrontendTable(products, winners),
		Style:         style,
	}

	switch style {
	case StyleTable:
		comparison.StyledOutput = ASCIITable(products)
	case StyleBattle:
		comparison.Battle = BattleComparison(products[0], products[1])
		comparison.StyledOutput = comparison.Battle.Text
	}

	comparison.AIAnalysis = c.narrate(ctx, products, differences, winners, style)
	comparison.FrontendTable.AIAnalysis = comparison.AIAnalysis

	c.cache.Set(ctx, key, comparison)
	return result.Ok(comparison)
}

// UseCaseWinner picks a winner for a stated use case: budget/cheap by
// price, quality/best by rating, gaming by feature match, else value score.
func UseCaseWinner(products []Product, useCase string) Product {
	lower := strings.ToLower(useCase)
	switch {
	case strings.Contains(lower, "budget") || strings.Contains(lower, "cheap"):
		best := products[0]
		for _, p := range products[1:] {
			if p.Price < best.Price {
				best = p
			}
		}
		return best
	case strings.Contains(lower, "quality") || strings.Contains(lower, "best"):
		best := products[0]
		for _, p := range products[1:] {
			if p.Rating > best.Rating {
				best = p
			}
		}
		return best
	case strings.Contains(lower, "gaming") || strings.Contains(lower, "game"):
		var gaming []Product
		for _, p := range products {
			for _, f := range p.Features {
				if strings.Contains(strings.ToLower(f), "gaming") {
					gaming = append(gaming, p)
					break
				}
			}
		}
		if len(gaming) > 0 {
			best := gaming[0]
			for _, p := range gaming[1:] {
				if p.Rating > best.Rating {
					best = p
				}
			}
			return best
		}
	}
	best := products[0]
	for _, p := range products[1:] {
		if p.ValueScore() > best.ValueScore() {
			best = p
		}
	}
	return best
}

// ExplainWinner builds the reason string for a winner choice.
func ExplainWinner(winner Product, all []Product, useCase string) string {
	var reasons []string
	if useCase != "" {
		reasons = append(reasons, "Best match for: "+useCase)
	}
	minPrice, maxRating, maxDiscount := all[0].Price, all[0].Rating, all[0].DiscountPct
	for _, p := range all[1:] {
		if p.Price < minPrice {
			minPrice = p.Price
		}
		if p.Rating > maxRating {
			maxRating = p.Rating
		}
		if p.DiscountPct > maxDiscount {
			maxDiscount = p.DiscountPct
		}
	}
	if winner.Price == minPrice {
		reasons = append(reasons, fmt.Sprintf("Lowest price: ₹%.0f", winner.Price))
	}
	if winner.Rating == maxRating {
		reasons = append(reasons, fmt.Sprintf("Highest rated: %.1f/5", winner.Rating))
	}
	if winner.DiscountPct == maxDiscount && winner.DiscountPct > 0 {
		reasons = append(reasons, fmt.Sprintf("Best discount: %.1f%% OFF", winner.DiscountPct))
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "Best overall value")
	}
	return strings.Join(reasons, " | ")
}

func (c *Comparator) narrate(ctx context.Context, products []Product, diff Differences, winners Winners, style string) string {
	var lines strings.Builder
	for i, p := range products {
		mrp := p.Price
		if p.MRP != nil {
			mrp = *p.MRP
		}
		fmt.Fprintf(&lines, "Product %d: %s\n- Brand: %s\n- Price: ₹%.0f (MRP: ₹%.0f)\n- Discount: %.1f%% OFF\n- Rating: %.1f/5 (%d reviews)\n\n",
			i+1, p.Name, p.Brand, p.Price, mrp, p.DiscountPct, p.Rating, p.ReviewCount)
	}

	promptText, err := prompt.Render(prompt.IDCompare, map[string]any{
		"Count":           len(products),
		"ProductLines":    lines.String(),
		"PriceRange":      fmt.Sprintf("₹%.0f-₹%.0f", diff.PriceAnalysis.Cheapest, diff.PriceAnalysis.MostExpensive),
		"RatingRange":     fmt.Sprintf("%.1f-%.1f", diff.RatingAnalysis.LowestRated, diff.RatingAnalysis.HighestRated),
		"BestDiscount":    fmt.Sprintf("%.1f", diff.DiscountAnalysis.BestDiscount),
		"BestDealProduct": diff.DiscountAnalysis.BestDealProduct,
		"BestPrice":       winners.BestPrice.Product,
		"BestRating":      winners.BestRating.Product,
		"BestValue":       winners.BestValue.Product,
		"BestOverall":     winners.BestOverall.Product,
		"Style":           strings.ToUpper(style),
	})
	if err != nil {
		return fallbackProse(products, winners)
	}

	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	text, err := c.provider.Generate(ctx, promptText, "", llm.Options{Temperature: 0.3, MaxTokens: 120})
	if err != nil {
		c.log.Warn("comparison narrative falling back", zap.String("agent", "compare"), zap.Error(err))
		return fallbackProse(products, winners)
	}
	if cleaned := utils.CleanNarrative(text); cleaned != "" && utils.ValidMarkdown(cleaned) {
		return cleaned
	}
	return fallbackProse(products, winners)
}

// fallbackProse synthesizes the narrative from the already-computed winners.
func fallbackProse(products []Product, winners Winners) string {
	cheapest, topRated := products[0], products[0]
	for _, p := range products[1:] {
		if p.Price < cheapest.Price {
			cheapest = p
		}
		if p.Rating > topRated.Rating {
			topRated = p
		}
	}

	var sb strings.Builder
	sb.WriteString("COMPARISON ANALYSIS\n\n")
	fmt.Fprintf(&sb, "PRICE WINNER: %s at ₹%.0f (cheapest)\n", cheapest.Name, cheapest.Price)
	fmt.Fprintf(&sb, "RATING WINNER: %s with %.1f/5 (%d reviews)\n", topRated.Name, topRated.Rating, topRated.ReviewCount)
	fmt.Fprintf(&sb, "BEST OVERALL: %s - %s\n\n", winners.BestOverall.Product, winners.BestOverall.Reason)
	sb.WriteString("RECOMMENDATIONS:\n")
	fmt.Fprintf(&sb, "  For budget: %s\n", cheapest.Name)
	fmt.Fprintf(&sb, "  For quality: %s\n", topRated.Name)
	fmt.Fprintf(&sb, "  For value: %s", winners.BestOverall.Product)
	return sb.String()
}

func toCompareProducts(rows []catalog.Product, order []int64) []Product {
	byID := make(map[int64]catalog.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	products := make([]Product, 0, len(order))
	for _, id := range order {
		p, ok := byID[id]
		if !ok {
			continue
		}
		products = append(products, Product{
			ID:             p.ID,
			Name:           p.Name,
			Brand:          p.Brand,
			Model:          p.Model,
			Category:       p.Category,
			Subcategory:    p.Subcategory,
			Price:          p.Price,
			MRP:            p.MRP,
			DiscountPct:    p.DiscountPercent(),
			Rating:         p.Rating,
			ReviewCount:    p.ReviewCount,
			InStock:        p.InStock,
			Description:    p.Description,
			Specifications: p.Specifications,
			Features:       p.Features,
		})
	}
	return products
}
