// Package search implements hybrid retrieval: a semantic leg against the
// vector index and a predicate leg against the catalog, fused into one
// ranked list (0.7 x semantic similarity, +0.3 for a predicate hit).
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"shopagent/pkg/core/catalog"
	"shopagent/pkg/core/intent"
	"shopagent/pkg/core/llm"
	"shopagent/pkg/core/prompt"
	"shopagent/pkg/core/utils"
	"shopagent/pkg/core/vector"

	"go.uber.org/zap"
)

const (
	semanticWeight  = 0.7
	predicateWeight = 0.3
)

// Ranker runs hybrid retrieval. The vector index is optional at runtime:
// an index outage degrades to predicate-only ranking.
type Ranker struct {
	store    catalog.Store
	index    vector.Index
	parser   *intent.Parser
	provider llm.Provider
	log      *zap.Logger
}

func NewRanker(store catalog.Store, index vector.Index, parser *intent.Parser, provider llm.Provider, log *zap.Logger) *Ranker {
	return &Ranker{store: store, index: index, parser: parser, provider: provider, log: log}
}

// Search parses intent, runs both legs, fuses and enriches. A catalog
// failure is fatal for the request; everything else degrades.
func (r *Ranker) Search(ctx context.Context, query string, f Filters) (*Result, error) {
	parsed := r.parser.Parse(ctx, query)

	// Caller overrides win over parsed intent.
	category := f.Category
	if category == "" {
		category = parsed.Category
	}
	minPrice := f.MinPrice
	if minPrice == nil {
		minPrice = parsed.MinPrice
	}
	maxPrice := f.MaxPrice
	if maxPrice == nil {
		maxPrice = parsed.MaxPrice
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	semantic := r.semanticLeg(ctx, query, category, minPrice, maxPrice, f.MinRating, limit*2)

	predicate, err := r.store.Search(ctx, catalog.PredicateQuery{
		Category:  category,
		Brand:     parsed.Brand,
		Keywords:  parsed.Keywords,
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		MinRating: f.MinRating,
		Limit:     limit * 2,
	})
	if err != nil {
		return nil, fmt.Errorf("search: predicate leg: %w", err)
	}

	candidates := fuse(semantic, predicate, limit)

	products, err := r.enrich(ctx, candidates)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Query:            query,
		Products:         products,
		Count:            len(products),
		Intent:           parsed,
		SearchMethod:     "hybrid",
		SemanticCount:    len(semantic),
		TraditionalCount: len(predicate),
	}
	if len(products) == 0 {
		res.Summary = fmt.Sprintf("No products found matching '%s'. Try different keywords or broader search terms.", query)
		return res, nil
	}
	res.Summary = r.summarize(ctx, query, parsed, products)
	res.Recommendations = quickRecommendations(products)
	return res, nil
}

// semanticLeg embeds the query and post-filters neighbours. Any index
// failure logs a warning and returns nil so ranking continues predicate-only.
func (r *Ranker) semanticLeg(ctx context.Context, query, category string, minPrice, maxPrice, minRating *float64, k int) []vector.Match {
	if r.index == nil {
		return nil
	}
	embedding, err := r.index.Embed(ctx, query)
	if err != nil {
		r.log.Warn("vector embed failed, predicate-only ranking", zap.Error(err))
		return nil
	}
	matches, err := r.index.Query(ctx, embedding, k)
	if err != nil {
		r.log.Warn("vector query failed, predicate-only ranking", zap.Error(err))
		return nil
	}

	filtered := matches[:0]
	for _, m := range matches {
		if category != "" {
			c := strings.ToLower(m.Metadata.Category)
			s := strings.ToLower(m.Metadata.Subcategory)
			want := strings.ToLower(category)
			if !strings.Contains(c, want) && !strings.Contains(s, want) {
				continue
			}
		}
		if minPrice != nil && m.Metadata.Price < *minPrice {
			continue
		}
		if maxPrice != nil && m.Metadata.Price > *maxPrice {
			continue
		}
		if minRating != nil && m.Metadata.Rating < *minRating {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}

// fuse unions both legs by product ID. Semantic similarity (1 - cosine
// distance, clamped to [0,1]) contributes 0.7x; a predicate hit adds 0.3.
func fuse(semantic []vector.Match, predicate []catalog.Product, limit int) []Candidate {
	byID := map[int64]*Candidate{}

	for _, m := range semantic {
		similarity := 1 - m.Distance
		if similarity < 0 {
			similarity = 0
		}
		if similarity > 1 {
			similarity = 1
		}
		score := similarity
		byID[m.Metadata.ProductID] = &Candidate{
			ProductID:     m.Metadata.ProductID,
			SemanticScore: &score,
			FusedScore:    similarity * semanticWeight,
		}
	}

	for _, p := range predicate {
		if c, ok := byID[p.ID]; ok {
			c.PredicateMatch = true
			c.FusedScore += predicateWeight
		} else {
			byID[p.ID] = &Candidate{
				ProductID:      p.ID,
				PredicateMatch: true,
				FusedScore:     predicateWeight,
			}
		}
	}

	ranked := make([]Candidate, 0, len(byID))
	for _, c := range byID {
		ranked = append(ranked, *c)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].FusedScore != ranked[j].FusedScore {
			return ranked[i].FusedScore > ranked[j].FusedScore
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func (r *Ranker) enrich(ctx context.Context, candidates []Candidate) ([]ProductDetail, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ProductID
	}
	rows, err := r.store.Products(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("search: enrich: %w", err)
	}
	byID := make(map[int64]catalog.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}

	details := make([]ProductDetail, 0, len(candidates))
	for _, c := range candidates {
		p, ok := byID[c.ProductID]
		if !ok {
			continue
		}
		description := p.Description
		if len(description) > 200 {
			description = description[:200] + "..."
		}
		details = append(details, ProductDetail{
			ID:              p.ID,
			Name:            p.Name,
			Brand:           p.Brand,
			Model:           p.Model,
			Category:        p.Category,
			Subcategory:     p.Subcategory,
			Price:           p.Price,
			MRP:             p.MRPOrPrice(),
			DiscountPercent: p.DiscountPercent(),
			Rating:          p.Rating,
			ReviewCount:     p.ReviewCount,
			InStock:         p.InStock,
			Description:     description,
			Features:        p.Features,
			Specifications:  p.Specifications,
			KeySpecs:        FormatKeySpecs(p.Specifications),
			SearchScore:     c.FusedScore,
		})
	}
	return details, nil
}

func (r *Ranker) summarize(ctx context.Context, query string, parsed intent.SearchIntent, products []ProductDetail) string {
	fallback := fmt.Sprintf("Found %d products matching '%s'. Top pick: %s at ₹%.0f with %.1f★ rating.",
		len(products), query, products[0].Name, products[0].Price, products[0].Rating)

	var lines strings.Builder
	for i, p := range products {
		if i == 3 {
			break
		}
		fmt.Fprintf(&lines, "%d. %s\n   Price: ₹%.0f (MRP: ₹%.0f, %.1f%% off)\n   Rating: %.1f★ (%d reviews)\n",
			i+1, p.Name, p.Price, p.MRP, p.DiscountPercent, p.Rating, p.ReviewCount)
		if len(p.KeySpecs) > 0 {
			limit := len(p.KeySpecs)
			if limit > 4 {
				limit = 4
			}
			fmt.Fprintf(&lines, "   Key Specs: %s\n", strings.Join(p.KeySpecs[:limit], ", "))
		}
		if len(p.Features) > 0 {
			limit := len(p.Features)
			if limit > 3 {
				limit = 3
			}
			fmt.Fprintf(&lines, "   Features: %s\n", strings.Join(p.Features[:limit], ", "))
		}
		lines.WriteString("\n")
	}

	intentText := parsed.Summary
	if intentText == "" {
		intentText = "Find products"
	}
	promptText, err := prompt.Render(prompt.IDSearchSummary, map[string]any{
		"Query":        query,
		"Intent":       intentText,
		"Count":        len(products),
		"ProductLines": lines.String(),
	})
	if err != nil {
		return fallback
	}

	raw, err := r.provider.Generate(ctx, promptText, "", llm.Options{Temperature: 0.7, MaxTokens: 150})
	if err != nil {
		r.log.Info("search summary falling back", zap.Error(err))
		return fallback
	}
	if cleaned := utils.CleanNarrative(raw); cleaned != "" && utils.ValidMarkdown(cleaned) {
		return cleaned
	}
	return fallback
}

// quickRecommendations emits up to three rule-based picks.
func quickRecommendations(products []ProductDetail) []string {
	if len(products) == 0 {
		return nil
	}
	var recs []string

	if len(products) >= 2 {
		best := products[0]
		for _, p := range products[1:] {
			if valueRatio(p) < valueRatio(best) {
				best = p
			}
		}
		recs = append(recs, fmt.Sprintf("Best Value: %s - Great features at ₹%.0f", best.Name, best.Price))
	}

	top := products[0]
	for _, p := range products[1:] {
		if p.Rating > top.Rating {
			top = p
		}
	}
	if top.Rating >= 4.0 {
		recs = append(recs, fmt.Sprintf("Top Rated: %s - %.1f★ with %d reviews", top.Name, top.Rating, top.ReviewCount))
	}

	deal := products[0]
	for _, p := range products[1:] {
		if p.DiscountPercent > deal.DiscountPercent {
			deal = p
		}
	}
	if deal.DiscountPercent > 10 {
		recs = append(recs, fmt.Sprintf("Best Deal: %s - %.1f%% off!", deal.Name, deal.DiscountPercent))
	}

	if len(recs) > 3 {
		recs = recs[:3]
	}
	return recs
}

func valueRatio(p ProductDetail) float64 {
	rating := p.Rating
	if rating < 1 {
		rating = 1
	}
	return p.Price / rating
}
