// Package review analyzes customer reviews for one product: sentiment,
// pros/cons, a one-sentence summary and a trust score, with an LLM pass
// that degrades to rule-based synthesis on timeout or error.
package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopagent/pkg/core/cache"
	"shopagent/pkg/core/catalog"
	"shopagent/pkg/core/llm"
	"shopagent/pkg/core/prompt"
	"shopagent/pkg/core/result"

	"go.uber.org/zap"
)

const (
	maxReviews = 100
	llmTimeout = 90 * time.Second
)

// Analyzer is the review analysis agent.
type Analyzer struct {
	store    catalog.Store
	cache    cache.Cache
	provider llm.Provider
	log      *zap.Logger
}

func NewAnalyzer(store catalog.Store, c cache.Cache, provider llm.Provider, log *zap.Logger) *Analyzer {
	return &Analyzer{store: store, cache: c, provider: provider, log: log}
}

// Analyze produces the review analysis for a product. Results (including
// the rule-based fallback) are cached for 10 minutes.
func (a *Analyzer) Analyze(ctx context.Context, productID int64) result.Result[Analysis] {
	key := fmt.Sprintf("review_analysis_%d", productID)
	var cached Analysis
	if a.cache.Get(ctx, key, &cached) {
		a.log.Debug("review analysis cache hit", zap.Int64("product_id", productID))
		return result.Ok(cached)
	}

	reviews, err := a.store.Reviews(ctx, productID, maxReviews)
	if err != nil {
		return result.Failed[Analysis](fmt.Sprintf("load reviews: %v", err))
	}
	if len(reviews) == 0 {
		return result.Failed[Analysis]("No reviews found for this product")
	}

	stats := catalog.ComputeReviewStats(reviews)
	themes := ExtractThemes(reviews)

	analysis, llmErr := a.llmAnalysis(ctx, productID, stats, themes)
	if llmErr != nil {
		a.log.Warn("review LLM failed, synthesizing rule-based analysis",
			zap.String("agent", "review"), zap.Int64("product_id", productID), zap.Error(llmErr))
		analysis = fallbackAnalysis(productID, stats, themes)
	}
	analysis.TrustScore = TrustScore(stats)

	a.cache.Set(ctx, key, analysis)
	return result.Ok(analysis)
}

func (a *Analyzer) llmAnalysis(ctx context.Context, productID int64, stats catalog.ReviewStats, themes Themes) (Analysis, error) {
	verifiedPct := 0.0
	if stats.TotalReviews > 0 {
		verifiedPct = float64(stats.VerifiedPurchases) / float64(stats.TotalReviews) * 100
	}
	promptText, err := prompt.Render(prompt.IDReview, map[string]any{
		"AvgRating":    fmt.Sprintf("%.1f", stats.AverageRating),
		"TotalReviews": stats.TotalReviews,
		"VerifiedPct":  fmt.Sprintf("%.0f", verifiedPct),
		"TopPositive":  strings.Join(head(themes.Positive, 3), ", "),
		"TopNegative":  strings.Join(head(themes.Negative, 2), ", "),
	})
	if err != nil {
		return Analysis{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	text, err := a.provider.Generate(ctx, promptText, "", llm.Options{Temperature: 0.3, MaxTokens: 150})
	if err != nil {
		return Analysis{}, err
	}

	sentiment, pros, cons, summary := parseSections(text)
	if len(pros) == 0 {
		pros = []string{"Overall positive feedback from customers"}
	}
	if len(cons) == 0 {
		cons = []string{"Some minor issues reported"}
	}
	if summary == "" {
		summary = text
		if len(summary) > 200 {
			summary = summary[:200] + "..."
		}
	}
	return Analysis{
		ProductID:    productID,
		Statistics:   stats,
		Sentiment:    sentiment,
		Pros:         pros,
		Cons:         cons,
		Summary:      strings.TrimSpace(summary),
		Themes:       themes,
		FullAnalysis: text,
	}, nil
}

// fallbackAnalysis synthesizes the analysis from statistics and themes when
// the LLM is unavailable.
func fallbackAnalysis(productID int64, stats catalog.ReviewStats, themes Themes) Analysis {
	sentiment := SentimentNegative
	switch {
	case stats.AverageRating >= 4:
		sentiment = SentimentPositive
	case stats.AverageRating >= 3:
		sentiment = SentimentNeutral
	}
	pros := head(themes.Positive, 3)
	if len(pros) == 0 {
		pros = []string{"Overall positive feedback"}
	}
	cons := head(themes.Negative, 2)
	if len(cons) == 0 {
		cons = []string{"Some concerns noted"}
	}
	return Analysis{
		ProductID:    productID,
		Statistics:   stats,
		Sentiment:    sentiment,
		Pros:         pros,
		Cons:         cons,
		Summary:      fmt.Sprintf("Product rated %.1f/5 by %d customers", stats.AverageRating, stats.TotalReviews),
		Themes:       themes,
		FullAnalysis: fmt.Sprintf("%s sentiment based on %d reviews", sentiment, stats.TotalReviews),
	}
}

// TrustScore estimates whether a review profile looks organic. Base 0.5,
// +0.3 x verified ratio, +0.2 for a balanced distribution (-0.1 when >90%
// five-star), +0.1/+0.05 for sample size. Clamped to [0,1].
func TrustScore(stats catalog.ReviewStats) float64 {
	if stats.TotalReviews == 0 {
		return 0.5
	}
	score := 0.5
	total := float64(stats.TotalReviews)

	score += float64(stats.VerifiedPurchases) / total * 0.3

	fiveStar := float64(stats.Distribution[5]) / total
	oneStar := float64(stats.Distribution[1]) / total
	if fiveStar < 0.7 && oneStar < 0.3 {
		score += 0.2
	} else if fiveStar > 0.9 {
		score -= 0.1
	}

	if stats.TotalReviews > 50 {
		score += 0.1
	} else if stats.TotalReviews > 20 {
		score += 0.05
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// parseSections reads the LLM response section by section: SENTIMENT/
// OVERALL lines set the label, PROS/CONS/SUMMARY headers switch sections,
// and bullet lines (-, •, *) feed the active list.
func parseSections(text string) (sentiment string, pros, cons []string, summary string) {
	sentiment = SentimentNeutral
	section := ""
	var summaryParts []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		upper := strings.ToUpper(line)
		lower := strings.ToLower(line)

		switch {
		case strings.Contains(upper, "SENTIMENT") || strings.Contains(upper, "OVERALL"):
			if strings.Contains(lower, "positive") {
				sentiment = SentimentPositive
			} else if strings.Contains(lower, "negative") {
				sentiment = SentimentNegative
			} else if strings.Contains(lower, "neutral") {
				sentiment = SentimentNeutral
			}
		case strings.Contains(upper, "PROS") || strings.Contains(upper, "ADVANTAGES"):
			section = "pros"
		case strings.Contains(upper, "CONS") || strings.Contains(upper, "DISADVANTAGES"):
			section = "cons"
		case strings.Contains(upper, "SUMMARY"):
			section = "summary"
		case strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*"):
			cleaned := strings.TrimSpace(strings.TrimLeft(line, "-•* "))
			if section == "pros" && len(pros) < 3 {
				pros = append(pros, cleaned)
			} else if section == "cons" && len(cons) < 2 {
				cons = append(cons, cleaned)
			}
		case section == "summary" && !strings.HasSuffix(line, ":"):
			summaryParts = append(summaryParts, line)
		}
	}
	return sentiment, pros, cons, strings.Join(summaryParts, " ")
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
