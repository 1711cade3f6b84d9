package review

import (
	"strings"
	"testing"

	"shopagent/pkg/core/catalog"
)

func statsFor(distribution map[int]int, verified int) catalog.ReviewStats {
	total := 0
	sum := 0
	for rating, count := range distribution {
		total += count
		sum += rating * count
	}
	avg := 0.0
	if total > 0 {
		avg = float64(sum) / float64(total)
	}
	return catalog.ReviewStats{
		TotalReviews:      total,
		AverageRating:     avg,
		Distribution:      distribution,
		VerifiedPurchases: verified,
	}
}

func TestTrustScoreBalancedProfile(t *testing.T) {
	// 100 reviews, 60% verified, balanced distribution, large sample:
	// 0.5 + 0.6*0.3 + 0.2 + 0.1 = 0.98
	stats := statsFor(map[int]int{5: 40, 4: 30, 3: 20, 2: 5, 1: 5}, 60)
	got := TrustScore(stats)
	if diff := got - 0.98; diff > 0.0001 || diff < -0.0001 {
		t.Errorf("trust score = %f, want 0.98", got)
	}
}

func TestTrustScoreSuspiciouslyHigh(t *testing.T) {
	// 10 reviews, all five-star, none verified: 0.5 - 0.1 = 0.4
	stats := statsFor(map[int]int{5: 10}, 0)
	got := TrustScore(stats)
	if diff := got - 0.4; diff > 0.0001 || diff < -0.0001 {
		t.Errorf("trust score = %f, want 0.4", got)
	}
}

func TestTrustScoreClamped(t *testing.T) {
	// All-verified large balanced sample would exceed 1 without the clamp.
	stats := statsFor(map[int]int{5: 30, 4: 30, 3: 20, 1: 1}, 81)
	got := TrustScore(stats)
	if got < 0 || got > 1 {
		t.Errorf("trust score %f outside [0,1]", got)
	}
}

func TestParseSections(t *testing.T) {
	text := `SENTIMENT: Positive

PROS:
- Great sound quality
- Long battery life
- Comfortable fit
- This fourth pro is dropped

CONS:
- Weak bass
- Flimsy case
- Dropped third con

SUMMARY:
Solid headphones for the price.`

	sentiment, pros, cons, summary := parseSections(text)
	if sentiment != SentimentPositive {
		t.Errorf("sentiment = %s, want Positive", sentiment)
	}
	if len(pros) != 3 {
		t.Errorf("pros = %v, want 3 entries", pros)
	}
	if len(cons) != 2 {
		t.Errorf("cons = %v, want 2 entries", cons)
	}
	if !strings.Contains(summary, "Solid headphones") {
		t.Errorf("summary = %q", summary)
	}
}

func TestParseSectionsUnstructured(t *testing.T) {
	sentiment, pros, cons, _ := parseSections("the model rambled with no structure at all")
	if sentiment != SentimentNeutral {
		t.Errorf("sentiment = %s, want Neutral default", sentiment)
	}
	if len(pros) != 0 || len(cons) != 0 {
		t.Errorf("expected empty pros/cons, got %v / %v", pros, cons)
	}
}

func TestFallbackAnalysisSentimentFromRating(t *testing.T) {
	cases := []struct {
		avg  float64
		want string
	}{
		{4.2, SentimentPositive},
		{3.1, SentimentNeutral},
		{2.4, SentimentNegative},
	}
	for _, tc := range cases {
		stats := catalog.ReviewStats{TotalReviews: 10, AverageRating: tc.avg, Distribution: map[int]int{}}
		got := fallbackAnalysis(1, stats, Themes{})
		if got.Sentiment != tc.want {
			t.Errorf("avg %.1f: sentiment = %s, want %s", tc.avg, got.Sentiment, tc.want)
		}
	}
}

func TestExtractThemes(t *testing.T) {
	reviews := []catalog.Review{
		{Text: "The sound is excellent and very clear overall"},
		{Text: "Battery died fast, really poor build quality here"},
		{Text: ""},
	}
	themes := ExtractThemes(reviews)

	if len(themes.Positive) == 0 {
		t.Fatal("expected positive themes")
	}
	if len(themes.Negative) == 0 {
		t.Fatal("expected negative themes")
	}
	// Windows are five words: two either side of the keyword.
	for _, window := range append(themes.Positive, themes.Negative...) {
		if n := len(strings.Fields(window)); n > 5 {
			t.Errorf("window %q has %d words, want <= 5", window, n)
		}
	}
}

func TestExtractThemesCapped(t *testing.T) {
	var reviews []catalog.Review
	for i := 0; i < 50; i++ {
		reviews = append(reviews, catalog.Review{Text: "great product number " + strings.Repeat("x", i%7)})
	}
	themes := ExtractThemes(reviews)
	if len(themes.Positive) > 10 {
		t.Errorf("positive themes = %d, want <= 10", len(themes.Positive))
	}
}
