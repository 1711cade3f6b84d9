package review

import (
	"strings"

	"shopagent/pkg/core/catalog"
)

var positiveKeywords = []string{
	"excellent", "great", "amazing", "good", "best", "love",
	"perfect", "fantastic", "awesome", "quality", "worth",
	"comfortable", "easy", "fast", "clear", "bright", "beautiful",
	"sturdy", "reliable", "durable", "impressive", "satisfied",
	"recommend", "happy", "pleased", "outstanding", "superb",
}

var negativeKeywords = []string{
	"bad", "poor", "terrible", "worst", "hate", "issue",
	"problem", "broken", "defective", "disappointed", "waste",
	"cheap", "slow", "difficult", "uncomfortable", "useless",
	"failed", "not working", "stopped", "damage", "faulty",
}

const themeLimit = 10

// ExtractThemes scans review text for the fixed polarity keyword sets and
// captures a five-word window around each hit (two words either side).
// Windows are deduped and truncated to the top 10 per polarity.
func ExtractThemes(reviews []catalog.Review) Themes {
	var themes Themes
	seenPos := map[string]struct{}{}
	seenNeg := map[string]struct{}{}

	for _, r := range reviews {
		text := strings.ToLower(r.Text)
		if text == "" {
			continue
		}
		words := strings.Fields(text)

		for _, keyword := range positiveKeywords {
			if !strings.Contains(text, keyword) {
				continue
			}
			for _, window := range keywordWindows(words, keyword) {
				if _, ok := seenPos[window]; ok {
					continue
				}
				seenPos[window] = struct{}{}
				if len(themes.Positive) < themeLimit {
					themes.Positive = append(themes.Positive, window)
				}
			}
		}

		for _, keyword := range negativeKeywords {
			if !strings.Contains(text, keyword) {
				continue
			}
			for _, window := range keywordWindows(words, keyword) {
				if _, ok := seenNeg[window]; ok {
					continue
				}
				seenNeg[window] = struct{}{}
				if len(themes.Negative) < themeLimit {
					themes.Negative = append(themes.Negative, window)
				}
			}
		}
	}
	return themes
}

func keywordWindows(words []string, keyword string) []string {
	var windows []string
	for i, word := range words {
		if !strings.Contains(word, keyword) {
			continue
		}
		start := i - 2
		if start < 0 {
			start = 0
		}
		end := i + 3
		if end > len(words) {
			end = len(words)
		}
		windows = append(windows, strings.Join(words[start:end], " "))
	}
	return windows
}
