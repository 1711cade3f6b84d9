package utils

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// CleanNarrative trims LLM prose for direct display: whitespace, a wrapping
// code block if the model added one, and leading "Sure," style filler lines.
func CleanNarrative(input string) string {
	cleaned := StripCodeFences(input)
	lines := strings.Split(cleaned, "\n")
	for len(lines) > 0 {
		first := strings.ToLower(strings.TrimSpace(lines[0]))
		if strings.HasPrefix(first, "sure,") || strings.HasPrefix(first, "here is") || strings.HasPrefix(first, "here's") {
			lines = lines[1:]
			continue
		}
		break
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ValidMarkdown reports whether the string parses as Markdown. The search,
// price, compare and buy-plan agents run their cleaned LLM prose through this
// gate before accepting it over the rule-based fallback. Goldmark is permissive, so this is a basic sanity
// check, not a linter.
func ValidMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	doc := parser.Parse(text.NewReader([]byte(input)))
	return doc != nil
}
