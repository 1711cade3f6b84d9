// Package intent extracts a structured SearchIntent from a free-text
// shopper query using an LLM, with a guaranteed keyword fallback. Parsing
// never fails: the worst case is a whitespace-tokenized keyword set.
package intent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"shopagent/pkg/core/llm"
	"shopagent/pkg/core/prompt"
	"shopagent/pkg/core/utils"

	"go.uber.org/zap"
)

// SearchIntent is the structured reading of a query. Absent fields mean
// "no constraint".
type SearchIntent struct {
	Category string   `json:"category,omitempty"`
	Brand    string   `json:"brand,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	Features []string `json:"features,omitempty"`
	Summary  string   `json:"intent,omitempty"`
}

const (
	maxQueryLen    = 512
	maxResponseLen = 4096
	parseTimeout   = 2 * time.Second
)

// Parser wraps the LLM call. Construct with the provider routed to the
// search agent.
type Parser struct {
	provider llm.Provider
	log      *zap.Logger
}

func NewParser(provider llm.Provider, log *zap.Logger) *Parser {
	return &Parser{provider: provider, log: log}
}

// Parse extracts intent from the query. It is on the critical path, so the
// LLM call is bounded to 2 s; any failure returns the keyword fallback.
func (p *Parser) Parse(ctx context.Context, query string) SearchIntent {
	query = strings.TrimSpace(query)
	if len(query) > maxQueryLen {
		query = query[:maxQueryLen]
	}
	fallback := Fallback(query)

	promptText, err := prompt.Render(prompt.IDIntent, map[string]any{"Query": query})
	if err != nil {
		p.log.Warn("intent prompt render failed", zap.Error(err))
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, parseTimeout)
	defer cancel()

	raw, err := p.provider.Generate(ctx, promptText, "", llm.Options{
		Temperature: 0.1,
		MaxTokens:   200,
		JSONMode:    true,
	})
	if err != nil {
		p.log.Info("intent parse falling back to keywords", zap.Error(err))
		return fallback
	}
	if len(raw) > maxResponseLen {
		p.log.Warn("intent response over size limit, using fallback", zap.Int("len", len(raw)))
		return fallback
	}

	parsed, ok := decode(raw)
	if !ok {
		p.log.Info("intent response not parseable, using fallback")
		return fallback
	}
	if parsed.Summary == "" {
		parsed.Summary = query
	}
	if len(parsed.Keywords) == 0 {
		parsed.Keywords = fallback.Keywords
	}
	return parsed
}

// Fallback is the non-LLM intent: lowercased whitespace tokens.
func Fallback(query string) SearchIntent {
	return SearchIntent{
		Keywords: strings.Fields(strings.ToLower(query)),
		Summary:  query,
	}
}

// llmIntent mirrors the JSON the model is asked to emit. price_range is
// kept raw because models return it as [min,max] (either end nullable) or
// as a bare number meaning "max".
type llmIntent struct {
	Category   string          `json:"category"`
	Brand      string          `json:"brand"`
	Keywords   []string        `json:"keywords"`
	PriceRange json.RawMessage `json:"price_range"`
	Features   []string        `json:"features"`
	Summary    string          `json:"intent"`
}

func decode(raw string) (SearchIntent, bool) {
	var loose llmIntent
	if err := utils.SmartParse(raw, &loose); err != nil {
		return SearchIntent{}, false
	}
	intent := SearchIntent{
		Category: strings.TrimSpace(loose.Category),
		Brand:    strings.TrimSpace(loose.Brand),
		Keywords: loose.Keywords,
		Features: loose.Features,
		Summary:  strings.TrimSpace(loose.Summary),
	}
	intent.MinPrice, intent.MaxPrice = decodePriceRange(loose.PriceRange)
	return intent, true
}

func decodePriceRange(raw json.RawMessage) (min, max *float64) {
	if len(raw) == 0 {
		return nil, nil
	}
	var pair []*float64
	if err := json.Unmarshal(raw, &pair); err == nil {
		if len(pair) >= 1 && pair[0] != nil && *pair[0] > 0 {
			min = pair[0]
		}
		if len(pair) >= 2 && pair[1] != nil && *pair[1] > 0 {
			max = pair[1]
		}
		return min, max
	}
	var single float64
	if err := json.Unmarshal(raw, &single); err == nil && single > 0 {
		return nil, &single
	}
	return nil, nil
}
