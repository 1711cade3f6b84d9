package intent

import (
	"context"
	"errors"
	"testing"

	"shopagent/pkg/core/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type scriptedProvider struct {
	response string
	err      error
}

func (p scriptedProvider) Generate(context.Context, string, string, llm.Options) (string, error) {
	return p.response, p.err
}
func (p scriptedProvider) Name() string { return "fake/test" }

func TestParseWellFormedResponse(t *testing.T) {
	p := NewParser(scriptedProvider{response: `{
		"category": "Headphones",
		"brand": "Sony",
		"keywords": ["wireless", "noise"],
		"price_range": [null, 5000],
		"intent": "wireless headphones under 5000"
	}`}, zap.NewNop())

	got := p.Parse(context.Background(), "wireless headphones under 5000")
	assert.Equal(t, "Headphones", got.Category)
	assert.Equal(t, "Sony", got.Brand)
	assert.Nil(t, got.MinPrice)
	require.NotNil(t, got.MaxPrice)
	assert.Equal(t, 5000.0, *got.MaxPrice)
}

func TestParseFencedResponse(t *testing.T) {
	p := NewParser(scriptedProvider{response: "```json\n{\"category\": \"Laptops\", \"keywords\": [\"gaming\"]}\n```"}, zap.NewNop())
	got := p.Parse(context.Background(), "gaming laptop")
	assert.Equal(t, "Laptops", got.Category)
	assert.Equal(t, []string{"gaming"}, got.Keywords)
}

func TestParseSingleNumberPriceRange(t *testing.T) {
	p := NewParser(scriptedProvider{response: `{"keywords": ["phone"], "price_range": 30000}`}, zap.NewNop())
	got := p.Parse(context.Background(), "phone under 30000")
	require.NotNil(t, got.MaxPrice)
	assert.Equal(t, 30000.0, *got.MaxPrice)
	assert.Nil(t, got.MinPrice)
}

func TestParseBothEndsPriceRange(t *testing.T) {
	p := NewParser(scriptedProvider{response: `{"keywords": ["tv"], "price_range": [20000, 60000]}`}, zap.NewNop())
	got := p.Parse(context.Background(), "tv between 20k and 60k")
	require.NotNil(t, got.MinPrice)
	require.NotNil(t, got.MaxPrice)
	assert.Equal(t, 20000.0, *got.MinPrice)
	assert.Equal(t, 60000.0, *got.MaxPrice)
}

func TestParseLLMErrorFallsBack(t *testing.T) {
	p := NewParser(scriptedProvider{err: errors.New("model offline")}, zap.NewNop())
	got := p.Parse(context.Background(), "Gaming Laptop Under 80000")

	assert.Equal(t, []string{"gaming", "laptop", "under", "80000"}, got.Keywords)
	assert.Empty(t, got.Category)
	assert.Equal(t, "Gaming Laptop Under 80000", got.Summary)
}

func TestParseGarbageFallsBack(t *testing.T) {
	p := NewParser(scriptedProvider{response: "I cannot help with that request."}, zap.NewNop())
	got := p.Parse(context.Background(), "wireless earbuds")
	assert.Equal(t, []string{"wireless", "earbuds"}, got.Keywords)
}

func TestParseOversizedResponseFallsBack(t *testing.T) {
	big := make([]byte, maxResponseLen+1)
	for i := range big {
		big[i] = 'a'
	}
	p := NewParser(scriptedProvider{response: string(big)}, zap.NewNop())
	got := p.Parse(context.Background(), "tablet")
	assert.Equal(t, []string{"tablet"}, got.Keywords)
}

func TestParseRepairableJSON(t *testing.T) {
	// Trailing comma and single quotes: the repair ladder should recover it.
	p := NewParser(scriptedProvider{response: `{'category': 'Smartphones', 'keywords': ['camera'],}`}, zap.NewNop())
	got := p.Parse(context.Background(), "samsung with camera")
	assert.Equal(t, "Smartphones", got.Category)
}
