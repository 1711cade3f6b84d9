package search

import (
	"testing"

	"shopagent/pkg/core/catalog"
	"shopagent/pkg/core/vector"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func semanticMatch(id int64, distance float64) vector.Match {
	return vector.Match{Distance: distance, Metadata: vector.Meta{ProductID: id}}
}

func TestFuseWeights(t *testing.T) {
	semantic := []vector.Match{
		semanticMatch(1, 0.2), // similarity 0.8 -> 0.56
		semanticMatch(2, 0.5), // similarity 0.5 -> 0.35
	}
	predicate := []catalog.Product{{ID: 2}, {ID: 3}}

	ranked := fuse(semantic, predicate, 10)
	require.Len(t, ranked, 3)

	// Product 2 appears in both legs: 0.35 + 0.3 = 0.65 tops the list.
	assert.Equal(t, int64(2), ranked[0].ProductID)
	assert.InDelta(t, 0.65, ranked[0].FusedScore, 1e-9)
	assert.True(t, ranked[0].PredicateMatch)
	require.NotNil(t, ranked[0].SemanticScore)

	assert.Equal(t, int64(1), ranked[1].ProductID)
	assert.InDelta(t, 0.56, ranked[1].FusedScore, 1e-9)

	// Predicate-only product gets the flat 0.3.
	assert.Equal(t, int64(3), ranked[2].ProductID)
	assert.InDelta(t, 0.3, ranked[2].FusedScore, 1e-9)
	assert.Nil(t, ranked[2].SemanticScore)
}

func TestFuseTruncatesAndOrdersDeterministically(t *testing.T) {
	predicate := []catalog.Product{{ID: 5}, {ID: 3}, {ID: 9}, {ID: 1}}
	ranked := fuse(nil, predicate, 3)
	require.Len(t, ranked, 3)
	// Equal scores tie-break by ascending product ID.
	assert.Equal(t, []int64{1, 3, 5}, []int64{ranked[0].ProductID, ranked[1].ProductID, ranked[2].ProductID})
}

func TestFuseClampsSimilarity(t *testing.T) {
	// Cosine distance slightly over 1 must not yield a negative score.
	ranked := fuse([]vector.Match{semanticMatch(1, 1.2)}, nil, 10)
	require.Len(t, ranked, 1)
	assert.GreaterOrEqual(t, ranked[0].FusedScore, 0.0)
}

func TestFormatKeySpecs(t *testing.T) {
	specs := map[string]string{
		"ram":              "16GB",
		"battery_capacity": "5000mAh",
		"refresh_rate":     "120Hz",
		"empty":            "  ",
	}
	formatted := FormatKeySpecs(specs)
	assert.Contains(t, formatted, "RAM: 16GB")
	assert.Contains(t, formatted, "Battery: 5000mAh")
	assert.Contains(t, formatted, "Refresh Rate: 120Hz") // unknown key title-cased
	assert.Len(t, formatted, 3)                          // blank value dropped
}

func TestQuickRecommendations(t *testing.T) {
	products := []ProductDetail{
		{Name: "A", Price: 1000, Rating: 4.6, ReviewCount: 50, DiscountPercent: 25},
		{Name: "B", Price: 3000, Rating: 3.8, ReviewCount: 10, DiscountPercent: 5},
	}
	recs := quickRecommendations(products)
	require.NotEmpty(t, recs)
	assert.Contains(t, recs[0], "Best Value: A")
	assert.LessOrEqual(t, len(recs), 3)
}
