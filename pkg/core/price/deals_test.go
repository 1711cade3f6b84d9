package price

import (
	"context"
	"testing"
	"time"

	"shopagent/pkg/core/cache"
	"shopagent/pkg/core/catalog"
	"shopagent/pkg/core/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dealsStore struct {
	catalog.Store
	candidates []catalog.Product
	history    map[int64][]catalog.PricePoint
}

func (s *dealsStore) DealCandidates(_ context.Context, category string, _ int) ([]catalog.Product, error) {
	if category == "" {
		return s.candidates, nil
	}
	var out []catalog.Product
	for _, p := range s.candidates {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *dealsStore) PriceHistory(_ context.Context, productID int64, _ int) ([]catalog.PricePoint, error) {
	return s.history[productID], nil
}

type silentProvider struct{}

func (silentProvider) Generate(context.Context, string, string, llm.Options) (string, error) {
	return "", context.DeadlineExceeded
}
func (silentProvider) Name() string { return "fake/silent" }

func mrpOf(v float64) *float64 { return &v }

func dealsAnalyzer() *Analyzer {
	now := time.Now()
	store := &dealsStore{
		candidates: []catalog.Product{
			{ID: 1, Name: "Big Drop", Category: "Electronics", Price: 600, MRP: mrpOf(1000), InStock: true, Rating: 4},
			{ID: 2, Name: "Small Cut", Category: "Electronics", Price: 950, MRP: mrpOf(1000), InStock: true, Rating: 4},
			{ID: 3, Name: "Fashion Deal", Category: "Fashion", Price: 700, MRP: mrpOf(1000), InStock: true, Rating: 4},
		},
		history: map[int64][]catalog.PricePoint{
			// Dropped from 700 to 600 within the window: >10% in 48h.
			1: {
				{ProductID: 1, Price: 600, RecordedAt: now},
				{ProductID: 1, Price: 690, RecordedAt: now.Add(-24 * time.Hour)},
				{ProductID: 1, Price: 700, RecordedAt: now.Add(-48 * time.Hour)},
			},
		},
	}
	return NewAnalyzer(store, cache.NewMemory(cache.PriceTTL), silentProvider{}, zap.NewNop())
}

func TestFindDealsThreshold(t *testing.T) {
	a := dealsAnalyzer()
	res, err := a.FindDeals(context.Background(), "Electronics", 20, 10)
	require.NoError(t, err)

	// Only "Big Drop" (40% off) clears the 20% bar; "Small Cut" is 5%.
	require.Equal(t, 1, res.Count)
	deal := res.Deals[0]
	assert.Equal(t, int64(1), deal.ProductID)
	assert.Equal(t, 40.0, deal.DiscountPct)
	assert.Equal(t, 400.0, deal.Savings)
	assert.True(t, deal.IsFlashDeal)
	assert.Equal(t, "flash", deal.DealType)
	assert.Equal(t, "Electronics", res.Category)
}

func TestFindDealsAllCategories(t *testing.T) {
	a := dealsAnalyzer()
	res, err := a.FindDeals(context.Background(), "", 20, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "All Categories", res.Category)
	// Sorted by discount descending.
	assert.Equal(t, int64(1), res.Deals[0].ProductID)
}

func TestFindFlashDealsUrgency(t *testing.T) {
	a := dealsAnalyzer()
	res, err := a.FindFlashDeals(context.Background(), "", 10)
	require.NoError(t, err)

	require.Equal(t, 1, res.Count)
	deal := res.Deals[0]
	assert.True(t, deal.IsFlashDeal)
	assert.Equal(t, "extreme", deal.UrgencyLevel) // 40% off
	assert.Equal(t, 40.0, deal.UrgencyScore)
}

func TestIsFlashDealNinetyDayLow(t *testing.T) {
	now := time.Now()
	store := &dealsStore{
		history: map[int64][]catalog.PricePoint{
			5: {
				{ProductID: 5, Price: 500, RecordedAt: now},
				{ProductID: 5, Price: 505, RecordedAt: now.Add(-24 * time.Hour)},
				{ProductID: 5, Price: 510, RecordedAt: now.Add(-48 * time.Hour)},
				{ProductID: 5, Price: 502, RecordedAt: now.Add(-80 * 24 * time.Hour)},
			},
		},
	}
	a := NewAnalyzer(store, cache.NewMemory(cache.PriceTTL), silentProvider{}, zap.NewNop())

	// Only ~2% drop in 48h, but 500 is the 90-day minimum.
	if !a.isFlashDeal(context.Background(), 5) {
		t.Error("90-day low should qualify as flash deal")
	}
}
