package orchestrator

import (
	"context"
	"errors"
	"testing"

	"shopagent/pkg/core/buyplan"
	"shopagent/pkg/core/catalog"
	"shopagent/pkg/core/compare"
	"shopagent/pkg/core/price"
	"shopagent/pkg/core/result"
	"shopagent/pkg/core/review"
	"shopagent/pkg/core/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSearcher struct {
	products []search.ProductDetail
	err      error
}

func (f fakeSearcher) Search(_ context.Context, query string, _ search.Filters) (*search.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &search.Result{Query: query, Products: f.products, Count: len(f.products)}, nil
}

type fakeReviewer struct {
	res result.Result[review.Analysis]
}

func (f fakeReviewer) Analyze(_ context.Context, id int64) result.Result[review.Analysis] {
	if f.res.IsOk() {
		out := f.res
		out.Value.ProductID = id
		return out
	}
	return f.res
}

type fakePricer struct {
	res result.Result[price.Analysis]
}

func (f fakePricer) Analyze(_ context.Context, id int64) result.Result[price.Analysis] {
	if f.res.IsOk() {
		out := f.res
		out.Value.ProductID = id
		return out
	}
	return f.res
}

type fakeComparer struct {
	res result.Result[compare.Comparison]
	got []int64
}

func (f *fakeComparer) Compare(_ context.Context, ids []int64, _ string) result.Result[compare.Comparison] {
	f.got = ids
	return f.res
}

type fakeOptimizer struct {
	res result.Result[buyplan.Plan]
	got int64
}

func (f *fakeOptimizer) CreatePlan(_ context.Context, id int64, _ string, _ []string) result.Result[buyplan.Plan] {
	f.got = id
	return f.res
}

func threeProducts() []search.ProductDetail {
	return []search.ProductDetail{
		{ID: 11, Name: "First", Price: 4000, MRP: 5000, DiscountPercent: 20, Rating: 4.6, ReviewCount: 90, InStock: true},
		{ID: 22, Name: "Second", Price: 4500, MRP: 4500, Rating: 4.1, ReviewCount: 40, InStock: true},
		{ID: 33, Name: "Third", Price: 3000, MRP: 3600, DiscountPercent: 16.67, Rating: 3.2, ReviewCount: 700, InStock: false},
	}
}

func okReview() result.Result[review.Analysis] {
	return result.Ok(review.Analysis{
		Sentiment:  review.SentimentPositive,
		Pros:       []string{"sounds great"},
		Cons:       []string{"pricey"},
		Summary:    "liked overall",
		TrustScore: 0.8,
		Statistics: catalog.ReviewStats{TotalReviews: 90, AverageRating: 4.6},
	})
}

func okPrice() result.Result[price.Analysis] {
	return result.Ok(price.Analysis{
		PriceData: price.TrendData{
			CurrentPrice:   4000,
			AveragePrice:   4200,
			MinPrice:       3900,
			MaxPrice:       4600,
			Trend:          price.TrendStable,
			Recommendation: price.RecommendGoodTime,
			DataPoints:     24,
			ChartData:      price.BuildChart([]price.HistoryEntry{{Price: 4000, Date: "2026-07-30T00:00:00Z"}}, 4000, 4200, 3900, 4600),
		},
		Recommendation: price.RecommendGoodTime,
		Confidence:     price.ConfidenceMedium,
	})
}

func newTestOrchestrator(searcher Searcher, rev ReviewAgent, pr PriceAgent, cmp CompareAgent, opt BuyPlanAgent) *Orchestrator {
	return New(searcher, rev, pr, cmp, opt, "ollama/llama3.1", zap.NewNop())
}

func TestOrchestrateHappyPath(t *testing.T) {
	comparer := &fakeComparer{res: result.Ok(compare.Comparison{
		Products: []compare.Product{{ID: 11, Name: "First", Price: 4000, Rating: 4.6}},
		Winners:  compare.Winners{BestOverall: compare.Winner{Product: "First", Reason: "value"}},
	})}
	optimizer := &fakeOptimizer{res: result.Ok(buyplan.Plan{ProductName: "First", ProductPrice: 4000, EMIEligible: false})}

	o := newTestOrchestrator(
		fakeSearcher{products: threeProducts()},
		fakeReviewer{res: okReview()},
		fakePricer{res: okPrice()},
		comparer, optimizer)

	resp, err := o.Orchestrate(context.Background(), Request{Query: "earbuds", TopN: 3})
	require.NoError(t, err)
	require.True(t, resp.Success)

	// Products keep retrieval order regardless of agent completion order.
	require.Len(t, resp.Products, 3)
	assert.Equal(t, []int64{11, 22, 33}, []int64{resp.Products[0].ID, resp.Products[1].ID, resp.Products[2].ID})
	assert.Equal(t, 1, resp.Products[0].Rank)

	assert.True(t, resp.Products[0].ReviewAnalysis.Available)
	assert.Equal(t, "sounds great", resp.Products[0].ReviewAnalysis.TopPro)
	assert.True(t, resp.Products[0].PriceTracking.Available)
	assert.Equal(t, "🟡 Good Deal", resp.Products[0].PriceTracking.RecommendationBadge)

	require.NotNil(t, resp.Comparison)
	assert.True(t, resp.Comparison.Available)
	assert.Equal(t, "First", resp.Comparison.WinnerName)
	assert.Equal(t, int64(11), resp.Comparison.WinnerID)
	assert.Equal(t, []int64{11, 22, 33}, comparer.got)

	require.NotNil(t, resp.BuyPlan)
	assert.True(t, resp.BuyPlan.Available)
	assert.Equal(t, int64(11), optimizer.got) // top-ranked product only

	require.NotNil(t, resp.Metadata)
	assert.Equal(t, "parallel", resp.Metadata.ExecutionType)
	assert.Equal(t, 5, resp.Metadata.TotalAgents)
	assert.Equal(t, "ollama/llama3.1", resp.Metadata.LLMModel)
}

func TestOrchestrateAllAgentsTimedOutStillSucceeds(t *testing.T) {
	o := newTestOrchestrator(
		fakeSearcher{products: threeProducts()},
		fakeReviewer{res: result.Timeout[review.Analysis]("review timed out")},
		fakePricer{res: result.Timeout[price.Analysis]("price timed out")},
		&fakeComparer{res: result.Timeout[compare.Comparison]("compare timed out")},
		&fakeOptimizer{res: result.Timeout[buyplan.Plan]("buyplan timed out")})

	resp, err := o.Orchestrate(context.Background(), Request{Query: "earbuds", TopN: 3})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	for _, p := range resp.Products {
		assert.False(t, p.ReviewAnalysis.Available)
		assert.False(t, p.PriceTracking.Available)
		// The UI contract still gets a renderable series.
		require.NotNil(t, p.PriceTracking.ChartData)
		assert.Len(t, p.PriceTracking.ChartData.Labels, 30)
		assert.Equal(t, 0, p.PriceTracking.HistoryDays)
		assert.Equal(t, 30, p.PriceTracking.DataPoints)
	}
	require.NotNil(t, resp.Comparison)
	assert.False(t, resp.Comparison.Available)
	require.NotNil(t, resp.BuyPlan)
	assert.False(t, resp.BuyPlan.Available)
}

func TestOrchestrateSingleProductOmitsComparison(t *testing.T) {
	comparer := &fakeComparer{res: result.Ok(compare.Comparison{})}
	o := newTestOrchestrator(
		fakeSearcher{products: threeProducts()[:1]},
		fakeReviewer{res: okReview()},
		fakePricer{res: okPrice()},
		comparer,
		&fakeOptimizer{res: result.Ok(buyplan.Plan{})})

	resp, err := o.Orchestrate(context.Background(), Request{Query: "one", TopN: 1})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Comparison) // omitted, not an error
	assert.Nil(t, comparer.got)    // never invoked
}

func TestOrchestrateNoProducts(t *testing.T) {
	o := newTestOrchestrator(
		fakeSearcher{},
		fakeReviewer{res: okReview()},
		fakePricer{res: okPrice()},
		&fakeComparer{}, &fakeOptimizer{})

	resp, err := o.Orchestrate(context.Background(), Request{Query: "nonexistent-sku-XYZ", TopN: 3})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "No products found matching your query", resp.Error)
	assert.Equal(t, "nonexistent-sku-XYZ", resp.Query)
}

func TestOrchestrateInvalidTopN(t *testing.T) {
	o := newTestOrchestrator(fakeSearcher{}, fakeReviewer{}, fakePricer{}, &fakeComparer{}, &fakeOptimizer{})

	_, err := o.Orchestrate(context.Background(), Request{Query: "q", TopN: 6})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = o.Orchestrate(context.Background(), Request{Query: "q", TopN: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestOrchestrateCatalogFailureIsFatal(t *testing.T) {
	o := newTestOrchestrator(
		fakeSearcher{err: errors.New("connection refused")},
		fakeReviewer{}, fakePricer{}, &fakeComparer{}, &fakeOptimizer{})

	_, err := o.Orchestrate(context.Background(), Request{Query: "q", TopN: 2})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidInput))
}

func TestRatingBadges(t *testing.T) {
	cases := []struct {
		rating float64
		want   string
	}{
		{4.7, "⭐ Excellent"},
		{4.2, "👍 Very Good"},
		{3.6, "✅ Good"},
		{3.0, "⚠️ Average"},
		{2.1, "❌ Below Average"},
	}
	for _, tc := range cases {
		if got := ratingBadge(tc.rating); got != tc.want {
			t.Errorf("ratingBadge(%.1f) = %s, want %s", tc.rating, got, tc.want)
		}
	}
}

func TestDiscountPercentWithinBounds(t *testing.T) {
	m := 5000.0
	p := catalog.Product{Price: 4000, MRP: &m}
	if got := p.DiscountPercent(); got < 0 || got > 100 {
		t.Errorf("discount %f outside [0,100]", got)
	}
	noMRP := catalog.Product{Price: 4000}
	if got := noMRP.DiscountPercent(); got != 0 {
		t.Errorf("discount without MRP = %f, want 0", got)
	}
	inverted := 3000.0
	cheap := catalog.Product{Price: 4000, MRP: &inverted}
	if got := cheap.DiscountPercent(); got != 0 {
		t.Errorf("discount with MRP < price = %f, want 0", got)
	}
}
