// Package orchestrator coordinates the analysis agents: retrieve products,
// fan the review/price/comparison/buy-plan tasks out in parallel under
// per-task deadlines and a global fan-in ceiling, then assemble partial
// results into one response. Nothing an L2 agent does can fail the request;
// only catalog failures and zero retrieval results short-circuit.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"shopagent/pkg/core/buyplan"
	"shopagent/pkg/core/compare"
	"shopagent/pkg/core/metrics"
	"shopagent/pkg/core/price"
	"shopagent/pkg/core/result"
	"shopagent/pkg/core/review"
	"shopagent/pkg/core/search"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidInput marks caller mistakes the HTTP layer maps to 400.
var ErrInvalidInput = errors.New("invalid input")

// Per-task deadlines and the overall fan-in ceiling. Tasks run in parallel,
// so the ceiling is deliberately longer than the slowest single task.
const (
	reviewTimeout  = 60 * time.Second
	priceTimeout   = 30 * time.Second
	compareTimeout = 100 * time.Second
	buyplanTimeout = 8 * time.Second
	globalCeiling  = 120 * time.Second

	maxTopN = 5
)

// Narrow agent interfaces so tests can substitute fakes.
type Searcher interface {
	Search(ctx context.Context, query string, f search.Filters) (*search.Result, error)
}

type ReviewAgent interface {
	Analyze(ctx context.Context, productID int64) result.Result[review.Analysis]
}

type PriceAgent interface {
	Analyze(ctx context.Context, productID int64) result.Result[price.Analysis]
}

type CompareAgent interface {
	Compare(ctx context.Context, productIDs []int64, style string) result.Result[compare.Comparison]
}

type BuyPlanAgent interface {
	CreatePlan(ctx context.Context, productID int64, preference string, userCards []string) result.Result[buyplan.Plan]
}

// Orchestrator owns one request's fan-out.
type Orchestrator struct {
	searcher  Searcher
	reviewer  ReviewAgent
	pricer    PriceAgent
	comparer  CompareAgent
	optimizer BuyPlanAgent
	modelName string
	log       *zap.Logger
	now       func() time.Time
}

func New(searcher Searcher, reviewer ReviewAgent, pricer PriceAgent, comparer CompareAgent, optimizer BuyPlanAgent, modelName string, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		searcher:  searcher,
		reviewer:  reviewer,
		pricer:    pricer,
		comparer:  comparer,
		optimizer: optimizer,
		modelName: modelName,
		log:       log,
		now:       time.Now,
	}
}

// gather accumulates task results keyed by product. Writes are mutex-guarded
// because tasks complete in arbitrary order.
type gather struct {
	mu       sync.Mutex
	reviews  map[int64]result.Result[review.Analysis]
	prices   map[int64]result.Result[price.Analysis]
	compared result.Result[compare.Comparison]
	plan     result.Result[buyplan.Plan]
}

// Orchestrate runs the full pipeline. It returns an error only for invalid
// input or a catalog failure; every agent outcome is folded into the
// response.
func (o *Orchestrator) Orchestrate(ctx context.Context, req Request) (*Response, error) {
	start := o.now()

	if req.TopN == 0 {
		req.TopN = 3
	}
	if req.TopN < 1 || req.TopN > maxTopN {
		return nil, fmt.Errorf("%w: top_n must be between 1 and %d", ErrInvalidInput, maxTopN)
	}

	requestID := uuid.NewString()
	log := o.log.With(zap.String("request_id", requestID), zap.String("query", req.Query))
	log.Info("orchestration started", zap.Int("top_n", req.TopN))

	searchRes, err := o.searcher.Search(ctx, req.Query, search.Filters{
		Category: req.Category,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Limit:    req.TopN,
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: retrieval: %w", err)
	}

	products := searchRes.Products
	if len(products) > req.TopN {
		products = products[:req.TopN]
	}
	if len(products) == 0 {
		metrics.ObserveOrchestration(false)
		return &Response{
			Success: false,
			Error:   "No products found matching your query",
			Query:   req.Query,
		}, nil
	}

	productIDs := make([]int64, len(products))
	for i, p := range products {
		productIDs[i] = p.ID
	}
	log.Info("retrieval complete", zap.Int("products", len(products)))

	g := o.fanOut(ctx, log, products, productIDs, req)

	resp := o.assemble(req.Query, requestID, products, g)
	resp.ExecutionTimeSeconds = roundSeconds(o.now().Sub(start))
	metrics.ObserveOrchestration(true)
	log.Info("orchestration complete", zap.Float64("execution_seconds", resp.ExecutionTimeSeconds))
	return resp, nil
}

// fanOut launches every analysis task concurrently and waits for the set,
// bounded by the global ceiling. When the ceiling fires, whatever already
// landed in the gather is kept and the rest become Timeout slots.
func (o *Orchestrator) fanOut(ctx context.Context, log *zap.Logger, products []search.ProductDetail, productIDs []int64, req Request) *gather {
	g := &gather{
		reviews: make(map[int64]result.Result[review.Analysis], len(productIDs)),
		prices:  make(map[int64]result.Result[price.Analysis], len(productIDs)),
	}
	g.compared = result.Skipped[compare.Comparison]("need at least 2 products to compare")
	g.plan = result.Timeout[buyplan.Plan]("")

	var wg sync.WaitGroup

	for _, id := range productIDs {
		id := id
		wg.Add(2)
		go func() {
			defer wg.Done()
			res := runTask(ctx, reviewTimeout, "review", log, func(tctx context.Context) result.Result[review.Analysis] {
				return o.reviewer.Analyze(tctx, id)
			})
			g.mu.Lock()
			g.reviews[id] = res
			g.mu.Unlock()
		}()
		go func() {
			defer wg.Done()
			res := runTask(ctx, priceTimeout, "price", log, func(tctx context.Context) result.Result[price.Analysis] {
				return o.pricer.Analyze(tctx, id)
			})
			g.mu.Lock()
			g.prices[id] = res
			g.mu.Unlock()
		}()
	}

	if len(productIDs) >= compare.MinProducts {
		comparisonIDs := productIDs
		if len(comparisonIDs) > compare.MaxProducts {
			comparisonIDs = comparisonIDs[:compare.MaxProducts]
		}
		g.compared = result.Timeout[compare.Comparison]("comparison timed out")
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := runTask(ctx, compareTimeout, "compare", log, func(tctx context.Context) result.Result[compare.Comparison] {
				return o.comparer.Compare(tctx, comparisonIDs, compare.StyleDetailed)
			})
			g.mu.Lock()
			g.compared = res
			g.mu.Unlock()
		}()
	}

	topID := productIDs[0]
	wg.Add(1)
	go func() {
		defer wg.Done()
		res := runTask(ctx, buyplanTimeout, "buyplan", log, func(tctx context.Context) result.Result[buyplan.Plan] {
			return o.optimizer.CreatePlan(tctx, topID, req.UserPreference, req.UserCards)
		})
		g.mu.Lock()
		g.plan = res
		g.mu.Unlock()
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(globalCeiling):
		log.Warn("global orchestration ceiling hit, collecting partial results")
	case <-ctx.Done():
		log.Warn("request context cancelled, collecting partial results", zap.Error(ctx.Err()))
	}

	// Fill slots that never reported.
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range productIDs {
		if _, ok := g.reviews[id]; !ok {
			g.reviews[id] = result.Timeout[review.Analysis]("review analysis timed out")
		}
		if _, ok := g.prices[id]; !ok {
			g.prices[id] = result.Timeout[price.Analysis]("price analysis timed out")
		}
	}
	return g
}

// runTask executes one agent under its own deadline. The orchestrator does
// not wait for a timed-out agent to acknowledge cancellation: the context
// is cancelled and the slot becomes a Timeout immediately.
func runTask[T any](ctx context.Context, timeout time.Duration, agentName string, log *zap.Logger, fn func(context.Context) result.Result[T]) result.Result[T] {
	start := time.Now()
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan result.Result[T], 1)
	go func() { ch <- fn(tctx) }()

	select {
	case res := <-ch:
		metrics.ObserveAgent(agentName, string(res.Status), time.Since(start))
		if !res.IsOk() {
			log.Warn("agent task did not complete cleanly",
				zap.String("agent", agentName), zap.String("status", string(res.Status)), zap.String("reason", res.Reason))
		}
		return res
	case <-tctx.Done():
		metrics.ObserveAgent(agentName, string(result.StatusTimeout), time.Since(start))
		log.Warn("agent task timed out", zap.String("agent", agentName), zap.Duration("timeout", timeout))
		return result.Timeout[T](agentName + " timed out")
	}
}

func roundSeconds(d time.Duration) float64 {
	return float64(d.Milliseconds()) / 1000
}
