// Package vector is the client for the external similarity index. The index
// exposes two operations: embed a text and query nearest neighbours by
// cosine distance. Metadata carried per match is enough to post-filter
// without touching the catalog.
package vector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Meta is the per-product metadata stored alongside each embedding.
type Meta struct {
	ProductID   int64   `json:"product_id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Features    string  `json:"features"` // JSON-encoded string list
}

// FeatureList decodes the JSON-encoded features column.
func (m Meta) FeatureList() []string {
	var features []string
	if err := json.Unmarshal([]byte(m.Features), &features); err != nil {
		return nil
	}
	return features
}

// Match is one nearest-neighbour hit. Distance is cosine distance.
type Match struct {
	ID       string  `json:"id"`
	Distance float64 `json:"distance"`
	Metadata Meta    `json:"metadata"`
}

// Index is the similarity-index interface the hybrid ranker consumes.
type Index interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Query(ctx context.Context, embedding []float64, k int) ([]Match, error)
}

// Client talks to the index over HTTP, wrapped in a circuit breaker so a
// flapping index degrades retrieval to predicate-only instead of stalling
// every request on connect timeouts.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "vector-index",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("vector index breaker state change",
				zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})

	return &Client{http: httpClient, breaker: breaker, log: log}
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		var out embedResponse
		res, err := c.http.R().
			SetContext(ctx).
			SetBody(embedRequest{Text: text}).
			SetResult(&out).
			Post("/embed")
		if err != nil {
			return nil, err
		}
		if res.IsError() {
			return nil, fmt.Errorf("status=%d body=%s", res.StatusCode(), res.String())
		}
		return out.Embedding, nil
	})
	if err != nil {
		return nil, fmt.Errorf("vector: embed: %w", err)
	}
	return result.([]float64), nil
}

type queryRequest struct {
	Embedding []float64 `json:"embedding"`
	K         int       `json:"k"`
}

type queryResponse struct {
	Matches []Match `json:"matches"`
}

func (c *Client) Query(ctx context.Context, embedding []float64, k int) ([]Match, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		var out queryResponse
		res, err := c.http.R().
			SetContext(ctx).
			SetBody(queryRequest{Embedding: embedding, K: k}).
			SetResult(&out).
			Post("/query")
		if err != nil {
			return nil, err
		}
		if res.IsError() {
			return nil, fmt.Errorf("status=%d body=%s", res.StatusCode(), res.String())
		}
		return out.Matches, nil
	})
	if err != nil {
		return nil, fmt.Errorf("vector: query: %w", err)
	}
	return result.([]Match), nil
}
