// Package comparisons exposes the compare and search-then-compare
// endpoints.
package comparisons

import (
	"fmt"
	"net/http"

	"shopagent/pkg/api/httpx"
	"shopagent/pkg/core/compare"
	"shopagent/pkg/core/search"

	"go.uber.org/zap"
)

type Handler struct {
	comparator *compare.Comparator
	ranker     *search.Ranker
	origins    []string
	log        *zap.Logger
}

func NewHandler(comparator *compare.Comparator, ranker *search.Ranker, origins []string, log *zap.Logger) *Handler {
	return &Handler{comparator: comparator, ranker: ranker, origins: origins, log: log}
}

type compareRequest struct {
	ProductIDs []int64 `json:"product_ids"`
	Style      string  `json:"comparison_style,omitempty"`
}

// HandleCompare serves POST /api/comparisons/compare.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, h.origins) {
		return
	}
	var req compareRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}
	if len(req.ProductIDs) > compare.MaxProducts {
		httpx.WriteError(w, http.StatusBadRequest, "Maximum 5 products can be compared at once", "")
		return
	}
	if len(req.ProductIDs) < compare.MinProducts {
		httpx.WriteError(w, http.StatusNotFound, "Need at least 2 products to compare", "")
		return
	}

	res := h.comparator.Compare(r.Context(), req.ProductIDs, req.Style)
	if !res.IsOk() {
		httpx.WriteError(w, http.StatusNotFound, res.Reason, "")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "comparison": res.Value})
}

type searchCompareRequest struct {
	Query string `json:"query"`
	TopN  int    `json:"top_n,omitempty"`
	Style string `json:"comparison_style,omitempty"`
}

// HandleSearchCompare serves POST /api/comparisons/search: search first,
// then compare the top results.
func (h *Handler) HandleSearchCompare(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, h.origins) {
		return
	}
	var req searchCompareRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}
	if req.Query == "" {
		httpx.WriteError(w, http.StatusBadRequest, "query is required", "")
		return
	}
	topN := req.TopN
	if topN < compare.MinProducts {
		topN = compare.MinProducts
	}
	if topN > compare.MaxProducts {
		topN = compare.MaxProducts
	}

	searchRes, err := h.ranker.Search(r.Context(), req.Query, search.Filters{Limit: topN})
	if err != nil {
		h.log.Error("search for comparison failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error", req.Query)
		return
	}
	if len(searchRes.Products) < compare.MinProducts {
		httpx.WriteError(w, http.StatusNotFound,
			fmt.Sprintf("Found only %d product(s). Need at least 2 to compare.", len(searchRes.Products)), req.Query)
		return
	}

	ids := make([]int64, 0, topN)
	for _, p := range searchRes.Products {
		ids = append(ids, p.ID)
		if len(ids) == topN {
			break
		}
	}
	res := h.comparator.Compare(r.Context(), ids, req.Style)
	if !res.IsOk() {
		httpx.WriteError(w, http.StatusNotFound, res.Reason, req.Query)
		return
	}

	comparison := res.Value
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":              true,
		"search_query":         req.Query,
		"search_results_count": len(searchRes.Products),
		"workflow":             "search_then_compare",
		"comparison":           comparison,
		"summary":              workflowSummary(req.Query, comparison),
	})
}

func workflowSummary(query string, c compare.Comparison) string {
	return fmt.Sprintf(
		"SEARCH: '%s'\nFOUND: %d products\n\nCOMPARISON RESULTS:\n"+
			"   - Best Price: %s\n   - Best Rating: %s\n   - Best Value: %s\n   - OVERALL WINNER: %s\n\n"+
			"RECOMMENDATION:\n   Based on your search, we recommend: %s\n   %s",
		query, len(c.Products),
		c.Winners.BestPrice.Product, c.Winners.BestRating.Product,
		c.Winners.BestValue.Product, c.Winners.BestOverall.Product,
		c.Winners.BestOverall.Product, c.Winners.BestOverall.Reason)
}
