// Package products exposes search and product-detail endpoints.
package products

import (
	"errors"
	"net/http"
	"strconv"

	"shopagent/pkg/api/httpx"
	"shopagent/pkg/core/catalog"
	"shopagent/pkg/core/search"

	"go.uber.org/zap"
)

type Handler struct {
	ranker  *search.Ranker
	store   catalog.Store
	origins []string
	log     *zap.Logger
}

func NewHandler(ranker *search.Ranker, store catalog.Store, origins []string, log *zap.Logger) *Handler {
	return &Handler{ranker: ranker, store: store, origins: origins, log: log}
}

type searchRequest struct {
	Query     string   `json:"query"`
	Category  string   `json:"category,omitempty"`
	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	MinRating *float64 `json:"min_rating,omitempty"`
	Limit     int      `json:"limit,omitempty"`
}

// HandleSearch serves POST /api/products/search.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, h.origins) {
		return
	}
	var req searchRequest
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}
	if req.Query == "" {
		httpx.WriteError(w, http.StatusBadRequest, "query is required", "")
		return
	}
	if req.Limit > search.MaxLimit {
		httpx.WriteError(w, http.StatusBadRequest, "limit must be at most 50", req.Query)
		return
	}

	res, err := h.ranker.Search(r.Context(), req.Query, search.Filters{
		Category:  req.Category,
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		MinRating: req.MinRating,
		Limit:     req.Limit,
	})
	if err != nil {
		h.log.Error("search failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error", req.Query)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "result": res})
}

// HandleDetail serves GET /api/products/detail?id=N: the product with its
// 10 most helpful reviews, 30-day price history and active offers.
func (h *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, h.origins) {
		return
	}
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "id must be a positive integer", "")
		return
	}

	product, err := h.store.Product(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Product not found", "")
			return
		}
		h.log.Error("product detail failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	reviews, err := h.store.Reviews(r.Context(), id, 10)
	if err != nil {
		h.log.Error("product detail reviews failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	history, err := h.store.PriceHistory(r.Context(), id, 30)
	if err != nil {
		h.log.Error("product detail history failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	offers, err := h.store.ActiveOffers(r.Context(), id)
	if err != nil {
		h.log.Error("product detail offers failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"product":       product,
		"reviews":       reviews,
		"price_history": history,
		"offers":        offers,
	})
}
