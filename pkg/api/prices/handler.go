// Package prices exposes price tracking and deal discovery endpoints.
package prices

import (
	"net/http"
	"strconv"

	"shopagent/pkg/api/httpx"
	"shopagent/pkg/core/price"

	"go.uber.org/zap"
)

type Handler struct {
	analyzer *price.Analyzer
	origins  []string
	log      *zap.Logger
}

func NewHandler(analyzer *price.Analyzer, origins []string, log *zap.Logger) *Handler {
	return &Handler{analyzer: analyzer, origins: origins, log: log}
}

// HandleTrack serves POST /api/prices/track.
func (h *Handler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, h.origins) {
		return
	}
	var req struct {
		ProductID int64 `json:"product_id"`
	}
	if err := httpx.DecodeBody(r, &req); err != nil || req.ProductID <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "product_id is required", "")
		return
	}

	res := h.analyzer.Analyze(r.Context(), req.ProductID)
	if !res.IsOk() {
		httpx.WriteError(w, http.StatusNotFound, res.Reason, "")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "analysis": res.Value})
}

// HandleDeals serves GET /api/prices/deals?category=&min_discount=&limit=.
func (h *Handler) HandleDeals(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, h.origins) {
		return
	}
	category := r.URL.Query().Get("category")
	minDiscount := parseFloat(r.URL.Query().Get("min_discount"), 10)
	limit := parseInt(r.URL.Query().Get("limit"), 20)

	deals, err := h.analyzer.FindDeals(r.Context(), category, minDiscount, limit)
	if err != nil {
		h.log.Error("find deals failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	if deals.Count == 0 {
		httpx.WriteError(w, http.StatusNotFound, "No deals found", "")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "result": deals})
}

// HandleFlashDeals serves GET /api/prices/flash-deals?category=&limit=.
func (h *Handler) HandleFlashDeals(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, h.origins) {
		return
	}
	category := r.URL.Query().Get("category")
	limit := parseInt(r.URL.Query().Get("limit"), 10)

	deals, err := h.analyzer.FindFlashDeals(r.Context(), category, limit)
	if err != nil {
		h.log.Error("find flash deals failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "result": deals})
}

func parseFloat(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
