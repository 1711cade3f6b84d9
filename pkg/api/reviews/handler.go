// Package reviews exposes the review-analysis endpoint.
package reviews

import (
	"net/http"

	"shopagent/pkg/api/httpx"
	"shopagent/pkg/core/result"
	"shopagent/pkg/core/review"

	"go.uber.org/zap"
)

type Handler struct {
	analyzer *review.Analyzer
	origins  []string
	log      *zap.Logger
}

func NewHandler(analyzer *review.Analyzer, origins []string, log *zap.Logger) *Handler {
	return &Handler{analyzer: analyzer, origins: origins, log: log}
}

// HandleAnalyze serves POST /api/reviews/analyze.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
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
		status := http.StatusInternalServerError
		if res.Status == result.StatusFailed {
			status = http.StatusNotFound
		}
		httpx.WriteError(w, status, res.Reason, "")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "analysis": res.Value})
}
