// Package caches exposes cache administration: flush one named cache or
// all of them.
package caches

import (
	"net/http"

	"shopagent/pkg/api/httpx"
	"shopagent/pkg/core/cache"

	"go.uber.org/zap"
)

type Handler struct {
	caches  *cache.Set
	origins []string
	log     *zap.Logger
}

func NewHandler(caches *cache.Set, origins []string, log *zap.Logger) *Handler {
	return &Handler{caches: caches, origins: origins, log: log}
}

// HandleClear serves POST /api/cache/clear with optional {"cache": name}.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, h.origins) {
		return
	}
	var req struct {
		Cache string `json:"cache,omitempty"` // review | comparison | price | "" (all)
	}
	// Body is optional; an empty body clears everything.
	_ = httpx.DecodeBody(r, &req)

	ctx := r.Context()
	cleared := []string{}
	if req.Cache == "" || req.Cache == "review" {
		h.caches.Review.Flush(ctx)
		cleared = append(cleared, "review")
	}
	if req.Cache == "" || req.Cache == "comparison" {
		h.caches.Comparison.Flush(ctx)
		cleared = append(cleared, "comparison")
	}
	if req.Cache == "" || req.Cache == "price" {
		h.caches.Price.Flush(ctx)
		cleared = append(cleared, "price")
	}
	if len(cleared) == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "unknown cache: "+req.Cache, "")
		return
	}
	h.log.Info("caches cleared", zap.Strings("caches", cleared))
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "cleared": cleared})
}
