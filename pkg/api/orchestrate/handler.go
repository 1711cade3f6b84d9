// Package orchestrate exposes the full and simple orchestration endpoints.
package orchestrate

import (
	"errors"
	"net/http"

	"shopagent/pkg/api/httpx"
	"shopagent/pkg/core/orchestrator"

	"go.uber.org/zap"
)

type Handler struct {
	orch    *orchestrator.Orchestrator
	origins []string
	log     *zap.Logger
}

func NewHandler(orch *orchestrator.Orchestrator, origins []string, log *zap.Logger) *Handler {
	return &Handler{orch: orch, origins: origins, log: log}
}

// HandleFull serves POST /api/orchestrate with the complete request shape.
func (h *Handler) HandleFull(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, h.origins) {
		return
	}
	var req orchestrator.Request
	if err := httpx.DecodeBody(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}
	h.run(w, r, req)
}

// HandleSimple serves POST /api/orchestrate/simple: query only, top 3,
// balanced preference.
func (h *Handler) HandleSimple(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, h.origins) {
		return
	}
	var body struct {
		Query string `json:"query"`
	}
	if err := httpx.DecodeBody(r, &body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}
	h.run(w, r, orchestrator.Request{
		Query:          body.Query,
		TopN:           3,
		UserPreference: "balanced",
	})
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, req orchestrator.Request) {
	if req.Query == "" {
		httpx.WriteError(w, http.StatusBadRequest, "query is required", "")
		return
	}
	resp, err := h.orch.Orchestrate(r.Context(), req)
	if err != nil {
		if errors.Is(err, orchestrator.ErrInvalidInput) {
			httpx.WriteError(w, http.StatusBadRequest, err.Error(), req.Query)
			return
		}
		h.log.Error("orchestration failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error", req.Query)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
