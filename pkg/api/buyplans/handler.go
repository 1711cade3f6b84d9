// Package buyplans exposes the payment-plan endpoint.
package buyplans

import (
	"net/http"

	"shopagent/pkg/api/httpx"
	"shopagent/pkg/core/buyplan"

	"go.uber.org/zap"
)

type Handler struct {
	optimizer *buyplan.Optimizer
	origins   []string
	log       *zap.Logger
}

func NewHandler(optimizer *buyplan.Optimizer, origins []string, log *zap.Logger) *Handler {
	return &Handler{optimizer: optimizer, origins: origins, log: log}
}

type planRequest struct {
	ProductID  int64    `json:"product_id"`
	Preference string   `json:"user_preference,omitempty"`
	UserCards  []string `json:"user_cards,omitempty"`
}

// HandleCreate serves POST /api/buyplan/create.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if httpx.CORS(w, r, h.origins) {
		return
	}
	var req planRequest
	if err := httpx.DecodeBody(r, &req); err != nil || req.ProductID <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "product_id is required", "")
		return
	}

	res := h.optimizer.CreatePlan(r.Context(), req.ProductID, req.Preference, req.UserCards)
	if !res.IsOk() {
		httpx.WriteError(w, http.StatusNotFound, res.Reason, "")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "plan": res.Value})
}
