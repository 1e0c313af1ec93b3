package api

import (
	"net/http"
)

// RefreshResponse acknowledges a refresh run.
type RefreshResponse struct {
	Success          bool    `json:"success"`
	RunID            string  `json:"run_id"`
	RecordsProcessed int     `json:"records_processed"`
	DurationSeconds  float64 `json:"duration_seconds"`
}

// RefreshHandler invalidates the result cache and recomputes.
type RefreshHandler struct {
	deps Dependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps Dependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandlePostRefresh handles POST /api/refresh requests.
func (h *RefreshHandler) HandlePostRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	result, err := h.deps.Refresh(r.Context())
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RefreshResponse{
		Success:          true,
		RunID:            result.Report.RunID,
		RecordsProcessed: len(result.Records),
		DurationSeconds:  result.Duration.Seconds(),
	})
}
