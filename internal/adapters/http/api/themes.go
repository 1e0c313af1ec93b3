package api

import (
	"net/http"
	"strconv"
)

// ThemesHandler serves the theme rollup.
type ThemesHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewThemesHandler creates a new themes handler.
func NewThemesHandler(deps Dependencies, maxLimit int) *ThemesHandler {
	return &ThemesHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetThemes handles GET /api/themes?limit=N requests. Without a limit
// every theme is returned, ranked by total impact.
func (h *ThemesHandler) HandleGetThemes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadLimit)
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadLimit)
			return
		}
		limit = n
	}

	result, err := h.deps.Run(r.Context())
	if err != nil {
		writePipelineError(w, err)
		return
	}
	themes := result.Report.ThemeAnalysis
	if limit > 0 && len(themes) > limit {
		themes = themes[:limit]
	}
	writeJSON(w, http.StatusOK, themes)
}
