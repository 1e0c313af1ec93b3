// Package api declares HTTP contracts and route registration helpers for the
// insight reporting API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tradeinsight/engine/internal/adapters/sources"
	service "github.com/tradeinsight/engine/internal/app"
	"github.com/tradeinsight/engine/internal/domain/normalize"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the pipeline service.
type Dependencies interface {
	// Run returns the current pipeline result, recomputing when the cache
	// is stale.
	Run(ctx context.Context) (*service.Result, error)

	// Refresh invalidates the cache and recomputes.
	Refresh(ctx context.Context) (*service.Result, error)

	// Stats reports service state for monitoring.
	Stats() map[string]any
}

// Server wires HTTP routes for the reporting API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	summaryHandler   *SummaryHandler
	themesHandler    *ThemesHandler
	sentimentHandler *SentimentHandler
	feedbackHandler  *FeedbackHandler
	dashboardHandler *DashboardHandler
	reportHandler    *ReportHandler
	refreshHandler   *RefreshHandler
}

// NewServer creates an API server with all handlers. maxFeedbackLimit caps
// the limit query parameter on list endpoints.
func NewServer(deps Dependencies, maxFeedbackLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		summaryHandler:   NewSummaryHandler(deps),
		themesHandler:    NewThemesHandler(deps, maxFeedbackLimit),
		sentimentHandler: NewSentimentHandler(deps),
		feedbackHandler:  NewFeedbackHandler(deps, maxFeedbackLimit),
		dashboardHandler: NewDashboardHandler(deps),
		reportHandler:    NewReportHandler(deps),
		refreshHandler:   NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/summary", MetricsMiddleware(s.summaryHandler.HandleGetSummary, "summary"))
	mux.HandleFunc("/api/themes", MetricsMiddleware(s.themesHandler.HandleGetThemes, "themes"))
	mux.HandleFunc("/api/sentiment", MetricsMiddleware(s.sentimentHandler.HandleGetSentiment, "sentiment"))
	mux.HandleFunc("/api/feedback", MetricsMiddleware(s.feedbackHandler.HandleGetFeedback, "feedback"))
	mux.HandleFunc("/api/dashboard", MetricsMiddleware(s.dashboardHandler.HandleGetDashboard, "dashboard"))
	mux.HandleFunc("/api/report", MetricsMiddleware(s.reportHandler.HandleGetReport, "report"))
	mux.HandleFunc("/api/refresh", MetricsMiddleware(s.refreshHandler.HandlePostRefresh, "refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writePipelineError translates pipeline failures: the two fatal no-data
// conditions surface as 404 so clients can render an empty state, anything
// else is a 500.
func writePipelineError(w http.ResponseWriter, err error) {
	if errors.Is(err, sources.ErrNoSources) || errors.Is(err, normalize.ErrEmptyResult) {
		writeError(w, http.StatusNotFound, "no_data", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
