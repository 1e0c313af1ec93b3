package api

import (
	"net/http"

	"github.com/tradeinsight/engine/internal/domain/aggregate"
	"github.com/tradeinsight/engine/internal/domain/model"
)

// Dashboard item caps.
const (
	dashboardThemeLimit    = 5
	dashboardFeedbackLimit = 5
)

// KPIData carries the headline figures of the dashboard payload.
type KPIData struct {
	TotalItems      int     `json:"total_items"`
	UniqueCustomers int     `json:"unique_customers"`
	TopTheme        string  `json:"top_theme"`
	TotalImpact     float64 `json:"total_impact"`
	NegativeCount   int     `json:"negative_count"`
}

// DashboardData is the combined payload the dashboard frontend consumes.
type DashboardData struct {
	KPIs                  KPIData                      `json:"kpis"`
	ThemeRankings         []aggregate.ThemeAggregate   `json:"theme_rankings"`
	SentimentDistribution []SentimentData              `json:"sentiment_distribution"`
	TopPainPoints         []aggregate.FeedbackItem     `json:"top_pain_points"`
	StrategicInsights     []aggregate.StrategicInsight `json:"strategic_insights"`
}

// DashboardHandler serves the combined dashboard payload.
type DashboardHandler struct {
	deps Dependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleGetDashboard handles GET /api/dashboard requests.
func (h *DashboardHandler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	result, err := h.deps.Run(r.Context())
	if err != nil {
		writePipelineError(w, err)
		return
	}

	report := result.Report
	summary := report.ExecutiveSummary

	sentiments := make([]SentimentData, 0, len(summary.SentimentCounts))
	for sentiment, count := range summary.SentimentCounts {
		sentiments = append(sentiments, SentimentData{
			Sentiment:  sentiment,
			Count:      count,
			Percentage: summary.SentimentPercentages[sentiment],
		})
	}

	themes := report.ThemeAnalysis
	if len(themes) > dashboardThemeLimit {
		themes = themes[:dashboardThemeLimit]
	}
	painPoints := report.TopPainPoints
	if len(painPoints) > dashboardFeedbackLimit {
		painPoints = painPoints[:dashboardFeedbackLimit]
	}

	negatives := summary.SentimentCounts[model.SentimentNegative]
	writeJSON(w, http.StatusOK, DashboardData{
		KPIs: KPIData{
			TotalItems:      summary.TotalFeedbackItems,
			UniqueCustomers: summary.UniqueCustomers,
			TopTheme:        summary.TopTheme.Name,
			TotalImpact:     summary.Impact.Total,
			NegativeCount:   negatives,
		},
		ThemeRankings:         themes,
		SentimentDistribution: sentiments,
		TopPainPoints:         painPoints,
		StrategicInsights:     report.StrategicInsights,
	})
}
