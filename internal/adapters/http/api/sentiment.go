package api

import (
	"net/http"
	"sort"

	"github.com/tradeinsight/engine/internal/domain/model"
)

// SentimentData is one slice of the sentiment distribution.
type SentimentData struct {
	Sentiment  model.Sentiment `json:"sentiment"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

// SentimentHandler serves the sentiment distribution.
type SentimentHandler struct {
	deps Dependencies
}

// NewSentimentHandler creates a new sentiment handler.
func NewSentimentHandler(deps Dependencies) *SentimentHandler {
	return &SentimentHandler{deps: deps}
}

// HandleGetSentiment handles GET /api/sentiment requests.
func (h *SentimentHandler) HandleGetSentiment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	result, err := h.deps.Run(r.Context())
	if err != nil {
		writePipelineError(w, err)
		return
	}

	summary := result.Report.ExecutiveSummary
	out := make([]SentimentData, 0, len(summary.SentimentCounts))
	for sentiment, count := range summary.SentimentCounts {
		out = append(out, SentimentData{
			Sentiment:  sentiment,
			Count:      count,
			Percentage: summary.SentimentPercentages[sentiment],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Sentiment < out[j].Sentiment
	})
	writeJSON(w, http.StatusOK, out)
}
