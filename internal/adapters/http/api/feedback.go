package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tradeinsight/engine/internal/domain/aggregate"
)

// Default feedback list size.
const defaultFeedbackLimit = 10

// FeedbackHandler serves ranked feedback items.
type FeedbackHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(deps Dependencies, maxLimit int) *FeedbackHandler {
	return &FeedbackHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetFeedback handles GET /api/feedback?sentiment=negative&limit=N
// requests. Sentiment selects pain points (negative, the default) or praised
// features (positive); items come back ranked by impact score.
func (h *FeedbackHandler) HandleGetFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := defaultFeedbackLimit
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

	sentiment := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sentiment")))
	if sentiment == "" {
		sentiment = "negative"
	}
	if sentiment != "negative" && sentiment != "positive" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadSentiment)
		return
	}

	result, err := h.deps.Run(r.Context())
	if err != nil {
		writePipelineError(w, err)
		return
	}

	builder := aggregate.NewBuilder(aggregate.WithTopN(limit))
	var items []aggregate.FeedbackItem
	if sentiment == "negative" {
		items = builder.TopPainPoints(result.Records)
	} else {
		items = builder.PraisedFeatures(result.Records)
	}
	writeJSON(w, http.StatusOK, items)
}
