// Package normalize reshapes the heterogeneous source tables into the
// canonical feedback record model and concatenates them into one unified set.
package normalize

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tradeinsight/engine/internal/adapters/sources"
	"github.com/tradeinsight/engine/internal/domain/dedupe"
	"github.com/tradeinsight/engine/internal/domain/model"
	"github.com/tradeinsight/engine/pkg/logger"
	"github.com/tradeinsight/engine/pkg/metrics"
)

// mapping is the fixed per-source rename table.
type mapping struct {
	feedbackText string
	authorHandle string
	channel      model.Channel
}

var mappings = map[string]mapping{
	sources.SourceIOSReviews:      {feedbackText: "review_text", authorHandle: "username", channel: model.ChannelIOSAppStore},
	sources.SourceAndroidReviews:  {feedbackText: "review_text", authorHandle: "username", channel: model.ChannelGooglePlayStore},
	sources.SourceTwitterMentions: {feedbackText: "tweet_text", authorHandle: "handle", channel: model.ChannelTwitter},
	sources.SourceSalesNotes:      {feedbackText: "note_text", authorHandle: "account_name", channel: model.ChannelSalesNotes},
}

// Normalizer converts loaded source tables into unified feedback records.
type Normalizer struct {
	log     logger.Logger
	tracker dedupe.Tracker
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(n *Normalizer) {
		if log != nil {
			n.log = log
		}
	}
}

// WithTracker sets a custom duplicate-id tracker.
func WithTracker(t dedupe.Tracker) Option {
	return func(n *Normalizer) {
		if t != nil {
			n.tracker = t
		}
	}
}

// New constructs a Normalizer with default configuration.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	if n.log == nil {
		n.log = logger.Get().Named("normalize")
	}
	return n
}

// Unify normalizes each source table and concatenates the results into one
// record slice. Every row survives; the only failures are an empty combined
// set and blank customer ids. Duplicate customer ids across sources are
// logged, never removed.
func (n *Normalizer) Unify(ctx context.Context, tables map[string]*model.Table) ([]model.Record, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: no source tables", ErrEmptyResult)
	}

	tracker := n.tracker
	if tracker == nil {
		tracker = dedupe.NewInMemoryTracker()
	}

	// Fixed iteration order keeps the unified table deterministic.
	ids := make([]string, 0, len(tables))
	for id := range tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var records []model.Record
	for _, id := range ids {
		table := tables[id]
		m, ok := mappings[id]
		if !ok {
			n.log.Warn(ctx, "no rename mapping for source, skipping",
				logger.String("source", id),
			)
			continue
		}

		for i, row := range table.Rows {
			customerID := strings.TrimSpace(row.Get("customer_id"))
			if customerID == "" {
				return nil, fmt.Errorf("%w: source %s row %d", ErrBlankCustomerID, id, i+1)
			}
			if tracker.SeenAndRecord(ctx, customerID) {
				metrics.RecordDuplicateID()
				n.log.Warn(ctx, "duplicate customer id",
					logger.String("customer_id", customerID),
					logger.String("source", id),
				)
			}

			records = append(records, model.Record{
				CustomerID:    customerID,
				SourceChannel: m.channel,
				FeedbackText:  row.Get(m.feedbackText),
				AuthorHandle:  row.Get(m.authorHandle),
				Timestamp:     row.Timestamp,
				Raw: model.RawValues{
					Sentiment:     row.Get("sentiment"),
					Theme:         row.Get("theme"),
					Severity:      row.Get("severity"),
					StrategicGoal: row.Get("strategic_goal"),
					Rating:        row.Get("rating"),
					HelpfulVotes:  row.Get("helpful_votes"),
					Followers:     row.Get("followers"),
					ARRImpactUSD:  row.Get("ARR_impact_estimate_USD"),
				},
			})
		}
		n.log.Info(ctx, "normalized source",
			logger.String("source", id),
			logger.String("channel", string(m.channel)),
			logger.Int("records", table.Len()),
		)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: unified table is empty", ErrEmptyResult)
	}

	metrics.RecordNormalized(len(records))
	n.log.Info(ctx, "unified sources",
		logger.Int("sources", len(ids)),
		logger.Int("records", len(records)),
		logger.Int("duplicate_ids", int(tracker.Duplicates())),
	)
	return records, nil
}
