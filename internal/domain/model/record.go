// Package model contains the canonical feedback record passed between
// pipeline stages.
package model

import "time"

// Channel identifies which intake source a record came from.
type Channel string

// The four fixed source channels.
const (
	ChannelIOSAppStore     Channel = "iOS App Store"
	ChannelGooglePlayStore Channel = "Google Play Store"
	ChannelTwitter         Channel = "Twitter (X)"
	ChannelSalesNotes      Channel = "Internal Sales Notes"
)

// Sentiment is the canonical sentiment classification.
type Sentiment string

// Valid sentiment values after enrichment.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Strategic goal constants. Records aligned with one of the five company
// goals receive a scoring multiplier; everything else falls back to
// GoalGeneral.
const (
	GoalGrowth       = "Growth"
	GoalTrustSafety  = "Trust&Safety"
	GoalOnchain      = "Onchain Adoption"
	GoalCXEfficiency = "CX Efficiency"
	GoalCompliance   = "Compliance"
	GoalGeneral      = "General"
	DefaultTheme     = "General Feedback"
	DefaultSeverity  = 1.0
)

// AlignedGoals returns the five strategic goals that up-weight a record.
func AlignedGoals() map[string]struct{} {
	return map[string]struct{}{
		GoalGrowth:       {},
		GoalTrustSafety:  {},
		GoalOnchain:      {},
		GoalCXEfficiency: {},
		GoalCompliance:   {},
	}
}

// RawValues preserves the source strings that feed enrichment and scoring.
// Coercion happens at the use site with a named default per field, so a
// malformed value degrades to its default instead of failing the record.
type RawValues struct {
	Sentiment     string
	Theme         string
	Severity      string
	StrategicGoal string

	// Source-specific business signals used for source weighting.
	Rating       string
	HelpfulVotes string
	Followers    string
	ARRImpactUSD string
}

// Record is the canonical, source-agnostic representation of one piece of
// customer feedback. Created by the normalizer, enriched and scored by the
// downstream stages, consumed read-only by the aggregator.
type Record struct {
	CustomerID    string
	SourceChannel Channel
	FeedbackText  string
	AuthorHandle  string
	Timestamp     *time.Time // nil when the source value failed to parse

	// Enriched categorical fields.
	Sentiment     Sentiment
	Theme         string
	Severity      float64
	StrategicGoal string

	// Derived scoring fields.
	SourceWeight float64
	ImpactScore  float64

	Raw RawValues
}
