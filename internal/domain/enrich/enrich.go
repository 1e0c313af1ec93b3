// Package enrich fills the categorical fields of feedback records from their
// pre-labeled source values, applying a named default per field. It stands in
// for an NLP stage but performs no inference, and no error ever escapes it.
package enrich

import (
	"math"
	"strconv"
	"strings"

	"github.com/tradeinsight/engine/internal/domain/model"
)

// Enricher applies the categorical default-fallback rules.
type Enricher struct {
	alignedGoals map[string]struct{}
	defaultTheme string
}

// Option applies a configuration option to the Enricher.
type Option func(*Enricher)

// WithAlignedGoals overrides the accepted strategic goal set.
func WithAlignedGoals(goals []string) Option {
	return func(e *Enricher) {
		if len(goals) == 0 {
			return
		}
		e.alignedGoals = make(map[string]struct{}, len(goals))
		for _, g := range goals {
			e.alignedGoals[g] = struct{}{}
		}
	}
}

// WithDefaultTheme overrides the fallback theme label.
func WithDefaultTheme(theme string) Option {
	return func(e *Enricher) {
		if theme != "" {
			e.defaultTheme = theme
		}
	}
}

// New constructs an Enricher with the five aligned goals and the standard
// fallback labels.
func New(opts ...Option) *Enricher {
	e := &Enricher{
		alignedGoals: model.AlignedGoals(),
		defaultTheme: model.DefaultTheme,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sentiment canonicalizes a raw sentiment value. Anything that is not a
// case/whitespace variant of positive, neutral or negative becomes neutral.
func (e *Enricher) Sentiment(raw string) model.Sentiment {
	switch model.Sentiment(strings.ToLower(strings.TrimSpace(raw))) {
	case model.SentimentPositive:
		return model.SentimentPositive
	case model.SentimentNegative:
		return model.SentimentNegative
	case model.SentimentNeutral:
		return model.SentimentNeutral
	default:
		return model.SentimentNeutral
	}
}

// Theme trims a raw theme and keeps it verbatim. No canonical vocabulary is
// enforced; blank values fall back to the default theme.
func (e *Enricher) Theme(raw string) string {
	theme := strings.TrimSpace(raw)
	if theme == "" {
		return e.defaultTheme
	}
	return theme
}

// StrategicGoal accepts only exact matches to the aligned goal set; every
// other value, blank included, becomes General.
func (e *Enricher) StrategicGoal(raw string) string {
	goal := strings.TrimSpace(raw)
	if _, ok := e.alignedGoals[goal]; ok {
		return goal
	}
	return model.GoalGeneral
}

// Severity parses a raw severity value. Absent, non-numeric, non-finite and
// negative values all fall back to the default of 1.0.
func (e *Enricher) Severity(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return model.DefaultSeverity
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return model.DefaultSeverity
	}
	return v
}

// Apply enriches every record and returns the new slice. It is a pure map:
// applying it twice yields the same values, since the raw inputs are kept on
// the record and each rule is deterministic.
func (e *Enricher) Apply(records []model.Record) []model.Record {
	out := make([]model.Record, len(records))
	for i, rec := range records {
		rec.Sentiment = e.Sentiment(rec.Raw.Sentiment)
		rec.Theme = e.Theme(rec.Raw.Theme)
		rec.StrategicGoal = e.StrategicGoal(rec.Raw.StrategicGoal)
		rec.Severity = e.Severity(rec.Raw.Severity)
		out[i] = rec
	}
	return out
}
