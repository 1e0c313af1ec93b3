// Package scoring computes source-credibility weights and business impact
// scores for feedback records.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/tradeinsight/engine/internal/domain/model"
)

// Default scoring configuration constants.
const (
	defaultARRDivisorUSD     = 50_000.0
	defaultFollowerDivisor   = 20_000.0
	defaultVoteDivisor       = 10.0
	defaultSourceWeightFloor = 0.1
	defaultUnknownWeight     = 1.0
	defaultStrategicMult     = 2.0
	defaultGeneralMult       = 1.0
	impactScorePrecision     = 4
)

// defaultSentimentWeights intentionally assigns the highest weight to
// negative sentiment: negative feedback is the highest priority to address.
// This inversion is deliberate, not a polarity scale.
func defaultSentimentWeights() map[model.Sentiment]float64 {
	return map[model.Sentiment]float64{
		model.SentimentNegative: 1.5,
		model.SentimentNeutral:  0.5,
		model.SentimentPositive: 0.1,
	}
}

// Engine scores feedback records. All inputs degrade to documented defaults;
// the engine never returns a non-finite or negative value.
type Engine struct {
	arrDivisor       float64
	followerDivisor  float64
	voteDivisor      float64
	weightFloor      float64
	strategicMult    float64
	sentimentWeights map[model.Sentiment]float64
	alignedGoals     map[string]struct{}
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSourceWeightFloor sets the universal minimum source weight.
func WithSourceWeightFloor(floor float64) Option {
	return func(e *Engine) {
		if floor > 0 {
			e.weightFloor = floor
		}
	}
}

// WithStrategicMultiplier sets the multiplier applied to aligned goals.
func WithStrategicMultiplier(mult float64) Option {
	return func(e *Engine) {
		if mult > 0 {
			e.strategicMult = mult
		}
	}
}

// WithSentimentWeights sets the sentiment-to-numeric mapping.
func WithSentimentWeights(weights map[model.Sentiment]float64) Option {
	return func(e *Engine) {
		if len(weights) == 0 {
			return
		}
		e.sentimentWeights = make(map[model.Sentiment]float64, len(weights))
		for s, w := range weights {
			if w >= 0 && !math.IsNaN(w) && !math.IsInf(w, 0) {
				e.sentimentWeights[s] = w
			}
		}
	}
}

// WithARRDivisor sets the divisor applied to sales-note ARR estimates.
func WithARRDivisor(divisor float64) Option {
	return func(e *Engine) {
		if divisor > 0 {
			e.arrDivisor = divisor
		}
	}
}

// WithFollowerDivisor sets the divisor applied to follower counts.
func WithFollowerDivisor(divisor float64) Option {
	return func(e *Engine) {
		if divisor > 0 {
			e.followerDivisor = divisor
		}
	}
}

// WithAlignedGoals overrides the goal set receiving the strategic multiplier.
func WithAlignedGoals(goals []string) Option {
	return func(e *Engine) {
		if len(goals) == 0 {
			return
		}
		e.alignedGoals = make(map[string]struct{}, len(goals))
		for _, g := range goals {
			e.alignedGoals[g] = struct{}{}
		}
	}
}

// NewEngine constructs a scoring engine with the default formula constants.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		arrDivisor:       defaultARRDivisorUSD,
		followerDivisor:  defaultFollowerDivisor,
		voteDivisor:      defaultVoteDivisor,
		weightFloor:      defaultSourceWeightFloor,
		strategicMult:    defaultStrategicMult,
		sentimentWeights: defaultSentimentWeights(),
		alignedGoals:     model.AlignedGoals(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SourceWeight computes the per-record credibility multiplier. The channel
// is matched by case-insensitive substring; missing or non-numeric signal
// values count as 0 before the floor, and an unmatched channel is exactly 1.0.
func (e *Engine) SourceWeight(rec model.Record) float64 {
	channel := strings.ToLower(strings.TrimSpace(string(rec.SourceChannel)))

	switch {
	case strings.Contains(channel, "internal sales"):
		arr := parseSignal(rec.Raw.ARRImpactUSD)
		return e.floor(arr / e.arrDivisor)

	case strings.Contains(channel, "twitter") || channel == "x":
		followers := parseSignal(rec.Raw.Followers)
		return e.floor(followers / e.followerDivisor)

	case strings.Contains(channel, "app store"),
		strings.Contains(channel, "ios"),
		strings.Contains(channel, "google play"),
		strings.Contains(channel, "android"):
		rating := parseSignal(rec.Raw.Rating)
		votes := parseSignal(rec.Raw.HelpfulVotes)
		return e.floor(rating + votes/e.voteDivisor)

	default:
		return defaultUnknownWeight
	}
}

// ImpactScore combines sentiment, severity, source weight and strategic
// alignment into the priority metric:
//
//	(sentiment_value × severity) × source_weight × strategic_multiplier
//
// rounded to 4 decimal places and floored at 0. The result is always finite.
func (e *Engine) ImpactScore(rec model.Record, sourceWeight float64) float64 {
	sentimentValue, ok := e.sentimentWeights[rec.Sentiment]
	if !ok {
		sentimentValue = e.sentimentWeights[model.SentimentNeutral]
	}

	severity := rec.Severity
	if math.IsNaN(severity) || math.IsInf(severity, 0) || severity < 0 {
		severity = model.DefaultSeverity
	}
	if math.IsNaN(sourceWeight) || math.IsInf(sourceWeight, 0) || sourceWeight < 0 {
		sourceWeight = defaultUnknownWeight
	}

	mult := defaultGeneralMult
	if _, aligned := e.alignedGoals[rec.StrategicGoal]; aligned {
		mult = e.strategicMult
	}

	score := (sentimentValue * severity) * sourceWeight * mult
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return math.Max(0, round(score, impactScorePrecision))
}

// Apply computes source weights and impact scores for every record and
// returns the new slice.
func (e *Engine) Apply(records []model.Record) []model.Record {
	out := make([]model.Record, len(records))
	for i, rec := range records {
		rec.SourceWeight = e.SourceWeight(rec)
		rec.ImpactScore = e.ImpactScore(rec, rec.SourceWeight)
		out[i] = rec
	}
	return out
}

func (e *Engine) floor(weight float64) float64 {
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return e.weightFloor
	}
	return math.Max(weight, e.weightFloor)
}

// parseSignal coerces a raw signal value; missing or non-numeric becomes 0.
func parseSignal(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
