// Package aggregate derives the reporting projections from a scored,
// unified feedback record set. Every projection is a pure function of its
// input and degrades to an empty or zeroed value on empty input.
package aggregate

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tradeinsight/engine/internal/domain/model"
)

// Default aggregation constants.
const (
	defaultTopN         = 3
	defaultExcerptLimit = 200
	topFeedbackExcerpt  = 150
	aggregatePrecision  = 4
	percentagePrecision = 1
	ellipsis            = "..."
	dateLayout          = "2006-01-02"
)

// Builder computes the aggregator projections.
type Builder struct {
	topN         int
	excerptLimit int
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithTopN sets how many pain points and praised features are reported.
func WithTopN(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.topN = n
		}
	}
}

// WithExcerptLimit sets the feedback-text excerpt cap in characters.
func WithExcerptLimit(limit int) Option {
	return func(b *Builder) {
		if limit > 0 {
			b.excerptLimit = limit
		}
	}
}

// NewBuilder constructs a Builder with default configuration.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		topN:         defaultTopN,
		excerptLimit: defaultExcerptLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ThemeRollup groups records by theme and computes impact aggregates,
// sorted by total impact descending.
func (b *Builder) ThemeRollup(records []model.Record) []ThemeAggregate {
	if len(records) == 0 {
		return []ThemeAggregate{}
	}

	type themeAcc struct {
		total     float64
		count     int
		negatives int
		customers map[string]struct{}
	}
	groups := make(map[string]*themeAcc)
	for _, rec := range records {
		acc, ok := groups[rec.Theme]
		if !ok {
			acc = &themeAcc{customers: make(map[string]struct{})}
			groups[rec.Theme] = acc
		}
		acc.total += rec.ImpactScore
		acc.count++
		if rec.Sentiment == model.SentimentNegative {
			acc.negatives++
		}
		acc.customers[rec.CustomerID] = struct{}{}
	}

	out := make([]ThemeAggregate, 0, len(groups))
	for theme, acc := range groups {
		out = append(out, ThemeAggregate{
			Theme:           theme,
			TotalImpact:     round(acc.total, aggregatePrecision),
			AvgImpact:       round(acc.total/float64(acc.count), aggregatePrecision),
			FeedbackCount:   acc.count,
			NegativeCount:   acc.negatives,
			UniqueCustomers: len(acc.customers),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalImpact != out[j].TotalImpact {
			return out[i].TotalImpact > out[j].TotalImpact
		}
		return out[i].Theme < out[j].Theme
	})
	return out
}

// TopPainPoints returns the top-N negative records by impact score.
func (b *Builder) TopPainPoints(records []model.Record) []FeedbackItem {
	return b.topBySentiment(records, model.SentimentNegative)
}

// PraisedFeatures returns the top-N positive records by impact score.
func (b *Builder) PraisedFeatures(records []model.Record) []FeedbackItem {
	return b.topBySentiment(records, model.SentimentPositive)
}

func (b *Builder) topBySentiment(records []model.Record, sentiment model.Sentiment) []FeedbackItem {
	filtered := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if rec.Sentiment == sentiment {
			filtered = append(filtered, rec)
		}
	}
	if len(filtered) == 0 {
		return []FeedbackItem{}
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].ImpactScore != filtered[j].ImpactScore {
			return filtered[i].ImpactScore > filtered[j].ImpactScore
		}
		return filtered[i].CustomerID < filtered[j].CustomerID
	})
	if len(filtered) > b.topN {
		filtered = filtered[:b.topN]
	}

	items := make([]FeedbackItem, len(filtered))
	for i, rec := range filtered {
		items[i] = FeedbackItem{
			Theme:         rec.Theme,
			ImpactScore:   round(rec.ImpactScore, aggregatePrecision),
			FeedbackText:  excerpt(rec.FeedbackText, b.excerptLimit),
			SourceChannel: rec.SourceChannel,
			Severity:      rec.Severity,
			StrategicGoal: rec.StrategicGoal,
			CustomerID:    rec.CustomerID,
			Sentiment:     rec.Sentiment,
		}
	}
	return items
}

// StrategicInsights groups records by strategic goal, skipping blank goals,
// sorted by total impact descending.
func (b *Builder) StrategicInsights(records []model.Record) []StrategicInsight {
	if len(records) == 0 {
		return []StrategicInsight{}
	}

	type goalAcc struct {
		total     float64
		count     int
		breakdown map[model.Sentiment]int
		top       *model.Record
	}
	groups := make(map[string]*goalAcc)
	for i := range records {
		rec := records[i]
		goal := strings.TrimSpace(rec.StrategicGoal)
		if goal == "" {
			continue
		}
		acc, ok := groups[goal]
		if !ok {
			acc = &goalAcc{breakdown: make(map[model.Sentiment]int)}
			groups[goal] = acc
		}
		acc.total += rec.ImpactScore
		acc.count++
		acc.breakdown[rec.Sentiment]++
		if acc.top == nil || rec.ImpactScore > acc.top.ImpactScore {
			acc.top = &records[i]
		}
	}

	out := make([]StrategicInsight, 0, len(groups))
	for goal, acc := range groups {
		insight := StrategicInsight{
			Goal:               goal,
			TotalImpact:        round(acc.total, aggregatePrecision),
			AvgImpact:          round(acc.total/float64(acc.count), aggregatePrecision),
			FeedbackCount:      acc.count,
			SentimentBreakdown: acc.breakdown,
		}
		if acc.top != nil {
			insight.TopFeedback = &TopFeedback{
				Theme:        acc.top.Theme,
				ImpactScore:  round(acc.top.ImpactScore, aggregatePrecision),
				FeedbackText: excerpt(acc.top.FeedbackText, topFeedbackExcerpt),
				Sentiment:    acc.top.Sentiment,
			}
		}
		out = append(out, insight)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalImpact != out[j].TotalImpact {
			return out[i].TotalImpact > out[j].TotalImpact
		}
		return out[i].Goal < out[j].Goal
	})
	return out
}

// ExecutiveSummary computes the high-level metrics for a record set.
func (b *Builder) ExecutiveSummary(records []model.Record) ExecutiveSummary {
	summary := ExecutiveSummary{
		SentimentCounts:      make(map[model.Sentiment]int),
		SentimentPercentages: make(map[model.Sentiment]float64),
		SourceDistribution:   make(map[model.Channel]int),
	}
	if len(records) == 0 {
		return summary
	}

	summary.TotalFeedbackItems = len(records)

	customers := make(map[string]struct{})
	var total, maxImpact float64
	var earliest, latest *time.Time
	themeTotals := make(map[string]float64)

	for i := range records {
		rec := records[i]
		customers[rec.CustomerID] = struct{}{}
		summary.SentimentCounts[rec.Sentiment]++
		summary.SourceDistribution[rec.SourceChannel]++
		total += rec.ImpactScore
		if rec.ImpactScore > maxImpact {
			maxImpact = rec.ImpactScore
		}
		themeTotals[rec.Theme] += rec.ImpactScore
		if rec.Timestamp != nil {
			if earliest == nil || rec.Timestamp.Before(*earliest) {
				earliest = rec.Timestamp
			}
			if latest == nil || rec.Timestamp.After(*latest) {
				latest = rec.Timestamp
			}
		}
	}

	summary.UniqueCustomers = len(customers)
	for sentiment, count := range summary.SentimentCounts {
		pct := float64(count) / float64(len(records)) * 100
		summary.SentimentPercentages[sentiment] = round(pct, percentagePrecision)
	}
	summary.Impact = ImpactStats{
		Total:   round(total, aggregatePrecision),
		Average: round(total/float64(len(records)), aggregatePrecision),
		Maximum: round(maxImpact, aggregatePrecision),
	}

	topTheme, topImpact := "", math.Inf(-1)
	for theme, impact := range themeTotals {
		if impact > topImpact || (impact == topImpact && theme < topTheme) {
			topTheme, topImpact = theme, impact
		}
	}
	summary.TopTheme = TopTheme{Name: topTheme, TotalImpact: round(topImpact, aggregatePrecision)}

	if earliest != nil && latest != nil {
		summary.TimeRange = &TimeRange{
			StartDate:   earliest.Format(dateLayout),
			EndDate:     latest.Format(dateLayout),
			DaysCovered: int(latest.Sub(*earliest).Hours()/24) + 1,
		}
	}
	return summary
}

// BuildReport runs every projection and stamps the result with a run id.
func (b *Builder) BuildReport(records []model.Record) *Report {
	return &Report{
		RunID:             uuid.NewString(),
		GeneratedAt:       time.Now().UTC(),
		TotalRecords:      len(records),
		ExecutiveSummary:  b.ExecutiveSummary(records),
		ThemeAnalysis:     b.ThemeRollup(records),
		TopPainPoints:     b.TopPainPoints(records),
		PraisedFeatures:   b.PraisedFeatures(records),
		StrategicInsights: b.StrategicInsights(records),
	}
}

// excerpt caps text at limit runes and appends an ellipsis when truncated.
func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + ellipsis
}

func round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
