package aggregate

import (
	"time"

	"github.com/tradeinsight/engine/internal/domain/model"
)

// ThemeAggregate is one row of the theme rollup.
type ThemeAggregate struct {
	Theme           string  `json:"theme"`
	TotalImpact     float64 `json:"total_impact"`
	AvgImpact       float64 `json:"avg_impact"`
	FeedbackCount   int     `json:"feedback_count"`
	NegativeCount   int     `json:"negative_count"`
	UniqueCustomers int     `json:"unique_customers"`
}

// FeedbackItem is one pain point or praised feature.
type FeedbackItem struct {
	Theme         string          `json:"theme"`
	ImpactScore   float64         `json:"impact_score"`
	FeedbackText  string          `json:"feedback_text"`
	SourceChannel model.Channel   `json:"source_channel"`
	Severity      float64         `json:"severity"`
	StrategicGoal string          `json:"strategic_goal"`
	CustomerID    string          `json:"customer_id"`
	Sentiment     model.Sentiment `json:"sentiment"`
}

// TopFeedback is the compact summary of a group's highest-impact record.
type TopFeedback struct {
	Theme        string          `json:"theme"`
	ImpactScore  float64         `json:"impact_score"`
	FeedbackText string          `json:"feedback_text"`
	Sentiment    model.Sentiment `json:"sentiment"`
}

// StrategicInsight is the per-goal insight block.
type StrategicInsight struct {
	Goal               string                  `json:"goal"`
	TotalImpact        float64                 `json:"total_impact"`
	AvgImpact          float64                 `json:"avg_impact"`
	FeedbackCount      int                     `json:"feedback_count"`
	SentimentBreakdown map[model.Sentiment]int `json:"sentiment_breakdown"`
	TopFeedback        *TopFeedback            `json:"top_feedback,omitempty"`
}

// ImpactStats summarizes the impact score distribution.
type ImpactStats struct {
	Total   float64 `json:"total_impact"`
	Average float64 `json:"average_impact"`
	Maximum float64 `json:"maximum_impact"`
}

// TopTheme names the theme with the largest total impact.
type TopTheme struct {
	Name        string  `json:"name"`
	TotalImpact float64 `json:"total_impact"`
}

// TimeRange describes the span covered by records with valid timestamps.
type TimeRange struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	DaysCovered int    `json:"days_covered"`
}

// ExecutiveSummary is the high-level rollup of a pipeline run.
type ExecutiveSummary struct {
	TotalFeedbackItems   int                         `json:"total_feedback_items"`
	UniqueCustomers      int                         `json:"unique_customers"`
	SentimentCounts      map[model.Sentiment]int     `json:"sentiment_distribution"`
	SentimentPercentages map[model.Sentiment]float64 `json:"sentiment_percentages"`
	Impact               ImpactStats                 `json:"impact_metrics"`
	TopTheme             TopTheme                    `json:"top_theme"`
	SourceDistribution   map[model.Channel]int       `json:"source_distribution"`
	TimeRange            *TimeRange                  `json:"time_range,omitempty"`
}

// Report bundles every aggregator projection for the reporting layer.
type Report struct {
	RunID             string             `json:"run_id"`
	GeneratedAt       time.Time          `json:"generated_at"`
	TotalRecords      int                `json:"total_records"`
	ExecutiveSummary  ExecutiveSummary   `json:"executive_summary"`
	ThemeAnalysis     []ThemeAggregate   `json:"theme_analysis"`
	TopPainPoints     []FeedbackItem     `json:"top_pain_points"`
	PraisedFeatures   []FeedbackItem     `json:"praised_features"`
	StrategicInsights []StrategicInsight `json:"strategic_insights"`
}
