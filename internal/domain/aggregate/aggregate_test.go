package aggregate_test

import (
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	aggregate "github.com/tradeinsight/engine/internal/domain/aggregate"
	"github.com/tradeinsight/engine/internal/domain/model"
)

func scoredRecords() []model.Record {
	t1 := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 14, 18, 0, 0, 0, time.UTC)
	return []model.Record{
		{
			CustomerID:    "IOS-0001",
			SourceChannel: model.ChannelIOSAppStore,
			FeedbackText:  "Crashes every time I place a limit order.",
			Timestamp:     &t1,
			Sentiment:     model.SentimentNegative,
			Theme:         "Performance/Outages",
			Severity:      2.0,
			StrategicGoal: model.GoalTrustSafety,
			ImpactScore:   6.0,
		},
		{
			CustomerID:    "TWT-0001",
			SourceChannel: model.ChannelTwitter,
			FeedbackText:  "Love the new staking dashboard.",
			Timestamp:     &t2,
			Sentiment:     model.SentimentPositive,
			Theme:         "Mobile UX",
			Severity:      1.0,
			StrategicGoal: model.GoalGrowth,
			ImpactScore:   0.4,
		},
		{
			CustomerID:    "SLS-0001",
			SourceChannel: model.ChannelSalesNotes,
			FeedbackText:  "Enterprise client blocked on API rate limits.",
			Sentiment:     model.SentimentNegative,
			Theme:         "API & Integrations",
			Severity:      3.0,
			StrategicGoal: model.GoalGrowth,
			ImpactScore:   9.0,
		},
		{
			CustomerID:    "AND-0001",
			SourceChannel: model.ChannelGooglePlayStore,
			FeedbackText:  "Charts are fine.",
			Sentiment:     model.SentimentNeutral,
			Theme:         "Performance/Outages",
			Severity:      1.0,
			StrategicGoal: model.GoalGeneral,
			ImpactScore:   0.5,
		},
	}
}

func TestBuilder_ThemeRollup(t *testing.T) {
	Convey("Given a scored record set", t, func() {
		builder := aggregate.NewBuilder()

		Convey("When rolling up by theme", func() {
			rollup := builder.ThemeRollup(scoredRecords())

			Convey("Then themes are sorted by total impact descending", func() {
				So(len(rollup), ShouldEqual, 3)
				So(rollup[0].Theme, ShouldEqual, "API & Integrations")
				So(rollup[0].TotalImpact, ShouldEqual, 9.0)
				So(rollup[1].Theme, ShouldEqual, "Performance/Outages")
				So(rollup[1].TotalImpact, ShouldEqual, 6.5)
				So(rollup[2].Theme, ShouldEqual, "Mobile UX")
			})

			Convey("And per-theme counts are correct", func() {
				perf := rollup[1]
				So(perf.FeedbackCount, ShouldEqual, 2)
				So(perf.NegativeCount, ShouldEqual, 1)
				So(perf.UniqueCustomers, ShouldEqual, 2)
				So(perf.AvgImpact, ShouldEqual, 3.25)
			})
		})

		Convey("When two themes have equal total impact", func() {
			records := []model.Record{
				{CustomerID: "a", Theme: "Zeta", ImpactScore: 1.0},
				{CustomerID: "b", Theme: "Alpha", ImpactScore: 1.0},
			}
			rollup := builder.ThemeRollup(records)

			Convey("Then they are ordered alphabetically", func() {
				So(rollup[0].Theme, ShouldEqual, "Alpha")
				So(rollup[1].Theme, ShouldEqual, "Zeta")
			})
		})

		Convey("When the record set is empty", func() {
			Convey("Then the rollup is empty, not nil", func() {
				So(builder.ThemeRollup(nil), ShouldResemble, []aggregate.ThemeAggregate{})
			})
		})
	})
}

func TestBuilder_TopFeedback(t *testing.T) {
	Convey("Given a scored record set", t, func() {
		builder := aggregate.NewBuilder(aggregate.WithTopN(1))

		Convey("When listing top pain points", func() {
			pains := builder.TopPainPoints(scoredRecords())

			Convey("Then only the highest-impact negative record is returned", func() {
				So(len(pains), ShouldEqual, 1)
				So(pains[0].CustomerID, ShouldEqual, "SLS-0001")
				So(pains[0].Sentiment, ShouldEqual, model.SentimentNegative)
				So(pains[0].ImpactScore, ShouldEqual, 9.0)
			})
		})

		Convey("When listing praised features", func() {
			praised := builder.PraisedFeatures(scoredRecords())

			Convey("Then only positive records are considered", func() {
				So(len(praised), ShouldEqual, 1)
				So(praised[0].CustomerID, ShouldEqual, "TWT-0001")
			})
		})

		Convey("When impact scores tie", func() {
			records := []model.Record{
				{CustomerID: "b", Sentiment: model.SentimentNegative, ImpactScore: 2.0},
				{CustomerID: "a", Sentiment: model.SentimentNegative, ImpactScore: 2.0},
			}
			pains := builder.TopPainPoints(records)

			Convey("Then the lower customer id wins", func() {
				So(pains[0].CustomerID, ShouldEqual, "a")
			})
		})

		Convey("When no record matches the sentiment", func() {
			records := []model.Record{
				{CustomerID: "a", Sentiment: model.SentimentNeutral, ImpactScore: 1.0},
			}

			Convey("Then the result is empty, not nil", func() {
				So(builder.TopPainPoints(records), ShouldResemble, []aggregate.FeedbackItem{})
			})
		})

		Convey("When the feedback text exceeds the excerpt limit", func() {
			long := strings.Repeat("x", 300)
			capped := aggregate.NewBuilder(aggregate.WithTopN(1), aggregate.WithExcerptLimit(10))
			pains := capped.TopPainPoints([]model.Record{
				{CustomerID: "a", Sentiment: model.SentimentNegative, FeedbackText: long, ImpactScore: 1.0},
			})

			Convey("Then the text is truncated with an ellipsis", func() {
				So(pains[0].FeedbackText, ShouldEqual, strings.Repeat("x", 10)+"...")
			})
		})
	})
}

func TestBuilder_StrategicInsights(t *testing.T) {
	Convey("Given a scored record set", t, func() {
		builder := aggregate.NewBuilder()

		Convey("When grouping by strategic goal", func() {
			insights := builder.StrategicInsights(scoredRecords())

			Convey("Then goals are sorted by total impact descending", func() {
				So(len(insights), ShouldEqual, 3)
				So(insights[0].Goal, ShouldEqual, model.GoalGrowth)
				So(insights[0].TotalImpact, ShouldEqual, 9.4)
				So(insights[1].Goal, ShouldEqual, model.GoalTrustSafety)
			})

			Convey("And each goal carries a sentiment breakdown", func() {
				growth := insights[0]
				So(growth.FeedbackCount, ShouldEqual, 2)
				So(growth.SentimentBreakdown[model.SentimentNegative], ShouldEqual, 1)
				So(growth.SentimentBreakdown[model.SentimentPositive], ShouldEqual, 1)
			})

			Convey("And the top feedback is the highest-impact record", func() {
				So(insights[0].TopFeedback, ShouldNotBeNil)
				So(insights[0].TopFeedback.Theme, ShouldEqual, "API & Integrations")
				So(insights[0].TopFeedback.ImpactScore, ShouldEqual, 9.0)
			})
		})

		Convey("When a record has a blank goal", func() {
			records := []model.Record{
				{CustomerID: "a", StrategicGoal: "  ", ImpactScore: 5.0},
				{CustomerID: "b", StrategicGoal: model.GoalGrowth, ImpactScore: 1.0},
			}
			insights := builder.StrategicInsights(records)

			Convey("Then the blank-goal record is skipped", func() {
				So(len(insights), ShouldEqual, 1)
				So(insights[0].Goal, ShouldEqual, model.GoalGrowth)
			})
		})
	})
}

func TestBuilder_ExecutiveSummary(t *testing.T) {
	Convey("Given a scored record set", t, func() {
		builder := aggregate.NewBuilder()

		Convey("When computing the summary", func() {
			summary := builder.ExecutiveSummary(scoredRecords())

			Convey("Then counts and percentages line up", func() {
				So(summary.TotalFeedbackItems, ShouldEqual, 4)
				So(summary.UniqueCustomers, ShouldEqual, 4)
				So(summary.SentimentCounts[model.SentimentNegative], ShouldEqual, 2)
				So(summary.SentimentPercentages[model.SentimentNegative], ShouldEqual, 50.0)
				So(summary.SentimentPercentages[model.SentimentPositive], ShouldEqual, 25.0)
			})

			Convey("And impact statistics are rounded", func() {
				So(summary.Impact.Total, ShouldEqual, 15.9)
				So(summary.Impact.Average, ShouldEqual, 3.975)
				So(summary.Impact.Maximum, ShouldEqual, 9.0)
			})

			Convey("And the top theme is the one with highest total impact", func() {
				So(summary.TopTheme.Name, ShouldEqual, "API & Integrations")
				So(summary.TopTheme.TotalImpact, ShouldEqual, 9.0)
			})

			Convey("And the source distribution covers all channels seen", func() {
				So(summary.SourceDistribution[model.ChannelIOSAppStore], ShouldEqual, 1)
				So(len(summary.SourceDistribution), ShouldEqual, 4)
			})

			Convey("And the time range spans the timestamped records", func() {
				So(summary.TimeRange, ShouldNotBeNil)
				So(summary.TimeRange.StartDate, ShouldEqual, "2024-01-10")
				So(summary.TimeRange.EndDate, ShouldEqual, "2024-01-14")
				So(summary.TimeRange.DaysCovered, ShouldEqual, 5)
			})
		})

		Convey("When the record set is empty", func() {
			summary := builder.ExecutiveSummary(nil)

			Convey("Then all metrics are zeroed and the time range is absent", func() {
				So(summary.TotalFeedbackItems, ShouldEqual, 0)
				So(summary.Impact.Total, ShouldEqual, 0)
				So(summary.TimeRange, ShouldBeNil)
			})
		})

		Convey("When no record has a timestamp", func() {
			summary := builder.ExecutiveSummary([]model.Record{
				{CustomerID: "a", Sentiment: model.SentimentNeutral},
			})

			Convey("Then the time range is absent", func() {
				So(summary.TimeRange, ShouldBeNil)
			})
		})
	})
}

func TestBuilder_BuildReport(t *testing.T) {
	Convey("Given a scored record set", t, func() {
		builder := aggregate.NewBuilder()

		Convey("When building the full report", func() {
			report := builder.BuildReport(scoredRecords())

			Convey("Then the report is stamped and complete", func() {
				So(report.RunID, ShouldNotBeEmpty)
				So(report.GeneratedAt.IsZero(), ShouldBeFalse)
				So(report.TotalRecords, ShouldEqual, 4)
				So(len(report.ThemeAnalysis), ShouldEqual, 3)
				So(len(report.TopPainPoints), ShouldEqual, 2)
				So(len(report.PraisedFeatures), ShouldEqual, 1)
				So(len(report.StrategicInsights), ShouldEqual, 3)
			})

			Convey("And two runs get distinct run ids", func() {
				other := builder.BuildReport(scoredRecords())
				So(other.RunID, ShouldNotEqual, report.RunID)
			})
		})
	})
}
