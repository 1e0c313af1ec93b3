package sources_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	sources "github.com/tradeinsight/engine/internal/adapters/sources"
)

const iosHeader = "customer_id,source,username,timestamp,rating,sentiment,review_text,theme,severity,strategic_goal,helpful_votes"

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoader_Load(t *testing.T) {
	Convey("Given a data directory with one valid source", t, func() {
		dir := t.TempDir()
		writeCSV(t, dir, "ios_app_store_reviews.csv", iosHeader+"\n"+
			`IOS-0001,iOS App Store,trader_jane,2024-02-01 10:30:00,2,negative,"App froze, lost my order",Performance/Outages,2.5,Trust&Safety,14`+"\n"+
			"IOS-0002,iOS App Store,hodler99,2024-02-03,5,positive,Smooth fills every time,Trading/Execution & Fees,1.0,Growth,3\n")
		loader := sources.New(sources.WithFiles(map[string]string{
			sources.SourceIOSReviews: "ios_app_store_reviews.csv",
		}))

		Convey("When loading", func() {
			tables, err := loader.Load(context.Background(), dir)

			Convey("Then the table is parsed with every row", func() {
				So(err, ShouldBeNil)
				So(len(tables), ShouldEqual, 1)
				So(tables[sources.SourceIOSReviews].Len(), ShouldEqual, 2)
			})

			Convey("And quoted cells and timestamps are handled", func() {
				So(err, ShouldBeNil)
				rows := tables[sources.SourceIOSReviews].Rows
				So(rows[0].Get("review_text"), ShouldEqual, "App froze, lost my order")
				So(rows[0].Timestamp, ShouldNotBeNil)
				So(rows[1].Timestamp, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a directory where one of two sources is broken", t, func() {
		dir := t.TempDir()
		writeCSV(t, dir, "ios_app_store_reviews.csv", iosHeader+"\n"+
			"IOS-0001,iOS App Store,u,2024-02-01,4,positive,fine,Mobile UX,1.0,Growth,0\n")
		writeCSV(t, dir, "twitter_mentions.csv", "customer_id,tweet_text\nTWT-0001,missing most columns\n")
		loader := sources.New(sources.WithFiles(map[string]string{
			sources.SourceIOSReviews:      "ios_app_store_reviews.csv",
			sources.SourceTwitterMentions: "twitter_mentions.csv",
		}))

		Convey("When loading", func() {
			tables, err := loader.Load(context.Background(), dir)

			Convey("Then the broken source is skipped and the rest survive", func() {
				So(err, ShouldBeNil)
				So(len(tables), ShouldEqual, 1)
				So(tables[sources.SourceIOSReviews], ShouldNotBeNil)
			})
		})
	})

	Convey("Given a directory with no usable sources", t, func() {
		dir := t.TempDir()
		loader := sources.New()

		Convey("When loading", func() {
			_, err := loader.Load(context.Background(), dir)

			Convey("Then the load fails with a no-sources error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, sources.ErrNoSources), ShouldBeTrue)
			})
		})
	})

	Convey("Given a nonexistent data directory", t, func() {
		loader := sources.New()

		Convey("When loading", func() {
			_, err := loader.Load(context.Background(), "/nonexistent/nowhere")

			Convey("Then the load fails with a data-dir error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, sources.ErrDataDir), ShouldBeTrue)
			})
		})
	})
}

func TestLoader_Validation(t *testing.T) {
	Convey("Given source files with schema problems", t, func() {
		dir := t.TempDir()
		loader := sources.New(sources.WithFiles(map[string]string{
			sources.SourceIOSReviews: "ios_app_store_reviews.csv",
		}))

		Convey("When the file is header-only", func() {
			writeCSV(t, dir, "ios_app_store_reviews.csv", iosHeader+"\n")
			_, err := loader.Load(context.Background(), dir)

			Convey("Then it is treated as empty and skipped", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, sources.ErrNoSources), ShouldBeTrue)
			})
		})

		Convey("When a required column is missing", func() {
			writeCSV(t, dir, "ios_app_store_reviews.csv",
				"customer_id,timestamp\nIOS-0001,2024-02-01\n")
			_, err := loader.Load(context.Background(), dir)

			Convey("Then the source is excluded", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, sources.ErrNoSources), ShouldBeTrue)
			})
		})

		Convey("When a column name is duplicated", func() {
			writeCSV(t, dir, "ios_app_store_reviews.csv",
				iosHeader+",rating\nIOS-0001,s,u,2024-02-01,4,positive,t,m,1.0,Growth,0,5\n")
			_, err := loader.Load(context.Background(), dir)

			Convey("Then the source is excluded", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, sources.ErrNoSources), ShouldBeTrue)
			})
		})

		Convey("When a timestamp does not parse", func() {
			writeCSV(t, dir, "ios_app_store_reviews.csv", iosHeader+"\n"+
				"IOS-0001,iOS App Store,u,not-a-date,4,positive,fine,Mobile UX,1.0,Growth,0\n")
			tables, err := loader.Load(context.Background(), dir)

			Convey("Then the row is kept with a nil timestamp", func() {
				So(err, ShouldBeNil)
				row := tables[sources.SourceIOSReviews].Rows[0]
				So(row.Timestamp, ShouldBeNil)
				So(row.Get("customer_id"), ShouldEqual, "IOS-0001")
			})
		})
	})
}

func TestSummary(t *testing.T) {
	Convey("Given a load result", t, func() {
		dir := t.TempDir()
		writeCSV(t, dir, "ios_app_store_reviews.csv", iosHeader+"\n"+
			"IOS-0001,iOS App Store,u,2024-02-01,4,positive,fine,Mobile UX,1.0,Growth,0\n"+
			"IOS-0002,iOS App Store,v,2024-02-02,3,neutral,ok,Mobile UX,1.0,Growth,1\n")
		loader := sources.New(sources.WithFiles(map[string]string{
			sources.SourceIOSReviews: "ios_app_store_reviews.csv",
		}))
		tables, err := loader.Load(context.Background(), dir)
		So(err, ShouldBeNil)

		Convey("When summarizing", func() {
			summary := sources.Summary(tables)

			Convey("Then per-source and total counts are reported", func() {
				So(summary[sources.SourceIOSReviews], ShouldEqual, 2)
				So(summary["total"], ShouldEqual, 2)
			})
		})
	})
}
