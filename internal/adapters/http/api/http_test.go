package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	api "github.com/tradeinsight/engine/internal/adapters/http/api"
	service "github.com/tradeinsight/engine/internal/app"
	"github.com/tradeinsight/engine/internal/domain/aggregate"
	"github.com/tradeinsight/engine/internal/domain/model"
	"github.com/tradeinsight/engine/internal/mockdata"
)

const apiMaxLimit = 100

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	if _, err := mockdata.Generate(context.Background(), mockdata.Config{Dir: dir, Rows: 10}); err != nil {
		t.Fatal(err)
	}
	return serverFor(t, service.New(service.WithDataDir(dir)))
}

func newEmptyServer(t *testing.T) *httptest.Server {
	t.Helper()
	return serverFor(t, service.New(service.WithDataDir(t.TempDir())))
}

func serverFor(t *testing.T, svc *service.Service) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	api.NewServer(svc, apiMaxLimit).Register(context.Background(), mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatal(err)
		}
	}
	return resp.StatusCode
}

func TestSummaryEndpoint(t *testing.T) {
	Convey("Given a running API over seeded data", t, func() {
		ts := newTestServer(t)

		Convey("When requesting the executive summary", func() {
			var summary aggregate.ExecutiveSummary
			status := getJSON(t, ts.URL+"/api/summary", &summary)

			Convey("Then the summary reflects the full record set", func() {
				So(status, ShouldEqual, http.StatusOK)
				So(summary.TotalFeedbackItems, ShouldEqual, 40)
				So(summary.UniqueCustomers, ShouldBeGreaterThan, 0)
				So(summary.TopTheme.Name, ShouldNotBeEmpty)
			})
		})
	})
}

func TestThemesEndpoint(t *testing.T) {
	Convey("Given a running API over seeded data", t, func() {
		ts := newTestServer(t)

		Convey("When requesting all themes", func() {
			var themes []aggregate.ThemeAggregate
			status := getJSON(t, ts.URL+"/api/themes", &themes)

			Convey("Then themes arrive ranked by total impact", func() {
				So(status, ShouldEqual, http.StatusOK)
				So(len(themes), ShouldBeGreaterThan, 0)
				for i := 1; i < len(themes); i++ {
					So(themes[i].TotalImpact, ShouldBeLessThanOrEqualTo, themes[i-1].TotalImpact)
				}
			})
		})

		Convey("When limiting the theme count", func() {
			var themes []aggregate.ThemeAggregate
			status := getJSON(t, ts.URL+"/api/themes?limit=2", &themes)

			Convey("Then at most that many themes return", func() {
				So(status, ShouldEqual, http.StatusOK)
				So(len(themes), ShouldBeLessThanOrEqualTo, 2)
			})
		})

		Convey("When the limit is invalid", func() {
			So(getJSON(t, ts.URL+"/api/themes?limit=0", nil), ShouldEqual, http.StatusBadRequest)
			So(getJSON(t, ts.URL+"/api/themes?limit=abc", nil), ShouldEqual, http.StatusBadRequest)
			So(getJSON(t, ts.URL+"/api/themes?limit=101", nil), ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestSentimentEndpoint(t *testing.T) {
	Convey("Given a running API over seeded data", t, func() {
		ts := newTestServer(t)

		Convey("When requesting the sentiment distribution", func() {
			var dist []api.SentimentData
			status := getJSON(t, ts.URL+"/api/sentiment", &dist)

			Convey("Then counts sum to the record total", func() {
				So(status, ShouldEqual, http.StatusOK)
				total := 0
				for _, d := range dist {
					total += d.Count
				}
				So(total, ShouldEqual, 40)
			})

			Convey("And slices are sorted by count descending", func() {
				for i := 1; i < len(dist); i++ {
					So(dist[i].Count, ShouldBeLessThanOrEqualTo, dist[i-1].Count)
				}
			})
		})
	})
}

func TestFeedbackEndpoint(t *testing.T) {
	Convey("Given a running API over seeded data", t, func() {
		ts := newTestServer(t)

		Convey("When requesting feedback with defaults", func() {
			var items []aggregate.FeedbackItem
			status := getJSON(t, ts.URL+"/api/feedback", &items)

			Convey("Then negative items arrive ranked by impact", func() {
				So(status, ShouldEqual, http.StatusOK)
				So(len(items), ShouldBeLessThanOrEqualTo, 10)
				for _, item := range items {
					So(item.Sentiment, ShouldEqual, model.SentimentNegative)
				}
				for i := 1; i < len(items); i++ {
					So(items[i].ImpactScore, ShouldBeLessThanOrEqualTo, items[i-1].ImpactScore)
				}
			})
		})

		Convey("When requesting praised features", func() {
			var items []aggregate.FeedbackItem
			status := getJSON(t, ts.URL+"/api/feedback?sentiment=positive&limit=3", &items)

			Convey("Then only positive items return", func() {
				So(status, ShouldEqual, http.StatusOK)
				So(len(items), ShouldBeLessThanOrEqualTo, 3)
				for _, item := range items {
					So(item.Sentiment, ShouldEqual, model.SentimentPositive)
				}
			})
		})

		Convey("When the sentiment value is unsupported", func() {
			So(getJSON(t, ts.URL+"/api/feedback?sentiment=neutral", nil), ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestDashboardEndpoint(t *testing.T) {
	Convey("Given a running API over seeded data", t, func() {
		ts := newTestServer(t)

		Convey("When requesting the dashboard payload", func() {
			var dash api.DashboardData
			status := getJSON(t, ts.URL+"/api/dashboard", &dash)

			Convey("Then the payload is capped and consistent", func() {
				So(status, ShouldEqual, http.StatusOK)
				So(dash.KPIs.TotalItems, ShouldEqual, 40)
				So(dash.KPIs.TopTheme, ShouldNotBeEmpty)
				So(len(dash.ThemeRankings), ShouldBeLessThanOrEqualTo, 5)
				So(len(dash.TopPainPoints), ShouldBeLessThanOrEqualTo, 5)
				So(len(dash.SentimentDistribution), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestReportAndRefreshEndpoints(t *testing.T) {
	Convey("Given a running API over seeded data", t, func() {
		ts := newTestServer(t)

		Convey("When requesting the full report", func() {
			var report aggregate.Report
			status := getJSON(t, ts.URL+"/api/report", &report)

			Convey("Then it is complete and stamped", func() {
				So(status, ShouldEqual, http.StatusOK)
				So(report.RunID, ShouldNotBeEmpty)
				So(report.TotalRecords, ShouldEqual, 40)
			})

			Convey("And refreshing produces a new run", func() {
				resp, err := http.Post(ts.URL+"/api/refresh", "application/json", nil)
				So(err, ShouldBeNil)
				defer resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var refreshed api.RefreshResponse
				So(json.NewDecoder(resp.Body).Decode(&refreshed), ShouldBeNil)
				So(refreshed.Success, ShouldBeTrue)
				So(refreshed.RunID, ShouldNotEqual, report.RunID)
				So(refreshed.RecordsProcessed, ShouldEqual, 40)
			})
		})

		Convey("When refresh is requested with GET", func() {
			So(getJSON(t, ts.URL+"/api/refresh", nil), ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestStatsAndHealthEndpoints(t *testing.T) {
	Convey("Given a running API", t, func() {
		ts := newTestServer(t)

		Convey("When requesting stats", func() {
			var stats map[string]any
			status := getJSON(t, ts.URL+"/stats", &stats)

			Convey("Then service state is exposed", func() {
				So(status, ShouldEqual, http.StatusOK)
				So(stats, ShouldContainKey, "cache_populated")
				So(stats, ShouldContainKey, "data_dir")
			})
		})

		Convey("When probing health", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the metrics exposition is served", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestNoDataResponses(t *testing.T) {
	Convey("Given an API over an empty data directory", t, func() {
		ts := newEmptyServer(t)

		Convey("When requesting any report endpoint", func() {
			var body struct {
				Code string `json:"code"`
			}
			resp, err := http.Get(ts.URL + "/api/summary")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)

			Convey("Then a 404 with a no_data code is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				So(body.Code, ShouldEqual, "no_data")
			})
		})
	})
}
