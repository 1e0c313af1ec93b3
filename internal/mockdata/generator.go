// Package mockdata generates deterministic sample CSV files for the four
// feedback sources, for demos and integration tests.
package mockdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tradeinsight/engine/internal/adapters/sources"
	"github.com/tradeinsight/engine/pkg/logger"
)

// Constants for deterministic generation.
const (
	defaultSeed       = 42
	defaultRows       = 25
	dayRange          = 90
	ratingMax         = 5
	helpfulVotesMax   = 50
	followersMax      = 120_000
	arrImpactMaxUSD   = 250_000
	severityMax       = 3.0
	blankFieldPercent = 5 // percent of categorical cells left blank to exercise fallbacks
)

var sentiments = []string{"positive", "neutral", "negative"}

var themes = []string{
	"Trading/Execution & Fees",
	"Performance/Outages",
	"Onboarding & Verification",
	"Mobile UX",
	"Customer Support",
	"API & Integrations",
}

var goals = []string{
	"Growth", "Trust&Safety", "Onchain Adoption", "CX Efficiency", "Compliance",
}

// Config holds generation parameters.
type Config struct {
	Dir  string // output directory for the CSV files
	Rows int    // rows per source
	Seed int64  // rng seed; fixed default keeps output reproducible
}

// Stats summarizes a generation run.
type Stats struct {
	Files     []string
	TotalRows int
	Duration  time.Duration
}

// Generate writes the four sample source files into cfg.Dir.
func Generate(ctx context.Context, cfg Config) (*Stats, error) {
	start := time.Now()
	if cfg.Rows <= 0 {
		cfg.Rows = defaultRows
	}
	if cfg.Seed == 0 {
		cfg.Seed = defaultSeed
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("mockdata: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic sample data
	files := sources.DefaultFiles()
	stats := &Stats{}

	// Fixed source order keeps output identical across runs for a given seed.
	order := []string{
		sources.SourceIOSReviews,
		sources.SourceAndroidReviews,
		sources.SourceTwitterMentions,
		sources.SourceSalesNotes,
	}
	writers := map[string]func(*rand.Rand, int) ([]string, []string){
		sources.SourceIOSReviews:      reviewRow("IOS", "iOS App Store"),
		sources.SourceAndroidReviews:  reviewRow("AND", "Google Play Store"),
		sources.SourceTwitterMentions: twitterRow,
		sources.SourceSalesNotes:      salesRow,
	}

	for _, source := range order {
		path := filepath.Join(cfg.Dir, files[source])
		if err := writeFile(path, cfg.Rows, rng, writers[source]); err != nil {
			return nil, err
		}
		stats.Files = append(stats.Files, path)
		stats.TotalRows += cfg.Rows
		logger.Get().Info(ctx, "wrote sample source",
			logger.String("source", source),
			logger.String("path", path),
			logger.Int("rows", cfg.Rows),
		)
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

func writeFile(path string, rows int, rng *rand.Rand, rowFn func(*rand.Rand, int) ([]string, []string)) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mockdata: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header, _ := rowFn(rng, 0)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("mockdata: %w", err)
	}
	for i := 1; i <= rows; i++ {
		_, row := rowFn(rng, i)
		if err := w.Write(row); err != nil {
			return fmt.Errorf("mockdata: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("mockdata: %w", err)
	}
	return nil
}

func reviewRow(prefix, channel string) func(*rand.Rand, int) ([]string, []string) {
	header := []string{"customer_id", "source", "username", "timestamp", "rating", "sentiment", "review_text", "theme", "severity", "strategic_goal", "helpful_votes"}
	return func(rng *rand.Rand, i int) ([]string, []string) {
		if i == 0 {
			return header, nil
		}
		sentiment := pick(rng, sentiments)
		return header, []string{
			fmt.Sprintf("%s-%04d", prefix, i),
			channel,
			fmt.Sprintf("user_%s_%d", prefix, i),
			timestamp(rng),
			strconv.Itoa(1 + rng.Intn(ratingMax)),
			maybeBlank(rng, sentiment),
			reviewText(sentiment),
			maybeBlank(rng, pick(rng, themes)),
			severity(rng),
			maybeBlank(rng, pick(rng, goals)),
			strconv.Itoa(rng.Intn(helpfulVotesMax)),
		}
	}
}

func twitterRow(rng *rand.Rand, i int) ([]string, []string) {
	header := []string{"customer_id", "source", "handle", "followers", "timestamp", "sentiment", "tweet_text", "theme", "severity", "strategic_goal"}
	if i == 0 {
		return header, nil
	}
	sentiment := pick(rng, sentiments)
	return header, []string{
		fmt.Sprintf("TWT-%04d", i),
		"Twitter (X)",
		fmt.Sprintf("@trader%d", i),
		strconv.Itoa(rng.Intn(followersMax)),
		timestamp(rng),
		maybeBlank(rng, sentiment),
		reviewText(sentiment),
		maybeBlank(rng, pick(rng, themes)),
		severity(rng),
		maybeBlank(rng, pick(rng, goals)),
	}
}

func salesRow(rng *rand.Rand, i int) ([]string, []string) {
	header := []string{"customer_id", "source", "account_name", "timestamp", "sentiment", "note_text", "theme", "severity", "strategic_goal", "ARR_impact_estimate_USD"}
	if i == 0 {
		return header, nil
	}
	sentiment := pick(rng, sentiments)
	return header, []string{
		fmt.Sprintf("SLS-%04d", i),
		"Internal Sales Notes",
		fmt.Sprintf("Account %d Corp", i),
		timestamp(rng),
		maybeBlank(rng, sentiment),
		reviewText(sentiment),
		maybeBlank(rng, pick(rng, themes)),
		severity(rng),
		maybeBlank(rng, pick(rng, goals)),
		strconv.Itoa(rng.Intn(arrImpactMaxUSD)),
	}
}

func timestamp(rng *rand.Rand) string {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := base.AddDate(0, 0, rng.Intn(dayRange)).Add(time.Duration(rng.Intn(24*60)) * time.Minute)
	return ts.Format("2006-01-02 15:04:05")
}

func severity(rng *rand.Rand) string {
	return strconv.FormatFloat(0.5+rng.Float64()*severityMax, 'f', 1, 64)
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

// maybeBlank occasionally blanks a value so the enricher's fallbacks are
// exercised by generated data.
func maybeBlank(rng *rand.Rand, value string) string {
	if rng.Intn(100) < blankFieldPercent {
		return ""
	}
	return value
}

func reviewText(sentiment string) string {
	switch sentiment {
	case "positive":
		return "Order execution has been fast and the fee breakdown is clear."
	case "negative":
		return "The app froze during a volatile session and my stop order never filled."
	default:
		return "Charts are fine, would like more indicator options."
	}
}
