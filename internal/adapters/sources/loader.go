// Package sources loads and validates the four tabular feedback sources.
package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tradeinsight/engine/internal/domain/model"
	"github.com/tradeinsight/engine/pkg/logger"
	"github.com/tradeinsight/engine/pkg/metrics"
)

// Source identifiers.
const (
	SourceIOSReviews      = "ios_reviews"
	SourceAndroidReviews  = "android_reviews"
	SourceTwitterMentions = "twitter_mentions"
	SourceSalesNotes      = "sales_notes"
)

// DefaultFiles maps source identifiers to their expected file names.
func DefaultFiles() map[string]string {
	return map[string]string{
		SourceIOSReviews:      "ios_app_store_reviews.csv",
		SourceAndroidReviews:  "google_play_reviews.csv",
		SourceTwitterMentions: "twitter_mentions.csv",
		SourceSalesNotes:      "internal_sales_notes.csv",
	}
}

// requiredColumns is the minimum column set per source. A source missing any
// of these is excluded from the run.
var requiredColumns = map[string][]string{
	SourceIOSReviews:      {"customer_id", "source", "username", "timestamp", "rating", "sentiment", "review_text", "theme", "severity", "strategic_goal", "helpful_votes"},
	SourceAndroidReviews:  {"customer_id", "source", "username", "timestamp", "rating", "sentiment", "review_text", "theme", "severity", "strategic_goal", "helpful_votes"},
	SourceTwitterMentions: {"customer_id", "source", "handle", "followers", "timestamp", "sentiment", "tweet_text", "theme", "severity", "strategic_goal"},
	SourceSalesNotes:      {"customer_id", "source", "account_name", "timestamp", "sentiment", "note_text", "theme", "severity", "strategic_goal", "ARR_impact_estimate_USD"},
}

// timestampLayouts are tried in order when parsing the timestamp column.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Loader reads the expected source files from a data directory. Loading is
// partial-failure tolerant: a missing or malformed source is logged and
// skipped; only the loss of every source is fatal.
type Loader struct {
	files map[string]string
	log   logger.Logger
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithFiles overrides the expected {source id -> file name} map.
func WithFiles(files map[string]string) Option {
	return func(l *Loader) {
		if len(files) > 0 {
			l.files = files
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// New constructs a Loader with default configuration.
func New(opts ...Option) *Loader {
	l := &Loader{
		files: DefaultFiles(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.Get().Named("sources")
	}
	return l
}

// Load reads every expected source file under dir. It returns the parsed
// tables keyed by source identifier. The only fatal condition is an empty
// result: the caller must be told there is no data rather than receiving an
// empty map silently.
func (l *Loader) Load(ctx context.Context, dir string) (map[string]*model.Table, error) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDataDir, dir)
	}

	tables := make(map[string]*model.Table, len(l.files))
	for source, name := range l.files {
		path := filepath.Join(dir, name)
		table, err := l.loadOne(ctx, source, path)
		if err != nil {
			l.log.Error(ctx, "skipping source",
				logger.String("source", source),
				logger.String("path", path),
				logger.Error(err),
			)
			metrics.RecordSourceSkipped(source, skipReason(err))
			continue
		}
		tables[source] = table
		metrics.RecordSourceLoaded(source, table.Len())
		l.log.Info(ctx, "loaded source",
			logger.String("source", source),
			logger.Int("records", table.Len()),
		)
	}

	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: no usable sources in %s", ErrNoSources, dir)
	}
	metrics.UpdateSourceCount(len(tables))
	return tables, nil
}

// loadOne parses and validates a single source file.
func (l *Loader) loadOne(ctx context.Context, source, path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrMalformedFile, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	if dup := duplicateColumn(header); dup != "" {
		return nil, fmt.Errorf("%w: duplicate column %q", ErrSchemaViolation, dup)
	}
	if missing := missingColumns(source, header); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %v", ErrSchemaViolation, missing)
	}

	tsIdx := columnIndex(header, "timestamp")
	rows := make([]model.Row, 0, 64)
	for {
		cells, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
		}

		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(cells) {
				fields[col] = cells[i]
			}
		}
		row := model.Row{Fields: fields}
		if tsIdx >= 0 && tsIdx < len(cells) {
			// An unparseable timestamp nulls the field; the row is kept.
			if ts, ok := parseTimestamp(cells[tsIdx]); ok {
				row.Timestamp = &ts
			} else if strings.TrimSpace(cells[tsIdx]) != "" {
				l.log.Debug(ctx, "unparseable timestamp",
					logger.String("source", source),
					logger.String("value", cells[tsIdx]),
				)
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no data rows", ErrEmptyFile, path)
	}

	return &model.Table{
		Source:  source,
		Path:    path,
		Columns: header,
		Rows:    rows,
	}, nil
}

// Summary reports per-source record counts for a load result.
func Summary(tables map[string]*model.Table) map[string]int {
	out := make(map[string]int, len(tables)+1)
	total := 0
	for source, t := range tables {
		out[source] = t.Len()
		total += t.Len()
	}
	out["total"] = total
	return out
}

func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func duplicateColumn(header []string) string {
	seen := make(map[string]struct{}, len(header))
	for _, col := range header {
		if _, ok := seen[col]; ok {
			return col
		}
		seen[col] = struct{}{}
	}
	return ""
}

func missingColumns(source string, header []string) []string {
	required, ok := requiredColumns[source]
	if !ok {
		// Sources outside the fixed set only need the identifying columns.
		required = []string{"customer_id", "timestamp"}
	}
	present := make(map[string]struct{}, len(header))
	for _, col := range header {
		present[col] = struct{}{}
	}
	var missing []string
	for _, col := range required {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

func columnIndex(header []string, name string) int {
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return -1
}
