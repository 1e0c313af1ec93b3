// Package export writes the pipeline output to flat files: the unified
// scored record set as CSV and the report as JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tradeinsight/engine/internal/domain/aggregate"
	"github.com/tradeinsight/engine/internal/domain/model"
)

// recordColumns is the fixed column order of the unified export.
var recordColumns = []string{
	"customer_id", "source_channel", "feedback_text", "author_handle",
	"timestamp", "sentiment", "theme", "severity", "strategic_goal",
	"source_weight", "impact_score",
}

// WriteRecordsCSV writes the unified record set to path, creating parent
// directories as needed.
func WriteRecordsCSV(path string, records []model.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(recordColumns); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	for _, rec := range records {
		ts := ""
		if rec.Timestamp != nil {
			ts = rec.Timestamp.Format(time.RFC3339)
		}
		row := []string{
			rec.CustomerID,
			string(rec.SourceChannel),
			rec.FeedbackText,
			rec.AuthorHandle,
			ts,
			string(rec.Sentiment),
			rec.Theme,
			formatFloat(rec.Severity),
			rec.StrategicGoal,
			formatFloat(rec.SourceWeight),
			formatFloat(rec.ImpactScore),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}

// WriteReportJSON writes the report as indented JSON.
func WriteReportJSON(path string, report *aggregate.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
