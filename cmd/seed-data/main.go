package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/tradeinsight/engine/internal/mockdata"
	"github.com/tradeinsight/engine/pkg/logger"
)

// Default configuration constants.
const (
	defaultDir     = "data"
	defaultRows    = 25
	defaultSeed    = 42
	defaultTimeout = 30 * time.Second
)

func main() {
	var (
		dir  = flag.String("dir", defaultDir, "Output directory for the generated CSV files")
		rows = flag.Int("rows", defaultRows, "Number of rows to generate per source")
		seed = flag.Int64("seed", defaultSeed, "Random seed for reproducible output")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	cfg := mockdata.Config{
		Dir:  *dir,
		Rows: *rows,
		Seed: *seed,
	}

	stats, err := mockdata.Generate(ctx, cfg)
	if err != nil {
		log.Error(ctx, "generation failed", logger.Error(err))
		os.Exit(1)
	}

	log.Info(ctx, "sample data generated",
		logger.Int("files", len(stats.Files)),
		logger.Int("total_rows", stats.TotalRows),
		logger.Duration("duration", stats.Duration),
	)
}
