package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tradeinsight/engine/internal/adapters/export"
	"github.com/tradeinsight/engine/internal/adapters/http/api"
	service "github.com/tradeinsight/engine/internal/app"
	"github.com/tradeinsight/engine/internal/config"
	"github.com/tradeinsight/engine/internal/domain/model"
	"github.com/tradeinsight/engine/internal/domain/scoring"
	"github.com/tradeinsight/engine/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// Export file names under the configured output directory.
const (
	recordsExportName = "processed_feedback.csv"
	reportExportName  = "insight_report.json"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := service.New(
		service.WithLogger(log),
		service.WithDataDir(cfg.DataDir),
		service.WithTopN(cfg.TopN),
		service.WithCacheTTL(time.Duration(cfg.CacheTTLSeconds)*time.Second),
		service.WithSourceFiles(cfg.SourceFiles),
		service.WithScoringOptions(
			scoring.WithSourceWeightFloor(cfg.SourceWeightFloor),
			scoring.WithStrategicMultiplier(cfg.StrategicMultiplier),
			scoring.WithARRDivisor(cfg.ARRDivisorUSD),
			scoring.WithFollowerDivisor(cfg.FollowerDivisor),
			scoring.WithSentimentWeights(sentimentWeights(cfg.SentimentWeights)),
		),
	)

	result, err := svc.Run(ctx)
	if err != nil {
		log.Error(ctx, "pipeline run failed", logger.Error(err))
		os.Exit(1)
	}

	recordsPath := filepath.Join(cfg.OutputDir, recordsExportName)
	if err := export.WriteRecordsCSV(recordsPath, result.Records); err != nil {
		log.Error(ctx, "record export failed", logger.Error(err))
		os.Exit(1)
	}
	reportPath := filepath.Join(cfg.OutputDir, reportExportName)
	if err := export.WriteReportJSON(reportPath, result.Report); err != nil {
		log.Error(ctx, "report export failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "exports written",
		logger.String("records", recordsPath),
		logger.String("report", reportPath),
	)

	if !cfg.Serve {
		return
	}

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, cfg.MaxFeedbackLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "graceful shutdown failed", logger.Error(err))
	}
}

// sentimentWeights converts the config map keys into the domain type.
func sentimentWeights(raw map[string]float64) map[model.Sentiment]float64 {
	out := make(map[model.Sentiment]float64, len(raw))
	for k, v := range raw {
		out[model.Sentiment(k)] = v
	}
	return out
}
