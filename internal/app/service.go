// Package service orchestrates the feedback pipeline: load, normalize,
// enrich, score, aggregate. It owns the result cache consumed by the HTTP
// API so repeated requests within the TTL do not recompute the batch.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tradeinsight/engine/internal/adapters/sources"
	"github.com/tradeinsight/engine/internal/domain/aggregate"
	"github.com/tradeinsight/engine/internal/domain/enrich"
	"github.com/tradeinsight/engine/internal/domain/model"
	"github.com/tradeinsight/engine/internal/domain/normalize"
	"github.com/tradeinsight/engine/internal/domain/scoring"
	"github.com/tradeinsight/engine/pkg/logger"
	"github.com/tradeinsight/engine/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultCacheTTL = 5 * time.Minute
	defaultTopN     = 3
)

// Result is one complete pipeline output.
type Result struct {
	Records   []model.Record
	Report    *aggregate.Report
	Sources   map[string]int
	StartedAt time.Time
	Duration  time.Duration
}

// Service runs the pipeline over a data directory. Stages execute strictly
// in sequence within a run; the mutex only guards the cache against
// concurrent HTTP callers.
type Service struct {
	mu sync.Mutex

	dataDir     string
	topN        int
	cacheTTL    time.Duration
	sourceFiles map[string]string
	scoringOpts []scoring.Option

	loader     *sources.Loader
	normalizer *normalize.Normalizer
	enricher   *enrich.Enricher
	engine     *scoring.Engine
	builder    *aggregate.Builder

	cached      *Result
	cachedAt    time.Time
	fingerprint string

	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir sets the directory holding the source files.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithTopN sets how many pain points and praised features are reported.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithCacheTTL sets how long a pipeline result is reused.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithSourceFiles overrides the expected {source id -> file name} map.
func WithSourceFiles(files map[string]string) Option {
	return func(s *Service) {
		if len(files) > 0 {
			s.sourceFiles = files
		}
	}
}

// WithScoringOptions forwards options to the scoring engine.
func WithScoringOptions(opts ...scoring.Option) Option {
	return func(s *Service) {
		s.scoringOpts = append(s.scoringOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:  "data",
		topN:     defaultTopN,
		cacheTTL: defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("pipeline")
	}

	loaderOpts := []sources.Option{sources.WithLogger(s.log.Named("sources"))}
	if len(s.sourceFiles) > 0 {
		loaderOpts = append(loaderOpts, sources.WithFiles(s.sourceFiles))
	}
	s.loader = sources.New(loaderOpts...)
	s.normalizer = normalize.New(normalize.WithLogger(s.log.Named("normalize")))
	s.enricher = enrich.New()
	s.engine = scoring.NewEngine(s.scoringOpts...)
	s.builder = aggregate.NewBuilder(aggregate.WithTopN(s.topN))
	return s
}

// Run executes the pipeline, reusing the cached result while the source
// files are unchanged and the TTL has not lapsed. A run either completes or
// returns an error naming the failed stage.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp := s.fingerprintSources()
	if s.cached != nil && fp == s.fingerprint && time.Since(s.cachedAt) < s.cacheTTL {
		metrics.RecordCacheHit()
		s.log.Debug(ctx, "serving cached pipeline result",
			logger.Time("cached_at", s.cachedAt),
		)
		return s.cached, nil
	}
	metrics.RecordCacheMiss()

	result, err := s.runPipeline(ctx)
	if err != nil {
		return nil, err
	}

	s.cached = result
	s.cachedAt = time.Now()
	s.fingerprint = fp
	return result, nil
}

// Refresh invalidates the cache and recomputes.
func (s *Service) Refresh(ctx context.Context) (*Result, error) {
	s.Invalidate()
	return s.Run(ctx)
}

// Invalidate drops the cached result so the next Run recomputes.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	s.fingerprint = ""
}

// runPipeline executes the five stages in sequence. Callers hold s.mu.
func (s *Service) runPipeline(ctx context.Context) (*Result, error) {
	started := time.Now()
	s.log.Info(ctx, "starting pipeline run", logger.String("data_dir", s.dataDir))

	stageStart := time.Now()
	tables, err := s.loader.Load(ctx, s.dataDir)
	if err != nil {
		metrics.RecordPipelineFailure("load")
		return nil, fmt.Errorf("load stage: %w", err)
	}
	metrics.ObserveStageDuration("load", time.Since(stageStart))

	stageStart = time.Now()
	records, err := s.normalizer.Unify(ctx, tables)
	if err != nil {
		metrics.RecordPipelineFailure("normalize")
		return nil, fmt.Errorf("normalize stage: %w", err)
	}
	metrics.ObserveStageDuration("normalize", time.Since(stageStart))

	stageStart = time.Now()
	records = s.enricher.Apply(records)
	metrics.ObserveStageDuration("enrich", time.Since(stageStart))

	stageStart = time.Now()
	records = s.engine.Apply(records)
	metrics.RecordScored(len(records))
	metrics.ObserveStageDuration("score", time.Since(stageStart))

	stageStart = time.Now()
	report := s.builder.BuildReport(records)
	metrics.ObserveStageDuration("aggregate", time.Since(stageStart))

	metrics.RecordPipelineRun()
	metrics.UpdateRecordCount(len(records))

	result := &Result{
		Records:   records,
		Report:    report,
		Sources:   sources.Summary(tables),
		StartedAt: started,
		Duration:  time.Since(started),
	}
	s.log.Info(ctx, "pipeline run complete",
		logger.String("run_id", report.RunID),
		logger.Int("records", len(records)),
		logger.Int("sources", len(tables)),
		logger.Duration("duration", result.Duration),
	)
	return result, nil
}

// Stats reports service state for monitoring endpoints.
func (s *Service) Stats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]any{
		"data_dir":          s.dataDir,
		"top_n":             s.topN,
		"cache_ttl_seconds": int(s.cacheTTL.Seconds()),
		"cache_populated":   s.cached != nil,
	}
	if s.cached != nil {
		stats["cached_at"] = s.cachedAt
		stats["record_count"] = len(s.cached.Records)
		stats["run_id"] = s.cached.Report.RunID
	}
	return stats
}
