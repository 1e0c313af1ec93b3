// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DataDir is the directory holding the four source CSV files.
	DataDir string `koanf:"data_dir"`

	// OutputDir receives the unified CSV export and the JSON report.
	OutputDir string `koanf:"output_dir"`

	// SourceFiles overrides the expected {source id -> file name} map.
	// Empty means the loader defaults.
	SourceFiles map[string]string `koanf:"source_files"`

	// TopN sets how many pain points and praised features are reported.
	TopN int `koanf:"top_n"`

	// Serve enables the HTTP API after the batch run.
	Serve bool `koanf:"serve"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CacheTTLSeconds bounds how long a pipeline result is reused by the API.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// MaxFeedbackLimit caps GET /api/feedback?limit.
	MaxFeedbackLimit int `koanf:"max_feedback_limit"`

	// Scoring formula tunables.
	SourceWeightFloor   float64            `koanf:"source_weight_floor"`
	StrategicMultiplier float64            `koanf:"strategic_multiplier"`
	ARRDivisorUSD       float64            `koanf:"arr_divisor_usd"`
	FollowerDivisor     float64            `koanf:"follower_divisor"`
	SentimentWeights    map[string]float64 `koanf:"sentiment_weights"`
}

// New creates a Config with the documented defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		DataDir:             "data",
		OutputDir:           "output",
		TopN:                3,
		Serve:               false,
		Addr:                ":8080",
		CacheTTLSeconds:     300,
		MaxFeedbackLimit:    100,
		SourceWeightFloor:   0.1,
		StrategicMultiplier: 2.0,
		ARRDivisorUSD:       50_000,
		FollowerDivisor:     20_000,
		SentimentWeights: map[string]float64{
			"negative": 1.5,
			"neutral":  0.5,
			"positive": 0.1,
		},
	}
}
