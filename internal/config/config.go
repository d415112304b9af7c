package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/firmanshhh/climate-extreme-indices/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// PostgresURL enables the relational sink when non-empty.
	PostgresURL string

	// Index computation settings.
	BaselineStart          int
	BaselineEnd            int
	FallbackPeriods        []domain.BaselinePeriod
	MinWetDaysBaseline     int
	WetDayThresholdMM      float64
	MinSpellLength         int
	MinValidDaysPerYear    int
	StrictTemperatureCheck bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	flushInterval, err := parseDuration("BATCH_FLUSH_INTERVAL", "1s")
	if err != nil {
		return nil, err
	}
	batchSize, err := parseInt("BATCH_SIZE", 50)
	if err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		return nil, errors.New("BATCH_SIZE must be positive")
	}

	baselineStart, err := parseInt("BASELINE_START", domain.DefaultBaselineStart)
	if err != nil {
		return nil, err
	}
	baselineEnd, err := parseInt("BASELINE_END", domain.DefaultBaselineEnd)
	if err != nil {
		return nil, err
	}
	if baselineStart > baselineEnd {
		return nil, fmt.Errorf("BASELINE_START %d is after BASELINE_END %d", baselineStart, baselineEnd)
	}

	fallbacks, err := parsePeriods("FALLBACK_PERIODS", "1981-2010")
	if err != nil {
		return nil, err
	}

	minWetDays, err := parseInt("MIN_WET_DAYS_BASELINE", domain.DefaultMinWetDaysBaseline)
	if err != nil {
		return nil, err
	}
	wetThreshold, err := parseFloat("WET_DAY_THRESHOLD_MM", domain.DefaultWetDayThreshold)
	if err != nil {
		return nil, err
	}
	minSpell, err := parseInt("MIN_SPELL_LENGTH", domain.DefaultMinSpellLength)
	if err != nil {
		return nil, err
	}
	minValidDays, err := parseInt("MIN_VALID_DAYS_PER_YEAR", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "raw-station-records"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "climate-extreme-indices"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "climate-extreme-indices"),
		HTTPAddr:           envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		PostgresURL: os.Getenv("POSTGRES_URL"),

		BaselineStart:          baselineStart,
		BaselineEnd:            baselineEnd,
		FallbackPeriods:        fallbacks,
		MinWetDaysBaseline:     minWetDays,
		WetDayThresholdMM:      wetThreshold,
		MinSpellLength:         minSpell,
		MinValidDaysPerYear:    minValidDays,
		StrictTemperatureCheck: os.Getenv("STRICT_TEMPERATURE_CHECK") == "true",
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.WetDayThresholdMM < 0 {
		return nil, errors.New("WET_DAY_THRESHOLD_MM must not be negative")
	}
	if cfg.MinSpellLength < 1 {
		return nil, errors.New("MIN_SPELL_LENGTH must be at least 1")
	}

	return cfg, nil
}

// IndexOptions converts the configured index settings into domain options.
func (c *Config) IndexOptions() domain.Options {
	return domain.Options{
		BaselineStart:          c.BaselineStart,
		BaselineEnd:            c.BaselineEnd,
		FallbackPeriods:        c.FallbackPeriods,
		MinWetDaysBaseline:     c.MinWetDaysBaseline,
		WetDayThreshold:        c.WetDayThresholdMM,
		MinSpellLength:         c.MinSpellLength,
		MinValidDaysPerYear:    c.MinValidDaysPerYear,
		StrictTemperatureCheck: c.StrictTemperatureCheck,
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parsePeriods parses a comma-separated list of year ranges, e.g.
// "1981-2010,1961-1990". The list is ordered; earlier entries are tried
// first when the primary baseline period falls short.
func parsePeriods(key, fallback string) ([]domain.BaselinePeriod, error) {
	raw := envOrDefault(key, fallback)
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var out []domain.BaselinePeriod
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var p domain.BaselinePeriod
		if _, err := fmt.Sscanf(part, "%d-%d", &p.Start, &p.End); err != nil || p.Start > p.End {
			return nil, fmt.Errorf("invalid %s entry %q (want start-end)", key, part)
		}
		out = append(out, p)
	}
	return out, nil
}
