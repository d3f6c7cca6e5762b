package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultDatasetURL is the published global land-surface temperature dataset.
const DefaultDatasetURL = "https://raw.githubusercontent.com/freeCodeCamp/ProjectReferenceData/master/global-temperature.json"

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatasetURL      string
	DatasetFile     string
	FetchTimeout    time.Duration
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Rendering configuration.
	CanvasWidth     float64
	CanvasHeight    float64
	LegendFile      string
	SkipMalformed   bool
	RenderCacheSize int

	// Kafka cell sink configuration.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "10s"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	width, err := parsePositiveFloat("CANVAS_WIDTH", "800")
	if err != nil {
		return nil, err
	}
	height, err := parsePositiveFloat("CANVAS_HEIGHT", "500")
	if err != nil {
		return nil, err
	}

	skipMalformed, err := strconv.ParseBool(sharedcfg.EnvOrDefault("SKIP_MALFORMED", "true"))
	if err != nil {
		return nil, errors.New("invalid SKIP_MALFORMED")
	}

	cfg := &Config{
		DatasetURL:      sharedcfg.EnvOrDefault("DATASET_URL", DefaultDatasetURL),
		DatasetFile:     os.Getenv("DATASET_FILE"),
		FetchTimeout:    fetchTimeout,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CanvasWidth:     width,
		CanvasHeight:    height,
		LegendFile:      os.Getenv("LEGEND_FILE"),
		SkipMalformed:   skipMalformed,
		RenderCacheSize: parseRenderCacheSize(),

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "heatmap-cells"),
	}

	if cfg.DatasetURL == "" && cfg.DatasetFile == "" {
		return nil, errors.New("DATASET_URL or DATASET_FILE is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

func parsePositiveFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseRenderCacheSize() int {
	if s := os.Getenv("RENDER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 16
}
