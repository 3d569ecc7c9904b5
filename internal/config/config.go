package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

const (
	defaultHKOURL      = "https://www.hko.gov.hk/tc/informtc/historical_tc/fttcw.htm"
	defaultCenstatdURL = "https://www.censtatd.gov.hk/tc/scode200.html"
)

// Animation presets for the unemployment particle animation.
const (
	PresetPreview = "preview"
	PresetHigh    = "high"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DataDir   string
	OutputDir string

	// Scraping configuration.
	HKOURL           string
	CenstatdURL      string
	ScrapeTimeout    time.Duration
	ScrapeMaxRetries int
	RefreshInterval  time.Duration

	// Synthetic dataset configuration.
	LaborSeed int64
	TideSeed  int64

	AnimationPreset string
	Artifacts       []string

	// Kafka publishing configuration.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	// ArchivePath is the SQLite archive file. Empty disables archiving.
	ArchivePath string
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is read first if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.New("invalid .env file: " + err.Error())
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	scrapeTimeout, err := parsePositiveDuration("SCRAPE_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}

	refreshInterval, err := parsePositiveDuration("REFRESH_INTERVAL", "24h")
	if err != nil {
		return nil, err
	}
	if refreshInterval < time.Minute {
		return nil, errors.New("invalid REFRESH_INTERVAL: must be at least 1m")
	}

	maxRetries, err := parseNonNegativeInt("SCRAPE_MAX_RETRIES", 2)
	if err != nil {
		return nil, err
	}

	laborSeed, err := parseSeed("LABOR_SEED", 42)
	if err != nil {
		return nil, err
	}
	tideSeed, err := parseSeed("TIDE_SEED", 7)
	if err != nil {
		return nil, err
	}

	preset := strings.ToLower(sharedcfg.EnvOrDefault("ANIMATION_PRESET", PresetPreview))
	if preset != PresetPreview && preset != PresetHigh {
		return nil, errors.New("invalid ANIMATION_PRESET: must be preview or high")
	}

	brokers := splitList(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataDir:   sharedcfg.EnvOrDefault("DATA_DIR", "data"),
		OutputDir: sharedcfg.EnvOrDefault("OUTPUT_DIR", "output"),

		HKOURL:           sharedcfg.EnvOrDefault("HKO_URL", defaultHKOURL),
		CenstatdURL:      sharedcfg.EnvOrDefault("CENSTATD_URL", defaultCenstatdURL),
		ScrapeTimeout:    scrapeTimeout,
		ScrapeMaxRetries: maxRetries,
		RefreshInterval:  refreshInterval,

		LaborSeed: laborSeed,
		TideSeed:  tideSeed,

		AnimationPreset: preset,
		Artifacts:       splitList(os.Getenv("ARTIFACTS")),

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "hk-datasets"),
		KafkaEnabled: kafkaEnabled,

		ArchivePath: os.Getenv("ARCHIVE_DB"),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when Kafka is enabled")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseNonNegativeInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func parseSeed(key string, def int64) (int64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
