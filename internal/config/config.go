package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"toypal/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Paths    PathConfig
	Server   ServerConfig
	Database DatabaseConfig
	Cohort   CohortConfig
}

// PathConfig holds the medallion-layer artifact paths
type PathConfig struct {
	DataDir      string // root data directory
	BronzeFile   string // raw input (xlsx or csv)
	SilverFile   string // cleaned canonical table
	StatsFile    string // gold statistical result table
	NLPFile      string // gold sentiment table
	KeywordsFile string // gold keyword trends
	ReportFile   string // rendered clinical summary (html)
	ManifestFile string // run manifest (json)
}

// ServerConfig holds dashboard API server settings
type ServerConfig struct {
	Addr string
}

// DatabaseConfig holds the optional Postgres result sink settings.
// Enabled is false when DATABASE_URL is unset; the pipeline then persists
// file artifacts only.
type DatabaseConfig struct {
	URL     string
	Enabled bool
}

// CohortConfig holds synthetic cohort generation settings
type CohortConfig struct {
	Participants int
	Sessions     int
	Seed         int64
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnvOrDefault("TOYPAL_DATA_DIR", "data")

	cfg := &Config{
		Paths: PathConfig{
			DataDir:      dataDir,
			BronzeFile:   getEnvOrDefault("TOYPAL_BRONZE_FILE", filepath.Join(dataDir, "bronze", "toy_pal_sessions_bronze.csv")),
			SilverFile:   getEnvOrDefault("TOYPAL_SILVER_FILE", filepath.Join(dataDir, "silver", "silver_cleaned.csv")),
			StatsFile:    getEnvOrDefault("TOYPAL_STATS_FILE", filepath.Join(dataDir, "gold", "statistical_results", "gold_statistical_answers.csv")),
			NLPFile:      getEnvOrDefault("TOYPAL_NLP_FILE", filepath.Join(dataDir, "gold", "nlp_results", "gold_nlp_session_sentiment.csv")),
			KeywordsFile: getEnvOrDefault("TOYPAL_KEYWORDS_FILE", filepath.Join(dataDir, "gold", "nlp_results", "gold_nlp_keyword_trends.csv")),
			ReportFile:   getEnvOrDefault("TOYPAL_REPORT_FILE", filepath.Join(dataDir, "gold", "clinical_summary.html")),
			ManifestFile: getEnvOrDefault("TOYPAL_MANIFEST_FILE", filepath.Join(dataDir, "gold", "run_manifest.json")),
		},
		Server: ServerConfig{
			Addr: getEnvOrDefault("TOYPAL_ADDR", ":8080"),
		},
		Database: loadDatabaseConfig(),
		Cohort: CohortConfig{
			Participants: getEnvIntOrDefault("TOYPAL_COHORT_SIZE", 30),
			Sessions:     getEnvIntOrDefault("TOYPAL_COHORT_SESSIONS", 14),
			Seed:         int64(getEnvIntOrDefault("TOYPAL_COHORT_SEED", 42)),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func loadDatabaseConfig() DatabaseConfig {
	url := os.Getenv("DATABASE_URL")
	return DatabaseConfig{URL: url, Enabled: url != ""}
}

func validate(cfg *Config) error {
	if cfg.Paths.BronzeFile == "" {
		return errors.ConfigInvalid("bronze file path cannot be empty")
	}
	if cfg.Cohort.Participants <= 0 || cfg.Cohort.Sessions <= 0 {
		return errors.ConfigInvalid("cohort size and session count must be positive")
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
