package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// News source settings
	NewsAPIKey        string
	NewsCountry       string
	SourcesConfigPath string
	MaxHeadlines      int

	// Instagram settings
	InstagramUsername string
	InstagramPassword string
	SessionFilePath   string

	// History settings
	HistoryFilePath     string
	HistoryRetention    time.Duration
	SimilarityThreshold float64

	// Slide settings
	SlidesDir string

	// Schedule settings
	PostCronSpec  string
	ResetCronSpec string
	StateFilePath string

	// Dashboard settings
	DashboardPort  string
	AdminUser      string
	AdminPassword  string
	HealthToken    string

	// App settings
	Debug          bool
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		NewsCountry:         "in",
		SourcesConfigPath:   "configs/sources.yaml",
		MaxHeadlines:        10,
		SessionFilePath:     "creds/session.json",
		HistoryFilePath:     "data/news_history.json",
		HistoryRetention:    7 * 24 * time.Hour,
		SimilarityThreshold: 0.6,
		SlidesDir:           "slides",
		PostCronSpec:        "17 9,13,17,21 * * *",
		ResetCronSpec:       "0 0 * * *",
		StateFilePath:       "data/state.json",
		DashboardPort:       "8080",
		RequestTimeout:      30 * time.Second,
		RetryAttempts:       3,
		RetryDelay:          5 * time.Second,
	}

	// Load from environment
	cfg.NewsAPIKey = os.Getenv("NEWS_API_KEY")
	cfg.InstagramUsername = os.Getenv("IG_USERNAME")
	cfg.InstagramPassword = os.Getenv("IG_PASSWORD")
	cfg.AdminUser = os.Getenv("ADMIN_USER")
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.HealthToken = os.Getenv("HEALTH_TOKEN")

	cfg.NewsCountry = getEnvOrDefault("NEWS_COUNTRY", cfg.NewsCountry)
	cfg.SourcesConfigPath = getEnvOrDefault("SOURCES_CONFIG_PATH", cfg.SourcesConfigPath)
	cfg.SessionFilePath = getEnvOrDefault("SESSION_FILE_PATH", cfg.SessionFilePath)
	cfg.HistoryFilePath = getEnvOrDefault("HISTORY_FILE_PATH", cfg.HistoryFilePath)
	cfg.SlidesDir = getEnvOrDefault("SLIDES_DIR", cfg.SlidesDir)
	cfg.PostCronSpec = getEnvOrDefault("POST_CRON_SPEC", cfg.PostCronSpec)
	cfg.ResetCronSpec = getEnvOrDefault("RESET_CRON_SPEC", cfg.ResetCronSpec)
	cfg.StateFilePath = getEnvOrDefault("STATE_FILE_PATH", cfg.StateFilePath)
	cfg.DashboardPort = getEnvOrDefault("DASHBOARD_PORT", cfg.DashboardPort)

	if v := os.Getenv("MAX_HEADLINES"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.MaxHeadlines = val
		}
	}

	// Retention window and similarity threshold are deliberately tunable:
	// deployed versions of this bot disagreed on both (3 vs 7 days).
	if v := os.Getenv("HISTORY_RETENTION_DAYS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.HistoryRetention = time.Duration(val) * 24 * time.Hour
		}
	}
	if v := os.Getenv("HISTORY_SIMILARITY_THRESHOLD"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil && val > 0 && val <= 1 {
			cfg.SimilarityThreshold = val
		}
	}

	if v := os.Getenv("RETRY_ATTEMPTS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RetryAttempts = val
		}
	}
	if v := os.Getenv("RETRY_DELAY_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RetryDelay = time.Duration(val) * time.Second
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RequestTimeout = time.Duration(val) * time.Second
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.NewsAPIKey == "" {
		return fmt.Errorf("NEWS_API_KEY is required")
	}
	if c.InstagramUsername == "" {
		return fmt.Errorf("IG_USERNAME is required")
	}
	if c.InstagramPassword == "" {
		return fmt.Errorf("IG_PASSWORD is required")
	}
	if c.AdminUser == "" || c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_USER and ADMIN_PASSWORD are required")
	}
	return nil
}
