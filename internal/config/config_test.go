package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("NEWS_API_KEY", "news-key")
	t.Setenv("IG_USERNAME", "bot")
	t.Setenv("IG_PASSWORD", "pw")
	t.Setenv("ADMIN_USER", "admin")
	t.Setenv("ADMIN_PASSWORD", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MaxHeadlines)
	assert.Equal(t, 7*24*time.Hour, cfg.HistoryRetention)
	assert.Equal(t, 0.6, cfg.SimilarityThreshold)
	assert.Equal(t, 3, cfg.RetryAttempts)
	assert.Equal(t, 5*time.Second, cfg.RetryDelay)
	assert.Equal(t, "slides", cfg.SlidesDir)
	assert.Equal(t, "8080", cfg.DashboardPort)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAX_HEADLINES", "5")
	t.Setenv("HISTORY_RETENTION_DAYS", "3")
	t.Setenv("HISTORY_SIMILARITY_THRESHOLD", "0.8")
	t.Setenv("POST_CRON_SPEC", "0 6 * * *")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxHeadlines)
	assert.Equal(t, 3*24*time.Hour, cfg.HistoryRetention)
	assert.Equal(t, 0.8, cfg.SimilarityThreshold)
	assert.Equal(t, "0 6 * * *", cfg.PostCronSpec)
}

func TestLoadIgnoresInvalidOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAX_HEADLINES", "zero")
	t.Setenv("HISTORY_SIMILARITY_THRESHOLD", "1.7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MaxHeadlines)
	assert.Equal(t, 0.6, cfg.SimilarityThreshold)
}

func TestValidateMissingCredentials(t *testing.T) {
	tests := []string{"NEWS_API_KEY", "IG_USERNAME", "IG_PASSWORD", "ADMIN_USER"}

	for _, missing := range tests {
		t.Run(missing, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(missing, "")

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
