package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "Europe/Moscow", cfg.Timezone)
	assert.Equal(t, "https://statistics-api.wildberries.ru", cfg.Statistics.BaseURL)
	assert.Equal(t, 7, cfg.Statistics.ChunkDays)
	assert.Equal(t, 100000, cfg.Statistics.PageLimit)
	assert.Equal(t, 8, cfg.Analytics.ChunkDays)
	assert.Equal(t, 5, cfg.Analytics.PollIntervalSecs)
	assert.Equal(t, 300, cfg.Analytics.PollCeilingSecs)
	assert.Equal(t, 50, cfg.Advert.MetaBatchSize)
	assert.Equal(t, 100, cfg.Advert.StatsBatchSize)
	assert.Equal(t, 21, cfg.Advert.StatsPacingSeconds)
	assert.Equal(t, 30, cfg.Advert.ChunkDays)

	require.NoError(t, cfg.Validate())
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoadOverridesAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
timezone: Europe/Moscow
statistics:
  max_retries: 5
  chunk_days: 3
advert:
  stats_pacing_seconds: 2
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Statistics.MaxRetries)
	assert.Equal(t, 3, cfg.Statistics.ChunkDays)
	assert.Equal(t, 2, cfg.Advert.StatsPacingSeconds)
	// Untouched fields keep provider defaults.
	assert.Equal(t, 60, cfg.Statistics.RetryDelaySeconds)
	assert.Equal(t, "https://advert-api.wildberries.ru", cfg.Advert.BaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Run("bad timezone", func(t *testing.T) {
		cfg := Default()
		cfg.Timezone = "Mars/Olympus"
		require.Error(t, cfg.Validate())
	})

	t.Run("meta batch over provider cap", func(t *testing.T) {
		cfg := Default()
		cfg.Advert.MetaBatchSize = 51
		require.Error(t, cfg.Validate())
	})

	t.Run("stats batch over provider cap", func(t *testing.T) {
		cfg := Default()
		cfg.Advert.StatsBatchSize = 101
		require.Error(t, cfg.Validate())
	})

	t.Run("negative meta batch", func(t *testing.T) {
		cfg := Default()
		cfg.Advert.MetaBatchSize = -1
		require.Error(t, cfg.Validate())
	})

	t.Run("negative stats batch", func(t *testing.T) {
		cfg := Default()
		cfg.Advert.StatsBatchSize = -5
		require.Error(t, cfg.Validate())
	})

	t.Run("negative poll interval", func(t *testing.T) {
		cfg := Default()
		cfg.Analytics.PollIntervalSecs = -1
		require.Error(t, cfg.Validate())
	})
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
advert:
  meta_batch_size: 200
`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "meta_batch_size")
}
