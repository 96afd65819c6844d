package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torkay/prospect-command-center/internal/domain"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	out, res := NormalizeAndValidate(Config{})
	require.True(t, res.OK(), "errors: %v", res.Errors)

	def := Default()
	assert.Equal(t, def.App.Port, out.App.Port)
	assert.Equal(t, def.Search.DefaultLimit, out.Search.DefaultLimit)
	assert.Equal(t, def.Search.DefaultConcurrency, out.Search.DefaultConcurrency)
	assert.Equal(t, def.Retention.SearchDays, out.Retention.SearchDays)
	assert.Equal(t, def.Scoring.WeakCMS, out.Scoring.WeakCMS)
}

func TestNormalizeTrimsWeakCMS(t *testing.T) {
	cfg := Default()
	cfg.Scoring.WeakCMS = []string{" wix ", "", "godaddy"}

	out, res := NormalizeAndValidate(cfg)
	require.True(t, res.OK())
	assert.Equal(t, []string{"wix", "godaddy"}, out.Scoring.WeakCMS)
}

func TestValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port out of range", func(c *Config) { c.App.Port = 70000 }, "app.port"},
		{"limit over cap", func(c *Config) { c.Search.DefaultLimit = domain.MaxResultLimit + 1 }, "default_limit"},
		{"concurrency over cap", func(c *Config) { c.Search.DefaultConcurrency = domain.MaxConcurrency + 1 }, "default_concurrency"},
		{"negative fetch timeout", func(c *Config) { c.Search.FetchTimeoutSeconds = -1 }, "fetch_timeout"},
		{"enrich deadline below fetch timeout", func(c *Config) { c.Search.EnrichDeadlineSeconds = 5 }, "enrich_deadline"},
		{"job timeout below enrich deadline", func(c *Config) { c.Search.JobTimeoutSeconds = 60 }, "job_timeout"},
		{"negative priority weight", func(c *Config) { c.Scoring.PriorityFit = -1 }, "scoring"},
		{"retention days negative", func(c *Config) { c.Retention.SearchDays = -1 }, "search_days"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)

			_, res := NormalizeAndValidate(cfg)
			require.False(t, res.OK())
			assert.Contains(t, res.Errors[0], tc.want)
		})
	}
}

func TestValidationWarnings(t *testing.T) {
	cfg := Default()
	cfg.Search.FetchTimeoutSeconds = 60

	_, res := NormalizeAndValidate(cfg)
	assert.True(t, res.OK())
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "fetch_timeout_seconds")
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout())
	assert.Equal(t, 2*time.Minute, cfg.EnrichDeadline())
	assert.Equal(t, 5*time.Minute, cfg.JobTimeout())
}

func TestSaveAtomicRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	cfg := Default()
	cfg.App.Port = 9000
	require.NoError(t, SaveAtomic(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, loaded.App.Port)
	assert.Equal(t, cfg.Scoring, loaded.Scoring)

	t.Run("previous version kept as .bak", func(t *testing.T) {
		cfg.App.Port = 9001
		require.NoError(t, SaveAtomic(path, cfg))

		b, err := os.ReadFile(path + ".bak")
		require.NoError(t, err)
		assert.Contains(t, string(b), "9000")
	})

	t.Run("invalid config never written", func(t *testing.T) {
		bad := Default()
		bad.App.Port = -1
		require.Error(t, SaveAtomic(path, bad))

		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 9001, loaded.App.Port)
	})
}

func TestOverlayEnv(t *testing.T) {
	t.Setenv("PROSPECT_PORT", "9999")
	t.Setenv("PROSPECT_DATA_DIR", "/tmp/prospect-test")

	cfg := Default()
	OverlayEnv(&cfg)
	assert.Equal(t, 9999, cfg.App.Port)
	assert.Equal(t, "/tmp/prospect-test", cfg.App.DataDir)

	t.Run("bad port ignored", func(t *testing.T) {
		t.Setenv("PROSPECT_PORT", "not-a-port")
		cfg := Default()
		OverlayEnv(&cfg)
		assert.Equal(t, Default().App.Port, cfg.App.Port)
	})
}
