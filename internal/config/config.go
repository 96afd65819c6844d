package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/torkay/prospect-command-center/internal/domain"
	"github.com/torkay/prospect-command-center/internal/score"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Search struct {
		DefaultLimit          int `yaml:"default_limit"`
		DefaultConcurrency    int `yaml:"default_concurrency"`
		FetchTimeoutSeconds   int `yaml:"fetch_timeout_seconds"`
		EnrichDeadlineSeconds int `yaml:"enrich_deadline_seconds"`
		JobTimeoutSeconds     int `yaml:"job_timeout_seconds"`
	} `yaml:"search"`

	Scoring score.Weights `yaml:"scoring"`

	Retention struct {
		SearchDays    int `yaml:"search_days"`
		JobSweepHours int `yaml:"job_sweep_hours"`
	} `yaml:"retention"`
}

// Default is the configuration the engine runs with when the user has not
// touched anything.
func Default() Config {
	var cfg Config
	cfg.App.Port = 8484
	cfg.Search.DefaultLimit = domain.DefaultResultLimit
	cfg.Search.DefaultConcurrency = domain.DefaultConcurrency
	cfg.Search.FetchTimeoutSeconds = 10
	cfg.Search.EnrichDeadlineSeconds = 120
	cfg.Search.JobTimeoutSeconds = 300
	cfg.Scoring = score.DefaultWeights()
	cfg.Retention.SearchDays = 90
	cfg.Retention.JobSweepHours = 12
	return cfg
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Search.FetchTimeoutSeconds) * time.Second
}

func (c Config) EnrichDeadline() time.Duration {
	return time.Duration(c.Search.EnrichDeadlineSeconds) * time.Second
}

func (c Config) JobTimeout() time.Duration {
	return time.Duration(c.Search.JobTimeoutSeconds) * time.Second
}
