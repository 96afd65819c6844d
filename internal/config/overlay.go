package config

import (
	"os"
	"strconv"
)

// OverlayEnv applies environment overrides on top of the loaded file.
// Useful when running several engines off one data dir during development.
func OverlayEnv(cfg *Config) {
	if v := os.Getenv("PROSPECT_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = p
		}
	}
	if v := os.Getenv("PROSPECT_DATA_DIR"); v != "" {
		cfg.App.DataDir = v
	}
}
