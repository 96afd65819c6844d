package config

import (
	"fmt"
	"strings"

	"github.com/torkay/prospect-command-center/internal/domain"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate fills gaps with defaults and reports what a caller
// must fix before the config can be applied. Warnings never block.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation
	def := Default()

	// ---- Normalization: zero means "use the default" ----

	if out.App.Port == 0 {
		out.App.Port = def.App.Port
	}
	if out.Search.DefaultLimit == 0 {
		out.Search.DefaultLimit = def.Search.DefaultLimit
	}
	if out.Search.DefaultConcurrency == 0 {
		out.Search.DefaultConcurrency = def.Search.DefaultConcurrency
	}
	if out.Search.FetchTimeoutSeconds == 0 {
		out.Search.FetchTimeoutSeconds = def.Search.FetchTimeoutSeconds
	}
	if out.Search.EnrichDeadlineSeconds == 0 {
		out.Search.EnrichDeadlineSeconds = def.Search.EnrichDeadlineSeconds
	}
	if out.Search.JobTimeoutSeconds == 0 {
		out.Search.JobTimeoutSeconds = def.Search.JobTimeoutSeconds
	}
	if out.Retention.SearchDays == 0 {
		out.Retention.SearchDays = def.Retention.SearchDays
	}
	if out.Retention.JobSweepHours == 0 {
		out.Retention.JobSweepHours = def.Retention.JobSweepHours
	}
	if len(out.Scoring.WeakCMS) == 0 {
		out.Scoring.WeakCMS = def.Scoring.WeakCMS
	}

	trimmed := make([]string, 0, len(out.Scoring.WeakCMS))
	for _, c := range out.Scoring.WeakCMS {
		if c = strings.TrimSpace(c); c != "" {
			trimmed = append(trimmed, c)
		}
	}
	out.Scoring.WeakCMS = trimmed

	// ---- Validation rules ----

	if out.App.Port < 1 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Search.DefaultLimit < 1 || out.Search.DefaultLimit > domain.MaxResultLimit {
		res.addErr("search.default_limit must be 1..%d", domain.MaxResultLimit)
	}
	if out.Search.DefaultConcurrency < 1 || out.Search.DefaultConcurrency > domain.MaxConcurrency {
		res.addErr("search.default_concurrency must be 1..%d", domain.MaxConcurrency)
	}
	if out.Search.FetchTimeoutSeconds < 1 {
		res.addErr("search.fetch_timeout_seconds must be > 0")
	} else if out.Search.FetchTimeoutSeconds > 30 {
		res.addWarn("search.fetch_timeout_seconds is very high (%d); slow sites will drag out jobs.", out.Search.FetchTimeoutSeconds)
	}
	if out.Search.EnrichDeadlineSeconds < out.Search.FetchTimeoutSeconds {
		res.addErr("search.enrich_deadline_seconds must be at least fetch_timeout_seconds")
	}
	if out.Search.JobTimeoutSeconds < out.Search.EnrichDeadlineSeconds {
		res.addErr("search.job_timeout_seconds must be at least enrich_deadline_seconds")
	}

	if err := out.Scoring.Validate(); err != nil {
		res.addErr("scoring: %v", err)
	}
	if out.Scoring.PriorityFit == 0 && out.Scoring.PriorityOpportunity == 0 {
		res.addWarn("scoring priority weights are both zero; every prospect will rank 0.")
	}

	if out.Retention.SearchDays < 1 {
		res.addErr("retention.search_days must be > 0")
	}
	if out.Retention.JobSweepHours < 1 {
		res.addErr("retention.job_sweep_hours must be > 0")
	}

	return out, res
}
