package domain

import (
	"fmt"
	"strings"
)

const (
	DefaultResultLimit = 20
	DefaultConcurrency = 3
	MaxConcurrency     = 10
	MaxResultLimit     = 100
)

// Filters narrows the final prospect list after scoring.
type Filters struct {
	MinFit         int  `json:"min_fit" yaml:"min_fit"`
	MinOpportunity int  `json:"min_opportunity" yaml:"min_opportunity"`
	MinPriority    int  `json:"min_priority" yaml:"min_priority"`
	RequirePhone   bool `json:"require_phone" yaml:"require_phone"`
	RequireEmail   bool `json:"require_email" yaml:"require_email"`
}

// Keep reports whether a prospect passes the filter thresholds.
func (f Filters) Keep(p Prospect) bool {
	if p.Scores.Fit < f.MinFit {
		return false
	}
	if p.Scores.Opportunity < f.MinOpportunity {
		return false
	}
	if int(p.Scores.Priority) < f.MinPriority {
		return false
	}
	if f.RequirePhone && p.Candidate.Phone == "" && p.Enrichment.PhoneFromSite == "" {
		return false
	}
	if f.RequireEmail && len(p.Enrichment.Emails) == 0 {
		return false
	}
	return true
}

// SearchRequest is the immutable input a job is created from.
type SearchRequest struct {
	BusinessType          string  `json:"business_type"`
	Location              string  `json:"location"`
	ResultLimit           int     `json:"result_limit"`
	EnrichmentConcurrency int     `json:"enrichment_concurrency"`
	SkipEnrichment        bool    `json:"skip_enrichment"`
	Filters               Filters `json:"filters"`
}

// Normalize fills defaults without touching explicitly set fields.
func (r SearchRequest) Normalize() SearchRequest {
	r.BusinessType = strings.TrimSpace(r.BusinessType)
	r.Location = strings.TrimSpace(r.Location)
	if r.ResultLimit == 0 {
		r.ResultLimit = DefaultResultLimit
	}
	if r.EnrichmentConcurrency == 0 {
		r.EnrichmentConcurrency = DefaultConcurrency
	}
	return r
}

// Validate rejects a bad request before any external call is made.
func (r SearchRequest) Validate() error {
	if r.BusinessType == "" {
		return fmt.Errorf("business_type is required")
	}
	if r.Location == "" {
		return fmt.Errorf("location is required")
	}
	if r.ResultLimit <= 0 || r.ResultLimit > MaxResultLimit {
		return fmt.Errorf("result_limit must be 1..%d, got %d", MaxResultLimit, r.ResultLimit)
	}
	if r.EnrichmentConcurrency < 1 || r.EnrichmentConcurrency > MaxConcurrency {
		return fmt.Errorf("enrichment_concurrency must be 1..%d, got %d", MaxConcurrency, r.EnrichmentConcurrency)
	}
	if r.Filters.MinFit < 0 || r.Filters.MinOpportunity < 0 || r.Filters.MinPriority < 0 {
		return fmt.Errorf("filter thresholds must be >= 0")
	}
	return nil
}
