package domain

import "encoding/json"

// Signal is a tri-state boolean for website signals. Enrichment failure is
// reported as SignalUnknown, never coerced into SignalNo.
type Signal uint8

const (
	SignalUnknown Signal = iota
	SignalNo
	SignalYes
)

func (s Signal) String() string {
	switch s {
	case SignalYes:
		return "true"
	case SignalNo:
		return "false"
	}
	return "unknown"
}

// SignalOf converts a confirmed observation into a Signal.
func SignalOf(present bool) Signal {
	if present {
		return SignalYes
	}
	return SignalNo
}

func (s Signal) MarshalJSON() ([]byte, error) {
	switch s {
	case SignalYes:
		return []byte("true"), nil
	case SignalNo:
		return []byte("false"), nil
	}
	return []byte(`"unknown"`), nil
}

func (s *Signal) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*s = SignalOf(t)
	default:
		*s = SignalUnknown
	}
	return nil
}

// FetchOutcome tags how an enrichment unit settled.
type FetchOutcome string

const (
	FetchOK          FetchOutcome = "ok"
	FetchTimeout     FetchOutcome = "timeout"
	FetchUnreachable FetchOutcome = "unreachable"
	FetchBlocked     FetchOutcome = "blocked"
)

// EnrichmentResult carries the signals derived from one candidate's website.
// A candidate without a resolvable website gets all-unknown signals and
// FetchUnreachable without ever touching the network.
type EnrichmentResult struct {
	CandidateID   string       `json:"candidate_id"`
	Outcome       FetchOutcome `json:"fetch_outcome"`
	HasAnalytics  Signal       `json:"has_analytics"`
	HasPixel      Signal       `json:"has_pixel"`
	HasBooking    Signal       `json:"has_booking"`
	CMS           string       `json:"cms,omitempty"` // empty means unknown
	Emails        []string     `json:"emails,omitempty"`
	PhoneFromSite string       `json:"phone_from_site,omitempty"`
	LoadTimeMS    int          `json:"load_time_ms,omitempty"`
	PageTitle     string       `json:"page_title,omitempty"`
}

// Unknown returns an all-unknown result for a candidate, used when enrichment
// was skipped or the site never answered.
func Unknown(candidateID string, outcome FetchOutcome) EnrichmentResult {
	return EnrichmentResult{CandidateID: candidateID, Outcome: outcome}
}

// Analyzed reports whether page content was actually inspected, i.e. whether
// absent signals are confirmed-absent rather than unknown.
func (e EnrichmentResult) Analyzed() bool {
	return e.Outcome == FetchOK
}
