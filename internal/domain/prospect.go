package domain

// Contribution is one fired scoring rule, retained for explainability.
// Rules that did not fire are absent, not zero-delta entries.
type Contribution struct {
	Factor string `json:"factor"`
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

// ScoreBreakdown is the full scoring output for one candidate. Scores are a
// pure function of Candidate + EnrichmentResult + weights; identical inputs
// always produce an identical breakdown.
type ScoreBreakdown struct {
	Fit           int            `json:"fit_score"`         // 0..100
	Opportunity   int            `json:"opportunity_score"` // 0..100
	Priority      float64        `json:"priority_score"`    // 0..100
	Contributions []Contribution `json:"contributions"`
	Notes         []string       `json:"opportunity_notes,omitempty"`
}

// Prospect is the externally visible unit: one candidate, its enrichment
// result, and its scores. Never mutated after scoring completes.
type Prospect struct {
	Candidate  Candidate        `json:"candidate"`
	Enrichment EnrichmentResult `json:"enrichment"`
	Scores     ScoreBreakdown   `json:"scores"`
}

// Summary is the roll-up shipped with a finished job's prospect list.
type Summary struct {
	Count          int     `json:"count"`
	AvgFit         float64 `json:"avg_fit"`
	AvgOpportunity float64 `json:"avg_opportunity"`
}

// Summarize computes the summary statistics for a prospect list.
func Summarize(prospects []Prospect) Summary {
	s := Summary{Count: len(prospects)}
	if s.Count == 0 {
		return s
	}
	var fit, opp int
	for _, p := range prospects {
		fit += p.Scores.Fit
		opp += p.Scores.Opportunity
	}
	s.AvgFit = float64(fit) / float64(s.Count)
	s.AvgOpportunity = float64(opp) / float64(s.Count)
	return s
}
