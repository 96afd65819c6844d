package score

import (
	"fmt"
	"math"

	"github.com/torkay/prospect-command-center/internal/domain"
)

// Weights is the full scoring configuration. It is passed in at call time;
// the engine holds no state of its own.
type Weights struct {
	// Fit: can we reach this prospect?
	FitWebsite      int `yaml:"fit_website" json:"fit_website"`
	FitPhone        int `yaml:"fit_phone" json:"fit_phone"`
	FitEmail        int `yaml:"fit_email" json:"fit_email"`
	FitMaps         int `yaml:"fit_maps" json:"fit_maps"`
	FitRating       int `yaml:"fit_rating" json:"fit_rating"`
	FitReviews      int `yaml:"fit_reviews" json:"fit_reviews"`
	FitAds          int `yaml:"fit_ads" json:"fit_ads"`
	FitOrganicTop10 int `yaml:"fit_organic_top10" json:"fit_organic_top10"`

	// Opportunity: do they need marketing help? Negative weights are
	// penalties for an already strong setup.
	OppNoAnalytics  int `yaml:"opp_no_analytics" json:"opp_no_analytics"`
	OppNoPixel      int `yaml:"opp_no_pixel" json:"opp_no_pixel"`
	OppNoBooking    int `yaml:"opp_no_booking" json:"opp_no_booking"`
	OppNoEmail      int `yaml:"opp_no_email" json:"opp_no_email"`
	OppWeakCMS      int `yaml:"opp_weak_cms" json:"opp_weak_cms"`
	OppSlowSite     int `yaml:"opp_slow_site" json:"opp_slow_site"`
	OppRunningAds   int `yaml:"opp_running_ads" json:"opp_running_ads"`
	OppGoodTracking int `yaml:"opp_good_tracking" json:"opp_good_tracking"`
	OppPoorMaps     int `yaml:"opp_poor_maps" json:"opp_poor_maps"`
	OppPoorOrganic  int `yaml:"opp_poor_organic" json:"opp_poor_organic"`

	// Flat baselines when the website cannot be analysed at all.
	OppNoWebsite   int `yaml:"opp_no_website" json:"opp_no_website"`
	OppUnknownSite int `yaml:"opp_unknown_site" json:"opp_unknown_site"`

	// Priority blend. Must be non-negative; need not sum to 1.
	PriorityFit         float64 `yaml:"priority_fit" json:"priority_fit"`
	PriorityOpportunity float64 `yaml:"priority_opportunity" json:"priority_opportunity"`

	// DIY site builders that signal a platform-upgrade opportunity.
	WeakCMS []string `yaml:"weak_cms" json:"weak_cms"`
}

// DefaultWeights mirrors the shipped config file.
func DefaultWeights() Weights {
	return Weights{
		FitWebsite:      15,
		FitPhone:        15,
		FitEmail:        10,
		FitMaps:         15,
		FitRating:       10,
		FitReviews:      10,
		FitAds:          10,
		FitOrganicTop10: 15,

		OppNoAnalytics:  15,
		OppNoPixel:      10,
		OppNoBooking:    15,
		OppNoEmail:      10,
		OppWeakCMS:      10,
		OppSlowSite:     10,
		OppRunningAds:   -10,
		OppGoodTracking: -10,
		OppPoorMaps:     10,
		OppPoorOrganic:  20,

		OppNoWebsite:   80,
		OppUnknownSite: 50,

		PriorityFit:         0.4,
		PriorityOpportunity: 0.6,

		WeakCMS: []string{"Wix", "Weebly", "GoDaddy Website Builder"},
	}
}

// Validate rejects a weight set a job must not run with.
func (w Weights) Validate() error {
	if w.PriorityFit < 0 || w.PriorityOpportunity < 0 {
		return fmt.Errorf("priority weights must be non-negative (fit=%v, opportunity=%v)",
			w.PriorityFit, w.PriorityOpportunity)
	}
	return nil
}

// Score computes the full breakdown for one candidate. Pure and
// deterministic: identical inputs produce an identical breakdown.
func Score(c domain.Candidate, e domain.EnrichmentResult, w Weights) domain.ScoreBreakdown {
	var contributions []domain.Contribution

	add := func(factor string, delta int, reason string) int {
		contributions = append(contributions, domain.Contribution{Factor: factor, Delta: delta, Reason: reason})
		return delta
	}

	fit := fitScore(c, e, w, add)
	opp := opportunityScore(c, e, w, add)

	priority := float64(fit)*w.PriorityFit + float64(opp)*w.PriorityOpportunity
	priority = math.Round(clampF(priority, 0, 100)*100) / 100

	return domain.ScoreBreakdown{
		Fit:           fit,
		Opportunity:   opp,
		Priority:      priority,
		Contributions: contributions,
		Notes:         opportunityNotes(c, e, w),
	}
}

func fitScore(c domain.Candidate, e domain.EnrichmentResult, w Weights, add func(string, int, string) int) int {
	score := 0

	if c.Website != "" {
		score += add("has_website", w.FitWebsite, "has a website")
	}
	if c.Phone != "" || e.PhoneFromSite != "" {
		score += add("has_phone", w.FitPhone, "phone number available")
	}
	if len(e.Emails) > 0 {
		score += add("has_email", w.FitEmail, fmt.Sprintf("%d contact email(s) found", len(e.Emails)))
	}
	if c.FoundInMaps {
		score += add("maps_presence", w.FitMaps, fmt.Sprintf("listed in local pack (position %d)", c.MapsPosition))
	}
	if c.Rating != nil && *c.Rating >= 4.0 {
		score += add("good_rating", w.FitRating, fmt.Sprintf("rating %.1f", *c.Rating))
	}
	if c.ReviewCount != nil && *c.ReviewCount >= 10 {
		score += add("has_reviews", w.FitReviews, fmt.Sprintf("%d reviews", *c.ReviewCount))
	}
	if c.FoundInAds {
		score += add("running_ads", w.FitAds, "actively running search ads")
	}
	if c.FoundInOrganic && c.OrganicPosition > 0 && c.OrganicPosition <= 10 {
		score += add("organic_top10", w.FitOrganicTop10, fmt.Sprintf("organic position %d", c.OrganicPosition))
	}

	return clamp(score, 0, 100)
}

func opportunityScore(c domain.Candidate, e domain.EnrichmentResult, w Weights, add func(string, int, string) int) int {
	// No site at all is the biggest gap there is.
	if c.Website == "" {
		return clamp(add("no_website", w.OppNoWebsite, "no website found - needs a web presence"), 0, 100)
	}

	// Site exists but was never analysed: unknown signals award nothing,
	// so fall back to a flat moderate baseline.
	if !e.Analyzed() {
		return clamp(add("site_not_analysed", w.OppUnknownSite,
			fmt.Sprintf("website could not be analysed (%s)", e.Outcome)), 0, 100)
	}

	score := 0

	// Confirmed-absent only; SignalUnknown never awards points.
	if e.HasAnalytics == domain.SignalNo {
		score += add("no_analytics", w.OppNoAnalytics, "no analytics detected")
	}
	if e.HasPixel == domain.SignalNo {
		score += add("no_pixel", w.OppNoPixel, "no tracking pixel detected")
	}
	if e.HasBooking == domain.SignalNo {
		score += add("no_booking", w.OppNoBooking, "no online booking detected")
	}
	if len(e.Emails) == 0 {
		score += add("no_visible_email", w.OppNoEmail, "no visible contact email")
	}
	if e.CMS != "" && contains(w.WeakCMS, e.CMS) {
		score += add("weak_cms", w.OppWeakCMS, fmt.Sprintf("built on %s", e.CMS))
	}
	if e.LoadTimeMS > 3000 {
		score += add("slow_site", w.OppSlowSite, fmt.Sprintf("slow site (%dms load)", e.LoadTimeMS))
	}

	if c.FoundInAds {
		score += add("already_advertising", w.OppRunningAds, "already running search ads")
	}
	if e.HasAnalytics == domain.SignalYes && e.HasPixel == domain.SignalYes {
		score += add("good_tracking", w.OppGoodTracking, "analytics and pixel both present")
	}

	if c.FoundInMaps && c.MapsPosition > 1 {
		score += add("poor_maps_rank", w.OppPoorMaps, fmt.Sprintf("local pack position %d", c.MapsPosition))
	}
	if !c.FoundInOrganic {
		score += add("no_organic_rank", w.OppPoorOrganic, "not ranking in organic results")
	} else if c.OrganicPosition > 5 {
		score += add("poor_organic_rank", w.OppPoorOrganic, fmt.Sprintf("organic position %d", c.OrganicPosition))
	}

	return clamp(score, 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
