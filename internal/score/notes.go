package score

import (
	"fmt"
	"strings"

	"github.com/torkay/prospect-command-center/internal/domain"
)

// opportunityNotes renders the pitch angle for a prospect: short
// human-readable lines grouped by theme, derived from the same signals the
// opportunity score uses.
func opportunityNotes(c domain.Candidate, e domain.EnrichmentResult, w Weights) []string {
	if c.Website == "" {
		return []string{"No website: full web presence build is the opening offer."}
	}
	if !e.Analyzed() {
		return []string{fmt.Sprintf("Website could not be analysed (%s); verify manually before outreach.", e.Outcome)}
	}

	var notes []string

	// Visibility.
	if !c.FoundInOrganic {
		notes = append(notes, "Not ranking organically: SEO gap.")
	} else if c.OrganicPosition > 5 {
		notes = append(notes, fmt.Sprintf("Organic position %d: SEO upside.", c.OrganicPosition))
	}
	if c.FoundInMaps && c.MapsPosition > 1 {
		notes = append(notes, fmt.Sprintf("Local pack position %d: local SEO upside.", c.MapsPosition))
	}

	// Measurement.
	var missing []string
	if e.HasAnalytics == domain.SignalNo {
		missing = append(missing, "analytics")
	}
	if e.HasPixel == domain.SignalNo {
		missing = append(missing, "ad pixel")
	}
	if len(missing) > 0 {
		notes = append(notes, fmt.Sprintf("No %s: flying blind on traffic.", strings.Join(missing, " or ")))
	}

	// Conversion.
	if e.HasBooking == domain.SignalNo {
		notes = append(notes, "No online booking: losing after-hours enquiries.")
	}
	if len(e.Emails) == 0 {
		notes = append(notes, "No visible contact email on site.")
	}

	// Platform.
	if e.CMS != "" && contains(w.WeakCMS, e.CMS) {
		notes = append(notes, fmt.Sprintf("Built on %s: platform upgrade angle.", e.CMS))
	}
	if e.LoadTimeMS > 3000 {
		notes = append(notes, fmt.Sprintf("Slow site (%dms): performance work.", e.LoadTimeMS))
	}

	// Budget signal.
	if c.FoundInAds {
		notes = append(notes, "Already buying ads: has marketing budget.")
	}

	return notes
}
