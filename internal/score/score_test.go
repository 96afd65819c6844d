package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torkay/prospect-command-center/internal/domain"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

func analyzed(candidateID string) domain.EnrichmentResult {
	return domain.EnrichmentResult{
		CandidateID:  candidateID,
		Outcome:      domain.FetchOK,
		HasAnalytics: domain.SignalNo,
		HasPixel:     domain.SignalNo,
		HasBooking:   domain.SignalNo,
	}
}

func TestScoreFit(t *testing.T) {
	w := DefaultWeights()

	t.Run("every factor awarded", func(t *testing.T) {
		c := domain.Candidate{
			ID: "c1", Name: "Acme", Website: "https://acme.com.au", Phone: "0299990001",
			FoundInMaps: true, MapsPosition: 1,
			FoundInAds: true, AdPosition: 1,
			FoundInOrganic: true, OrganicPosition: 2,
			Rating: ptrF(4.5), ReviewCount: ptrI(30),
		}
		e := analyzed("c1")
		e.Emails = []string{"hello@acme.com.au"}

		b := Score(c, e, w)
		assert.Equal(t, 100, b.Fit)
	})

	t.Run("empty candidate scores zero fit", func(t *testing.T) {
		b := Score(domain.Candidate{ID: "c2", Name: "Ghost"}, domain.Unknown("c2", domain.FetchUnreachable), w)
		assert.Equal(t, 0, b.Fit)
	})

	t.Run("organic outside top ten earns nothing", func(t *testing.T) {
		c := domain.Candidate{ID: "c3", FoundInOrganic: true, OrganicPosition: 11}
		b := Score(c, domain.Unknown("c3", domain.FetchUnreachable), w)
		assert.Equal(t, 0, b.Fit)
	})

	t.Run("phone from site counts when listing has none", func(t *testing.T) {
		c := domain.Candidate{ID: "c4", Website: "https://x.com.au"}
		e := analyzed("c4")
		e.PhoneFromSite = "0299990001"

		b := Score(c, e, w)
		assert.Equal(t, w.FitWebsite+w.FitPhone, b.Fit)
	})
}

func TestScoreOpportunity(t *testing.T) {
	w := DefaultWeights()

	t.Run("no website gets the flat baseline", func(t *testing.T) {
		b := Score(domain.Candidate{ID: "c1", Name: "Ghost"}, domain.Unknown("c1", domain.FetchUnreachable), w)
		assert.Equal(t, 80, b.Opportunity)
		require.Len(t, b.Contributions, 1)
		assert.Equal(t, "no_website", b.Contributions[0].Factor)
	})

	t.Run("unreachable site gets the unknown baseline", func(t *testing.T) {
		c := domain.Candidate{ID: "c2", Website: "https://down.com.au"}
		b := Score(c, domain.Unknown("c2", domain.FetchUnreachable), w)
		assert.Equal(t, 50, b.Opportunity)
	})

	t.Run("unknown signals award nothing", func(t *testing.T) {
		c := domain.Candidate{ID: "c3", Website: "https://slow.com.au"}
		timedOut := domain.Unknown("c3", domain.FetchTimeout)

		confirmed := analyzed("c3")

		bu := Score(c, timedOut, w)
		bc := Score(c, confirmed, w)

		// Confirmed-absent earns the gap points, timeout only the baseline.
		assert.Greater(t, bc.Opportunity, 50)
		assert.Equal(t, 50, bu.Opportunity)
		for _, contrib := range bu.Contributions {
			assert.NotEqual(t, "no_analytics", contrib.Factor)
		}
	})

	t.Run("strong setup earns penalties", func(t *testing.T) {
		c := domain.Candidate{
			ID: "c4", Website: "https://pro.com.au",
			FoundInAds: true, FoundInOrganic: true, OrganicPosition: 1,
			FoundInMaps: true, MapsPosition: 1,
		}
		e := domain.EnrichmentResult{
			CandidateID:  "c4",
			Outcome:      domain.FetchOK,
			HasAnalytics: domain.SignalYes,
			HasPixel:     domain.SignalYes,
			HasBooking:   domain.SignalYes,
			Emails:       []string{"hi@pro.com.au"},
		}

		b := Score(c, e, w)
		assert.Equal(t, 0, b.Opportunity)
	})

	t.Run("weak cms and slow site add up", func(t *testing.T) {
		c := domain.Candidate{ID: "c5", Website: "https://diy.com.au", FoundInOrganic: true, OrganicPosition: 3}
		e := analyzed("c5")
		e.HasAnalytics = domain.SignalYes
		e.HasPixel = domain.SignalYes
		e.CMS = "Wix"
		e.LoadTimeMS = 4500
		e.Emails = []string{"a@diy.com.au"}

		b := Score(c, e, w)
		// booking gap + weak cms + slow site - good tracking
		assert.Equal(t, w.OppNoBooking+w.OppWeakCMS+w.OppSlowSite+w.OppGoodTracking, b.Opportunity)
	})
}

func TestScorePriority(t *testing.T) {
	w := DefaultWeights()

	t.Run("blend of fit and opportunity", func(t *testing.T) {
		c := domain.Candidate{ID: "c1", Name: "Ghost"} // fit 0, opp 80
		b := Score(c, domain.Unknown("c1", domain.FetchUnreachable), w)
		assert.InDelta(t, 48.0, b.Priority, 0.001)
	})

	t.Run("bounded 0..100", func(t *testing.T) {
		heavy := w
		heavy.PriorityFit = 3
		heavy.PriorityOpportunity = 3
		c := domain.Candidate{ID: "c2", Name: "Ghost"}
		b := Score(c, domain.Unknown("c2", domain.FetchUnreachable), w)
		bh := Score(c, domain.Unknown("c2", domain.FetchUnreachable), heavy)
		assert.LessOrEqual(t, b.Priority, 100.0)
		assert.Equal(t, 100.0, bh.Priority)
	})
}

func TestScoreDeterminism(t *testing.T) {
	w := DefaultWeights()
	c := domain.Candidate{
		ID: "c1", Name: "Acme", Website: "https://acme.com.au",
		FoundInMaps: true, MapsPosition: 2, Rating: ptrF(4.2), ReviewCount: ptrI(12),
	}
	e := analyzed("c1")
	e.CMS = "Weebly"
	e.LoadTimeMS = 3200

	first := Score(c, e, w)
	second := Score(c, e, w)
	assert.Equal(t, first, second)
}

func TestWeightsValidate(t *testing.T) {
	w := DefaultWeights()
	assert.NoError(t, w.Validate())

	w.PriorityFit = -0.1
	assert.Error(t, w.Validate())
}
