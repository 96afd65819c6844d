package enrich

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/torkay/prospect-command-center/internal/domain"
)

// Analyze derives website signals from a successfully fetched page. It is a
// pure function of the page content: same bytes, same result.
//
// Fingerprint matching runs over the whole document (analytics and pixels
// live in script tags); email/phone extraction runs over visible text only.
func Analyze(candidateID string, page Page) domain.EnrichmentResult {
	res := domain.EnrichmentResult{
		CandidateID: candidateID,
		Outcome:     domain.FetchOK,
		LoadTimeMS:  int(page.LoadTime.Milliseconds()),
	}

	lower := strings.ToLower(string(page.Body))

	res.HasAnalytics = domain.SignalOf(matchesAny(lower, analyticsSignatures))
	res.HasPixel = domain.SignalOf(matchesAny(lower, pixelSignatures))
	res.HasBooking = domain.SignalOf(matchesAny(lower, bookingSignatures))
	res.CMS = detectCMS(lower)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		// Signals above still hold; contact extraction needs a parse.
		return res
	}

	res.PageTitle = cleanText(doc.Find("title").First().Text())

	text := visibleText(doc)
	res.Emails = extractEmails(text)
	if phones := extractPhones(text); len(phones) > 0 {
		res.PhoneFromSite = phones[0]
	}

	return res
}

func matchesAny(lowerHTML string, signatures []string) bool {
	for _, s := range signatures {
		if strings.Contains(lowerHTML, s) {
			return true
		}
	}
	return false
}

// detectCMS applies the fingerprint rules in order; first match wins.
func detectCMS(lowerHTML string) string {
	for _, rule := range cmsRules {
		for _, s := range rule.signatures {
			if strings.Contains(lowerHTML, strings.ToLower(s)) {
				return rule.name
			}
		}
	}
	return ""
}

// visibleText returns the rendered text of the page with scripts, styles and
// comments gone, so contact extraction never picks addresses out of markup.
func visibleText(doc *goquery.Document) string {
	clone := doc.Selection.Clone()
	clone.Find("script, style, noscript, template").Remove()
	return clone.Text()
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
