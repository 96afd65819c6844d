package enrich

import (
	"regexp"
	"sort"
	"strings"
)

const (
	maxEmails = 5
	maxPhones = 3
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// AU phone formats: landline/mobile with optional +61, (0X) area codes,
// 1300/1800 numbers. The country code may be followed by a separator,
// as in "+61 2 9555 0100".
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:\+61[ -]?|0)[2-478](?:[ -]?\d){8}`),
	regexp.MustCompile(`\(\d{2}\)[ -]?\d{4}[ -]?\d{4}`),
	regexp.MustCompile(`1[38]00[ -]?\d{3}[ -]?\d{3}`),
}

// System/tracking senders that show up in page text but are never a contact.
var spamEmailDomains = map[string]bool{
	"sentry.io":           true,
	"bugsnag.com":         true,
	"wix.com":             true,
	"wixpress.com":        true,
	"wordpress.com":       true,
	"squarespace.com":     true,
	"sentry.wixpress.com": true,
	"example.com":         true,
	"domain.com":          true,
	"email.com":           true,
	"sendgrid.net":        true,
	"mailchimp.com":       true,
}

var spamLocalParts = []string{
	"noreply", "no-reply", "donotreply", "do-not-reply",
	"mailer-daemon", "postmaster", "notifications",
}

// extractEmails pulls contact emails out of visible page text, deduplicated
// in document order and capped at maxEmails.
func extractEmails(visibleText string) []string {
	matches := emailPattern.FindAllString(visibleText, -1)

	var out []string
	seen := make(map[string]bool)
	for _, m := range matches {
		email := strings.ToLower(m)
		if seen[email] || len(email) > 100 {
			continue
		}
		if isSpamEmail(email) {
			continue
		}
		seen[email] = true
		out = append(out, email)
		if len(out) == maxEmails {
			break
		}
	}
	return out
}

func isSpamEmail(email string) bool {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return true
	}
	local, dom := email[:at], email[at+1:]

	if spamEmailDomains[dom] {
		return true
	}
	for _, p := range spamLocalParts {
		if strings.HasPrefix(local, p) {
			return true
		}
	}

	// Hash-like local parts are error-tracking IDs, not people.
	if len(local) > 15 {
		hex := 0
		for _, r := range local {
			if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') {
				hex++
			}
		}
		if float64(hex)/float64(len(local)) > 0.7 {
			return true
		}
	}
	return false
}

// extractPhones pulls phone numbers out of visible page text, normalized,
// deduplicated in document order and capped at maxPhones. Matches from all
// patterns are interleaved by their position in the text, so the number a
// visitor sees first is the one reported first.
func extractPhones(visibleText string) []string {
	type hit struct {
		pos int
		raw string
	}
	var hits []hit
	for _, p := range phonePatterns {
		for _, loc := range p.FindAllStringIndex(visibleText, -1) {
			hits = append(hits, hit{pos: loc[0], raw: visibleText[loc[0]:loc[1]]})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	var out []string
	seen := make(map[string]bool)
	for _, h := range hits {
		n := normalizePhoneDisplay(h.raw)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
		if len(out) == maxPhones {
			break
		}
	}
	return out
}

// normalizePhoneDisplay reduces a match to digits, folding +61 into the local
// leading-zero form.
func normalizePhoneDisplay(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(strings.TrimSpace(phone), "+61") && len(digits) == 11 {
		digits = "0" + digits[2:]
	}
	if len(digits) < 8 {
		return ""
	}
	return digits
}
