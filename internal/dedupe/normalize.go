package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// Business suffixes stripped before name comparison, longest first so
// "pty ltd" wins over "ltd".
var nameSuffixes = []string{
	"pty ltd", "pty. ltd.", "pty. ltd", "pty ltd.",
	"limited", "ltd", "inc", "llc", "corp", "co",
}

// Directory and aggregator domains are never real prospects; listings on
// these hosts are dropped before identity indexing.
var directoryDomains = []string{
	"facebook.com", "linkedin.com", "instagram.com", "twitter.com", "x.com",
	"youtube.com", "tiktok.com", "reddit.com", "quora.com", "pinterest.com",
	"yelp.com", "yelp.com.au", "yellowpages.com", "yellowpages.com.au",
	"truelocal.com.au", "hotfrog.com.au", "oneflare.com.au", "hipages.com.au",
	"productreview.com.au", "localsearch.com.au", "startlocal.com.au",
	"whitepages.com.au", "serviceseeking.com.au", "airtasker.com",
	"bark.com", "thumbtack.com", "homeadvisor.com", "angi.com",
	"seek.com.au", "indeed.com", "glassdoor.com",
	"trustpilot.com", "wikipedia.org", "google.com", "crunchbase.com",
	"medium.com", "github.com",
}

// NormalizeDomain extracts a comparable domain from a URL or bare host.
// Returns "" when the input does not look like a usable domain.
func NormalizeDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "http:" || raw == "https:" || raw == "http://" || raw == "https://" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" || !strings.Contains(host, ".") || len(host) < 4 {
		return ""
	}
	if strings.ContainsAny(host, " <>\"';") {
		return ""
	}
	return host
}

// IsDirectoryDomain reports whether host is a known directory/aggregator,
// matching the host itself or any subdomain of it.
func IsDirectoryDomain(host string) bool {
	for _, d := range directoryDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// NormalizeName lowercases, strips punctuation and trailing business
// suffixes, and collapses whitespace.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	s = strings.Join(strings.Fields(b.String()), " ")
	for _, suffix := range nameSuffixes {
		bare := strings.Join(strings.Fields(strings.ReplaceAll(suffix, ".", " ")), " ")
		s = strings.TrimSuffix(s, " "+bare)
	}
	return strings.TrimSpace(s)
}

// NormalizePhone keeps digits only, folding the +61 country code into the
// local leading-zero form so "+61 2 9555 0100" and "(02) 9555 0100" compare
// equal.
func NormalizePhone(phone string) string {
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
	if len(digits) < 6 {
		return ""
	}
	return digits
}

// NormalizeAddress lowercases, strips punctuation, and collapses whitespace.
func NormalizeAddress(addr string) string {
	s := strings.ToLower(strings.TrimSpace(addr))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CandidateID derives a stable identifier from the strongest identity key.
func CandidateID(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}
