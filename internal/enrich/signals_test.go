package enrich

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/torkay/prospect-command-center/internal/domain"
)

func page(html string) Page {
	return Page{StatusCode: 200, Body: []byte(html), LoadTime: 250 * time.Millisecond}
}

func TestAnalyzeSignals(t *testing.T) {
	t.Run("analytics and pixel from script tags", func(t *testing.T) {
		res := Analyze("c1", page(`<html><head>
			<script src="https://www.googletagmanager.com/gtag/js"></script>
			<script>fbq('init', '123');</script>
		</head><body>Welcome</body></html>`))

		assert.Equal(t, domain.SignalYes, res.HasAnalytics)
		assert.Equal(t, domain.SignalYes, res.HasPixel)
		assert.Equal(t, domain.SignalNo, res.HasBooking)
		assert.Equal(t, domain.FetchOK, res.Outcome)
	})

	t.Run("booking widget detected", func(t *testing.T) {
		res := Analyze("c1", page(`<a href="https://calendly.com/acme/intro">Book now</a>`))
		assert.Equal(t, domain.SignalYes, res.HasBooking)
	})

	t.Run("absent signals are confirmed no, not unknown", func(t *testing.T) {
		res := Analyze("c1", page(`<html><body>Plain site</body></html>`))
		assert.Equal(t, domain.SignalNo, res.HasAnalytics)
		assert.Equal(t, domain.SignalNo, res.HasPixel)
		assert.Equal(t, domain.SignalNo, res.HasBooking)
	})

	t.Run("load time carried through", func(t *testing.T) {
		res := Analyze("c1", page(`<html></html>`))
		assert.Equal(t, 250, res.LoadTimeMS)
	})
}

func TestDetectCMS(t *testing.T) {
	t.Run("first matching rule wins", func(t *testing.T) {
		// wp-content appears before the shopify CDN reference
		res := Analyze("c1", page(`<link href="/wp-content/themes/x.css"><img src="https://cdn.shopify.com/x.png">`))
		assert.Equal(t, "WordPress", res.CMS)
	})

	t.Run("wix fingerprint", func(t *testing.T) {
		res := Analyze("c1", page(`<img src="https://static.wixstatic.com/media/x.jpg">`))
		assert.Equal(t, "Wix", res.CMS)
	})

	t.Run("no match yields empty", func(t *testing.T) {
		res := Analyze("c1", page(`<html><body>hand-rolled</body></html>`))
		assert.Equal(t, "", res.CMS)
	})
}

func TestAnalyzeContacts(t *testing.T) {
	t.Run("extracts from visible text only", func(t *testing.T) {
		res := Analyze("c1", page(`<html><body>
			<p>Email us: hello@acme.com.au</p>
			<script>var sentry = "dead@script.com.au";</script>
		</body></html>`))

		assert.Equal(t, []string{"hello@acme.com.au"}, res.Emails)
	})

	t.Run("phone from visible text", func(t *testing.T) {
		res := Analyze("c1", page(`<body><footer>Call (02) 9555 0100</footer></body>`))
		assert.Equal(t, "0295550100", res.PhoneFromSite)
	})

	t.Run("page title captured", func(t *testing.T) {
		res := Analyze("c1", page(`<html><head><title>  Acme   Plumbing </title></head></html>`))
		assert.Equal(t, "Acme Plumbing", res.PageTitle)
	})
}
