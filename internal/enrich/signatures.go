package enrich

// cmsRule is one CMS fingerprint. Rules are evaluated in order and the first
// match wins, so more specific platforms sit above generic ones.
type cmsRule struct {
	name       string
	signatures []string
}

var cmsRules = []cmsRule{
	{"WordPress", []string{"/wp-content/", "/wp-includes/", "wp-json"}},
	{"Shopify", []string{"cdn.shopify.com", "myshopify.com"}},
	{"Wix", []string{"wixsite.com", "_wix_browser_sess", "wix-code", "static.wixstatic.com"}},
	{"Squarespace", []string{"static.squarespace", "squarespace.com", "sqsp.net"}},
	{"Webflow", []string{"assets-global.website-files", "webflow.io", "webflow.com"}},
	{"Weebly", []string{"weebly.com", "weeblycloud.com"}},
	{"GoDaddy Website Builder", []string{"godaddysites", "secureserver.net"}},
	{"Joomla", []string{"/components/com_", "joomla"}},
	{"Drupal", []string{"/sites/default/", "drupal"}},
}

var analyticsSignatures = []string{
	"google-analytics.com",
	"googletagmanager.com",
	"gtag(",
}

var pixelSignatures = []string{
	"facebook.com/tr",
	"connect.facebook.net",
	"fbq(",
}

var bookingSignatures = []string{
	"calendly.com",
	"acuityscheduling",
	"youcanbook.me",
	"setmore.com",
	"square.site/book",
	"fresha.com",
	"bookings.google.com",
	"appointlet.com",
	"simplybook.me",
	"timify.com",
	"book-online",
	"book-now",
	"schedule-appointment",
}
