package enrich

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxBodyBytes caps how much of a page we read; signals live near the top of
// the document.
const maxBodyBytes = 2 << 20

// Page is the raw outcome of one website fetch.
type Page struct {
	StatusCode int
	Body       []byte
	FinalURL   string
	LoadTime   time.Duration
}

// Fetcher is the pluggable fetch boundary. A completed HTTP exchange returns
// (Page, nil) whatever the status code; transport failures return an error.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// HTTPFetcher fetches pages with a plain HTTP client, following redirects,
// with a per-host rate limit shared across jobs.
type HTTPFetcher struct {
	client  *http.Client
	limiter *HostLimiter
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		// Per-fetch deadlines come from the caller's context; no client
		// timeout so the pool owns cancellation.
		client:  &http.Client{},
		limiter: NewHostLimiter(2, 2),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}

	if err := f.limiter.WaitURL(ctx, rawURL); err != nil {
		return Page{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, err
	}
	req.Header.Set("User-Agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-AU,en;q=0.9")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return Page{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Page{}, err
	}

	return Page{
		StatusCode: resp.StatusCode,
		Body:       body,
		FinalURL:   resp.Request.URL.String(),
		LoadTime:   time.Since(start),
	}, nil
}
