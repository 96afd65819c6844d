package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/torkay/prospect-command-center/internal/dedupe"
	"github.com/torkay/prospect-command-center/internal/domain"
)

const (
	serpBaseURL     = "https://serpapi.com/search"
	serpMaxResults  = 100
	serpMaxAttempts = 3
)

// SerpClient queries the SerpAPI Google Search endpoint, localized for
// Australian searches.
type SerpClient struct {
	APIKey       string
	KeyFunc      func() (string, error) // preferred over APIKey when set
	BaseURL      string
	GoogleDomain string
	GL           string
	HL           string

	// RetryBackoff seeds the exponential backoff between rate-limited
	// attempts.
	RetryBackoff time.Duration

	hc *http.Client
}

func NewSerpClient(apiKey string) *SerpClient {
	return &SerpClient{
		APIKey:       apiKey,
		BaseURL:      serpBaseURL,
		GoogleDomain: "google.com.au",
		GL:           "au",
		HL:           "en",
		hc:           &http.Client{Timeout: 30 * time.Second},
	}
}

// Search runs one query across all three channels. Rate limiting retries with
// backoff up to serpMaxAttempts; auth and upstream failures return
// immediately. No matches is an empty result, not an error.
func (c *SerpClient) Search(ctx context.Context, businessType, location string, limit int) (domain.ChannelResults, error) {
	apiKey := c.APIKey
	if c.KeyFunc != nil {
		if k, err := c.KeyFunc(); err == nil {
			apiKey = k
		}
	}
	if apiKey == "" {
		return domain.ChannelResults{}, &Error{Kind: KindUnauthenticated, Msg: "no API key configured"}
	}
	if limit <= 0 || limit > serpMaxResults {
		limit = serpMaxResults
	}

	query := businessType + " " + location
	normalized := NormalizeAULocation(location)

	params := url.Values{}
	params.Set("api_key", apiKey)
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("location", normalized)
	params.Set("google_domain", c.GoogleDomain)
	params.Set("gl", c.GL)
	params.Set("hl", c.HL)
	params.Set("num", fmt.Sprint(limit))

	var body []byte
	backoff := c.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}
	for attempt := 1; ; attempt++ {
		var retry bool
		var err error
		body, retry, err = c.fetch(ctx, params)
		if err == nil {
			break
		}
		if !retry || attempt == serpMaxAttempts {
			return domain.ChannelResults{}, err
		}
		log.Printf("[discovery] rate limited, retrying in %s (attempt %d/%d)", backoff, attempt, serpMaxAttempts)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return domain.ChannelResults{}, ctx.Err()
		}
		backoff *= 2
	}

	results, err := parseSerpResponse(body, query, location)
	if err != nil {
		return domain.ChannelResults{}, &Error{Kind: KindUpstreamUnavailable, Msg: err.Error()}
	}
	log.Printf("[discovery] %q: %d ads, %d maps, %d organic",
		query, len(results.Ads), len(results.Maps), len(results.Organic))
	return results, nil
}

// fetch performs one HTTP exchange. The second return reports whether the
// failure is retryable.
func (c *SerpClient) fetch(ctx context.Context, params url.Values) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, false, &Error{Kind: KindUpstreamUnavailable, Msg: err.Error()}
	}

	res, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, false, &Error{Kind: KindUpstreamUnavailable, Msg: err.Error()}
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return nil, false, &Error{Kind: KindUnauthenticated, Msg: "invalid API key"}
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, true, &Error{Kind: KindRateLimited, Msg: "rate limit exceeded"}
	case res.StatusCode >= 500:
		return nil, false, &Error{Kind: KindUpstreamUnavailable, Msg: fmt.Sprintf("server error %d", res.StatusCode)}
	case res.StatusCode >= 400:
		return nil, false, &Error{Kind: KindUpstreamUnavailable, Msg: fmt.Sprintf("unexpected status %d", res.StatusCode)}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, false, &Error{Kind: KindUpstreamUnavailable, Msg: err.Error()}
	}
	return body, false, nil
}

type serpResponse struct {
	Ads []struct {
		Position      int    `json:"position"`
		Title         string `json:"title"`
		DisplayedLink string `json:"displayed_link"`
		Link          string `json:"link"`
	} `json:"ads"`
	LocalResults json.RawMessage `json:"local_results"`
	Organic      []struct {
		Position int    `json:"position"`
		Title    string `json:"title"`
		Link     string `json:"link"`
	} `json:"organic_results"`
}

type serpPlace struct {
	Position int      `json:"position"`
	Title    string   `json:"title"`
	Rating   *float64 `json:"rating"`
	Reviews  *int     `json:"reviews"`
	Type     string   `json:"type"`
	Address  string   `json:"address"`
	Phone    string   `json:"phone"`
	Website  string   `json:"website"`
	Links    struct {
		Website string `json:"website"`
	} `json:"links"`
}

func parseSerpResponse(body []byte, query, location string) (domain.ChannelResults, error) {
	var raw serpResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.ChannelResults{}, fmt.Errorf("decode response: %w", err)
	}

	out := domain.ChannelResults{Query: query, Location: location}

	for i, ad := range raw.Ads {
		pos := ad.Position
		if pos == 0 {
			pos = i + 1
		}
		out.Ads = append(out.Ads, domain.RawListing{
			Channel:  domain.ChannelAds,
			Position: pos,
			Name:     ad.Title,
			Website:  ad.Link,
		})
	}

	for i, place := range parsePlaces(raw.LocalResults) {
		pos := place.Position
		if pos == 0 {
			pos = i + 1
		}
		website := place.Website
		if website == "" {
			website = place.Links.Website
		}
		out.Maps = append(out.Maps, domain.RawListing{
			Channel:     domain.ChannelMaps,
			Position:    pos,
			Name:        place.Title,
			Address:     place.Address,
			Phone:       place.Phone,
			Website:     website,
			Rating:      place.Rating,
			ReviewCount: place.Reviews,
			Category:    place.Type,
		})
	}

	for i, item := range raw.Organic {
		dom := dedupe.NormalizeDomain(item.Link)
		if dom == "" || dedupe.IsDirectoryDomain(dom) {
			continue
		}
		pos := item.Position
		if pos == 0 {
			pos = i + 1
		}
		out.Organic = append(out.Organic, domain.RawListing{
			Channel:  domain.ChannelOrganic,
			Position: pos,
			Name:     item.Title,
			Website:  item.Link,
		})
	}

	return out, nil
}

// parsePlaces handles both shapes local_results arrives in: an object with a
// "places" array, or a bare array.
func parsePlaces(raw json.RawMessage) []serpPlace {
	if len(raw) == 0 {
		return nil
	}
	var wrapped struct {
		Places []serpPlace `json:"places"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Places != nil {
		return wrapped.Places
	}
	var list []serpPlace
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	return nil
}
