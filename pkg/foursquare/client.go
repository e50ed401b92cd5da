// Package foursquare implements the places provider against the Foursquare
// Places API.
package foursquare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/venturelink/match-engine/internal/model"
	"github.com/venturelink/match-engine/internal/places"
	"github.com/venturelink/match-engine/internal/resilience"
)

const defaultBaseURL = "https://api.foursquare.com/v3"

// ErrMissingCredential is returned when the client has no API key. It is
// never retried; the affected request fails outright.
var ErrMissingCredential = eris.New("foursquare: missing API key")

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
}

// WithRetry overrides the default retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// Client talks to the Foursquare Places API. It satisfies places.Provider.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

// NewClient creates a Foursquare client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(10, 10),
		retry:   resilience.DefaultRetryConfig(),
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
	}
	for _, o := range opts {
		o(c)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = resilience.RetryLogger("foursquare", "request")
	}
	return c
}

// Geocode resolves a pincode via the autocomplete endpoint, trying
// progressively more explicit query phrasings, then falls back to a place
// search. A miss is Matched=false, not an error.
func (c *Client) Geocode(ctx context.Context, pincode string) (places.GeocodeResult, error) {
	if c.apiKey == "" {
		return places.GeocodeResult{}, ErrMissingCredential
	}

	queries := []string{
		pincode,
		pincode + " India",
		"postal code " + pincode,
	}
	for _, q := range queries {
		params := url.Values{}
		params.Set("query", q)
		params.Set("types", "geo")
		params.Set("limit", "1")

		var resp autocompleteResponse
		if err := c.get(ctx, "/autocomplete", params, &resp); err != nil {
			return places.GeocodeResult{}, err
		}

		if len(resp.Results) == 0 {
			continue
		}
		geo := resp.Results[0].Geo
		if geo.Center.Latitude == 0 && geo.Center.Longitude == 0 {
			continue
		}
		return places.GeocodeResult{
			Matched: true,
			Location: model.Location{
				Latitude:  geo.Center.Latitude,
				Longitude: geo.Center.Longitude,
				Address:   geo.Name,
				City:      splitFirst(geo.Name),
				State:     splitSecond(geo.Name),
				Country:   geo.CountryCode,
				Pincode:   pincode,
			},
		}, nil
	}

	// Autocomplete found nothing; try a plain place search.
	params := url.Values{}
	params.Set("query", "postal code "+pincode)
	params.Set("limit", "1")

	var resp searchResponse
	if err := c.get(ctx, "/places/search", params, &resp); err != nil {
		return places.GeocodeResult{}, err
	}
	if len(resp.Results) == 0 {
		return places.GeocodeResult{}, nil
	}

	p := resp.Results[0]
	return places.GeocodeResult{
		Matched: true,
		Location: model.Location{
			Latitude:  p.Geocodes.Main.Latitude,
			Longitude: p.Geocodes.Main.Longitude,
			Address:   p.Location.Address,
			City:      p.Location.Locality,
			State:     p.Location.Region,
			Country:   p.Location.Country,
			Pincode:   pincode,
		},
	}, nil
}

// Search returns nearby businesses. Query may be empty. The request scopes
// either by coordinates+radius or by a city name; the API rejects radius
// combined with near.
func (c *Client) Search(ctx context.Context, req places.SearchRequest) ([]model.NearbyBusiness, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}

	params := url.Values{}
	if req.Query != "" {
		params.Set("query", req.Query)
	}
	if req.Near != "" {
		params.Set("near", req.Near)
	} else {
		params.Set("ll", fmt.Sprintf("%f,%f", req.Lat, req.Lng))
		if req.RadiusM > 0 {
			params.Set("radius", strconv.Itoa(req.RadiusM))
		}
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", "fsq_id,name,categories,location,geocodes,distance,rating,popularity")

	var resp searchResponse
	if err := c.get(ctx, "/places/search", params, &resp); err != nil {
		return nil, err
	}

	out := make([]model.NearbyBusiness, 0, len(resp.Results))
	for _, p := range resp.Results {
		b := model.NearbyBusiness{
			ID:         p.FsqID,
			Name:       p.Name,
			Rating:     p.Rating,
			Popularity: p.Popularity,
			DistanceM:  p.Distance,
			Location: model.Location{
				Latitude:  p.Geocodes.Main.Latitude,
				Longitude: p.Geocodes.Main.Longitude,
				Address:   p.Location.Address,
				City:      p.Location.Locality,
				State:     p.Location.Region,
				Country:   p.Location.Country,
				Pincode:   p.Location.Postcode,
			},
		}
		if len(p.Categories) > 0 {
			b.Category = p.Categories[0].Name
		}
		out = append(out, b)
	}
	return out, nil
}

// get performs a rate-limited, retried GET through the circuit breaker.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	_, err := resilience.ExecuteVal(ctx, c.breaker, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, resilience.Do(ctx, c.retry, func(ctx context.Context) error {
			return c.getOnce(ctx, path, params, v)
		})
	})
	return err
}

func (c *Client) getOnce(ctx context.Context, path string, params url.Values, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "foursquare: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "foursquare: create request")
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "foursquare: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "foursquare: read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("foursquare: unexpected status %d: %s", resp.StatusCode, string(body))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return resilience.NewTransientError(err, resp.StatusCode)
		}
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return eris.Wrap(err, "foursquare: unmarshal response")
	}
	return nil
}

// --- wire types ---

type autocompleteResponse struct {
	Results []struct {
		Geo struct {
			Name        string `json:"name"`
			CountryCode string `json:"cc"`
			Center      struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"center"`
		} `json:"geo"`
	} `json:"results"`
}

type searchResponse struct {
	Results []struct {
		FsqID      string   `json:"fsq_id"`
		Name       string   `json:"name"`
		Distance   int      `json:"distance"`
		Rating     *float64 `json:"rating"`
		Popularity *float64 `json:"popularity"`
		Categories []struct {
			Name string `json:"name"`
		} `json:"categories"`
		Location struct {
			Address  string `json:"address"`
			Locality string `json:"locality"`
			Region   string `json:"region"`
			Country  string `json:"country"`
			Postcode string `json:"postcode"`
		} `json:"location"`
		Geocodes struct {
			Main struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"main"`
		} `json:"geocodes"`
	} `json:"results"`
}

func splitFirst(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == ',' {
			return name[:i]
		}
	}
	return name
}

func splitSecond(name string) string {
	first := len(name)
	for i := 0; i < len(name); i++ {
		if name[i] == ',' {
			first = i
			break
		}
	}
	if first >= len(name) {
		return ""
	}
	rest := name[first+1:]
	for len(rest) > 0 && rest[0] == ' ' {
		rest = rest[1:]
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] == ',' {
			return rest[:i]
		}
	}
	return rest
}
