// Package amadeus implements the fare provider boundary against the Amadeus
// Flight Offers Search API.
//
// The client authenticates once per run with OAuth client credentials,
// paces successive searches through a shared limiter, retries transient
// failures, and caches raw search responses for a short TTL so back-to-back
// runs don't re-issue identical queries.
package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rmcnabb/farewatch/pkg/cache"
	"github.com/rmcnabb/farewatch/pkg/errors"
	"github.com/rmcnabb/farewatch/pkg/fare"
	"github.com/rmcnabb/farewatch/pkg/httputil"
	"github.com/rmcnabb/farewatch/pkg/observability"
	"github.com/rmcnabb/farewatch/pkg/provider"
)

const (
	defaultBaseURL  = "https://test.api.amadeus.com/v2/shopping/flight-offers"
	defaultTokenURL = "https://test.api.amadeus.com/v1/security/oauth2/token"

	// defaultMaxResults bounds how many offers one query may return.
	defaultMaxResults = 50
)

// Options configures a Client.
type Options struct {
	ClientID     string
	ClientSecret string

	BaseURL  string // search endpoint, defaults to the Amadeus test API
	TokenURL string // token endpoint, defaults to the Amadeus test API

	Currency   string // reporting currency requested from the provider
	Airline    string // IATA code the search is restricted to
	MaxResults int

	Cache   cache.Cache       // nil disables caching
	Limiter *httputil.Limiter // nil disables pacing
	Policy  httputil.Policy   // zero value uses httputil.DefaultPolicy
	Logger  *log.Logger       // nil uses log.Default()

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the Amadeus flight offers API. It implements
// [provider.Searcher] and is safe for concurrent use once authenticated.
type Client struct {
	opts    Options
	http    *http.Client
	cache   cache.Cache
	limiter *httputil.Limiter
	policy  httputil.Policy
	logger  *log.Logger

	token string // bearer token, set by Authenticate
}

// New creates an Amadeus client. Credentials are validated in
// [Client.Authenticate], not here, so a client can be constructed for
// cache-only inspection without secrets.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = defaultTokenURL
	}
	if opts.MaxResults == 0 {
		opts.MaxResults = defaultMaxResults
	}
	if opts.Policy.Attempts == 0 {
		opts.Policy = httputil.DefaultPolicy
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 25 * time.Second}
	}
	c := opts.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		opts:    opts,
		http:    httpClient,
		cache:   c,
		limiter: opts.Limiter,
		policy:  opts.Policy,
		logger:  logger,
	}
}

// Authenticate performs the OAuth client-credentials exchange. It must be
// called once before Search; the token is reused for the whole run.
//
// Missing credentials are a configuration error (the run aborts before any
// query); rejected credentials are an auth error.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.opts.ClientID == "" || c.opts.ClientSecret == "" {
		return errors.New(errors.ErrCodeConfigMissing,
			"AMADEUS_CLIENT_ID / AMADEUS_CLIENT_SECRET are not set")
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.opts.ClientID},
		"client_secret": {c.opts.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.opts.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return provider.TransientError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return provider.AuthError(fmt.Errorf("token endpoint returned status %d", resp.StatusCode))
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return provider.AuthError(fmt.Errorf("decode token response: %w", err))
	}
	if body.AccessToken == "" {
		return provider.AuthError(fmt.Errorf("token response has no access_token"))
	}

	c.token = body.AccessToken
	c.logger.Debug("authenticated with provider")
	return nil
}

// Search executes one flight offers query and returns the raw response.
// The response is verified to be structured JSON but otherwise untouched.
func (c *Client) Search(ctx context.Context, q provider.Query) (provider.RawPayload, error) {
	if c.token == "" {
		return nil, provider.AuthError(fmt.Errorf("not authenticated"))
	}

	key := cache.Key("amadeus", q, c.opts.Currency, c.opts.Airline)
	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "search")
		return provider.RawPayload(data), nil
	}
	observability.Cache().OnCacheMiss(ctx, "search")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var payload provider.RawPayload
	err := c.policy.Do(ctx, func() error {
		var err error
		payload, err = c.search(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, payload, cache.TTLSearch); err == nil {
		observability.Cache().OnCacheSet(ctx, "search", len(payload))
	}
	return payload, nil
}

func (c *Client) search(ctx context.Context, q provider.Query) (provider.RawPayload, error) {
	params := url.Values{
		"originLocationCode":      {q.Origin},
		"destinationLocationCode": {q.Destination},
		"departureDate":           {q.DepartDate.Format(fare.DateLayout)},
		"returnDate":              {q.ReturnDate.Format(fare.DateLayout)},
		"adults":                  {"1"},
		"currencyCode":            {c.opts.Currency},
		"max":                     {strconv.Itoa(c.opts.MaxResults)},
	}
	if c.opts.Airline != "" {
		params.Set("includedAirlineCodes", c.opts.Airline)
	}
	if tc := travelClass(q.Cabin); tc != "" {
		params.Set("travelClass", tc)
	}
	if q.FlexDays > 0 {
		params.Set("flexDays", strconv.Itoa(q.FlexDays))
	}

	reqURL := c.opts.BaseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	host, path := req.URL.Host, req.URL.Path
	observability.HTTP().OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, host, path, err)
		return nil, provider.TransientError(err)
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, q); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, provider.TransientError(err)
	}
	if !json.Valid(data) {
		return nil, provider.MalformedError(fmt.Errorf("%d bytes of non-JSON", len(data)))
	}
	return provider.RawPayload(data), nil
}

// travelClass maps a cabin onto the provider's travelClass vocabulary.
// Unknown cabins send no restriction rather than an invalid value.
func travelClass(c fare.Cabin) string {
	switch c {
	case fare.PremiumEconomy:
		return "PREMIUM_ECONOMY"
	case fare.Business:
		return "BUSINESS"
	}
	return ""
}

func checkStatus(code int, q provider.Query) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return provider.AuthError(fmt.Errorf("status %d", code))
	case code == http.StatusNotFound:
		return provider.NotFoundError(q)
	case code == http.StatusTooManyRequests:
		return provider.RateLimitError()
	case code >= 500:
		return provider.TransientError(fmt.Errorf("status %d", code))
	default:
		return errors.New(errors.ErrCodeNetwork, "unexpected status %d", code)
	}
}

var _ provider.Searcher = (*Client)(nil)
