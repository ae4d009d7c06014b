package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/adapters/metrics"
	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/domain/shared"
)

const (
	DefaultBaseURL     = "https://railspaapi.shohoz.com/v1.0/app"
	defaultTimeout     = 30 * time.Second
	defaultRatePerSec  = 1000
	defaultBurst       = 20
	maxErrorBodyLength = 512
)

// ClientConfig tunes the ticketing API client
type ClientConfig struct {
	BaseURL            string
	Timeout            time.Duration
	RequestsPerSecond  float64
	Burst              int
	InsecureSkipVerify bool
	Metrics            *metrics.APIMetricsCollector
	Clock              shared.Clock
}

// RailClient implements ports.BookingAPI over HTTP.
// It performs exactly one request per call; retry policy belongs to the caller.
type RailClient struct {
	httpClient *http.Client
	// layoutClient serves seat-layout requests; it skips certificate checks when configured
	layoutClient *http.Client
	rateLimiter  *rate.Limiter
	baseURL      string
	metrics      *metrics.APIMetricsCollector
	clock        shared.Clock
}

// NewRailClient creates a ticketing API client with default settings
func NewRailClient() *RailClient {
	return NewRailClientWithConfig(ClientConfig{})
}

// NewRailClientWithConfig creates a client; zero fields fall back to defaults.
// A negative RequestsPerSecond disables client-side rate limiting.
func NewRailClientWithConfig(cfg ClientConfig) *RailClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = defaultRatePerSec
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.Clock == nil {
		cfg.Clock = shared.NewRealClock()
	}

	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond < 0 {
		limit = rate.Inf
	}

	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: newTransport(nil),
	}
	layoutClient := httpClient
	if cfg.InsecureSkipVerify {
		layoutClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newTransport(&tls.Config{InsecureSkipVerify: true}), //nolint:gosec // opt-in via api.insecure_skip_verify
		}
	}

	return &RailClient{
		httpClient:   httpClient,
		layoutClient: layoutClient,
		rateLimiter:  rate.NewLimiter(limit, cfg.Burst),
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		metrics:      cfg.Metrics,
		clock:        cfg.Clock,
	}
}

func newTransport(tlsConfig *tls.Config) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 20
	if tlsConfig != nil {
		transport.TLSClientConfig = tlsConfig
	}
	return transport
}

// clientFor picks the HTTP client for an endpoint; only seat-layout may skip certificate checks
func (c *RailClient) clientFor(endpoint string) *http.Client {
	if endpoint == seatLayoutPath {
		return c.layoutClient
	}
	return c.httpClient
}

// requestBody is either a JSON value or a url-encoded form
type requestBody struct {
	json any
	form url.Values
}

func jsonBody(v any) requestBody        { return requestBody{json: v} }
func formBody(v url.Values) requestBody { return requestBody{form: v} }

// rawResponse is a completed HTTP exchange
type rawResponse struct {
	StatusCode int
	Body       []byte
}

// request performs one rate-limited call. A non-nil error means no response was received.
func (c *RailClient) request(ctx context.Context, method, endpoint, token string, query url.Values, body requestBody) (*rawResponse, error) {
	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	label := path.Base(endpoint)

	// Wait for rate limiter
	waitStart := c.clock.Now()
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}
	if c.metrics != nil {
		c.metrics.RecordRateLimitWait(method, label, c.clock.Now().Sub(waitStart).Seconds())
	}

	// Prepare request body
	var reqBody io.Reader
	contentType := ""
	switch {
	case body.form != nil:
		reqBody = strings.NewReader(body.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case body.json != nil:
		jsonData, err := json.Marshal(body.json)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := c.clock.Now()
	resp, err := c.clientFor(endpoint).Do(req)
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordNetworkError(method, label)
		}
		return nil, &NetworkError{Endpoint: label, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Endpoint: label, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if c.metrics != nil {
		c.metrics.RecordAPIRequest(method, label, resp.StatusCode, c.clock.Now().Sub(start).Seconds())
	}

	return &rawResponse{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// snippet returns a bounded, single-line excerpt of a response body for messages
func snippet(body []byte) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > maxErrorBodyLength {
		return s[:maxErrorBodyLength] + "..."
	}
	return s
}
