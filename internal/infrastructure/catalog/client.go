// Package catalog relays breed and image queries to The Cat API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/michi-labs/catapi/internal/core/domain"
	"github.com/michi-labs/catapi/internal/core/ports"
	"github.com/michi-labs/catapi/internal/pkg/metrics"
	"github.com/michi-labs/catapi/internal/pkg/reqctx"
)

const (
	DefaultBaseURL = "https://api.thecatapi.com/v1"

	APIKeyHeader    = "x-api-key"
	RequestIDHeader = "X-Request-ID"
)

// Config holds the upstream endpoint and credential.
type Config struct {
	BaseURL string
	APIKey  string
	// Timeout bounds each upstream call. Zero means no timeout.
	Timeout time.Duration
}

// Client is a stateless passthrough to the upstream catalog. Bodies are
// returned verbatim; nothing is cached or retried.
type Client struct {
	httpClient *http.Client
	cfg        Config
	log        zerolog.Logger
}

var _ ports.BreedCatalog = (*Client)(nil)

// NewClient builds a Client. If httpClient is nil, one honouring cfg.Timeout is created.
func NewClient(cfg Config, httpClient *http.Client, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{httpClient: httpClient, cfg: cfg, log: log}
}

func (c *Client) GetBreeds(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "list_breeds", c.cfg.BaseURL+"/breeds", staticMessage("error fetching cat breeds"))
}

func (c *Client) GetBreedByID(ctx context.Context, breedID string) (json.RawMessage, error) {
	target := c.cfg.BaseURL + "/breeds/" + url.PathEscape(breedID)
	return c.get(ctx, "get_breed", target, staticMessage(fmt.Sprintf("error fetching breed with id %s", breedID)))
}

// SearchBreeds appends query verbatim after "?", so callers pass e.g. "q=sib".
func (c *Client) SearchBreeds(ctx context.Context, query string) (json.RawMessage, error) {
	target := c.cfg.BaseURL + "/breeds/search?" + query
	return c.get(ctx, "search_breeds", target, staticMessage(fmt.Sprintf("error searching breeds with query %s", query)))
}

func (c *Client) GetImagesByBreedID(ctx context.Context, breedID string) (json.RawMessage, error) {
	target := c.cfg.BaseURL + "/images/search?" + url.Values{"breed_ids": {breedID}}.Encode()
	return c.get(ctx, "images_by_breed", target, func(status int) string {
		return "error fetching images: " + http.StatusText(status)
	})
}

// failureMessage describes a failed call; status is 0 when no response arrived.
type failureMessage func(status int) string

func staticMessage(msg string) failureMessage {
	return func(int) string { return msg }
}

func (c *Client) get(ctx context.Context, operation, target string, describe failureMessage) (json.RawMessage, error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(operation, "transport_error").Inc()
		return nil, domain.NewUpstreamError(describe(0), fmt.Errorf("new request: %w", err))
	}
	req.Header.Set(APIKeyHeader, c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if id := reqctx.RequestID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(operation, "transport_error").Inc()
		c.log.Error().Err(err).Str("operation", operation).Msg("upstream request failed")
		return nil, domain.NewUpstreamError(describe(0), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequestsTotal.WithLabelValues(operation, "http_error").Inc()
		_, _ = io.Copy(io.Discard, resp.Body)
		c.log.Warn().
			Str("operation", operation).
			Int("status", resp.StatusCode).
			Msg("upstream returned non-success status")
		return nil, domain.NewUpstreamError(describe(resp.StatusCode), fmt.Errorf("upstream status %d", resp.StatusCode))
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(operation, "decode_error").Inc()
		c.log.Warn().Err(err).Str("operation", operation).Msg("upstream returned invalid JSON")
		return nil, domain.NewUpstreamError(describe(resp.StatusCode), fmt.Errorf("decode body: %w", err))
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(operation, "ok").Inc()
	return body, nil
}
