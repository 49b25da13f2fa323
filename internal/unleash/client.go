package unleash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aelys/aelys/internal/cache"
	"github.com/aelys/aelys/internal/models"
)

// ErrorKind is the closed taxonomy of analytics provider failures.
type ErrorKind string

const (
	KindBadRequest   ErrorKind = "bad_request"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindRateLimited  ErrorKind = "rate_limited"
	KindServerError  ErrorKind = "server_error"
	KindNetworkError ErrorKind = "network_error"
)

// APIError is a provider failure mapped into the closed taxonomy. The
// Message is user-presentable and never contains transport internals.
type APIError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is a pre-flight validation failure,
// which orchestrators surface to the user verbatim.
func IsValidationError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindBadRequest
}

// Client issues authenticated GET requests against the UnleashNFTs API.
// Configuration is fixed at construction; the client is safe to share
// across concurrent requests.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      cache.Cache
	logger     zerolog.Logger
}

// NewClient creates an analytics client. The cache is optional; pass nil to
// hit the provider on every call.
func NewClient(baseURL, apiKey string, c cache.Cache, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache:  c,
		logger: logger,
	}
}

// get performs one authenticated GET, with a read-through cache and a
// diagnostic log line per call. Status codes map onto the error taxonomy;
// any non-HTTP failure becomes a network error.
func (c *Client) get(ctx context.Context, path string, params url.Values, ttl time.Duration) (json.RawMessage, error) {
	cacheKey := fmt.Sprintf("unleash:%s?%s", path, params.Encode())

	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey); err == nil {
			c.logger.Debug().Str("endpoint", path).Msg("analytics cache hit")
			return cached, nil
		}
	}

	body, err := c.fetch(ctx, path, params)

	logEvent := c.logger.Info()
	if err != nil {
		logEvent = c.logger.Warn().Err(err)
	}
	logEvent.Str("endpoint", path).Str("params", params.Encode()).Bool("success", err == nil).Msg("analytics call")

	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if cacheErr := c.cache.Set(ctx, cacheKey, body, ttl); cacheErr != nil {
			c.logger.Warn().Err(cacheErr).Str("endpoint", path).Msg("failed to cache analytics response")
		}
	}

	return body, nil
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &APIError{Kind: KindNetworkError, Message: "Failed to build request for the analytics provider."}
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindNetworkError, Message: "Failed to fetch data from UnleashNFTs API"}
	}
	defer resp.Body.Close()

	if err := statusToError(resp.StatusCode); err != nil {
		io.Copy(io.Discard, resp.Body)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindNetworkError, Message: "Failed to read response from UnleashNFTs API"}
	}
	return body, nil
}

func statusToError(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusBadRequest:
		return &APIError{Kind: KindBadRequest, Message: "Bad Request: Please check the API request parameters."}
	case code == http.StatusUnauthorized:
		return &APIError{Kind: KindUnauthorized, Message: "Unauthorized: Check your API key"}
	case code == http.StatusForbidden:
		return &APIError{Kind: KindForbidden, Message: "Forbidden: Insufficient permissions"}
	case code == http.StatusNotFound:
		return &APIError{Kind: KindNotFound, Message: "Not found: Endpoint or resource not found"}
	case code == http.StatusTooManyRequests:
		return &APIError{Kind: KindRateLimited, Message: "Rate limited: Too many requests"}
	case code >= http.StatusInternalServerError:
		return &APIError{Kind: KindServerError, Message: "Server error: UnleashNFTs API is experiencing issues"}
	default:
		return &APIError{Kind: KindServerError, Message: fmt.Sprintf("API Error: unexpected status %d", code)}
	}
}

// validateChain rejects unsupported blockchains before any network call.
// The same check applies no matter which orchestrator is calling.
func validateChain(blockchain string, whitelist []string) error {
	if models.IsSupportedChain(strings.ToLower(blockchain), whitelist) {
		return nil
	}
	return &APIError{
		Kind:    KindBadRequest,
		Message: fmt.Sprintf("Please specify a valid blockchain from: %s.", strings.Join(whitelist, ", ")),
	}
}

// validateWalletMetricsChain covers the wallet metrics endpoint family,
// which supports fewer chains than the rest of the API.
func validateWalletMetricsChain(blockchain string) error {
	if models.IsSupportedChain(strings.ToLower(blockchain), models.WalletMetricsChains) {
		return nil
	}
	return &APIError{
		Kind: KindBadRequest,
		Message: fmt.Sprintf("Unsupported blockchain: %s. Supported blockchains are: %s",
			blockchain, strings.Join(models.WalletMetricsChains, ", ")),
	}
}
