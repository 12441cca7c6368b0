// Package lastfm provides a client for the Last.fm API 2.0.
//
// This package implements the read side of the Last.fm API: it builds
// GET requests, decodes the JSON responses, classifies API errors and
// parses the payloads into typed models. It is designed to be used
// as a standalone SDK.
//
// Example usage:
//
//	import "github.com/jfmyers9/lastfm-go/pkg/lastfm"
//
//	client, err := lastfm.NewClient(lastfm.Config{
//	    APIKey: "your-api-key",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	user, err := client.User().GetInfo(ctx, "rj")
package lastfm

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Version is the library version reported in the default User-Agent.
const Version = "0.1.0"

// Config holds client configuration.
type Config struct {
	APIKey        string              // Required: Last.fm API key
	APISecret     string              // Optional: Last.fm API secret (stored, not used by read calls)
	HTTPClient    *http.Client        // Optional: HTTP client to use as-is
	NewHTTPClient func() *http.Client // Optional: factory called once, on first request, when HTTPClient is nil
	Timeout       time.Duration       // Optional: timeout for the default HTTP client (defaults to 30s)
	BaseURL       string              // Optional: Base URL for API (defaults to Last.fm API, used for testing)
	UserAgent     string              // Optional: User-Agent header (defaults to DefaultUserAgent)
	Logger        *zerolog.Logger     // Optional: logger for request diagnostics (defaults to no-op)
	RateLimit     rate.Limit          // Optional: max requests per second, 0 disables limiting
	RateBurst     int                 // Optional: limiter burst size (defaults to 1)
}

// Client is the main entry point for Last.fm API operations.
//
// A Client is safe for concurrent use. The underlying HTTP client is
// created on the first request and shared by every call after it.
type Client struct {
	apiKey    string
	apiSecret string
	baseURL   string
	userAgent string
	logger    zerolog.Logger
	limiter   *rate.Limiter

	httpOnce    sync.Once
	httpClient  *http.Client
	httpFactory func() *http.Client
	ownsHTTP    bool // httpClient came from httpFactory, not Config.HTTPClient
	closed      atomic.Bool

	user *UserService
}

const (
	// DefaultBaseURL is the default Last.fm API endpoint.
	DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

	// DefaultUserAgent is sent when Config.UserAgent is empty.
	DefaultUserAgent = "lastfm-go/" + Version + " (+https://github.com/jfmyers9/lastfm-go)"

	defaultTimeout = 30 * time.Second
)

// NewClient creates a new Last.fm API client.
//
// Returns an error if required configuration (APIKey) is missing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: APIKey is required", ErrInvalidConfig)
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("%w: RateLimit must not be negative", ErrInvalidConfig)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "lastfm").Logger()
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		baseURL:    baseURL,
		userAgent:  userAgent,
		logger:     logger,
		httpClient: cfg.HTTPClient,
	}

	c.httpFactory = cfg.NewHTTPClient
	if c.httpFactory == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.httpFactory = func() *http.Client {
			return &http.Client{
				Timeout:   timeout,
				Transport: http.DefaultTransport.(*http.Transport).Clone(),
			}
		}
	}

	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}

	c.user = &UserService{client: c}

	return c, nil
}

// User returns the user service.
func (c *Client) User() *UserService {
	return c.user
}

// APIKey returns the configured API key.
func (c *Client) APIKey() string {
	return c.apiKey
}

// Close releases idle connections held by an HTTP client the Client
// created itself. A Config.HTTPClient supplied by the caller is left
// alone, since it may be shared. Requests sent after Close fail with
// ErrClientClosed. Close is safe to call more than once.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	// Consume the once so a concurrent first request cannot create a
	// client after Close has returned.
	c.httpOnce.Do(func() {})
	if c.ownsHTTP && c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
	c.logger.Debug().Msg("lastfm: client closed")
	return nil
}

// httpDoer returns the shared HTTP client, creating it on first use.
func (c *Client) httpDoer() *http.Client {
	c.httpOnce.Do(func() {
		if c.httpClient == nil {
			c.httpClient = c.httpFactory()
			c.ownsHTTP = true
		}
	})
	return c.httpClient
}
