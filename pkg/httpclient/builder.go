package httpclient

import (
	"fmt"
	"net/http"

	"github.com/harshj20/taskflow/pkg/config"
	"github.com/harshj20/taskflow/pkg/security"
)

// Client wraps an HTTP client with its configuration
type Client struct {
	*http.Client
	config *ClientConfig
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// Builder creates configured HTTP clients
type Builder struct {
	engineConfig config.Config // Main engine config for security settings
}

// NewBuilder creates a new HTTP client builder
func NewBuilder(engineConfig config.Config) *Builder {
	return &Builder{
		engineConfig: engineConfig,
	}
}

// Build creates an HTTP client from the given configuration
func (b *Builder) Build(config *ClientConfig) (*Client, error) {
	// Apply defaults
	config.ApplyDefaults()

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	// Create transport with connection pooling
	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		MaxConnsPerHost:     config.MaxConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSHandshakeTimeout: config.TLSHandshakeTimeout,
		DisableKeepAlives:   config.DisableKeepAlives,
	}

	// Create base HTTP client
	httpClient := &http.Client{
		Timeout:   config.Timeout,
		Transport: &authTransport{
			base:   transport,
			config: config,
		},
	}

	// Configure redirect behavior
	if !config.FollowRedirects {
		httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else {
		httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("too many redirects (max %d)", config.MaxRedirects)
			}
			// Validate redirect URL for SSRF protection
			if err := b.validateURL(req.URL.String()); err != nil {
				return fmt.Errorf("redirect URL validation failed: %w", err)
			}
			return nil
		}
	}

	return &Client{
		Client: httpClient,
		config: config,
	}, nil
}

// ValidateURL checks url against the builder's SSRF policy. Build's
// redirect handling calls this on every hop; callers that construct their
// own *http.Request (e.g. tools/httpfetch) should also call it on the
// initial URL before issuing the request.
func (b *Builder) ValidateURL(url string) error {
	return b.validateURL(url)
}

// validateURL validates URLs to prevent SSRF attacks
func (b *Builder) validateURL(url string) error {
	// Build SSRF protection config from workflow engine config. The engine
	// config is zero-trust (Allow* flags default false); the security
	// package takes the inverse Block* shape.
	allowedSchemes := []string{"https"}
	if b.engineConfig.AllowHTTP {
		allowedSchemes = append(allowedSchemes, "http")
	}
	ssrfConfig := security.SSRFConfig{
		AllowedSchemes:     allowedSchemes,
		BlockPrivateIPs:    !b.engineConfig.AllowPrivateIPs,
		BlockLocalhost:     !b.engineConfig.AllowLocalhost,
		BlockLinkLocal:     !b.engineConfig.AllowLinkLocal,
		BlockCloudMetadata: !b.engineConfig.AllowCloudMetadata,
		AllowedDomains:     b.engineConfig.AllowedDomains,
		BlockedDomains:     []string{},
	}

	protection := security.NewSSRFProtectionWithConfig(ssrfConfig)
	return protection.ValidateURL(url)
}

// authTransport is an http.RoundTripper that adds authentication headers
type authTransport struct {
	base   http.RoundTripper
	config *ClientConfig
}

// RoundTrip implements http.RoundTripper interface
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	clonedReq := req.Clone(req.Context())

	// Add authentication headers
	switch t.config.AuthType {
	case AuthTypeBasic:
		clonedReq.SetBasicAuth(t.config.Username, t.config.Password)
	case AuthTypeBearer:
		clonedReq.Header.Set("Authorization", "Bearer "+t.config.Token)
	}

	// Add default headers
	for key, value := range t.config.DefaultHeaders {
		// Don't override headers that are already set
		if clonedReq.Header.Get(key) == "" {
			clonedReq.Header.Set(key, value)
		}
	}

	// Add default query parameters
	if len(t.config.DefaultQueryParams) > 0 {
		q := clonedReq.URL.Query()
		for key, value := range t.config.DefaultQueryParams {
			// Don't override query params that are already set
			if !q.Has(key) {
				q.Set(key, value)
			}
		}
		clonedReq.URL.RawQuery = q.Encode()
	}

	// Execute the request
	return t.base.RoundTrip(clonedReq)
}
