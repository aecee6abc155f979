// Package httpfetch provides a tool that issues a single outbound HTTP
// request and returns its status, headers, and body. It is the one tool in
// this module that talks to the outside world, so it builds its client
// through pkg/httpclient, whose Builder wires in pkg/security's SSRF
// protection on every request and redirect hop.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/harshj20/taskflow/pkg/config"
	"github.com/harshj20/taskflow/pkg/httpclient"
	"github.com/harshj20/taskflow/pkg/types"
)

// Tool implements registry.Tool. Every invocation builds a fresh
// httpclient.Client scoped to cfg's network-access policy; Execute never
// mutates shared state so one Tool value is safe across concurrent nodes.
type Tool struct {
	builder *httpclient.Builder
}

// New constructs the httpfetch tool against cfg's zero-trust network policy:
// its AllowHTTP/AllowPrivateIPs/AllowLocalhost/... fields gate what
// ValidateURL permits.
func New(cfg *config.Config) *Tool {
	return &Tool{builder: httpclient.NewBuilder(*cfg)}
}

// Contract describes httpfetch's input/output shape.
func (t *Tool) Contract() types.ToolContract {
	c := types.ToolContract{
		Name:        "http_fetch",
		Description: "Issues a single HTTP request to a URL and returns its status, headers, and body.",
		Category:    types.CategoryUtility,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"url":    map[string]interface{}{"type": "string", "format": "uri"},
				"method": map[string]interface{}{"type": "string", "enum": []interface{}{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD"}},
				"headers": map[string]interface{}{
					"type":                 "object",
					"additionalProperties": map[string]interface{}{"type": "string"},
				},
				"body": map[string]interface{}{"type": "string"},
			},
			"required": []interface{}{"url"},
		},
		OutputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"status_code": map[string]interface{}{"type": "integer"},
				"headers": map[string]interface{}{
					"type":                 "object",
					"additionalProperties": map[string]interface{}{"type": "string"},
				},
				"body": map[string]interface{}{"type": "string"},
			},
			"required": []interface{}{"status_code", "body"},
		},
		OutputMappings: map[string]string{
			"status_code": "status_code",
			"body":        "body",
		},
	}
	c.Normalize()
	return c
}

// Execute issues the configured HTTP request and returns its response.
func (t *Tool) Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
	rawURL, _ := inputs["url"].(string)
	if rawURL == "" {
		return nil, fmt.Errorf("http_fetch: url is required")
	}

	if err := t.builder.ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("http_fetch: %w", err)
	}

	method, _ := inputs["method"].(string)
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if raw, ok := inputs["body"].(string); ok && raw != "" {
		body = strings.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("http_fetch: build request: %w", err)
	}

	if headers, ok := inputs["headers"].(map[string]interface{}); ok {
		for k, v := range headers {
			if s, ok := v.(string); ok {
				req.Header.Set(k, s)
			}
		}
	}

	client, err := t.builder.Build(&httpclient.ClientConfig{Name: "http_fetch", FollowRedirects: true})
	if err != nil {
		return nil, fmt.Errorf("http_fetch: build client: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http_fetch: request failed: %w", err)
	}
	defer resp.Body.Close()

	maxSize := client.GetConfig().MaxResponseSize
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxSize))
	if err != nil {
		return nil, fmt.Errorf("http_fetch: read response: %w", err)
	}

	headers := make(map[string]interface{}, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	return map[string]interface{}{
		"status_code": resp.StatusCode,
		"headers":     headers,
		"body":        string(respBody),
	}, nil
}
