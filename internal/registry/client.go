// Package registry looks up package versions from an npm-compatible registry.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// DefaultURL is the public npm registry.
const DefaultURL = "https://registry.npmjs.org"

// DefaultTimeout bounds a lookup when the caller does not set one.
const DefaultTimeout = 10 * time.Second

// ErrNotFound is returned when the registry does not know the package.
var ErrNotFound = errors.New("package not found in registry")

// Client queries the "latest" dist-tag of a package.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
}

// New returns a Client for baseURL. A zero timeout selects DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: timeout,
		http: &fasthttp.Client{
			Name:                "feishin-optimize",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: timeout,
		},
	}
}

type versionDoc struct {
	Version string `json:"version"`
}

// LatestVersion returns the version the registry tags as latest for name.
// The request is bounded by the client timeout and by ctx's deadline,
// whichever comes first.
func (c *Client) LatestVersion(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return "", context.DeadlineExceeded
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.latestURL(name))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return "", fmt.Errorf("lookup %s: %w", name, err)
	}
	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusNotFound:
		return "", fmt.Errorf("lookup %s: %w", name, ErrNotFound)
	case status != fasthttp.StatusOK:
		return "", fmt.Errorf("lookup %s: unexpected status %d", name, status)
	}

	var doc versionDoc
	if err := json.Unmarshal(resp.Body(), &doc); err != nil {
		return "", fmt.Errorf("lookup %s: decode response: %w", name, err)
	}
	if doc.Version == "" {
		return "", fmt.Errorf("lookup %s: response has no version", name)
	}
	return doc.Version, nil
}

// latestURL builds the dist-tag URL. Scoped names keep their slash, which the
// npm registry accepts as "/@scope/name/latest".
func (c *Client) latestURL(name string) string {
	return c.baseURL + "/" + strings.TrimPrefix(name, "/") + "/latest"
}
