package fliptclient

import "net/http"

// Option configures a Client.
type Option func(*Client)

// WithNamespace sets the namespace used for evaluation and listing.
// Empty values are ignored and the "default" namespace is kept.
func WithNamespace(ns string) Option {
	return func(c *Client) {
		if ns != "" {
			c.namespace = ns
		}
	}
}

// WithClientToken sets the static client token sent as a Bearer credential.
func WithClientToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default pooled HTTP client. Nil is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithPageSize sets the page size used when listing flags.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}
