package fliptclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

const (
	defaultNamespace = "default"
	defaultUserAgent = "flags-flipt"
	defaultPageSize  = 100
	defaultTimeout   = 30 * time.Second
)

// Client is an HTTP client for the Flipt REST API scoped to one namespace.
type Client struct {
	baseURL    string
	namespace  string
	token      string
	userAgent  string
	pageSize   int
	httpClient *http.Client
}

// New creates a client for the Flipt instance at baseURL.
// Trailing slashes are stripped from baseURL. The URL must be absolute.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.Join(ErrInvalidURL, errors.New("base URL cannot be empty"))
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Join(ErrInvalidURL, fmt.Errorf("base URL must be absolute: %q", baseURL))
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = defaultTimeout

	c := &Client{
		baseURL:    baseURL,
		namespace:  defaultNamespace,
		userAgent:  defaultUserAgent,
		pageSize:   defaultPageSize,
		httpClient: httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// NamespaceKey returns the namespace the client is scoped to.
func (c *Client) NamespaceKey() string { return c.namespace }

// GetNamespace fetches the client's namespace. It fails when the namespace does
// not exist or the token cannot read it, which makes it a cheap readiness probe.
func (c *Client) GetNamespace(ctx context.Context) (*Namespace, error) {
	var ns Namespace
	if err := c.do(ctx, http.MethodGet, "/api/v1/namespaces/"+url.PathEscape(c.namespace), nil, &ns); err != nil {
		return nil, err
	}
	return &ns, nil
}

// EvaluateBoolean evaluates a boolean flag. NamespaceKey defaults to the client namespace.
func (c *Client) EvaluateBoolean(ctx context.Context, req EvaluationRequest) (*BooleanEvaluationResponse, error) {
	var resp BooleanEvaluationResponse
	if err := c.do(ctx, http.MethodPost, "/evaluate/v1/boolean", c.withNamespace(req), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EvaluateVariant evaluates a variant flag. NamespaceKey defaults to the client namespace.
func (c *Client) EvaluateVariant(ctx context.Context, req EvaluationRequest) (*VariantEvaluationResponse, error) {
	var resp VariantEvaluationResponse
	if err := c.do(ctx, http.MethodPost, "/evaluate/v1/variant", c.withNamespace(req), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListFlags returns every flag in the namespace, following pagination tokens.
func (c *Client) ListFlags(ctx context.Context) ([]Flag, error) {
	var (
		flags []Flag
		token string
	)
	for {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(c.pageSize))
		if token != "" {
			q.Set("pageToken", token)
		}

		var page FlagList
		path := "/api/v1/namespaces/" + url.PathEscape(c.namespace) + "/flags?" + q.Encode()
		if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}
		flags = append(flags, page.Flags...)

		if page.NextPageToken == "" || page.NextPageToken == token {
			break
		}
		token = page.NextPageToken
	}
	if flags == nil {
		flags = []Flag{}
	}
	return flags, nil
}

func (c *Client) withNamespace(req EvaluationRequest) EvaluationRequest {
	if req.NamespaceKey == "" {
		req.NamespaceKey = c.namespace
	}
	if req.Context == nil {
		req.Context = map[string]string{}
	}
	return req
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(bodyBytes)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrDecodeResponse, err)
	}
	return nil
}

// errorMessage extracts Flipt's {"message": "..."} payload, falling back to the raw body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}
