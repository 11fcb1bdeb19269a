package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"autohub.ng/autohub-web/internal/metrics"
)

const (
	defaultTimeout   = 10 * time.Second
	maxErrorBodySize = 1 << 12
)

// HTTPClient matches the subset of http.Client used by Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client issues JSON requests against the marketplace API.
type Client struct {
	base *url.URL
	http HTTPClient
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying transport. The supplied client is used as-is, so
// callers must disable redirect following themselves (see NoRedirects).
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the overall per-request timeout of the default transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if hc, ok := c.http.(*http.Client); ok && d > 0 {
			hc.Timeout = d
		}
	}
}

// NoRedirects is a CheckRedirect hook that hands the 3xx response back to the caller.
func NoRedirects(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

// NewClient constructs a client rooted at baseURL (e.g. https://api.autohub.ng/api/v1).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("api: base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api: base URL %q must be absolute", baseURL)
	}
	c := &Client{
		base: parsed,
		http: &http.Client{
			Timeout:       defaultTimeout,
			CheckRedirect: NoRedirects,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return strings.TrimRight(c.base.String(), "/") }

// Request describes one API call.
type Request struct {
	// Endpoint labels the call in metrics; defaults to Path.
	Endpoint string
	Method   string
	Path     string
	Query    url.Values
	Header   http.Header
	Body     any
}

// Meta carries response metadata callers occasionally need (ETag, status).
type Meta struct {
	Status int
	Header http.Header
}

// Do performs req and decodes a 2xx JSON body into out (when out is non-nil).
func (c *Client) Do(ctx context.Context, req Request, out any) (Meta, error) {
	endpoint := req.Endpoint
	if endpoint == "" {
		endpoint = req.Path
	}
	start := time.Now()
	meta, err := c.do(ctx, req, out)
	metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	metrics.APIRequests.WithLabelValues(endpoint, outcome(err)).Inc()
	return meta, err
}

func (c *Client) do(ctx context.Context, req Request, out any) (Meta, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target := c.resolve(req.Path, req.Query)

	var body io.Reader
	if req.Body != nil {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(req.Body); err != nil {
			return Meta{}, fmt.Errorf("api: encode payload: %w", err)
		}
		body = &buf
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return Meta{}, fmt.Errorf("api: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for k, vals := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Meta{}, &TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	meta := Meta{Status: resp.StatusCode, Header: resp.Header}
	switch {
	case resp.StatusCode == http.StatusNotModified:
		return meta, ErrNotModified
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		return meta, ErrUnexpectedRedirect
	case redirected(httpReq, resp):
		return meta, ErrUnexpectedRedirect
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return meta, statusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return meta, nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return meta, &TransportError{Method: method, URL: target, Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return meta, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return meta, fmt.Errorf("api: decode %s %s: %w", method, req.Path, err)
	}
	return meta, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	ref := &url.URL{Path: strings.TrimPrefix(path, "/")}
	u := c.base.ResolveReference(ref)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// redirected reports whether a custom transport followed a redirect on our behalf.
func redirected(req *http.Request, resp *http.Response) bool {
	if resp.Request == nil || resp.Request.URL == nil || req.URL == nil {
		return false
	}
	return resp.Request.URL.String() != req.URL.String()
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	msg := strings.TrimSpace(string(raw))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if len(raw) > 0 && json.Unmarshal(raw, &payload) == nil {
		if m := strings.TrimSpace(payload.Message); m != "" {
			msg = m
		} else if e := strings.TrimSpace(payload.Error); e != "" {
			msg = e
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &StatusError{Status: resp.StatusCode, Message: msg}
}

func outcome(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotModified):
		return "not_modified"
	case errors.Is(err, ErrUnexpectedRedirect):
		return "redirect"
	case errors.As(err, &se):
		return fmt.Sprintf("%dxx", se.Status/100)
	default:
		return "transport"
	}
}
