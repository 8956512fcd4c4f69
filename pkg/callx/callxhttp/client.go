package callxhttp

import (
	"maps"
	"strings"
	"time"

	"github.com/Abraxas-365/callx/pkg/asyncx"
	"github.com/Abraxas-365/callx/pkg/callx"
)

// DefaultTimeout bounds a single request when the client sets none.
const DefaultTimeout = 60 * time.Second

// Client builds calls that issue HTTP requests and decode JSON responses.
// A Client is immutable after NewClient and safe for concurrent use.
type Client struct {
	baseURL    string
	headers    map[string]string
	timeout    time.Duration
	conditions []callx.Condition
	scheduler  asyncx.Scheduler
	debug      bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the prefix for relative request paths.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithConditions sets the conditions applied to every call the client
// builds.
func WithConditions(conds ...callx.Condition) ClientOption {
	return func(c *Client) {
		c.conditions = conds
	}
}

// WithScheduler sets where the client's calls run when enqueued.
func WithScheduler(s asyncx.Scheduler) ClientOption {
	return func(c *Client) {
		c.scheduler = s
	}
}

// WithDebug logs every request and response at debug level, bodies
// included.
func WithDebug(enabled bool) ClientOption {
	return func(c *Client) {
		c.debug = enabled
	}
}

// NewClient creates a Client. Calls check NullResponse by default.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		headers:    map[string]string{"Accept": "application/json"},
		timeout:    DefaultTimeout,
		conditions: []callx.Condition{callx.NullResponse},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one HTTP request. Path is joined to the client's base
// URL unless it is absolute. A non-nil Body is sent as JSON.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
	Body    any
}

// Do builds an idle call that issues req. opts are applied after the
// client's defaults.
func Do[R any](c *Client, req Request, opts ...callx.Option) *callx.Call[R] {
	if req.Method == "" {
		req.Method = "GET"
	}
	base := []callx.Option{
		callx.WithName(req.Method + " " + req.Path),
		callx.WithConditions(c.conditions...),
	}
	if c.scheduler != nil {
		base = append(base, callx.WithScheduler(c.scheduler))
	}
	return callx.New[R](&executor[R]{
		client:  c,
		method:  strings.ToUpper(req.Method),
		url:     c.resolve(req.Path),
		headers: c.mergeHeaders(req.Headers),
		body:    req.Body,
	}, append(base, opts...)...)
}

// Get builds a GET call for path.
func Get[R any](c *Client, path string, opts ...callx.Option) *callx.Call[R] {
	return Do[R](c, Request{Method: "GET", Path: path}, opts...)
}

// Post builds a POST call sending body as JSON.
func Post[R any](c *Client, path string, body any, opts ...callx.Option) *callx.Call[R] {
	return Do[R](c, Request{Method: "POST", Path: path, Body: body}, opts...)
}

func (c *Client) resolve(path string) string {
	if strings.Contains(path, "://") || c.baseURL == "" {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) mergeHeaders(extra map[string]string) map[string]string {
	h := maps.Clone(c.headers)
	maps.Copy(h, extra)
	return h
}
