// Package visitsapi is the HTTP client for the remote visits source
package visitsapi

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "visitsdash/internal/platform/errors"
	"visitsdash/internal/platform/logger"

	"github.com/google/uuid"
)

const (
	baseURLDefault = "http://localhost:8000"
	defaultTimeout = 10 * time.Second
	defaultUA      = "visitsdash"
	maxBody        = 4 << 20
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// HTTPClient overrides the transport, mostly for tests
	HTTPClient *http.Client
}

// Client talks to the visits source. It never retries
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	newID func() string
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	o.BaseURL = strings.TrimRight(strings.TrimSpace(o.BaseURL), "/")
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	return &Client{
		http:  hc,
		opts:  o,
		log:   *logger.Named("visitsapi"),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// BaseURL returns the normalized upstream origin
func (c *Client) BaseURL() string { return c.opts.BaseURL }

// Do issues a GET for path with q as the query string. reqID is sent as
// X-Request-ID; empty means one is taken from ctx or generated
func (c *Client) Do(ctx context.Context, path string, q url.Values, reqID string) (*http.Response, error) {
	u := c.opts.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	if reqID == "" {
		reqID = logger.RequestID(ctx)
	}
	if reqID == "" {
		reqID = c.newID()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "visits api new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	start := c.now()
	resp, err := c.http.Do(req)
	lat := c.now().Sub(start)

	if err != nil {
		if ctx.Err() != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeTimeout, "visits api %s cancelled", path)
		}
		if timedOut(err) {
			return nil, perr.Wrapf(err, perr.ErrorCodeTimeout, "visits api %s timed out after %s", path, c.opts.Timeout)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "visits api %s unreachable", path)
	}

	c.log.Debug().
		Str("path", path).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Msg("visits api response")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	// read a small tail for diagnostics then return
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	_ = resp.Body.Close()
	return nil, &StatusError{
		Status: resp.StatusCode,
		Body:   string(body),
		Err:    perr.Newf(perr.ErrorCodeUpstream, "visits api %s unexpected status %d", path, resp.StatusCode),
	}
}
