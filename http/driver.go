// Package http provides a contentobj.Driver for documents served over
// HTTP(S). A Driver caches the first successful response for its lifetime.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/contentobj"
	"golang.org/x/net/html/charset"
)

// DefaultTimeout is the default timeout for HTTP requests.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "contentobj/1.0 (+https://github.com/fwojciec/contentobj)"

// DefaultMaxRedirects caps how many redirects a request follows.
const DefaultMaxRedirects = 5

// Ensure Driver implements contentobj.Driver at compile time.
var _ contentobj.Driver = (*Driver)(nil)

// Driver retrieves one URL.
type Driver struct {
	url          string
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	maxRedirects int
	limiter      *HostLimiter
	retryDelays  []time.Duration

	content []byte
	meta    map[string]any
}

// Option configures a Driver.
type Option func(*Driver)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(drv *Driver) {
		drv.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(drv *Driver) {
		drv.userAgent = ua
	}
}

// WithMaxRedirects sets how many redirects are followed.
func WithMaxRedirects(n int) Option {
	return func(drv *Driver) {
		drv.maxRedirects = n
	}
}

// WithClient uses c instead of a client built from the other options.
// The driver's redirect policy is applied to a copy of c.
func WithClient(c *http.Client) Option {
	return func(drv *Driver) {
		drv.client = c
	}
}

// WithLimiter makes every request wait for l's allowance for the URL's host.
// Drivers sharing l share the per-host budget.
func WithLimiter(l *HostLimiter) Option {
	return func(drv *Driver) {
		drv.limiter = l
	}
}

// WithRetryDelays retries a failed fetch once per delay, waiting the delay
// first. Only transport failures, 429 and 5xx responses are retried.
func WithRetryDelays(delays ...time.Duration) Option {
	return func(drv *Driver) {
		drv.retryDelays = delays
	}
}

// NewDriver creates a Driver for rawURL.
func NewDriver(rawURL string, opts ...Option) *Driver {
	d := &Driver{
		url:          rawURL,
		timeout:      DefaultTimeout,
		userAgent:    DefaultUserAgent,
		maxRedirects: DefaultMaxRedirects,
	}
	for _, opt := range opts {
		opt(d)
	}

	var client http.Client
	if d.client != nil {
		client = *d.client
	} else {
		client.Timeout = d.timeout
	}
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) > d.maxRedirects {
			return fmt.Errorf("stopped after %d redirects", d.maxRedirects)
		}
		return nil
	}
	d.client = &client

	return d
}

// CanHandle reports whether source is an absolute http or https URL.
func CanHandle(source any) bool {
	s, ok := source.(string)
	if !ok {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// CanHandle reports whether source is an absolute http or https URL.
func (d *Driver) CanHandle(source any) bool { return CanHandle(source) }

// URL returns the URL the driver reads.
func (d *Driver) URL() string { return d.url }

// Content fetches the body. The first successful fetch is cached together
// with a metadata snapshot. Transport failures and statuses of 400 or more
// fail with EUNAVAILABLE.
func (d *Driver) Content(ctx context.Context) ([]byte, error) {
	if d.content != nil {
		return d.content, nil
	}

	var lastErr error
	for attempt := 0; attempt <= len(d.retryDelays); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, contentobj.Errorf(contentobj.EUNAVAILABLE, "fetching %s: %s", d.url, ctx.Err())
			case <-time.After(d.retryDelays[attempt-1]):
			}
		}

		body, retryable, err := d.fetch(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, lastErr
}

// fetch performs one GET and reports whether a failure is worth retrying.
func (d *Driver) fetch(ctx context.Context) (body []byte, retryable bool, err error) {
	resp, err := d.do(ctx, http.MethodGet)
	if err != nil {
		return nil, contentobj.ErrorCode(err) == contentobj.EUNAVAILABLE, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		retryable = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
		return nil, retryable, contentobj.Errorf(contentobj.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, d.url)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, contentobj.Errorf(contentobj.EUNAVAILABLE, "reading %s: %s", d.url, err)
	}

	d.content = body
	d.meta = snapshot(d.url, resp, int64(len(body)))
	return body, false, nil
}

// Text fetches the body and decodes it using the declared charset, a
// byte-order mark or an HTML meta declaration, in that order.
func (d *Driver) Text(ctx context.Context) (string, error) {
	body, err := d.Content(ctx)
	if err != nil {
		return "", err
	}
	contentType, _ := d.meta["content_type"].(string)
	enc, _, _ := charset.DetermineEncoding(body, contentType)
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		decoded = body
	}
	decoded = bytes.TrimPrefix(decoded, []byte("\xEF\xBB\xBF"))
	return strings.ToValidUTF8(string(decoded), "\uFFFD"), nil
}

// Metadata returns the cached snapshot of a prior fetch, or probes the URL
// with a HEAD request. Probe results are not cached.
func (d *Driver) Metadata(ctx context.Context) (map[string]any, error) {
	if d.meta != nil {
		return d.meta, nil
	}

	resp, err := d.do(ctx, http.MethodHead)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return snapshot(d.url, resp, resp.ContentLength), nil
}

// Available reports whether a metadata query succeeds with a status
// below 400.
func (d *Driver) Available(ctx context.Context) bool {
	meta, err := d.Metadata(ctx)
	if err != nil {
		return false
	}
	status, _ := meta["status_code"].(int)
	return status > 0 && status < http.StatusBadRequest
}

// ClearCache drops the cached body and metadata.
func (d *Driver) ClearCache() {
	d.content = nil
	d.meta = nil
}

func (d *Driver) do(ctx context.Context, method string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, d.url, nil)
	if err != nil {
		return nil, contentobj.Errorf(contentobj.EINVALID, "invalid URL %q: %s", d.url, err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx, req.URL.Host); err != nil {
			return nil, contentobj.Errorf(contentobj.EUNAVAILABLE, "waiting to fetch %s: %s", d.url, err)
		}
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, contentobj.Errorf(contentobj.EUNAVAILABLE, "fetching %s: %s", d.url, err)
	}
	return resp, nil
}

func snapshot(rawURL string, resp *http.Response, length int64) map[string]any {
	headers := make(map[string]string, len(resp.Header))
	for k, v := range resp.Header {
		headers[k] = strings.Join(v, ", ")
	}
	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return map[string]any{
		"status_code":    resp.StatusCode,
		"content_type":   resp.Header.Get("Content-Type"),
		"content_length": length,
		"url":            rawURL,
		"final_url":      finalURL,
		"headers":        headers,
	}
}
