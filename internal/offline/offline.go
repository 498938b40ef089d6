// Package offline implements an HTTP transport that keeps the last good
// copy of every fetched document so corpus loads survive a network outage.
package offline

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// DefaultEntries is the cache size used when none is configured
const DefaultEntries = 64

// HeaderCache is set on responses served from the cache
const HeaderCache = "X-Offline-Cache"

type entry struct {
	status   int
	header   http.Header
	body     []byte
	storedAt time.Time
}

func (e *entry) response(req *http.Request) *http.Response {
	header := e.header.Clone()
	header.Set(HeaderCache, "hit")
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.status, http.StatusText(e.status)),
		StatusCode:    e.status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.body)),
		ContentLength: int64(len(e.body)),
		Request:       req,
	}
}

// Transport sends same-origin GET requests to the network first and stores
// every 200 response in an LRU cache. When the network fails, or answers
// with a server error, the stored copy is served instead. Other requests
// pass straight through.
type Transport struct {
	base   http.RoundTripper
	origin *url.URL
	cache  *lru.Cache[string, *entry]
	logger zerolog.Logger
}

// Option configures a Transport
type Option func(*Transport)

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Transport) { t.logger = logger }
}

// NewTransport creates a transport caching at most entries responses for
// requests to origin (scheme://host[:port]).
func NewTransport(origin string, entries int, opts ...Option) (*Transport, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid origin %q: scheme and host are required", origin)
	}
	if entries <= 0 {
		entries = DefaultEntries
	}

	cache, err := lru.New[string, *entry](entries)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	t := &Transport{
		base:   http.DefaultTransport,
		origin: &url.URL{Scheme: u.Scheme, Host: u.Host},
		cache:  cache,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet || !t.sameOrigin(req.URL) {
		return t.base.RoundTrip(req)
	}

	key := cacheKey(req.URL)
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		if cached, ok := t.stale(req, key, err); ok {
			return cached, nil
		}
		return nil, err
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		if cached, ok := t.stale(req, key, fmt.Errorf("status %d", resp.StatusCode)); ok {
			_ = resp.Body.Close()
			return cached, nil
		}
		return resp, nil
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	t.cache.Add(key, &entry{
		status:   resp.StatusCode,
		header:   resp.Header.Clone(),
		body:     body,
		storedAt: time.Now(),
	})

	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	return resp, nil
}

// Client returns an http.Client using this transport
func (t *Transport) Client(timeout time.Duration) *http.Client {
	return &http.Client{Transport: t, Timeout: timeout}
}

// stale returns the stored copy of key after the network failed with cause
func (t *Transport) stale(req *http.Request, key string, cause error) (*http.Response, bool) {
	e, ok := t.cache.Get(key)
	if !ok {
		return nil, false
	}
	t.logger.Warn().
		Err(cause).
		Str("url", key).
		Dur("age", time.Since(e.storedAt)).
		Msg("network unavailable, serving cached copy")
	return e.response(req), true
}

func (t *Transport) sameOrigin(u *url.URL) bool {
	return strings.EqualFold(u.Scheme, t.origin.Scheme) && strings.EqualFold(u.Host, t.origin.Host)
}

func cacheKey(u *url.URL) string {
	k := *u
	k.Fragment = ""
	k.RawFragment = ""
	if k.Path == "" {
		k.Path = "/"
	}
	return k.String()
}
