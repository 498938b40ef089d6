package offline

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type site struct {
	srv  *httptest.Server
	hits atomic.Int32

	mu     sync.Mutex
	corpus string
	status int
}

func newSite(t *testing.T) *site {
	s := &site{corpus: `{"id":1,"texto":"uno"}`, status: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.mu.Lock()
		corpus, status := s.corpus, s.status
		s.mu.Unlock()

		switch r.URL.Path {
		case "/corpus.ndjson":
			w.WriteHeader(status)
			_, _ = io.WriteString(w, corpus)
		case "/post":
			_, _ = io.WriteString(w, r.Method)
		default:
			http.NotFound(w, r)
		}
	})
	s.srv = httptest.NewServer(mux)
	t.Cleanup(s.srv.Close)
	return s
}

func (s *site) set(corpus string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpus, s.status = corpus, status
}

func get(t *testing.T, c *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestTransportFetchesFreshCopies(t *testing.T) {
	s := newSite(t)
	tr, err := NewTransport(s.srv.URL, 8)
	if err != nil {
		t.Fatalf("NewTransport() failed: %v", err)
	}
	c := tr.Client(time.Second)

	resp, body := get(t, c, s.srv.URL+"/corpus.ndjson")
	if resp.Header.Get(HeaderCache) != "" {
		t.Error("response should come from the network")
	}
	if body != `{"id":1,"texto":"uno"}` {
		t.Errorf("unexpected body %q", body)
	}

	s.set(`{"id":1,"texto":"dos"}`, http.StatusOK)
	_, body = get(t, c, s.srv.URL+"/corpus.ndjson#frag")
	if body != `{"id":1,"texto":"dos"}` {
		t.Errorf("expected the updated body, got %q", body)
	}
	if got := s.hits.Load(); got != 2 {
		t.Errorf("expected 2 network hits, got %d", got)
	}
	if tr.cache.Len() != 1 {
		t.Errorf("expected 1 cached entry, got %d", tr.cache.Len())
	}
}

func TestTransportServesCachedCopyWhenOffline(t *testing.T) {
	s := newSite(t)
	tr, err := NewTransport(s.srv.URL, 8)
	if err != nil {
		t.Fatalf("NewTransport() failed: %v", err)
	}
	c := tr.Client(time.Second)

	get(t, c, s.srv.URL+"/corpus.ndjson")
	s.srv.Close()

	resp, body := get(t, c, s.srv.URL+"/corpus.ndjson")
	if resp.Header.Get(HeaderCache) != "hit" {
		t.Error("expected the cached copy")
	}
	if body != `{"id":1,"texto":"uno"}` {
		t.Errorf("unexpected cached body %q", body)
	}

	if _, err := c.Get(s.srv.URL + "/app.js"); err == nil {
		t.Error("an uncached document should fail offline")
	}
}

func TestTransportServesCachedCopyOnServerError(t *testing.T) {
	s := newSite(t)
	tr, err := NewTransport(s.srv.URL, 8)
	if err != nil {
		t.Fatalf("NewTransport() failed: %v", err)
	}
	c := tr.Client(time.Second)

	get(t, c, s.srv.URL+"/corpus.ndjson")
	s.set("upstream down", http.StatusBadGateway)

	resp, body := get(t, c, s.srv.URL+"/corpus.ndjson")
	if resp.StatusCode != http.StatusOK || body != `{"id":1,"texto":"uno"}` {
		t.Errorf("expected cached copy, got %d %q", resp.StatusCode, body)
	}
}

func TestTransportSkipsErrorsAndOtherMethods(t *testing.T) {
	s := newSite(t)
	tr, err := NewTransport(s.srv.URL, 8)
	if err != nil {
		t.Fatalf("NewTransport() failed: %v", err)
	}
	c := tr.Client(time.Second)

	resp, _ := get(t, c, s.srv.URL+"/missing")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	for i := 0; i < 2; i++ {
		postResp, err := c.Post(s.srv.URL+"/post", "text/plain", strings.NewReader("x"))
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		_ = postResp.Body.Close()
	}

	if got := s.hits.Load(); got != 3 {
		t.Errorf("expected every request on the network, got %d hits", got)
	}
	if tr.cache.Len() != 0 {
		t.Errorf("nothing should be cached, got %d entries", tr.cache.Len())
	}
}

func TestTransportCrossOriginPassesThrough(t *testing.T) {
	own := newSite(t)
	other := newSite(t)

	tr, err := NewTransport(own.srv.URL, 8)
	if err != nil {
		t.Fatalf("NewTransport() failed: %v", err)
	}
	c := tr.Client(time.Second)

	get(t, c, other.srv.URL+"/corpus.ndjson")
	if tr.cache.Len() != 0 {
		t.Errorf("cross-origin responses must not be cached, got %d entries", tr.cache.Len())
	}
}

func TestNewTransportInvalidOrigin(t *testing.T) {
	for _, origin := range []string{"", "localhost", "://bad"} {
		if _, err := NewTransport(origin, 1); err == nil {
			t.Errorf("expected error for origin %q", origin)
		}
	}
}
