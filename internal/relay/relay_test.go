package relay

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dsjohal14/transitlaw/internal/libs/jobs"
	"github.com/dsjohal14/transitlaw/internal/scope/corpus"
	"github.com/dsjohal14/transitlaw/internal/scope/search"
)

type collector struct {
	mu      sync.Mutex
	updates []Update
}

func (c *collector) publish(u Update) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, u)
}

func (c *collector) snapshot() []Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Update(nil), c.updates...)
}

func TestRelayDebouncesKeystrokes(t *testing.T) {
	p := newTestPipeline(t, nil)
	col := &collector{}
	r := New(p, 20*time.Millisecond, 0, col.publish)
	defer r.Close()

	for _, input := range []string{"a", "al", "alc", "alco", "alcohol"} {
		r.Submit(input)
	}

	deadline := time.Now().Add(time.Second)
	for len(col.snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	r.Wait()

	updates := col.snapshot()
	if len(updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(updates))
	}
	if updates[0].Input != "alcohol" {
		t.Errorf("expected the latest input, got %q", updates[0].Input)
	}
	if updates[0].Err != nil {
		t.Fatalf("unexpected error: %v", updates[0].Err)
	}
	if updates[0].Outcome.State != StateResults {
		t.Errorf("expected results, got %s", updates[0].Outcome.State)
	}
}

func TestRelaySubmitReturnsSuggestions(t *testing.T) {
	p := newTestPipeline(t, nil)
	r := New(p, time.Hour, 0, func(Update) {})
	defer r.Close()

	got := r.Submit("obli")
	if len(got) != 1 || got[0] != "seguro obligatorio" {
		t.Errorf("unexpected suggestions %v", got)
	}
	if got := r.Submit(""); len(got) != 0 {
		t.Errorf("expected no suggestions for empty input, got %v", got)
	}
}

// gatedEngine blocks the first query until released or cancelled
type gatedEngine struct {
	inner   search.Engine
	started chan string
	release chan struct{}
}

func (g *gatedEngine) Match(ctx context.Context, c *corpus.Corpus, q search.Query) ([]search.Match, error) {
	g.started <- q.Normalized
	if q.Normalized == "licencia" {
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.inner.Match(ctx, c, q)
}

func TestRelayNewerInputSupersedesRunningSearch(t *testing.T) {
	engine := &gatedEngine{
		inner:   search.NewMatcher(0),
		started: make(chan string, 4),
		release: make(chan struct{}),
	}
	p := newTestPipeline(t, engine)
	col := &collector{}
	r := New(p, time.Hour, 0, col.publish)
	defer r.Close()

	r.Submit("licencia")
	r.Flush()
	if got := <-engine.started; got != "licencia" {
		t.Fatalf("expected licencia to start, got %q", got)
	}

	r.Submit("alcohol")
	r.Flush()
	if got := <-engine.started; got != "alcohol" {
		t.Fatalf("expected alcohol to start, got %q", got)
	}

	r.Wait()
	close(engine.release)

	updates := col.snapshot()
	if len(updates) != 1 {
		t.Fatalf("expected only the newest search to publish, got %d updates", len(updates))
	}
	if updates[0].Input != "alcohol" {
		t.Errorf("expected alcohol to win, got %q", updates[0].Input)
	}
}

func TestRelayShortInputResetsState(t *testing.T) {
	p := newTestPipeline(t, nil)
	col := &collector{}
	r := New(p, time.Hour, 0, col.publish)
	defer r.Close()

	r.Submit("li")
	r.Flush()
	r.Wait()

	updates := col.snapshot()
	if len(updates) != 1 || updates[0].Outcome.State != StateInitial {
		t.Errorf("expected a single initial-state update, got %+v", updates)
	}
}

func TestRelayCloseDropsPending(t *testing.T) {
	p := newTestPipeline(t, nil)
	col := &collector{}
	r := New(p, 10*time.Millisecond, 0, col.publish)

	r.Submit("licencia")
	r.Close()
	time.Sleep(30 * time.Millisecond)

	if got := col.snapshot(); len(got) != 0 {
		t.Errorf("expected no updates after Close(), got %d", len(got))
	}
}

func TestRelayFlushAfterCloseStartsNothing(t *testing.T) {
	p := newTestPipeline(t, nil)
	col := &collector{}
	r := New(p, time.Hour, 0, col.publish)

	r.Submit("licencia")
	r.Close()

	// A timer callback that raced past the debouncer ends up here
	r.fire(jobs.Job{ID: 99, Input: "licencia"})
	r.Wait()

	if got := col.snapshot(); len(got) != 0 {
		t.Errorf("expected no updates after Close(), got %d", len(got))
	}
}
