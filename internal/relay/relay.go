package relay

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dsjohal14/transitlaw/internal/libs/jobs"
)

// Update is what the relay publishes for one fired input
type Update struct {
	Seq     uint64
	Input   string
	Outcome Outcome
	Err     error
}

// Relay debounces raw keystroke input, runs the pipeline off the caller's
// goroutine and publishes only results that are not older than one already
// shown. A newer input cancels the computation of an older one.
type Relay struct {
	pipeline  *Pipeline
	debouncer *jobs.Debouncer
	publish   func(Update)
	limit     int

	base   context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	cancel context.CancelFunc
	shown  uint64
	closed bool
}

// New creates a relay firing after wait of input quiescence. publish is
// called with the relay's lock held so updates arrive strictly in order;
// it should return quickly.
func New(p *Pipeline, wait time.Duration, limit int, publish func(Update)) *Relay {
	base, stop := context.WithCancel(context.Background())
	r := &Relay{
		pipeline: p,
		publish:  publish,
		limit:    limit,
		base:     base,
		stop:     stop,
	}
	r.debouncer = jobs.NewDebouncer(wait, r.fire)
	return r
}

// Submit records the latest raw input. Suggestions are computed right away
// for every keystroke; the search itself waits for the debounce window.
func (r *Relay) Submit(input string) []string {
	r.debouncer.Submit(input)
	return r.pipeline.Suggest(input)
}

// Flush starts the pending search immediately instead of waiting
func (r *Relay) Flush() bool {
	return r.debouncer.Flush()
}

// Wait blocks until every started search has finished
func (r *Relay) Wait() {
	r.wg.Wait()
}

// Close drops pending input, cancels running searches and waits for them
func (r *Relay) Close() {
	r.debouncer.Stop()
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.stop()
	r.wg.Wait()
}

func (r *Relay) fire(job jobs.Job) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(r.base)
	r.cancel = cancel
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer cancel()

		out, err := r.pipeline.Run(ctx, job.Input, r.limit)
		if errors.Is(err, context.Canceled) {
			return
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if job.ID < r.shown {
			return
		}
		r.shown = job.ID
		r.publish(Update{
			Seq:     job.ID,
			Input:   job.Input,
			Outcome: out,
			Err:     err,
		})
	}()
}
