// Package jobs coalesces bursts of input into single background jobs.
package jobs

import (
	"sync"
	"time"
)

// Job is one coalesced unit of work handed to the debounced callback
type Job struct {
	ID        uint64
	Input     string
	CreatedAt time.Time
}

// Debouncer resets a timer on every submission and runs the callback with
// the most recent input once the quiescence window elapses. Inputs that are
// superseded before the window closes are dropped.
type Debouncer struct {
	wait time.Duration
	fn   func(Job)

	mu      sync.Mutex
	timer   *time.Timer
	pending *Job
	seq     uint64
	stopped bool
}

// NewDebouncer creates a debouncer firing fn after wait of quiescence
func NewDebouncer(wait time.Duration, fn func(Job)) *Debouncer {
	return &Debouncer{
		wait: wait,
		fn:   fn,
	}
}

// Submit records input as the latest pending job and restarts the window.
// It returns the job that will fire if nothing newer arrives.
func (d *Debouncer) Submit(input string) Job {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	job := Job{
		ID:        d.seq,
		Input:     input,
		CreatedAt: time.Now(),
	}
	if d.stopped {
		return job
	}

	d.pending = &job
	if d.timer != nil {
		d.timer.Stop()
	}
	id := job.ID
	d.timer = time.AfterFunc(d.wait, func() { d.fire(id) })
	return job
}

// fire runs the pending job if it is still the one the timer was armed for.
// A timer that lost the race with Stop sees a different ID and does nothing.
func (d *Debouncer) fire(id uint64) {
	d.mu.Lock()
	job := d.pending
	if job == nil || job.ID != id || d.stopped {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	d.fn(*job)
}

// Flush fires the pending job immediately, if any
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	job := d.pending
	if job == nil || d.stopped {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.mu.Unlock()

	d.fn(*job)
	return true
}

// waiting reports whether a job is waiting for the window to close
func (d *Debouncer) waiting() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop discards the pending job; later submissions never fire
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
