package corpus

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Fetcher retrieves raw corpus bytes by name
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// Session owns the active corpus. Readers get the current value without
// locking; a successful load swaps in a new corpus wholesale.
type Session struct {
	loadMu  sync.Mutex
	current atomic.Pointer[Corpus]
	lastErr atomic.Pointer[LoadError]
	ready   atomic.Bool
	logger  zerolog.Logger
}

// NewSession creates a session holding an empty corpus
func NewSession(logger zerolog.Logger) *Session {
	s := &Session{logger: logger}
	s.current.Store(Empty())
	return s
}

// Current returns the active corpus
func (s *Session) Current() *Corpus {
	return s.current.Load()
}

// Ready reports whether a load has ever succeeded
func (s *Session) Ready() bool {
	return s.ready.Load()
}

// LastError returns the most recent load failure, or nil after a success
func (s *Session) LastError() error {
	if e := s.lastErr.Load(); e != nil {
		return e
	}
	return nil
}

// Load fetches name from src, parses it and publishes the result.
// On failure the previously published corpus stays active.
func (s *Session) Load(ctx context.Context, src Fetcher, name string) (*Report, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	data, err := src.Fetch(ctx, name)
	if err != nil {
		return nil, s.fail(src, name, err)
	}

	c, report, err := Parse(bytes.NewReader(data))
	if err != nil {
		return report, s.fail(src, name, err)
	}

	for _, lineErr := range report.Errors {
		s.logger.Warn().
			Int("line", lineErr.Line).
			Str("content", lineErr.Content).
			Err(lineErr.Err).
			Msg("skipping malformed corpus line")
	}

	s.Publish(c)
	s.lastErr.Store(nil)

	s.logger.Info().
		Str("source", src.Name()).
		Str("name", name).
		Int("articles", report.Accepted).
		Int("rejected", report.Rejected()).
		Msg("corpus loaded")

	return report, nil
}

// Publish makes c the active corpus
func (s *Session) Publish(c *Corpus) {
	if c == nil {
		c = Empty()
	}
	s.current.Store(c)
	s.ready.Store(true)
}

func (s *Session) fail(src Fetcher, name string, err error) error {
	loadErr := &LoadError{Source: src.Name(), Name: name, Err: err}
	s.lastErr.Store(loadErr)
	s.logger.Error().Err(err).Str("source", src.Name()).Str("name", name).Msg("corpus load failed")
	return loadErr
}
