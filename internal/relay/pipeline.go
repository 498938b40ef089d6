// Package relay runs queries through match, rank and render, and relays the
// outcome of the most recent input back to the caller.
package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/dsjohal14/transitlaw/internal/scope/corpus"
	"github.com/dsjohal14/transitlaw/internal/scope/search"
	"github.com/dsjohal14/transitlaw/internal/scope/snippet"
	"github.com/dsjohal14/transitlaw/internal/scope/suggest"
	"github.com/rs/zerolog"
)

var (
	// ErrCorpusUnavailable means no corpus load has succeeded yet
	ErrCorpusUnavailable = errors.New("corpus unavailable")

	// ErrSearchFailure is matched by every unexpected fault during a search
	ErrSearchFailure = errors.New("search failed")
)

// SearchError wraps a fault raised while matching, ranking or rendering
type SearchError struct {
	Query string
	Cause error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %q: %v", e.Query, e.Cause)
}

// Unwrap exposes both the sentinel and the cause
func (e *SearchError) Unwrap() []error {
	return []error{ErrSearchFailure, e.Cause}
}

// State is the display state a search outcome calls for
type State string

const (
	StateInitial   State = "initial"
	StateResults   State = "results"
	StateNoResults State = "no_results"
)

// Result is one ranked match with its rendered snippet
type Result struct {
	Match   search.Match
	Snippet snippet.Snippet
}

// Outcome is the full answer to one query
type Outcome struct {
	Query   search.Query
	State   State
	Total   int // matches before any limit
	Results []Result
}

// Config wires a Pipeline
type Config struct {
	Session    *corpus.Session
	Source     corpus.Fetcher
	CorpusName string
	Engine     search.Engine
	Renderer   *snippet.Renderer
	Suggester  *suggest.Engine
	Logger     zerolog.Logger
}

// Pipeline is the search boundary: every fault inside it comes out as a
// *SearchError instead of escaping to the caller's loop.
type Pipeline struct {
	session    *corpus.Session
	source     corpus.Fetcher
	corpusName string
	engine     search.Engine
	renderer   *snippet.Renderer
	suggester  *suggest.Engine
	logger     zerolog.Logger
}

// NewPipeline creates a pipeline, filling unset parts with defaults
func NewPipeline(cfg Config) *Pipeline {
	p := &Pipeline{
		session:    cfg.Session,
		source:     cfg.Source,
		corpusName: cfg.CorpusName,
		engine:     cfg.Engine,
		renderer:   cfg.Renderer,
		suggester:  cfg.Suggester,
		logger:     cfg.Logger,
	}
	if p.session == nil {
		p.session = corpus.NewSession(cfg.Logger)
	}
	if p.engine == nil {
		p.engine = search.NewMatcher(0)
	}
	if p.renderer == nil {
		p.renderer = snippet.NewRenderer(snippet.DefaultWindow)
	}
	if p.suggester == nil {
		p.suggester = suggest.New(nil)
	}
	return p
}

// Session returns the corpus session the pipeline searches
func (p *Pipeline) Session() *corpus.Session {
	return p.session
}

// Reload fetches the configured corpus again and swaps it in on success
func (p *Pipeline) Reload(ctx context.Context) (*corpus.Report, error) {
	if p.source == nil {
		return nil, fmt.Errorf("%w: no corpus source configured", corpus.ErrLoadFailure)
	}
	return p.session.Load(ctx, p.source, p.corpusName)
}

// Suggest returns the phrase suggestions for partial input
func (p *Pipeline) Suggest(input string) []string {
	return p.suggester.Suggest(input)
}

// Run searches the active corpus for raw. Queries shorter than
// search.MinQueryLength return StateInitial without touching the corpus.
// limit <= 0 returns every match.
func (p *Pipeline) Run(ctx context.Context, raw string, limit int) (out Outcome, err error) {
	q := search.ParseQuery(raw)
	out = Outcome{Query: q, State: StateInitial, Results: []Result{}}
	if !q.Searchable() {
		return out, nil
	}

	if !p.session.Ready() {
		if loadErr := p.session.LastError(); loadErr != nil {
			return out, fmt.Errorf("%w: %w", ErrCorpusUnavailable, loadErr)
		}
		return out, ErrCorpusUnavailable
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Str("query", q.Normalized).Msg("search panicked")
			out = Outcome{Query: q, State: StateInitial, Results: []Result{}}
			err = &SearchError{Query: q.Normalized, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	matches, err := p.engine.Match(ctx, p.session.Current(), q)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, ctxErr
		}
		return out, &SearchError{Query: q.Normalized, Cause: err}
	}

	ranked := search.Rank(matches)
	out.Total = len(ranked)
	if out.Total == 0 {
		out.State = StateNoResults
		return out, nil
	}

	ranked = search.Limit(ranked, limit)
	h := snippet.NewHighlighter(q.Terms)
	out.Results = make([]Result, 0, len(ranked))
	for _, m := range ranked {
		out.Results = append(out.Results, Result{
			Match:   m,
			Snippet: p.renderer.RenderWith(m.Article, h),
		})
	}
	out.State = StateResults
	return out, nil
}
