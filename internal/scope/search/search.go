// Package search provides literal full-text matching and ranking over a corpus.
package search

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/dsjohal14/transitlaw/internal/libs/accel"
	"github.com/dsjohal14/transitlaw/internal/scope/corpus"
	"golang.org/x/sync/errgroup"
)

// MinQueryLength is the shortest normalized query callers should submit.
// Shorter input means "back to the initial state" and never reaches Match.
const MinQueryLength = 3

// Query is a trimmed, lowercased query split into whitespace terms.
// Repeated terms are kept and counted again during scoring.
type Query struct {
	Raw        string
	Normalized string
	Terms      []string
}

// ParseQuery normalizes raw input into a Query
func ParseQuery(raw string) Query {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	return Query{
		Raw:        raw,
		Normalized: normalized,
		Terms:      strings.Fields(normalized),
	}
}

// Searchable reports whether the query is long enough to run
func (q Query) Searchable() bool {
	return utf8.RuneCountInString(q.Normalized) >= MinQueryLength && len(q.Terms) > 0
}

// Match pairs an article with its relevance for one query
type Match struct {
	Article   corpus.Article
	Index     int // corpus position, used to break ties
	Relevance int
}

// Engine finds matching articles for a query
type Engine interface {
	Match(ctx context.Context, c *corpus.Corpus, q Query) ([]Match, error)
}

// Matcher is the literal AND matcher. Large corpora are split into
// batches that are scanned concurrently.
type Matcher struct {
	batch *accel.Batch
}

var _ Engine = (*Matcher)(nil)

// NewMatcher creates a matcher scanning batchSize articles per goroutine
func NewMatcher(batchSize int) *Matcher {
	return &Matcher{batch: accel.NewBatch(batchSize)}
}

// Match returns every article containing all query terms, in corpus order.
// An article missing any single term is excluded.
func (m *Matcher) Match(ctx context.Context, c *corpus.Corpus, q Query) ([]Match, error) {
	if len(q.Terms) == 0 || c.Len() == 0 {
		return []Match{}, nil
	}

	ranges := m.batch.Split(c.Len())
	parts := make([][]Match, len(ranges))

	g, ctx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		i, r := i, r
		g.Go(func() error {
			for idx := r.Start; idx < r.End; idx++ {
				if idx%64 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if relevance, ok := score(c, idx, q.Terms); ok {
					parts[i] = append(parts[i], Match{
						Article:   c.At(idx),
						Index:     idx,
						Relevance: relevance,
					})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]Match, 0)
	for _, p := range parts {
		matches = append(matches, p...)
	}
	return matches, nil
}

// score returns the relevance of article idx, or false when a term is missing
func score(c *corpus.Corpus, idx int, terms []string) (int, bool) {
	if !c.At(idx).Searchable() {
		return 0, false
	}

	text := c.Lower(idx)
	for _, term := range terms {
		if !strings.Contains(text, term) {
			return 0, false
		}
	}

	relevance := 0
	for _, term := range terms {
		relevance += Occurrences(text, term)
	}
	return relevance, true
}

// Occurrences counts non-overlapping occurrences of term in lowerText.
// Both arguments must already be lowercase; the term is matched literally,
// so characters such as '.', '*' or '(' carry no special meaning.
func Occurrences(lowerText, term string) int {
	if term == "" {
		return 0
	}
	return strings.Count(lowerText, term)
}
