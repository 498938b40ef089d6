// Package suggest filters a static list of query phrases against partial input.
package suggest

import (
	"strings"

	"github.com/samber/lo"
)

// DefaultPhrases are the reference suggestions, in display order
var DefaultPhrases = []string{
	"licencia de conducir",
	"límites de velocidad",
	"sanciones de tránsito",
	"documentación vehicular",
	"seguro obligatorio",
	"alcoholemia",
	"uso del cinturón",
	"transporte escolar",
}

// Engine holds the phrase list. It is independent of the corpus.
type Engine struct {
	phrases []string
	lower   []string
}

// New creates an engine over phrases; nil uses DefaultPhrases
func New(phrases []string) *Engine {
	if phrases == nil {
		phrases = DefaultPhrases
	}
	e := &Engine{
		phrases: append([]string(nil), phrases...),
	}
	e.lower = lo.Map(e.phrases, func(p string, _ int) string {
		return strings.ToLower(p)
	})
	return e
}

// Phrases returns a copy of the configured phrases
func (e *Engine) Phrases() []string {
	return append([]string(nil), e.phrases...)
}

// Suggest returns the phrases containing input, case-insensitively, in list
// order. Empty or blank input yields no suggestions.
func (e *Engine) Suggest(input string) []string {
	q := strings.ToLower(strings.TrimSpace(input))
	if q == "" {
		return []string{}
	}

	return lo.FilterMap(e.phrases, func(p string, i int) (string, bool) {
		return p, strings.Contains(e.lower[i], q)
	})
}
