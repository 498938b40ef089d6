// Package snippet turns matched articles into display-ready title and
// preview text with highlight spans.
package snippet

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dsjohal14/transitlaw/internal/scope/corpus"
)

const (
	// DefaultWindow is the preview length in characters
	DefaultWindow = 300

	// DefaultLabel prefixes the synthesized title of untitled articles
	DefaultLabel = "Artículo"

	ellipsis = "..."
)

// Snippet is the render-ready form of one article
type Snippet struct {
	Numero  int
	Seccion string
	Tag     string // first word of Seccion

	Title string
	Body  string

	// Preview is Body cut to the window, with an ellipsis when Truncated
	Preview   string
	Truncated bool

	TitleSpans   []Span
	PreviewSpans []Span
	BodySpans    []Span

	ParagraphCount int
	CharacterCount int
}

// Display returns the text to show and its spans; expanded selects the full
// body instead of the preview.
func (s Snippet) Display(expanded bool) (string, []Span) {
	if expanded {
		return s.Body, s.BodySpans
	}
	return s.Preview, s.PreviewSpans
}

// Renderer builds snippets
type Renderer struct {
	Window int
	Label  string
}

// NewRenderer creates a renderer with the given preview window.
// A non-positive window uses DefaultWindow.
func NewRenderer(window int) *Renderer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Renderer{Window: window, Label: DefaultLabel}
}

// Render builds the snippet of a, highlighting the given query terms
func (r *Renderer) Render(a corpus.Article, terms []string) Snippet {
	return r.RenderWith(a, NewHighlighter(terms))
}

// RenderWith is Render with a precompiled highlighter, for rendering many
// articles against the same query.
func (r *Renderer) RenderWith(a corpus.Article, h *Highlighter) Snippet {
	title, body := r.split(a)
	preview, truncated := truncate(body, r.window())

	s := Snippet{
		Numero:         a.Label(),
		Seccion:        a.Seccion,
		Tag:            firstWord(a.Seccion),
		Title:          title,
		Body:           body,
		Preview:        preview,
		Truncated:      truncated,
		TitleSpans:     h.Spans(title),
		BodySpans:      h.Spans(body),
		ParagraphCount: countParagraphs(body),
		CharacterCount: utf8.RuneCountInString(body),
	}
	// Spans never reach into the ellipsis
	s.PreviewSpans = h.Spans(strings.TrimSuffix(preview, ellipsis))
	if !truncated {
		s.PreviewSpans = s.BodySpans
	}
	return s
}

func (r *Renderer) window() int {
	if r.Window <= 0 {
		return DefaultWindow
	}
	return r.Window
}

// split separates the first line (the title) from the body.
// Untitled articles get a synthesized "<Label> <numero>" title.
func (r *Renderer) split(a corpus.Article) (string, string) {
	if idx := strings.IndexByte(a.Texto, '\n'); idx >= 0 {
		title := strings.TrimSpace(a.Texto[:idx])
		body := strings.TrimSpace(a.Texto[idx+1:])
		if title != "" {
			return title, body
		}
		return r.label(a), body
	}
	return r.label(a), a.Texto
}

func (r *Renderer) label(a corpus.Article) string {
	label := r.Label
	if label == "" {
		label = DefaultLabel
	}
	return fmt.Sprintf("%s %d", label, a.Label())
}

// truncate cuts body to window runes, appending an ellipsis when it did
func truncate(body string, window int) (string, bool) {
	if utf8.RuneCountInString(body) <= window {
		return body, false
	}

	n := 0
	for i := range body {
		if n == window {
			return body[:i] + ellipsis, true
		}
		n++
	}
	return body, false
}

func countParagraphs(body string) int {
	count := 0
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

func firstWord(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
