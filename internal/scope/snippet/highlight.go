package snippet

import (
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// MinHighlightLength is the rune length a term must exceed to be highlighted
const MinHighlightLength = 2

// Span is a highlighted byte range [Start, End) of a text
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Highlighter finds case-insensitive literal occurrences of query terms
type Highlighter struct {
	patterns []*regexp.Regexp
}

// NewHighlighter compiles one literal pattern per distinct term longer than
// MinHighlightLength runes.
func NewHighlighter(terms []string) *Highlighter {
	h := &Highlighter{}
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		term = strings.ToLower(term)
		if utf8.RuneCountInString(term) <= MinHighlightLength || seen[term] {
			continue
		}
		seen[term] = true
		h.patterns = append(h.patterns, regexp.MustCompile("(?i)"+regexp.QuoteMeta(term)))
	}
	return h
}

// Spans returns the merged highlight spans of text, sorted by position.
// Overlapping or touching occurrences of different terms collapse into one
// span so the rendered markup never nests.
func (h *Highlighter) Spans(text string) []Span {
	if h == nil || len(h.patterns) == 0 || text == "" {
		return nil
	}

	var spans []Span
	for _, p := range h.patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			spans = append(spans, Span{Start: loc[0], End: loc[1]})
		}
	}
	return Merge(spans)
}

// Merge sorts spans and joins any that overlap or touch
func Merge(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := []Span{sorted[0]}
	for _, s := range sorted[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// Segment is a run of text that is either highlighted or plain
type Segment struct {
	Text      string `json:"text"`
	Highlight bool   `json:"highlight,omitempty"`
}

// Segments splits text into alternating plain and highlighted runs.
// Spans must be merged and lie within text.
func Segments(text string, spans []Span) []Segment {
	if text == "" {
		return nil
	}

	segments := make([]Segment, 0, 2*len(spans)+1)
	pos := 0
	for _, s := range spans {
		if s.Start > pos {
			segments = append(segments, Segment{Text: text[pos:s.Start]})
		}
		segments = append(segments, Segment{Text: text[s.Start:s.End], Highlight: true})
		pos = s.End
	}
	if pos < len(text) {
		segments = append(segments, Segment{Text: text[pos:]})
	}
	return segments
}

// Mark renders text with open/close markers around each span.
// escape, when non-nil, is applied to every piece of text but not the markers.
func Mark(text string, spans []Span, open, close string, escape func(string) string) string {
	if escape == nil {
		escape = func(s string) string { return s }
	}

	var b strings.Builder
	for _, seg := range Segments(text, spans) {
		if seg.Highlight {
			b.WriteString(open)
			b.WriteString(escape(seg.Text))
			b.WriteString(close)
			continue
		}
		b.WriteString(escape(seg.Text))
	}
	return b.String()
}

// HTML renders text as escaped HTML with <mark> around highlights
func HTML(text string, spans []Span) string {
	return Mark(text, spans, "<mark>", "</mark>", html.EscapeString)
}
