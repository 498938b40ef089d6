package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dsjohal14/transitlaw/internal/relay"
	"github.com/dsjohal14/transitlaw/internal/scope/corpus"
	"github.com/dsjohal14/transitlaw/internal/scope/search"
	"github.com/dsjohal14/transitlaw/internal/scope/snippet"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	metaStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// printer serializes terminal output between the input loop and the relay
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) update(u relay.Update, full bool) {
	if u.Err != nil {
		p.mu.Lock()
		defer p.mu.Unlock()
		fmt.Fprintln(p.w, errorStyle.Render("error: "+u.Err.Error()))
		return
	}
	p.outcome(u.Outcome, full)
}

func (p *printer) outcome(out relay.Outcome, full bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch out.State {
	case relay.StateInitial:
		fmt.Fprintf(p.w, "Escribe al menos %d caracteres para buscar.\n", search.MinQueryLength)
		return
	case relay.StateNoResults:
		fmt.Fprintf(p.w, "No se encontraron artículos para \"%s\".\n", out.Query.Normalized)
		return
	}

	fmt.Fprintf(p.w, "Se encontraron %d resultados para \"%s\"\n", out.Total, out.Query.Normalized)
	for _, res := range out.Results {
		s := res.Snippet
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, titleStyle.Render(styled(s.Title, s.TitleSpans)))
		fmt.Fprintln(p.w, metaStyle.Render(fmt.Sprintf("%s · %d párrafos · %d caracteres · relevancia %d",
			s.Seccion, s.ParagraphCount, s.CharacterCount, res.Match.Relevance)))
		text, spans := s.Display(full)
		fmt.Fprintln(p.w, styled(text, spans))
	}
}

// list prints one phrase per line
func (p *printer) list(phrases []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, phrase := range phrases {
		fmt.Fprintln(p.w, phrase)
	}
}

// article prints a full article without highlights
func (p *printer) article(s snippet.Snippet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, titleStyle.Render(s.Title))
	fmt.Fprintln(p.w, metaStyle.Render(fmt.Sprintf("%s · %d párrafos · %d caracteres",
		s.Seccion, s.ParagraphCount, s.CharacterCount)))
	fmt.Fprintln(p.w, s.Body)
}

func (p *printer) prompt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.w, metaStyle.Render("> "))
}

func (p *printer) suggestions(list []string) {
	if len(list) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, metaStyle.Render("Sugerencias: "+strings.Join(list, ", ")))
}

func (p *printer) report(source, name string, r *corpus.Report) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "%s (%s): %d lines, %d blank, %d accepted, %d rejected\n",
		name, source, r.Lines, r.Blank, r.Accepted, r.Rejected())
	for _, le := range r.Errors {
		fmt.Fprintln(p.w, errorStyle.Render(le.Error()))
	}
}

// styled renders highlighted segments with highlightStyle
func styled(text string, spans []snippet.Span) string {
	var b strings.Builder
	for _, seg := range snippet.Segments(text, spans) {
		if seg.Highlight {
			b.WriteString(highlightStyle.Render(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
