package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dsjohal14/transitlaw/internal/relay"
	"github.com/dsjohal14/transitlaw/internal/scope/snippet"
	"github.com/samber/lo"
)

// MaxLimit caps the number of results a single request may ask for
const MaxLimit = 1000

// HandleSearch matches, ranks and renders articles for a query
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("failed to decode search request")
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_JSON")
		return
	}

	if req.Limit < 0 {
		writeError(w, http.StatusBadRequest, "limit must not be negative", "INVALID_LIMIT")
		return
	}
	if req.Limit > MaxLimit {
		req.Limit = MaxLimit
	}

	out, err := h.pipeline.Run(r.Context(), req.Query, req.Limit)
	if err != nil {
		h.writeSearchError(w, req.Query, err)
		return
	}

	resp := SearchResponse{
		Query: out.Query.Normalized,
		State: string(out.State),
		Count: len(out.Results),
		Total: out.Total,
		Results: lo.Map(out.Results, func(res relay.Result, _ int) SearchResult {
			return toSearchResult(res, req.Expanded)
		}),
	}
	if out.State == relay.StateResults {
		resp.Summary = fmt.Sprintf("Se encontraron %d resultados para \"%s\"", out.Total, out.Query.Normalized)
	}

	h.logger.Info().
		Str("query", resp.Query).
		Str("state", resp.State).
		Int("total", resp.Total).
		Int("count", resp.Count).
		Msg("search completed")

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeSearchError(w http.ResponseWriter, query string, err error) {
	switch {
	case errors.Is(err, relay.ErrCorpusUnavailable):
		h.logger.Warn().Err(err).Str("query", query).Msg("search rejected, corpus unavailable")
		writeError(w, http.StatusServiceUnavailable, "corpus not loaded", "CORPUS_UNAVAILABLE")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Debug().Err(err).Str("query", query).Msg("search abandoned")
		writeError(w, http.StatusServiceUnavailable, "search cancelled", "SEARCH_CANCELLED")
	default:
		h.logger.Error().Err(err).Str("query", query).Msg("search failed")
		writeError(w, http.StatusInternalServerError, "search failed", "SEARCH_FAILURE")
	}
}

func toSearchResult(res relay.Result, expanded bool) SearchResult {
	s := res.Snippet
	text, spans := s.Display(expanded)
	return SearchResult{
		ID:            res.Match.Article.ID,
		Numero:        s.Numero,
		Seccion:       s.Seccion,
		Tag:           s.Tag,
		Relevance:     res.Match.Relevance,
		Title:         s.Title,
		TitleHTML:     snippet.HTML(s.Title, s.TitleSpans),
		TitleSegments: snippet.Segments(s.Title, s.TitleSpans),
		Text:          text,
		TextHTML:      snippet.HTML(text, spans),
		TextSegments:  snippet.Segments(text, spans),
		Truncated:     s.Truncated && !expanded,
		Expanded:      expanded,
		Paragraphs:    s.ParagraphCount,
		Characters:    s.CharacterCount,
	}
}
