// Package httpapi provides HTTP handlers and data transfer objects for the search API.
package httpapi

import "github.com/dsjohal14/transitlaw/internal/scope/snippet"

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string `json:"status"`
	ArticleCount int    `json:"article_count"`
	Ready        bool   `json:"ready"`
	LastError    string `json:"last_error,omitempty"`
}

// SearchRequest represents search request
type SearchRequest struct {
	Query    string `json:"query"`
	Limit    int    `json:"limit,omitempty"`    // 0 returns every match
	Expanded bool   `json:"expanded,omitempty"` // full body instead of preview
}

// SearchResult represents a single ranked article ready for display
type SearchResult struct {
	ID        int    `json:"id"`
	Numero    int    `json:"numero"`
	Seccion   string `json:"seccion"`
	Tag       string `json:"tag,omitempty"`
	Relevance int    `json:"relevance"`

	Title         string            `json:"title"`
	TitleHTML     string            `json:"title_html"`
	TitleSegments []snippet.Segment `json:"title_segments"`

	// Text is the preview, or the full body when the request asked for it
	Text         string            `json:"text"`
	TextHTML     string            `json:"text_html"`
	TextSegments []snippet.Segment `json:"text_segments"`
	Truncated    bool              `json:"truncated"`
	Expanded     bool              `json:"expanded"`

	Paragraphs int `json:"paragraphs"`
	Characters int `json:"characters"`
}

// SearchResponse represents search results
type SearchResponse struct {
	Query   string         `json:"query"`
	State   string         `json:"state"`
	Count   int            `json:"count"`
	Total   int            `json:"total"`
	Summary string         `json:"summary,omitempty"`
	Results []SearchResult `json:"results"`
}

// SuggestResponse lists suggestion phrases for partial input
type SuggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// ReloadResponse reports the outcome of a corpus reload
type ReloadResponse struct {
	Success  bool   `json:"success"`
	Articles int    `json:"articles"`
	Rejected int    `json:"rejected"`
	Message  string `json:"message,omitempty"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
