package httpapi

import "net/http"

// HandleSuggest returns the suggestion phrases containing the q parameter
func (h *Handler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, SuggestResponse{
		Query:       q,
		Suggestions: h.pipeline.Suggest(q),
	})
}
