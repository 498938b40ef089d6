package httpapi

import "net/http"

// HandleHealth returns API health status and article count
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	session := h.pipeline.Session()
	resp := HealthResponse{
		Status:       "healthy",
		ArticleCount: session.Current().Len(),
		Ready:        session.Ready(),
	}
	if err := session.LastError(); err != nil {
		resp.LastError = err.Error()
	}
	if !resp.Ready {
		resp.Status = "degraded"
	}

	h.logger.Debug().Int("article_count", resp.ArticleCount).Bool("ready", resp.Ready).Msg("health check")

	writeJSON(w, http.StatusOK, resp)
}
