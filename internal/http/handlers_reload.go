package httpapi

import "net/http"

// HandleReload fetches the corpus again. On failure the previously loaded
// corpus stays active.
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	report, err := h.pipeline.Reload(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("corpus reload failed")
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{
			Error:   "corpus reload failed",
			Code:    "LOAD_FAILURE",
			Details: err.Error(),
		})
		return
	}

	resp := ReloadResponse{
		Success:  true,
		Articles: report.Accepted,
		Rejected: report.Rejected(),
	}
	if resp.Rejected > 0 {
		resp.Message = "some lines were malformed and skipped"
	}

	h.logger.Info().Int("articles", resp.Articles).Int("rejected", resp.Rejected).Msg("corpus reloaded")

	writeJSON(w, http.StatusOK, resp)
}
