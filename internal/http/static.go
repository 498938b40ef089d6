package httpapi

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

const notFoundBody = "<h1>404 - Archivo no encontrado</h1>"

var contentTypes = map[string]string{
	".html":   "text/html; charset=utf-8",
	".js":     "application/javascript; charset=utf-8",
	".css":    "text/css; charset=utf-8",
	".json":   "application/json; charset=utf-8",
	".ndjson": "application/x-ndjson; charset=utf-8",
	".png":    "image/png",
	".jpg":    "image/jpeg",
	".gif":    "image/gif",
	".svg":    "image/svg+xml",
	".ico":    "image/x-icon",
}

// contentType maps a file name to its Content-Type, defaulting to plain text
func contentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "text/plain; charset=utf-8"
}

// HandleStatic serves the bundled web assets. "/" maps to index.html.
func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	if h.static == nil {
		h.notFound(w)
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}
	if !fs.ValidPath(name) {
		h.notFound(w)
		return
	}

	info, err := fs.Stat(h.static, name)
	if err == nil && info.IsDir() {
		name = path.Join(name, "index.html")
		info, err = fs.Stat(h.static, name)
	}
	if errors.Is(err, fs.ErrNotExist) {
		h.notFound(w)
		return
	}

	var data []byte
	if err == nil {
		data, err = fs.ReadFile(h.static, name)
	}
	if err != nil {
		h.logger.Error().Err(err).Str("path", name).Msg("failed to read static file")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Error del servidor"))
		return
	}

	w.Header().Set("Content-Type", contentType(info.Name()))
	if name == "sw.js" {
		w.Header().Set("Cache-Control", "no-cache")
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}

func (h *Handler) notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(notFoundBody))
}
