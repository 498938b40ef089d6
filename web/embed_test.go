package web

import (
	"io/fs"
	"strings"
	"testing"
)

func TestStaticBundle(t *testing.T) {
	static := Static()

	for _, name := range []string{"index.html", "app.js", "sw.js", "styles.css", "manifest.json", "ley_18290_articulos.ndjson"} {
		if _, err := fs.Stat(static, name); err != nil {
			t.Errorf("missing bundled asset %s: %v", name, err)
		}
	}
}

func TestServiceWorkerCachesShell(t *testing.T) {
	data, err := fs.ReadFile(Static(), "sw.js")
	if err != nil {
		t.Fatalf("failed to read sw.js: %v", err)
	}
	sw := string(data)
	for _, want := range []string{"buscador-ley-transito-v1", "ley_18290_articulos.ndjson", "index.html"} {
		if !strings.Contains(sw, want) {
			t.Errorf("sw.js does not mention %s", want)
		}
	}
}
