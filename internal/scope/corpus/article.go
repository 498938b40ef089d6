// Package corpus loads newline-delimited JSON articles and holds the
// active, immutable article collection for a search session.
package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// errNotObject marks a line whose JSON value is not an object
var errNotObject = errors.New("line is not a JSON object")

// Article is one numbered unit of legal text
type Article struct {
	ID      int    `json:"id"`
	Numero  int    `json:"numero"`
	Seccion string `json:"seccion"`
	Texto   string `json:"texto"`
}

// articleLine mirrors the wire shape, where numbers may arrive as JSON
// numbers, numeric strings, or not at all, and text fields may hold any
// JSON value.
type articleLine struct {
	ID      json.RawMessage `json:"id"`
	Numero  json.RawMessage `json:"numero"`
	Seccion json.RawMessage `json:"seccion"`
	Texto   json.RawMessage `json:"texto"`
}

// decodeArticle parses a single NDJSON line into an Article.
// A missing numero takes the value of id.
func decodeArticle(line []byte) (Article, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Article{}, errNotObject
	}

	var raw articleLine
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Article{}, err
	}

	var a Article
	a.ID = decodeNumber(raw.ID)
	a.Numero = decodeNumber(raw.Numero)
	a.Seccion = decodeText(raw.Seccion)
	a.Texto = decodeText(raw.Texto)

	if a.Numero == 0 && a.ID != 0 {
		a.Numero = a.ID
	}
	return a, nil
}

// decodeNumber accepts 12, 12.0 and "12". Anything else counts as absent.
func decodeNumber(raw json.RawMessage) int {
	if len(raw) == 0 || string(raw) == "null" {
		return 0
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return int(f)
		}
		return 0
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i
		}
	}
	return 0
}

// decodeText returns a JSON string value; anything else counts as empty
func decodeText(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// Searchable reports whether the article carries text the matcher can use
func (a Article) Searchable() bool {
	return a.Texto != ""
}

// Label returns the number shown to readers, falling back to the id
func (a Article) Label() int {
	if a.Numero != 0 {
		return a.Numero
	}
	return a.ID
}
