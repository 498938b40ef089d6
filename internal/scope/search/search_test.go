package search

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/dsjohal14/transitlaw/internal/scope/corpus"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		normalized string
		terms      []string
		searchable bool
	}{
		{"trims and lowercases", "  Licencia   CONDUCIR ", "licencia   conducir", []string{"licencia", "conducir"}, true},
		{"keeps duplicates", "alcohol alcohol", "alcohol alcohol", []string{"alcohol", "alcohol"}, true},
		{"tabs and newlines split", "seguro\tobligatorio\n", "seguro\tobligatorio", []string{"seguro", "obligatorio"}, true},
		{"too short", "li", "li", []string{"li"}, false},
		{"short in runes", "ñá", "ñá", []string{"ñá"}, false},
		{"empty", "   ", "", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ParseQuery(tt.raw)
			if q.Normalized != tt.normalized {
				t.Errorf("expected normalized %q, got %q", tt.normalized, q.Normalized)
			}
			if len(q.Terms) != len(tt.terms) || (len(tt.terms) > 0 && !reflect.DeepEqual(q.Terms, tt.terms)) {
				t.Errorf("expected terms %v, got %v", tt.terms, q.Terms)
			}
			if q.Searchable() != tt.searchable {
				t.Errorf("expected searchable=%v", tt.searchable)
			}
		})
	}
}

func testCorpus() *corpus.Corpus {
	return corpus.New([]corpus.Article{
		{ID: 1, Numero: 1, Texto: "Toda licencia de conducir será otorgada por la municipalidad."},
		{ID: 2, Numero: 2, Texto: "El conductor con alcohol en la sangre. El alcohol está prohibido."},
		{ID: 3, Numero: 3, Texto: ""},
		{ID: 4, Numero: 4, Texto: "LICENCIA clase A (profesional). Licencia de conducir profesional."},
		{ID: 5, Numero: 5, Texto: "Velocidad máxima 50 km/h. Se prohíbe el uso de v.m. en zonas urbanas."},
	})
}

func TestMatchAllTermsRequired(t *testing.T) {
	m := NewMatcher(0)
	ctx := context.Background()
	c := testCorpus()

	tests := []struct {
		name  string
		query string
		ids   []int
	}{
		{"both terms present", "licencia conducir", []int{1, 4}},
		{"one term missing", "licencia patente", nil},
		{"case insensitive", "LICENCIA", []int{1, 4}},
		{"substring not word", "cencia", []int{1, 4}},
		{"metacharacters literal", "v.m.", []int{5}},
		{"parenthesis literal", "(profesional)", []int{4}},
		{"dot does not match any char", "a.b", nil},
		{"empty query", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := m.Match(ctx, c, ParseQuery(tt.query))
			if err != nil {
				t.Fatalf("Match() failed: %v", err)
			}
			var ids []int
			for _, match := range matches {
				ids = append(ids, match.Article.ID)
			}
			if !reflect.DeepEqual(ids, tt.ids) {
				t.Errorf("expected ids %v, got %v", tt.ids, ids)
			}
		})
	}
}

func TestMatchRelevance(t *testing.T) {
	m := NewMatcher(0)
	c := testCorpus()

	tests := []struct {
		name      string
		query     string
		id        int
		relevance int
	}{
		{"single term twice", "alcohol", 2, 2},
		{"repeated term counts again", "alcohol alcohol", 2, 4},
		{"sum across terms", "licencia profesional", 4, 4},
		{"mixed case occurrences", "licencia", 4, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := m.Match(context.Background(), c, ParseQuery(tt.query))
			if err != nil {
				t.Fatalf("Match() failed: %v", err)
			}
			for _, match := range matches {
				if match.Article.ID == tt.id {
					if match.Relevance != tt.relevance {
						t.Errorf("expected relevance %d, got %d", tt.relevance, match.Relevance)
					}
					return
				}
			}
			t.Errorf("article %d not matched", tt.id)
		})
	}
}

func TestMatchSkipsEmptyTexto(t *testing.T) {
	c := corpus.New([]corpus.Article{{ID: 1, Texto: ""}})
	matches, err := NewMatcher(0).Match(context.Background(), c, ParseQuery("abc"))
	if err != nil {
		t.Fatalf("Match() failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestMatchBatchesPreserveOrder(t *testing.T) {
	articles := make([]corpus.Article, 0, 50)
	for i := 1; i <= 50; i++ {
		articles = append(articles, corpus.Article{ID: i, Numero: i, Texto: fmt.Sprintf("artículo %d sobre tránsito", i)})
	}
	c := corpus.New(articles)

	sequential, err := NewMatcher(1000).Match(context.Background(), c, ParseQuery("tránsito"))
	if err != nil {
		t.Fatalf("sequential Match() failed: %v", err)
	}
	batched, err := NewMatcher(7).Match(context.Background(), c, ParseQuery("tránsito"))
	if err != nil {
		t.Fatalf("batched Match() failed: %v", err)
	}

	if len(batched) != 50 {
		t.Fatalf("expected 50 matches, got %d", len(batched))
	}
	if !reflect.DeepEqual(sequential, batched) {
		t.Error("batched matching changed the result order")
	}
	for i, match := range batched {
		if match.Index != i {
			t.Errorf("expected index %d, got %d", i, match.Index)
		}
	}
}

func TestMatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMatcher(0).Match(ctx, testCorpus(), ParseQuery("licencia"))
	if err == nil {
		t.Error("expected context error")
	}
}

func TestOccurrences(t *testing.T) {
	tests := []struct {
		text, term string
		expected   int
	}{
		{"aaaa", "aa", 2},
		{"alcohol y alcohol", "alcohol", 2},
		{"nada", "", 0},
		{"a.b a+b", "a.b", 1},
	}
	for _, tt := range tests {
		if got := Occurrences(tt.text, tt.term); got != tt.expected {
			t.Errorf("Occurrences(%q, %q) = %d, expected %d", tt.text, tt.term, got, tt.expected)
		}
	}
}

func TestRank(t *testing.T) {
	input := []Match{
		{Article: corpus.Article{ID: 10}, Index: 0, Relevance: 3},
		{Article: corpus.Article{ID: 11}, Index: 1, Relevance: 1},
		{Article: corpus.Article{ID: 12}, Index: 2, Relevance: 3},
		{Article: corpus.Article{ID: 13}, Index: 3, Relevance: 2},
	}

	ranked := Rank(input)

	var relevances, ids []int
	for _, m := range ranked {
		relevances = append(relevances, m.Relevance)
		ids = append(ids, m.Article.ID)
	}
	if !reflect.DeepEqual(relevances, []int{3, 3, 2, 1}) {
		t.Errorf("expected relevances [3 3 2 1], got %v", relevances)
	}
	if !reflect.DeepEqual(ids, []int{10, 12, 13, 11}) {
		t.Errorf("expected ids [10 12 13 11], got %v", ids)
	}

	if input[1].Relevance != 1 {
		t.Error("Rank() must not reorder its input")
	}
}

func TestRankEmpty(t *testing.T) {
	if got := Rank(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestLimit(t *testing.T) {
	matches := []Match{{Relevance: 3}, {Relevance: 2}, {Relevance: 1}}

	tests := []struct {
		name     string
		n        int
		expected int
	}{
		{"zero keeps all", 0, 3},
		{"negative keeps all", -1, 3},
		{"truncates", 2, 2},
		{"larger than len", 10, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Limit(matches, tt.n); len(got) != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, len(got))
			}
		})
	}
}
