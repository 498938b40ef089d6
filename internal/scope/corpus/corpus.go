package corpus

import "strings"

// Corpus is an ordered, read-only collection of articles in file order.
// It is never mutated after construction; reloads build a new value.
type Corpus struct {
	articles []Article
	lower    []string
}

// New builds a corpus from articles, precomputing lowercase text
func New(articles []Article) *Corpus {
	c := &Corpus{
		articles: make([]Article, len(articles)),
		lower:    make([]string, len(articles)),
	}
	copy(c.articles, articles)
	for i := range c.articles {
		c.lower[i] = strings.ToLower(c.articles[i].Texto)
	}
	return c
}

// Empty returns a corpus with no articles
func Empty() *Corpus {
	return New(nil)
}

// Len returns the number of articles
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.articles)
}

// At returns the article at position i
func (c *Corpus) At(i int) Article {
	return c.articles[i]
}

// Lower returns the lowercased texto of the article at position i
func (c *Corpus) Lower(i int) string {
	return c.lower[i]
}

// Articles returns a copy of the articles in corpus order
func (c *Corpus) Articles() []Article {
	if c == nil {
		return nil
	}
	out := make([]Article, len(c.articles))
	copy(out, c.articles)
	return out
}

// Find returns the first article with the given numero
func (c *Corpus) Find(numero int) (Article, bool) {
	if c == nil {
		return Article{}, false
	}
	for _, a := range c.articles {
		if a.Numero == numero {
			return a, true
		}
	}
	return Article{}, false
}
