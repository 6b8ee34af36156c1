package quote

import (
	"strings"

	a "github.com/petar-dambovaliev/aho-corasick"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

// Classifier tags a free-text message with the services whose keywords it
// mentions. Matching is case-insensitive and whole-word, preferring the
// longest keyword at each position so "gutters" is not read as "gutter".
type Classifier struct {
	matcher   a.AhoCorasick
	empty     bool
	order     []string
	keywordTo map[string][]string
}

func NewClassifier(services []types.Service) *Classifier {
	c := &Classifier{
		keywordTo: make(map[string][]string),
	}

	var keywords []string
	for _, svc := range services {
		c.order = append(c.order, svc.Slug)
		for _, kw := range svc.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if _, seen := c.keywordTo[kw]; !seen {
				keywords = append(keywords, kw)
			}
			c.keywordTo[kw] = append(c.keywordTo[kw], svc.Slug)
		}
	}

	if len(keywords) == 0 {
		c.empty = true
		return c
	}

	builder := a.NewAhoCorasickBuilder(a.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            a.LeftMostLongestMatch,
	})
	c.matcher = builder.Build(keywords)
	return c
}

// Detect returns the matching service slugs in catalog order, each once.
func (c *Classifier) Detect(message string) []string {
	if c.empty || strings.TrimSpace(message) == "" {
		return nil
	}

	lower := strings.ToLower(message)
	hits := make(map[string]bool)
	for _, match := range c.matcher.FindAll(lower) {
		word := lower[match.Start():match.End()]
		for _, slug := range c.keywordTo[word] {
			hits[slug] = true
		}
	}

	var out []string
	for _, slug := range c.order {
		if hits[slug] {
			out = append(out, slug)
		}
	}
	return out
}
