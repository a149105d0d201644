package search

import (
	"strings"

	"github.com/nikbrunner/linkshelf/internal/model"
	"github.com/sahilm/fuzzy"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Link           model.Link
	MatchedIndexes []int // byte offsets into Link.Title
	Score          int
}

// linkSource implements fuzzy.Source over titles followed by tags.
type linkSource []model.Link

func (ls linkSource) String(i int) string {
	if len(ls[i].Tags) == 0 {
		return ls[i].Title
	}
	return ls[i].Title + " " + strings.Join(ls[i].Tags, " ")
}

func (ls linkSource) Len() int {
	return len(ls)
}

// FuzzySearchLinks searches links by title and tags using fuzzy matching.
// Returns results sorted by match score (best first).
func FuzzySearchLinks(links []model.Link, query string) []SearchResult {
	if query == "" {
		return nil
	}

	source := linkSource(links)
	matches := fuzzy.FindFrom(query, source)

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		link := source[m.Index]
		results[i] = SearchResult{
			Link:           link,
			MatchedIndexes: titleIndexes(m.MatchedIndexes, len(link.Title)),
			Score:          m.Score,
		}
	}

	return results
}

// titleIndexes keeps the matched offsets that fall inside the title.
func titleIndexes(indexes []int, titleLen int) []int {
	out := make([]int, 0, len(indexes))
	for _, idx := range indexes {
		if idx < titleLen {
			out = append(out, idx)
		}
	}
	return out
}
