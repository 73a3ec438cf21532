// Package rank turns the raw article pool of one cycle into the digest:
// duplicates dropped, titles scored against a fixed keyword set, and the
// top entries selected.
package rank

import (
	"sort"
	"strings"

	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/feed"
)

// DigestSize is the maximum number of articles in one bulletin.
const DigestSize = 5

// Keywords is the fixed, unweighted scoring vocabulary. A title earns
// one point per keyword whose lowercase form appears in it as a
// substring; overlapping keywords double-count.
var Keywords = []string{
	"Startup", "Raise", "Round", "Acquire", "Merger", "IPO",
	"Exit", "Billion", "Million", "Tech", "AI", "Cyber",
}

// Dedupe keeps the first occurrence of each distinct title, in input
// order. Exact string match only: cosmetically different duplicates
// survive (known limitation).
func Dedupe(articles []feed.Article) []feed.Article {
	seen := make(map[string]bool, len(articles))
	var out []feed.Article
	for _, a := range articles {
		if seen[a.Title] {
			continue
		}
		seen[a.Title] = true
		out = append(out, a)
	}
	return out
}

// ScoreTitle counts keyword hits in the title, case-insensitively.
func ScoreTitle(title string) int {
	lower := strings.ToLower(title)
	score := 0
	for _, kw := range Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			score++
		}
	}
	return score
}

// Select produces the ordered digest: dedupe, score, sort by score
// descending with publish-time recency as the tie-break, then cut to
// DigestSize. An empty pool yields an empty digest, which the caller
// treats as "nothing to send today". Select is idempotent on its own
// output.
func Select(articles []feed.Article) []feed.Article {
	unique := Dedupe(articles)

	for i := range unique {
		unique[i].Score = ScoreTitle(unique[i].Title)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		if unique[i].Score != unique[j].Score {
			return unique[i].Score > unique[j].Score
		}
		return unique[i].Published.After(unique[j].Published)
	})

	if len(unique) > DigestSize {
		unique = unique[:DigestSize]
	}
	return unique
}
