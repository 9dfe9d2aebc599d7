// Package rank scores knowledge entries against a free-text query using
// smoothed-IDF weighted term overlap with a phrase-containment boost.
package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/tvhoang/august-revolution/internal/domain"
	"github.com/tvhoang/august-revolution/internal/textutil"
)

// scoring parameters.
const (
	// phraseBoost rewards documents containing the full normalized query as
	// a contiguous substring, over pure bag-of-words overlap.
	phraseBoost = 1.4
	// minPhraseLen is the minimum normalized query length (in runes) for the
	// phrase boost to apply; very short queries match too promiscuously.
	minPhraseLen = 4
)

// ScoredEntry pairs a knowledge entry with its relevance score.
// Lists of ScoredEntry are always sorted descending and positive-only.
type ScoredEntry struct {
	Entry domain.KnowledgeEntry
	Score float64
}

// ScoreDocuments ranks documents against query. It is a pure function: the
// same inputs always yield the same ordered output. A query with no tokens
// after normalization matches nothing. Ties keep original document order.
func ScoreDocuments(query string, documents []domain.KnowledgeEntry) []ScoredEntry {
	qTokens := textutil.Tokenize(query)
	if len(qTokens) == 0 {
		return nil
	}

	docTokens := make([][]string, len(documents))
	for i, d := range documents {
		docTokens[i] = textutil.Tokenize(d.Title + " " + d.Content)
	}

	// Document frequency per query token.
	df := make(map[string]int, len(qTokens))
	for _, tokens := range docTokens {
		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			seen[t] = struct{}{}
		}
		for _, qt := range qTokens {
			if _, ok := seen[qt]; ok {
				df[qt]++
			}
		}
	}

	// Smoothed IDF: positive and finite even for absent or ubiquitous terms.
	n := float64(len(documents))
	idf := make(map[string]float64, len(qTokens))
	for _, qt := range qTokens {
		idf[qt] = math.Log((n+1)/float64(df[qt]+1)) + 1
	}

	normQuery := textutil.Normalize(query)
	boostable := len([]rune(normQuery)) > minPhraseLen

	scored := make([]ScoredEntry, 0, len(documents))
	for i, d := range documents {
		tf := make(map[string]int, len(docTokens[i]))
		for _, t := range docTokens[i] {
			tf[t]++
		}

		var score float64
		for _, qt := range qTokens {
			score += float64(tf[qt]) * idf[qt]
		}

		if boostable && containsPhrase(d, normQuery) {
			score *= phraseBoost
		}

		if score > 0 {
			scored = append(scored, ScoredEntry{Entry: d, Score: score})
		}
	}

	// Stable sort keeps insertion order on equal scores.
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	return scored
}

func containsPhrase(d domain.KnowledgeEntry, normQuery string) bool {
	normDoc := textutil.Normalize(d.Title + " " + d.Content)
	return strings.Contains(normDoc, normQuery)
}
