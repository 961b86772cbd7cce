// Package analysis implements the local heuristic analyzers. They are pure
// functions over normalized text and never touch the network, which makes
// them the always-available half of the enrichment pipeline.
package analysis

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultTopK is the keyword count returned when the caller passes none.
const DefaultTopK = 10

const minKeywordLength = 4

var nonWordRegex = regexp.MustCompile(`[^\w\s]`)

// stopWords are common function words excluded from keyword ranking.
var stopWords = map[string]struct{}{
	"which": {}, "their": {}, "there": {}, "would": {}, "could": {}, "should": {},
	"about": {}, "after": {}, "before": {}, "being": {}, "these": {}, "those": {},
	"where": {}, "while": {}, "other": {}, "first": {}, "years": {}, "through": {},
}

// Keyword is one ranked term with its raw occurrence count.
type Keyword struct {
	Word      string `json:"word"`
	Frequency int    `json:"frequency"`
}

// KeywordReport is the full keyword extraction result.
type KeywordReport struct {
	Keywords    []Keyword `json:"keywords"`
	TotalWords  int       `json:"totalWords"`
	UniqueWords int       `json:"uniqueWords"`
}

// ExtractKeywords ranks content words by frequency. Words are lowercased,
// stripped of punctuation and kept only when longer than four characters.
// Ties keep first-occurrence order so the ranking is deterministic. The
// extraction never fails: text with no qualifying words, including empty
// text, yields an empty report.
func ExtractKeywords(text string, topK int) KeywordReport {
	if topK <= 0 {
		topK = DefaultTopK
	}

	cleaned := nonWordRegex.ReplaceAllString(strings.ToLower(text), "")
	tokens := strings.Fields(cleaned)

	frequency := make(map[string]int)
	firstSeen := make(map[string]int)
	total := 0
	for _, tok := range tokens {
		if len(tok) <= minKeywordLength {
			continue
		}
		total++
		if _, seen := frequency[tok]; !seen {
			firstSeen[tok] = total
		}
		frequency[tok]++
	}

	candidates := make([]Keyword, 0, len(frequency))
	for word, count := range frequency {
		if _, stop := stopWords[word]; stop {
			continue
		}
		candidates = append(candidates, Keyword{Word: word, Frequency: count})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Frequency != candidates[j].Frequency {
			return candidates[i].Frequency > candidates[j].Frequency
		}
		return firstSeen[candidates[i].Word] < firstSeen[candidates[j].Word]
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	return KeywordReport{
		Keywords:    candidates,
		TotalWords:  total,
		UniqueWords: len(frequency),
	}
}
