package localnlp

import (
	"context"
	"sort"
	"strings"
	"unicode"
)

// stopwords is a small English stoplist; extraction is frequency-based, so
// function words would otherwise dominate every ranking.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "and", "for", "are", "but", "not", "you", "all", "can", "had",
		"her", "was", "one", "our", "out", "day", "get", "has", "him", "his",
		"how", "its", "may", "new", "now", "old", "see", "two", "way", "who",
		"did", "use", "this", "that", "with", "have", "from", "they", "been",
		"were", "will", "would", "there", "their", "what", "about", "when",
		"just", "your", "them", "some", "into", "than", "then", "very",
		"also", "only", "over", "such", "because", "which", "while", "after",
		"before", "more", "most", "other", "really", "could", "should",
		"does", "doing", "being", "where", "these", "those", "here",
	} {
		stopwords[w] = struct{}{}
	}
}

// Keywords ranks content words of a text by frequency. It stands in for a
// model-backed extractor; output is lowercase single words.
type Keywords struct{}

func NewKeywords() *Keywords { return &Keywords{} }

func (k *Keywords) Extract(ctx context.Context, text string, topN int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topN <= 0 {
		return nil, nil
	}

	counts := make(map[string]int)
	for _, tok := range tokenize(text) {
		if len(tok) < 3 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		counts[tok]++
	}
	if len(counts) == 0 {
		return nil, nil
	}

	ranked := make([]string, 0, len(counts))
	for w := range counts {
		ranked = append(ranked, w)
	}
	// frequency desc, then lexical for a stable order
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}

// tokenize lowercases and splits on anything that is not a letter or digit.
func tokenize(s string) []string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}
