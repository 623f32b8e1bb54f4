package localnlp

import (
	"context"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/sentences"
	"github.com/clipperhouse/uax29/v2/words"

	"github.com/rakshitsawarn/brandsight/internal/domain"
)

// pronounWords is the closed English pronoun class. Counting against it
// replaces a POS tagger for the one tag the anomaly check needs.
var pronounWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"i", "me", "my", "mine", "myself",
		"we", "us", "our", "ours", "ourselves",
		"you", "your", "yours", "yourself", "yourselves",
		"he", "him", "his", "himself",
		"she", "her", "hers", "herself",
		"it", "its", "itself",
		"they", "them", "their", "theirs", "themselves",
		"this", "that", "these", "those",
		"who", "whom", "whose", "what", "which",
	} {
		pronounWords[w] = struct{}{}
	}
}

// Linguist segments text with the UAX #29 rules and reports sentence count,
// token count, and pronoun count.
type Linguist struct{}

func NewLinguist() *Linguist { return &Linguist{} }

func (l *Linguist) Summarize(ctx context.Context, text string) (domain.LinguisticSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.LinguisticSummary{}, err
	}

	var out domain.LinguisticSummary

	sents := sentences.FromString(text)
	for sents.Next() {
		if strings.TrimSpace(sents.Value()) != "" {
			out.Sentences++
		}
	}

	toks := words.FromString(text)
	for toks.Next() {
		tok := toks.Value()
		if !hasAlnum(tok) {
			continue
		}
		out.Tokens++
		if _, ok := pronounWords[strings.ToLower(tok)]; ok {
			out.Pronouns++
		}
	}
	return out, nil
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
