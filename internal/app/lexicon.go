package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Lexicon holds every word/phrase list and threshold the fake-review
// heuristics depend on. Keeping them in one structure makes the thresholds
// data, not code: they can be overridden from a YAML file and tested
// independently of the rule engine.
type Lexicon struct {
	Version string `yaml:"version"`

	Superlatives    []string `yaml:"superlatives"`
	GenericPhrases  []string `yaml:"generic_phrases"`
	PromoIndicators []string `yaml:"promo_indicators"`
	ExtremePositive []string `yaml:"extreme_positive"`

	SuperlativeRatio   float64 `yaml:"superlative_ratio"`    // superlatives per word above which rule 3 fires
	MismatchConfidence float64 `yaml:"mismatch_confidence"`  // classifier confidence for rule 2
	GenericMaxWords    int     `yaml:"generic_max_words"`    // rule 6 word-count guard
	VagueMaxWords      int     `yaml:"vague_positive_words"` // rule 10 word-count guard
}

// DefaultLexicon returns the built-in lexicon and thresholds.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Version: "2",
		Superlatives: []string{
			"amazing", "incredible", "perfect", "best", "worst", "awful",
			"horrible", "excellent", "outstanding", "exceptional", "terrible",
			"superb", "awesome", "greatest", "finest", "magnificent",
			"dreadful", "appalling",
		},
		GenericPhrases: []string{
			"great product", "highly recommend", "works well", "very good",
			"very bad", "love it", "awesome product", "best ever",
			"worst ever", "changed my life", "must buy", "waste of money",
			"don't buy", "changed everything", "you won't regret",
			"best purchase", "worst purchase",
		},
		PromoIndicators: []string{
			"sponsored", "received for free", "in exchange for",
			"for my honest review", "was provided", "company sent",
			"promotional", "ambassador", "received complimentary",
			"received product", "sample", "hashtag", "#ad", "#sponsored",
			"#partner", "influencer",
		},
		ExtremePositive: []string{
			"amazing", "awesome", "incredible", "fantastic", "perfect",
			"wonderful",
		},
		SuperlativeRatio:   0.12,
		MismatchConfidence: 0.6,
		GenericMaxWords:    15,
		VagueMaxWords:      20,
	}
}

// LoadLexicon reads a YAML lexicon file. Fields left unset in the file keep
// their defaults, so a file may override only the thresholds.
func LoadLexicon(path string) (Lexicon, error) {
	lx := DefaultLexicon()
	b, err := os.ReadFile(path)
	if err != nil {
		return lx, fmt.Errorf("read lexicon: %w", err)
	}
	if err := yaml.Unmarshal(b, &lx); err != nil {
		return lx, fmt.Errorf("parse lexicon: %w", err)
	}
	return lx, nil
}
