package app

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/cloudflare/ahocorasick"
	"github.com/rs/zerolog/log"

	"github.com/rakshitsawarn/brandsight/internal/domain"
)

// suspiciousUser: one or more letters followed by 2+ digits (john2020).
var suspiciousUser = regexp.MustCompile(`^[a-zA-Z]+\d{2,}$`)

// Detector runs an ordered battery of fake-review heuristics. The order is
// part of the contract: cheap, high-precision checks come first so a match
// short-circuits before any model call is made. First match wins.
type Detector struct {
	lex        Lexicon
	classifier domain.SentimentClassifier
	linguist   domain.LinguisticAnalyzer // optional, may be nil

	genericM *ahocorasick.Matcher
	promoM   *ahocorasick.Matcher

	callTimeout time.Duration
	rules       []rule
}

// candidate is the precomputed view of one review the rules evaluate.
type candidate struct {
	orig   string
	folded string // trimmed, case-folded
	words  []string
	rating *float64
	user   string
}

type rule struct {
	name string
	eval func(ctx context.Context, c candidate) (bool, domain.ReasonCode)
}

// NewDetector builds a detector around the given lexicon and capabilities.
// linguist may be nil; classifier is required (the mismatch check skips
// itself on classifier failure, not on classifier absence).
func NewDetector(lex Lexicon, classifier domain.SentimentClassifier, linguist domain.LinguisticAnalyzer, callTimeout time.Duration) *Detector {
	d := &Detector{
		lex:         lex,
		classifier:  classifier,
		linguist:    linguist,
		genericM:    ahocorasick.NewStringMatcher(lex.GenericPhrases),
		promoM:      ahocorasick.NewStringMatcher(lex.PromoIndicators),
		callTimeout: callTimeout,
	}
	d.rules = []rule{
		{"too_short", d.tooShort},
		{"rating_mismatch", d.ratingMismatch},
		{"superlatives", d.excessiveSuperlatives},
		{"word_repetition", d.wordRepetition},
		{"phrase_repetition", d.phraseRepetition},
		{"generic_language", d.genericLanguage},
		{"unnatural_formatting", d.unnaturalFormatting},
		{"promotional", d.promotionalContent},
		{"linguistic_anomaly", d.linguisticAnomaly},
		{"vague_positive", d.vaguePositive},
		{"suspicious_username", d.suspiciousUsername},
	}
	return d
}

// Detect evaluates the rules in order and returns the first match.
func (d *Detector) Detect(ctx context.Context, r domain.ReviewRecord) domain.FakenessVerdict {
	folded := strings.ToLower(strings.TrimSpace(r.Text))
	c := candidate{
		orig:   r.Text,
		folded: folded,
		words:  strings.Fields(folded),
		rating: r.Rating,
		user:   r.User,
	}
	for _, rl := range d.rules {
		if fired, reason := rl.eval(ctx, c); fired {
			return domain.FakenessVerdict{IsFake: true, Reason: reason}
		}
	}
	return domain.FakenessVerdict{}
}

func (d *Detector) scoped(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d.callTimeout)
}

// 1. Too short: under 5 characters or under 3 words.
func (d *Detector) tooShort(_ context.Context, c candidate) (bool, domain.ReasonCode) {
	if len(c.folded) < 5 || len(c.words) < 3 {
		return true, domain.ReasonTooShort
	}
	return false, ""
}

// 2. Rating contradicts classified sentiment. Classifier failures are
// swallowed: the check is skipped, never fatal.
func (d *Detector) ratingMismatch(ctx context.Context, c candidate) (bool, domain.ReasonCode) {
	if c.rating == nil {
		return false, ""
	}
	cctx, cancel := d.scoped(ctx)
	defer cancel()
	v, err := d.classifier.Classify(cctx, c.folded)
	if err != nil {
		log.Warn().Err(err).Msg("mismatch check skipped: classifier failed")
		return false, ""
	}
	high := *c.rating >= 4 && v.Label == domain.Negative && v.Confidence > d.lex.MismatchConfidence
	low := *c.rating <= 2 && v.Label == domain.Positive && v.Confidence > d.lex.MismatchConfidence
	if high || low {
		return true, domain.ReasonRatingMismatch
	}
	return false, ""
}

// 3. Superlative density. Substring counts, matching the lexicon contract.
func (d *Detector) excessiveSuperlatives(_ context.Context, c candidate) (bool, domain.ReasonCode) {
	if len(c.words) == 0 {
		return false, ""
	}
	n := 0
	for _, term := range d.lex.Superlatives {
		n += strings.Count(c.folded, term)
	}
	if n > 2 && float64(n)/float64(len(c.words)) > d.lex.SuperlativeRatio {
		return true, domain.ReasonSuperlatives
	}
	return false, ""
}

// 4. Any word longer than 3 characters used more than 3 times.
func (d *Detector) wordRepetition(_ context.Context, c candidate) (bool, domain.ReasonCode) {
	counts := make(map[string]int, len(c.words))
	for _, w := range c.words {
		if len(w) <= 3 {
			continue
		}
		counts[w]++
		if counts[w] > 3 {
			return true, domain.ReasonWordRepetition
		}
	}
	return false, ""
}

// 5. Any adjacent bigram used more than 2 times.
func (d *Detector) phraseRepetition(_ context.Context, c candidate) (bool, domain.ReasonCode) {
	if len(c.words) < 2 {
		return false, ""
	}
	counts := make(map[string]int, len(c.words)-1)
	for i := 0; i < len(c.words)-1; i++ {
		bg := c.words[i] + " " + c.words[i+1]
		counts[bg]++
		if counts[bg] > 2 {
			return true, domain.ReasonPhraseRepetition
		}
	}
	return false, ""
}

// 6. Stock phrasing in a short review.
func (d *Detector) genericLanguage(_ context.Context, c candidate) (bool, domain.ReasonCode) {
	if len(c.words) >= d.lex.GenericMaxWords {
		return false, ""
	}
	if len(d.genericM.Match([]byte(c.folded))) > 0 {
		return true, domain.ReasonGenericLanguage
	}
	return false, ""
}

// 7. Shouting or punctuation abuse.
func (d *Detector) unnaturalFormatting(_ context.Context, c candidate) (bool, domain.ReasonCode) {
	up := strings.ToUpper(c.orig)
	allCaps := c.orig == up && up != strings.ToLower(c.orig) && len(c.orig) > 15
	if allCaps ||
		strings.Count(c.folded, "!") > 3 ||
		strings.Count(c.folded, "?") > 3 ||
		strings.Contains(c.folded, "!!!") {
		return true, domain.ReasonUnnaturalFormat
	}
	return false, ""
}

// 8. Sponsored/incentivized content markers.
func (d *Detector) promotionalContent(_ context.Context, c candidate) (bool, domain.ReasonCode) {
	if len(d.promoM.Match([]byte(c.folded))) > 0 {
		return true, domain.ReasonPromotional
	}
	return false, ""
}

// 9. Bot-like structure, via the optional linguistic capability. Failures
// are swallowed and the check skipped.
func (d *Detector) linguisticAnomaly(ctx context.Context, c candidate) (bool, domain.ReasonCode) {
	if d.linguist == nil || c.folded == "" {
		return false, ""
	}
	cctx, cancel := d.scoped(ctx)
	defer cancel()
	sum, err := d.linguist.Summarize(cctx, c.folded)
	if err != nil {
		log.Warn().Err(err).Msg("linguistic check skipped: analyzer failed")
		return false, ""
	}
	if sum.Sentences == 0 {
		return true, domain.ReasonNoSentences
	}
	avg := float64(sum.Tokens) / float64(sum.Sentences)
	if avg > 50 || avg < 3 {
		return true, domain.ReasonOddSentenceLength
	}
	if sum.Tokens > 20 && sum.Pronouns == 0 {
		return true, domain.ReasonNoPronouns
	}
	return false, ""
}

// 10. Extreme praise with no reasoning attached.
func (d *Detector) vaguePositive(_ context.Context, c candidate) (bool, domain.ReasonCode) {
	if len(c.words) >= d.lex.VagueMaxWords {
		return false, ""
	}
	if strings.Contains(c.folded, "because") || strings.Contains(c.folded, "which") {
		return false, ""
	}
	n := 0
	for _, term := range d.lex.ExtremePositive {
		n += strings.Count(c.folded, term)
	}
	if n >= 2 {
		return true, domain.ReasonVaguePositive
	}
	return false, ""
}

// 11. Generated-looking usernames.
func (d *Detector) suspiciousUsername(_ context.Context, c candidate) (bool, domain.ReasonCode) {
	if c.user != "" && suspiciousUser.MatchString(c.user) {
		return true, domain.ReasonSuspiciousUsername
	}
	return false, ""
}
