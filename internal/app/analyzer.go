package app

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rakshitsawarn/brandsight/internal/domain"
)

const keywordTopN = 5

// minKeywordWords guards keyword extraction against noisy fragments.
const minKeywordWords = 5

// BucketPolicy turns a raw classifier verdict into one of the three
// sentiment buckets. The classifier's label is advisory; the bucketing is
// this service's own policy.
type BucketPolicy interface {
	Bucket(v domain.SentimentVerdict) domain.SentimentLabel
}

// BandedPolicy trusts the classifier's label when its confidence clears the
// mild band (0.55) and maps everything weaker to NEUTRAL. Default policy.
type BandedPolicy struct{}

func (BandedPolicy) Bucket(v domain.SentimentVerdict) domain.SentimentLabel {
	switch v.Label {
	case domain.Negative:
		if v.Confidence > 0.55 {
			return domain.Negative
		}
	case domain.Positive:
		if v.Confidence > 0.55 {
			return domain.Positive
		}
	}
	return domain.Neutral
}

// ScorePolicy ignores the label entirely and buckets by absolute score:
// below 0.45 NEGATIVE, 0.45–0.55 NEUTRAL, above POSITIVE. Retained as the
// earlier alternative policy.
type ScorePolicy struct{}

func (ScorePolicy) Bucket(v domain.SentimentVerdict) domain.SentimentLabel {
	switch {
	case v.Confidence < 0.45:
		return domain.Negative
	case v.Confidence <= 0.55:
		return domain.Neutral
	default:
		return domain.Positive
	}
}

// PolicyByName maps a config value to a policy, defaulting to banded.
func PolicyByName(name string) BucketPolicy {
	if name == "score" {
		return ScorePolicy{}
	}
	return BandedPolicy{}
}

// Analyzer classifies genuine reviews into sentiment buckets and extracts
// keywords. A failure in either capability degrades that one review to a
// neutral verdict; it never aborts the batch.
type Analyzer struct {
	classifier  domain.SentimentClassifier
	extractor   domain.KeywordExtractor
	policy      BucketPolicy
	callTimeout time.Duration
}

func NewAnalyzer(c domain.SentimentClassifier, k domain.KeywordExtractor, policy BucketPolicy, callTimeout time.Duration) *Analyzer {
	if policy == nil {
		policy = BandedPolicy{}
	}
	return &Analyzer{classifier: c, extractor: k, policy: policy, callTimeout: callTimeout}
}

var neutralDefault = domain.SentimentVerdict{Label: domain.Neutral, Confidence: 0.5}

// Analyze returns the bucketed sentiment and keyword list for one review.
func (a *Analyzer) Analyze(ctx context.Context, text string) (domain.SentimentVerdict, []string) {
	if strings.TrimSpace(text) == "" {
		return neutralDefault, nil
	}

	cctx, cancel := a.scoped(ctx)
	raw, err := a.classifier.Classify(cctx, text)
	cancel()
	if err != nil {
		log.Warn().Err(err).Msg("sentiment classification failed; defaulting to neutral")
		return neutralDefault, nil
	}

	verdict := domain.SentimentVerdict{
		Label:      a.policy.Bucket(raw),
		Confidence: round4(raw.Confidence),
	}

	if len(strings.Fields(text)) < minKeywordWords {
		return verdict, nil
	}
	cctx, cancel = a.scoped(ctx)
	kws, err := a.extractor.Extract(cctx, text, keywordTopN)
	cancel()
	if err != nil {
		log.Warn().Err(err).Msg("keyword extraction failed; continuing without keywords")
		return verdict, nil
	}
	return verdict, kws
}

func (a *Analyzer) scoped(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.callTimeout)
}

func round4(f float64) float64 { return math.Round(f*10000) / 10000 }
