// Package localnlp provides in-process analyzer capabilities so the service
// can run without a remote model server. Each type satisfies one of the
// domain ports and is safe for concurrent use.
package localnlp

import (
	"context"
	"math"

	"github.com/jonreiter/govader"

	"github.com/rakshitsawarn/brandsight/internal/domain"
)

// Sentiment classifies text with VADER. The compound score in [-1,1] is
// mapped to a label and a confidence in [0.5,1], which the analyzer's
// bucketing policy then interprets.
type Sentiment struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewSentiment() *Sentiment {
	return &Sentiment{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (s *Sentiment) Classify(ctx context.Context, text string) (domain.SentimentVerdict, error) {
	if err := ctx.Err(); err != nil {
		return domain.SentimentVerdict{}, err
	}
	scores := s.analyzer.PolarityScores(text)

	label := domain.Positive
	if scores.Compound < 0 {
		label = domain.Negative
	}
	return domain.SentimentVerdict{
		Label:      label,
		Confidence: 0.5 + math.Abs(scores.Compound)/2,
	}, nil
}
