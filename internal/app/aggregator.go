package app

import (
	"math"

	"github.com/rakshitsawarn/brandsight/internal/domain"
)

// GenuineResult pairs one genuine review's verdict with its keywords.
type GenuineResult struct {
	Verdict  domain.SentimentVerdict
	Keywords []string
}

// Aggregate folds per-review results into brand-level stats. A single pass,
// no mutable accumulators threaded anywhere else. The zero-genuine case
// short-circuits to all-zero percentages rather than dividing.
func Aggregate(results []GenuineResult) domain.AggregateStats {
	stats := domain.AggregateStats{Keywords: make(map[string]struct{})}
	for _, r := range results {
		switch r.Verdict.Label {
		case domain.Negative:
			stats.NegativeCount++
		case domain.Positive:
			stats.PositiveCount++
		default:
			stats.NeutralCount++
		}
		for _, kw := range r.Keywords {
			stats.Keywords[kw] = struct{}{}
		}
	}

	total := stats.Genuine()
	if total == 0 {
		return stats
	}
	stats.NegativePct = pct(stats.NegativeCount, total)
	stats.NeutralPct = pct(stats.NeutralCount, total)
	stats.PositivePct = pct(stats.PositiveCount, total)
	return stats
}

func pct(n, total int) float64 {
	return math.Round(float64(n)/float64(total)*100*100) / 100
}
