package app

import (
	"sort"
	"strings"

	"github.com/rakshitsawarn/brandsight/internal/domain"
)

// suggestionRule appends its message when it fires. Rules are evaluated in
// a fixed order, every firing rule contributes, and duplicates are kept.
type suggestionRule struct {
	fires   func(s domain.AggregateStats) bool
	message string
}

func keywordTrigger(stats domain.AggregateStats, terms ...string) bool {
	for _, t := range terms {
		if _, ok := stats.Keywords[t]; ok {
			return true
		}
	}
	return false
}

var suggestionRules = []suggestionRule{
	{
		func(s domain.AggregateStats) bool { return s.NegativePct > 30 },
		"Address the significant negative sentiment by investigating the most common complaints.",
	},
	{
		func(s domain.AggregateStats) bool { return s.NegativePct > s.PositivePct },
		"Improve overall user experience as negative reviews dominate.",
	},
	{
		func(s domain.AggregateStats) bool { return keywordTrigger(s, "price", "expensive", "cost") },
		"Consider revising pricing or adding budget-friendly options.",
	},
	{
		func(s domain.AggregateStats) bool { return keywordTrigger(s, "support", "customer service", "help") },
		"Enhance customer support response time and friendliness.",
	},
	{
		func(s domain.AggregateStats) bool { return keywordTrigger(s, "slow", "loading", "speed", "performance") },
		"Optimize performance and reduce loading times.",
	},
	{
		func(s domain.AggregateStats) bool { return keywordTrigger(s, "bug", "error", "crash", "glitch") },
		"Address technical issues and bugs that users are reporting.",
	},
	{
		func(s domain.AggregateStats) bool { return keywordTrigger(s, "difficult", "complex", "confusing", "usability") },
		"Improve user interface and make the product more intuitive.",
	},
	{
		func(s domain.AggregateStats) bool { return keywordTrigger(s, "update", "outdated") },
		"Consider releasing more frequent updates and adding new features.",
	},
	{
		func(s domain.AggregateStats) bool { return s.NeutralPct > 50 },
		"Reviews are largely ambivalent; identify features that could turn neutral users into advocates.",
	},
	{
		func(s domain.AggregateStats) bool { return s.PositivePct > 70 },
		"Users are happy! Keep up the great work and continue the current strategy.",
	},
}

// Suggest maps aggregate stats to an ordered list of improvement
// suggestions. When nothing fires, a single fallback names up to five of the
// merged keywords (sorted, for stable output), or asks for more feedback if
// there are none.
func Suggest(stats domain.AggregateStats) []string {
	var out []string
	for _, r := range suggestionRules {
		if r.fires(stats) {
			out = append(out, r.message)
		}
	}
	if len(out) > 0 {
		return out
	}

	if len(stats.Keywords) == 0 {
		return []string{"Maintain current performance and consider collecting more user feedback."}
	}
	kws := SortedKeywords(stats.Keywords)
	if len(kws) > 5 {
		kws = kws[:5]
	}
	return []string{"Focus on the themes users mention most: " + strings.Join(kws, ", ") + "."}
}

// SortedKeywords returns the merged keyword set in lexical order.
func SortedKeywords(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for kw := range set {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}
