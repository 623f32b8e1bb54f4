package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("not found")

// SentimentClassifier labels a text POSITIVE or NEGATIVE with a confidence.
// Implementations must be safe for concurrent use.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (SentimentVerdict, error)
}

// KeywordExtractor returns up to topN ranked keywords for a text.
type KeywordExtractor interface {
	Extract(ctx context.Context, text string, topN int) ([]string, error)
}

// LinguisticSummary is the shape a linguistic capability reports back:
// sentence boundaries, token count, and how many tokens are pronouns.
type LinguisticSummary struct {
	Sentences int
	Tokens    int
	Pronouns  int
}

// LinguisticAnalyzer segments and tags a text. Optional capability; callers
// must tolerate its absence.
type LinguisticAnalyzer interface {
	Summarize(ctx context.Context, text string) (LinguisticSummary, error)
}

// Cache is a best-effort JSON cache.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// ReportRepository persists analysis runs for later retrieval.
type ReportRepository interface {
	SaveReport(ctx context.Context, r StoredReport) error
	ListReports(ctx context.Context, uid string, limit int) ([]StoredReport, error)
}
