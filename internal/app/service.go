package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/rakshitsawarn/brandsight/internal/adapters/observability"
	"github.com/rakshitsawarn/brandsight/internal/domain"
)

// AnalysisService runs the full pipeline for one request: fakeness
// detection, sentiment/keyword analysis, aggregation, suggestions, and
// report assembly. Reviews are independent, so they run under a bounded
// semaphore; aggregation waits for the whole batch.
type AnalysisService struct {
	detector *Detector
	analyzer *Analyzer
	cache    domain.Cache            // optional
	repo     domain.ReportRepository // optional
	workers  int64
	cacheTTL time.Duration
}

func NewAnalysisService(d *Detector, a *Analyzer, cache domain.Cache, repo domain.ReportRepository, workers int, cacheTTL time.Duration) *AnalysisService {
	if workers < 1 {
		workers = 1
	}
	return &AnalysisService{
		detector: d,
		analyzer: a,
		cache:    cache,
		repo:     repo,
		workers:  int64(workers),
		cacheTTL: cacheTTL,
	}
}

// perReview is one worker's output, written to its own slot.
type perReview struct {
	analyzed domain.AnalyzedReview
	genuine  *GenuineResult
}

// Analyze processes the batch and assembles the report. A cached report for
// the identical request is returned as-is.
func (s *AnalysisService) Analyze(ctx context.Context, req domain.AnalyzeRequest) (domain.Report, error) {
	key := reportKey(req)
	if s.cache != nil {
		var cached domain.Report
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	results := make([]perReview, len(req.Reviews))
	sem := semaphore.NewWeighted(s.workers)
	var wg sync.WaitGroup

	for i, rec := range req.Reviews {
		if err := sem.Acquire(ctx, 1); err != nil {
			return domain.Report{}, fmt.Errorf("acquire analysis slot: %w", err)
		}
		wg.Add(1)
		go func(i int, rec domain.ReviewRecord) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = s.analyzeOne(ctx, rec)
		}(i, rec)
	}
	wg.Wait()

	report := s.assemble(req, results)

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, report, int(s.cacheTTL.Seconds()))
	}
	if s.repo != nil {
		s.persist(ctx, report)
	}
	return report, nil
}

func (s *AnalysisService) analyzeOne(ctx context.Context, rec domain.ReviewRecord) perReview {
	if rec.User == "" {
		rec.User = "anonymous"
	}

	verdict := s.detector.Detect(ctx, rec)
	if verdict.IsFake {
		observability.ObserveReview("fake")
		observability.ObserveFakeReason(string(verdict.Reason))
		return perReview{analyzed: domain.AnalyzedReview{
			User:       rec.User,
			Rating:     rec.Rating,
			Text:       rec.Text,
			Sentiment:  domain.Unknown,
			Confidence: 0.0,
			Keywords:   []string{},
			IsFake:     true,
			FakeReason: verdict.Reason,
		}}
	}

	sv, kws := s.analyzer.Analyze(ctx, rec.Text)
	if kws == nil {
		kws = []string{}
	}
	observability.ObserveReview("genuine")
	return perReview{
		analyzed: domain.AnalyzedReview{
			User:       rec.User,
			Rating:     rec.Rating,
			Text:       rec.Text,
			Sentiment:  sv.Label,
			Confidence: sv.Confidence,
			Keywords:   kws,
			IsFake:     false,
		},
		genuine: &GenuineResult{Verdict: sv, Keywords: kws},
	}
}

func (s *AnalysisService) assemble(req domain.AnalyzeRequest, results []perReview) domain.Report {
	analyzed := make([]domain.AnalyzedReview, 0, len(results))
	genuine := make([]GenuineResult, 0, len(results))
	fakeReasons := make(map[domain.ReasonCode]int)
	fakeCount := 0

	for _, r := range results {
		analyzed = append(analyzed, r.analyzed)
		if r.genuine != nil {
			genuine = append(genuine, *r.genuine)
			continue
		}
		fakeCount++
		fakeReasons[r.analyzed.FakeReason]++
	}

	stats := Aggregate(genuine)
	return domain.Report{
		Success:     true,
		UID:         req.UID,
		Title:       req.Title,
		Icon:        req.Icon,
		Description: FirstSentence(req.Description),
		SentimentDistribution: domain.Distribution{
			Negative: stats.NegativePct,
			Neutral:  stats.NeutralPct,
			Positive: stats.PositivePct,
		},
		Keywords:             SortedKeywords(stats.Keywords),
		Suggestions:          Suggest(stats),
		AnalyzedReviews:      analyzed,
		FakeReviewsDetected:  fakeCount,
		FakeReviewReasons:    fakeReasons,
		TotalReviewsAnalyzed: len(results),
		GenuineReviewsCount:  stats.Genuine(),
	}
}

// persist stores the report best-effort; a storage failure never fails the
// request.
func (s *AnalysisService) persist(ctx context.Context, r domain.Report) {
	payload, err := json.Marshal(r)
	if err != nil {
		log.Error().Err(err).Msg("marshal report for storage failed")
		return
	}
	stored := domain.StoredReport{
		ID:      uuid.NewString(),
		UID:     r.UID,
		Title:   r.Title,
		Payload: payload,
	}
	if err := s.repo.SaveReport(ctx, stored); err != nil {
		log.Warn().Err(err).Str("uid", r.UID).Msg("report persistence failed")
		return
	}
	log.Info().Str("uid", r.UID).Str("report_id", stored.ID).Msg("report stored")
}

// FirstSentence trims a description to its first sentence: text up to and
// including the first '.', '!' or '?', else the whole trimmed text.
func FirstSentence(text string) string {
	if i := strings.IndexAny(text, ".!?"); i >= 0 {
		return strings.TrimSpace(text[:i+1])
	}
	return strings.TrimSpace(text)
}

// reportKey is stable across identical requests: uid plus a digest of the
// full request body.
func reportKey(req domain.AnalyzeRequest) string {
	b, _ := json.Marshal(req)
	sum := sha1.Sum(b)
	return fmt.Sprintf("report:%s:%s", req.UID, hex.EncodeToString(sum[:]))
}
