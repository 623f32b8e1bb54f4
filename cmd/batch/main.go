// Command batch runs analyze requests from a JSON file through the same
// engine as the API, without redis or mysql, and writes one report per
// request to stdout.
package main

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/rakshitsawarn/brandsight/internal/adapters/localnlp"
	"github.com/rakshitsawarn/brandsight/internal/adapters/observability"
	"github.com/rakshitsawarn/brandsight/internal/app"
	"github.com/rakshitsawarn/brandsight/internal/domain"
	"github.com/rakshitsawarn/brandsight/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	if len(os.Args) < 2 {
		log.Fatal().Msg("usage: batch <requests.json>")
	}
	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("read input file failed")
	}
	var requests []domain.AnalyzeRequest
	if err := json.Unmarshal(raw, &requests); err != nil {
		log.Fatal().Err(err).Msg("parse input file failed")
	}

	lex := app.DefaultLexicon()
	if cfg.LexiconPath != "" {
		if lex, err = app.LoadLexicon(cfg.LexiconPath); err != nil {
			log.Fatal().Err(err).Str("path", cfg.LexiconPath).Msg("lexicon load failed")
		}
	}

	classifier := localnlp.NewSentiment()
	detector := app.NewDetector(lex, classifier, localnlp.NewLinguist(), cfg.AdapterTimeout)
	analyzer := app.NewAnalyzer(classifier, localnlp.NewKeywords(), app.PolicyByName(cfg.SentimentPolicy), cfg.AdapterTimeout)
	svc := app.NewAnalysisService(detector, analyzer, nil, nil, cfg.Workers, 0)

	log.Info().Int("requests", len(requests)).Int("workers", cfg.Workers).Msg("batch starting")

	reports := make([]domain.Report, len(requests))
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for i, req := range requests {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(i int, req domain.AnalyzeRequest) {
			defer wg.Done()
			defer sem.Release(1)

			rep, err := svc.Analyze(ctx, req)
			if err != nil {
				log.Warn().Str("uid", req.UID).Err(err).Msg("analysis failed")
				return
			}
			reports[i] = rep
			log.Info().Str("uid", req.UID).Int("fake", rep.FakeReviewsDetected).Msg("analysis ok")
		}(i, req)
	}

	wg.Wait()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		log.Fatal().Err(err).Msg("write reports failed")
	}
	log.Info().Msg("batch completed")
}
