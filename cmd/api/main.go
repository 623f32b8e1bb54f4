package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "github.com/rakshitsawarn/brandsight/internal/adapters/http_server"
	"github.com/rakshitsawarn/brandsight/internal/adapters/localnlp"
	"github.com/rakshitsawarn/brandsight/internal/adapters/nlp"
	"github.com/rakshitsawarn/brandsight/internal/adapters/observability"
	redisad "github.com/rakshitsawarn/brandsight/internal/adapters/redis"
	"github.com/rakshitsawarn/brandsight/internal/app"
	"github.com/rakshitsawarn/brandsight/internal/domain"
	"github.com/rakshitsawarn/brandsight/internal/shared"
	mysqlrepo "github.com/rakshitsawarn/brandsight/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// analyzer capabilities: remote model server when configured,
	// in-process fallbacks otherwise
	var (
		classifier domain.SentimentClassifier
		extractor  domain.KeywordExtractor
		linguist   domain.LinguisticAnalyzer
	)
	if cfg.NLPBase != "" {
		client, err := nlp.New(cfg.NLPBase, cfg.NLPKey, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize NLP client")
		}
		classifier, extractor, linguist = client, client, client
		log.Info().Str("base", cfg.NLPBase).Msg("using remote model server")
	} else {
		classifier, extractor, linguist = localnlp.NewSentiment(), localnlp.NewKeywords(), localnlp.NewLinguist()
		log.Info().Msg("using in-process analyzers")
	}

	// lexicon
	lex := app.DefaultLexicon()
	if cfg.LexiconPath != "" {
		var err error
		if lex, err = app.LoadLexicon(cfg.LexiconPath); err != nil {
			log.Fatal().Err(err).Str("path", cfg.LexiconPath).Msg("lexicon load failed")
		}
		log.Info().Str("path", cfg.LexiconPath).Str("version", lex.Version).Msg("lexicon loaded")
	}

	// db (optional: report history)
	var repo domain.ReportRepository
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Warn().Err(err).Msg("db unreachable; report history disabled")
		} else {
			repo = mysqlrepo.New(db)
			log.Info().Msg("database connection ok")
		}
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	detector := app.NewDetector(lex, classifier, linguist, cfg.AdapterTimeout)
	analyzer := app.NewAnalyzer(classifier, extractor, app.PolicyByName(cfg.SentimentPolicy), cfg.AdapterTimeout)
	svc := app.NewAnalysisService(detector, analyzer, cache, repo, cfg.Workers, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Svc: svc, Reports: repo})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
