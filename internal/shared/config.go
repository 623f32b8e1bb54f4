package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	NLPBase         string
	NLPKey          string
	Workers         int
	AdapterTimeout  time.Duration
	SentimentPolicy string // "banded" or "score"
	LexiconPath     string
	CacheTTL        time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ":9100"),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/brandsight?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		NLPBase:         env("NLP_BASE_URL", ""),
		NLPKey:          env("NLP_API_KEY", ""),
		Workers:         atoi("ANALYZE_WORKERS", 8),
		AdapterTimeout:  time.Duration(atoi("ADAPTER_TIMEOUT_MS", 5000)) * time.Millisecond,
		SentimentPolicy: env("SENTIMENT_POLICY", "banded"),
		LexiconPath:     env("LEXICON_PATH", ""),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.NLPBase == "" {
		log.Warn().Msg("NLP_BASE_URL is empty; using in-process analyzers")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
