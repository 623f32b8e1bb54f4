package observability

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "brandsight", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "brandsight", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	AdapterRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "brandsight", Name: "adapter_requests_total", Help: "Analyzer capability calls."},
		[]string{"adapter", "op", "status"},
	)
	AdapterLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "brandsight", Name: "adapter_request_duration_seconds",
			Help:    "Analyzer capability call duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"adapter", "op"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "brandsight", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	ReviewsAnalyzed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "brandsight", Name: "reviews_analyzed_total", Help: "Reviews processed by verdict."},
		[]string{"verdict"}, // verdict: fake|genuine
	)
	FakeReasons = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "brandsight", Name: "fake_review_reasons_total", Help: "Fake verdicts by reason code."},
		[]string{"reason"},
	)
)

func Serve() {
	addr := os.Getenv("METRICS_ADDR")
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, AdapterRequests, AdapterLatency, CacheEvents, ReviewsAnalyzed, FakeReasons)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveAdapter(adapter, op string, err error, dur time.Duration) {
	AdapterRequests.WithLabelValues(adapter, op, LabelErr(err)).Inc()
	AdapterLatency.WithLabelValues(adapter, op).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveReview(verdict string) { // verdict: fake|genuine
	ReviewsAnalyzed.WithLabelValues(verdict).Inc()
}

func ObserveFakeReason(reason string) {
	FakeReasons.WithLabelValues(reason).Inc()
}

func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("%T", err)
}
