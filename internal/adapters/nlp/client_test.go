package nlp_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rakshitsawarn/brandsight/internal/adapters/nlp"
	"github.com/rakshitsawarn/brandsight/internal/domain"
)

func TestClient_Classify_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode(map[string]any{"label": "negative", "score": 0.91})
		}
	}))
	defer ts.Close()

	cl, err := nlp.New(ts.URL, "test-key", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := cl.Classify(ctx, "the battery died after a week")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Label != domain.Negative || got.Confidence != 0.91 {
		t.Fatalf("unexpected verdict: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_Classify_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, err := nlp.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = cl.Classify(ctx, "text")
	if !errors.Is(err, nlp.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClient_Classify_Unauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
	}))
	defer ts.Close()

	cl, err := nlp.New(ts.URL, "bad-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err = cl.Classify(context.Background(), "text")
	if !errors.Is(err, nlp.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_Extract_SendsTopN(t *testing.T) {
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/keywords" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{"keywords": []string{"battery", "screen"}})
	}))
	defer ts.Close()

	cl, err := nlp.New(ts.URL, "", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	kws, err := cl.Extract(context.Background(), "the battery and the screen", 5)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(kws) != 2 || kws[0] != "battery" {
		t.Fatalf("unexpected keywords: %v", kws)
	}
	if n, ok := gotBody["top_n"].(float64); !ok || int(n) != 5 {
		t.Fatalf("top_n not forwarded: %v", gotBody)
	}
}

func TestClient_Summarize(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/linguistics" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "k" {
			t.Errorf("missing api key header, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"sentences": 2, "tokens": 18, "pronouns": 3})
	}))
	defer ts.Close()

	cl, err := nlp.New(ts.URL, "k", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	sum, err := cl.Summarize(context.Background(), "I like it. It works.")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := domain.LinguisticSummary{Sentences: 2, Tokens: 18, Pronouns: 3}
	if sum != want {
		t.Fatalf("expected %+v, got %+v", want, sum)
	}
}

func TestNew_RequiresBase(t *testing.T) {
	if _, err := nlp.New("", "k", 10); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}
