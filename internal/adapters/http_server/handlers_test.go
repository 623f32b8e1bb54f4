package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "github.com/rakshitsawarn/brandsight/internal/adapters/http_server"
	"github.com/rakshitsawarn/brandsight/internal/adapters/localnlp"
	"github.com/rakshitsawarn/brandsight/internal/app"
	"github.com/rakshitsawarn/brandsight/internal/domain"
)

func testMux(t *testing.T) http.Handler {
	t.Helper()
	cl := localnlp.NewSentiment()
	det := app.NewDetector(app.DefaultLexicon(), cl, localnlp.NewLinguist(), time.Second)
	an := app.NewAnalyzer(cl, localnlp.NewKeywords(), app.BandedPolicy{}, time.Second)
	svc := app.NewAnalysisService(det, an, nil, nil, 4, 0)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Svc: svc})
	return srv.Mux()
}

func TestRoot(t *testing.T) {
	rr := httptest.NewRecorder()
	testMux(t).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] != "Brand Analyzer NLP API is running!" {
		t.Fatalf("unexpected message: %q", body["message"])
	}
}

func TestHealthz(t *testing.T) {
	rr := httptest.NewRecorder()
	testMux(t).ServeHTTP(rr, httptest.NewRequest("GET", "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestAnalyze_MissingFields(t *testing.T) {
	mux := testMux(t)
	cases := []string{
		`{"uid":"b1","description":"An app."}`,               // no reviews
		`{"uid":"b1","reviews":[]}`,                          // no description
		`{"uid":"b1","reviews":null,"description":"An app"}`, // reviews null
	}
	for _, payload := range cases {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest("POST", "/analyze", strings.NewReader(payload)))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", payload, rr.Code)
		}
		var body map[string]string
		_ = json.NewDecoder(rr.Body).Decode(&body)
		if body["error"] != "Missing 'reviews' or 'description' field" {
			t.Fatalf("%s: unexpected error %q", payload, body["error"])
		}
	}
}

func TestAnalyze_InvalidJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	testMux(t).ServeHTTP(rr, httptest.NewRequest("POST", "/analyze", strings.NewReader("{not json")))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAnalyze_OK(t *testing.T) {
	payload := `{
		"uid": "brand-1",
		"title": "Notely",
		"description": "A note taking app. It syncs.",
		"reviews": [
			{"user": "marta", "review": "I have used this for a month and the sync feature works reliably for me."},
			{"user": "x", "review": "bad"}
		]
	}`
	rr := httptest.NewRecorder()
	testMux(t).ServeHTTP(rr, httptest.NewRequest("POST", "/analyze", strings.NewReader(payload)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var report domain.Report
	if err := json.NewDecoder(rr.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !report.Success || report.UID != "brand-1" {
		t.Fatalf("unexpected report header: %+v", report)
	}
	if report.Description != "A note taking app." {
		t.Fatalf("expected first sentence, got %q", report.Description)
	}
	if report.TotalReviewsAnalyzed != 2 || report.FakeReviewsDetected != 1 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if report.AnalyzedReviews[1].FakeReason != domain.ReasonTooShort {
		t.Fatalf("expected TOO_SHORT, got %+v", report.AnalyzedReviews[1])
	}
}

func TestListReports_DisabledWithoutRepo(t *testing.T) {
	rr := httptest.NewRecorder()
	testMux(t).ServeHTTP(rr, httptest.NewRequest("GET", "/v1/reports/brand-1", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a repository, got %d", rr.Code)
	}
}

type stubRepo struct {
	reports []domain.StoredReport
	lastUID string
	lastLim int
}

func (s *stubRepo) SaveReport(ctx context.Context, r domain.StoredReport) error {
	s.reports = append(s.reports, r)
	return nil
}

func (s *stubRepo) ListReports(ctx context.Context, uid string, limit int) ([]domain.StoredReport, error) {
	s.lastUID, s.lastLim = uid, limit
	return s.reports, nil
}

func repoMux(t *testing.T, repo domain.ReportRepository) http.Handler {
	t.Helper()
	cl := localnlp.NewSentiment()
	det := app.NewDetector(app.DefaultLexicon(), cl, nil, time.Second)
	an := app.NewAnalyzer(cl, localnlp.NewKeywords(), app.BandedPolicy{}, time.Second)
	svc := app.NewAnalysisService(det, an, nil, repo, 4, 0)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Svc: svc, Reports: repo})
	return srv.Mux()
}

func TestListReports_LimitValidation(t *testing.T) {
	repo := &stubRepo{}
	mux := repoMux(t, repo)

	for _, q := range []string{"?limit=999", "?limit=0", "?limit=-3", "?limit=abc"} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/reports/brand-1"+q, nil))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, rr.Code)
		}
	}
}

func TestListReports_ReturnsRows(t *testing.T) {
	repo := &stubRepo{reports: []domain.StoredReport{{
		ID:        "11111111-2222-3333-4444-555555555555",
		UID:       "brand-1",
		Title:     "Notely",
		Payload:   []byte(`{"success":true,"uid":"brand-1"}`),
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}}}
	mux := repoMux(t, repo)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/reports/brand-1?limit=10", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	if repo.lastUID != "brand-1" || repo.lastLim != 10 {
		t.Fatalf("repo called with %q/%d", repo.lastUID, repo.lastLim)
	}

	var body struct {
		UID     string `json:"uid"`
		Reports []struct {
			ID        string          `json:"id"`
			Title     string          `json:"title"`
			CreatedAt string          `json:"created_at"`
			Report    json.RawMessage `json:"report"`
		} `json:"reports"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UID != "brand-1" || len(body.Reports) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
	row := body.Reports[0]
	if row.Title != "Notely" || row.CreatedAt != "2026-08-01T12:00:00Z" {
		t.Fatalf("unexpected row: %+v", row)
	}
	var inner map[string]any
	if err := json.Unmarshal(row.Report, &inner); err != nil {
		t.Fatalf("stored report not passed through raw: %v", err)
	}
}
