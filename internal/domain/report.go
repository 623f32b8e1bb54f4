package domain

import "time"

// AnalyzeRequest is the full /analyze payload.
type AnalyzeRequest struct {
	UID          string         `json:"uid"`
	Title        string         `json:"title"`
	Icon         string         `json:"icon"`
	Description  string         `json:"description"`
	BrandURLType string         `json:"brandURLType"`
	Reviews      []ReviewRecord `json:"reviews"`
}

// Report is the assembled analysis result for one request.
type Report struct {
	Success               bool               `json:"success"`
	UID                   string             `json:"uid"`
	Title                 string             `json:"title"`
	Icon                  string             `json:"icon"`
	Description           string             `json:"description"`
	SentimentDistribution Distribution       `json:"sentiment_distribution"`
	Keywords              []string           `json:"keywords"`
	Suggestions           []string           `json:"suggestions"`
	AnalyzedReviews       []AnalyzedReview   `json:"analyzed_reviews"`
	FakeReviewsDetected   int                `json:"fake_reviews_detected"`
	FakeReviewReasons     map[ReasonCode]int `json:"fake_review_reasons"`
	TotalReviewsAnalyzed  int                `json:"total_reviews_analyzed"`
	GenuineReviewsCount   int                `json:"genuine_reviews_count"`
}

// Distribution is the percentage split over genuine reviews.
type Distribution struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
}

// StoredReport is one persisted analysis run.
type StoredReport struct {
	ID        string    `json:"id"`
	UID       string    `json:"uid"`
	Title     string    `json:"title"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}
