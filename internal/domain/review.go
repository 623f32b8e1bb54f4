package domain

// ReviewRecord is one raw review as received in an analyze request.
// Immutable once decoded.
type ReviewRecord struct {
	Text      string   `json:"review"`
	User      string   `json:"user"`
	Rating    *float64 `json:"rating,omitempty"`
	Timestamp *string  `json:"timestamp,omitempty"`
}

// ReasonCode names the heuristic that flagged a review as fake.
type ReasonCode string

const (
	ReasonTooShort           ReasonCode = "TOO_SHORT"
	ReasonRatingMismatch     ReasonCode = "RATING_SENTIMENT_MISMATCH"
	ReasonSuperlatives       ReasonCode = "EXCESSIVE_SUPERLATIVES"
	ReasonWordRepetition     ReasonCode = "WORD_REPETITION"
	ReasonPhraseRepetition   ReasonCode = "PHRASE_REPETITION"
	ReasonGenericLanguage    ReasonCode = "GENERIC_LANGUAGE"
	ReasonUnnaturalFormat    ReasonCode = "UNNATURAL_FORMATTING"
	ReasonPromotional        ReasonCode = "PROMOTIONAL_CONTENT"
	ReasonNoSentences        ReasonCode = "NO_SENTENCE_STRUCTURE"
	ReasonOddSentenceLength  ReasonCode = "UNUSUAL_SENTENCE_LENGTH"
	ReasonNoPronouns         ReasonCode = "NO_PRONOUNS"
	ReasonVaguePositive      ReasonCode = "VAGUE_POSITIVE"
	ReasonSuspiciousUsername ReasonCode = "SUSPICIOUS_USERNAME"
)

// FakenessVerdict is the detector's output for one review.
// Reason is empty when IsFake is false.
type FakenessVerdict struct {
	IsFake bool
	Reason ReasonCode
}

type SentimentLabel string

const (
	Positive SentimentLabel = "POSITIVE"
	Negative SentimentLabel = "NEGATIVE"
	Neutral  SentimentLabel = "NEUTRAL"
	Unknown  SentimentLabel = "UNKNOWN" // reported for fake reviews
)

// SentimentVerdict is a bucketed sentiment with the classifier's confidence.
type SentimentVerdict struct {
	Label      SentimentLabel
	Confidence float64 // [0,1]
}

// AnalyzedReview is the per-review result: either a fakeness verdict or a
// sentiment verdict plus keywords, with the input fields echoed back.
type AnalyzedReview struct {
	User       string         `json:"user"`
	Rating     *float64       `json:"rating"`
	Text       string         `json:"review"`
	Sentiment  SentimentLabel `json:"sentiment"`
	Confidence float64        `json:"confidence"`
	Keywords   []string       `json:"keywords"`
	IsFake     bool           `json:"is_fake"`
	FakeReason ReasonCode     `json:"fake_reason,omitempty"`
}

// AggregateStats is the brand-level reduction over all genuine reviews in
// one request. Recomputed per request, never persisted as-is.
type AggregateStats struct {
	NegativeCount int
	NeutralCount  int
	PositiveCount int
	NegativePct   float64
	NeutralPct    float64
	PositivePct   float64
	Keywords      map[string]struct{}
}

// Genuine returns the number of non-fake reviews behind the stats.
func (s AggregateStats) Genuine() int {
	return s.NegativeCount + s.NeutralCount + s.PositiveCount
}
