// internal/adapters/nlp/client.go
package nlp

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rakshitsawarn/brandsight/internal/adapters/observability"
	"github.com/rakshitsawarn/brandsight/internal/domain"
)

// Client talks to a remote model server exposing sentiment, keyword and
// linguistic endpoints. One Client serves all three capabilities; it is
// safe for concurrent use.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Capability implementations ----

type sentimentResp struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *Client) Classify(ctx context.Context, text string) (domain.SentimentVerdict, error) {
	var out sentimentResp
	start := time.Now()
	err := c.post(ctx, c.base+"/sentiment", map[string]any{"text": text}, &out)
	observability.ObserveAdapter("nlp", "sentiment", err, time.Since(start))
	if err != nil {
		return domain.SentimentVerdict{}, err
	}
	return domain.SentimentVerdict{
		Label:      domain.SentimentLabel(strings.ToUpper(out.Label)),
		Confidence: out.Score,
	}, nil
}

type keywordsResp struct {
	Keywords []string `json:"keywords"`
}

func (c *Client) Extract(ctx context.Context, text string, topN int) ([]string, error) {
	var out keywordsResp
	start := time.Now()
	err := c.post(ctx, c.base+"/keywords", map[string]any{"text": text, "top_n": topN}, &out)
	observability.ObserveAdapter("nlp", "keywords", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return out.Keywords, nil
}

type linguisticsResp struct {
	Sentences int `json:"sentences"`
	Tokens    int `json:"tokens"`
	Pronouns  int `json:"pronouns"`
}

func (c *Client) Summarize(ctx context.Context, text string) (domain.LinguisticSummary, error) {
	var out linguisticsResp
	start := time.Now()
	err := c.post(ctx, c.base+"/linguistics", map[string]any{"text": text}, &out)
	observability.ObserveAdapter("nlp", "linguistics", err, time.Since(start))
	if err != nil {
		return domain.LinguisticSummary{}, err
	}
	return domain.LinguisticSummary{Sentences: out.Sentences, Tokens: out.Tokens, Pronouns: out.Pronouns}, nil
}

// ---- Internals ----

var (
	ErrUnavailable  = errors.New("nlp: capability unavailable")
	ErrUnauthorized = errors.New("nlp: unauthorized")
)

// post performs a JSON POST with client-side rate limiting, retries, and
// decode into out. Retries on 429 and transient 5xx, honoring Retry-After.
func (c *Client) post(ctx context.Context, url string, body any, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		// fresh request each attempt; the body reader is consumed on send
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		if c.key != "" {
			req.Header.Set("X-API-Key", c.key)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "brandsight/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			// the server does not implement this capability
			resp.Body.Close()
			return ErrUnavailable

		case http.StatusUnauthorized, http.StatusForbidden:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles each attempt (200ms, 400ms, 800ms...) with up to +50%
// concurrency-safe jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
