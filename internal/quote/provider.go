package quote

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Provider supplies the reference text for a new race. Implementations must
// always return non-empty printable text; provisioning failures stay inside
// the provider and never reach room creation.
type Provider interface {
	Text(ctx context.Context) string
}

var defaultPool = []string{
	"The quick brown fox jumps over the lazy dog. Programming is thinking, not typing.",
	"To be, or not to be, that is the question: Whether 'tis nobler in the mind to suffer the slings and arrows of outrageous fortune.",
	"It was the best of times, it was the worst of times, it was the age of wisdom, it was the age of foolishness.",
	"All that we see or seem is but a dream within a dream.",
	"Success is not final, failure is not fatal: it is the courage to continue that counts.",
	"In the middle of difficulty lies opportunity.",
	"Do not go gentle into that good night, Old age should burn and rave at close of day.",
}

// PoolProvider picks uniformly from a curated set of texts.
type PoolProvider struct {
	pool []string
	rnd  *rand.Rand
}

// NewPoolProvider creates a provider over the given pool, or the built-in
// pool when none is given.
func NewPoolProvider(pool []string) *PoolProvider {
	if len(pool) == 0 {
		pool = defaultPool
	}
	return &PoolProvider{
		pool: pool,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *PoolProvider) Text(_ context.Context) string {
	return p.pool[p.rnd.Intn(len(p.pool))]
}

// HTTPProvider fetches a quote from an external API and falls back to the
// pool on any failure: network error, bad status, malformed body, empty text.
type HTTPProvider struct {
	url      string
	client   *http.Client
	fallback *PoolProvider
}

// NewHTTPProvider creates a provider that fetches from url, falling back to
// the built-in pool.
func NewHTTPProvider(url string) *HTTPProvider {
	return &HTTPProvider{
		url:      url,
		client:   &http.Client{Timeout: 3 * time.Second},
		fallback: NewPoolProvider(nil),
	}
}

type quoteResponse struct {
	Content string `json:"content"`
}

func (p *HTTPProvider) Text(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return p.fallback.Text(ctx)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", p.url).Msg("quote fetch failed, using pool")
		return p.fallback.Text(ctx)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("url", p.url).Msg("quote fetch failed, using pool")
		return p.fallback.Text(ctx)
	}

	var body quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Warn().Err(err).Str("url", p.url).Msg("malformed quote response, using pool")
		return p.fallback.Text(ctx)
	}

	text := strings.TrimSpace(body.Content)
	if text == "" {
		return p.fallback.Text(ctx)
	}
	return text
}
