package coref

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultTimeout = 30 * time.Second

// HTTPResolver calls a coreference service that accepts
// {"sentences": [[token, ...], ...]} and answers with
// clusters_token_offsets and clusters_token_text.
type HTTPResolver struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ Resolver = (*HTTPResolver)(nil)

// Option configures an HTTPResolver.
type Option func(*HTTPResolver)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *HTTPResolver) {
		if client != nil {
			r.httpClient = client
		}
	}
}

// WithRateLimit caps requests per second. Zero or negative disables the
// limit.
func WithRateLimit(perSecond float64) Option {
	return func(r *HTTPResolver) {
		if perSecond > 0 {
			r.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		} else {
			r.limiter = nil
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(r *HTTPResolver) {
		if timeout > 0 {
			r.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewHTTPResolver creates a resolver for endpoint.
func NewHTTPResolver(endpoint string, opts ...Option) (*HTTPResolver, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("coref endpoint required")
	}
	r := &HTTPResolver{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type resolveRequest struct {
	Sentences [][]string `json:"sentences"`
}

type resolveResponse struct {
	Offsets [][][2]int `json:"clusters_token_offsets"`
	Texts   [][]string `json:"clusters_token_text"`
}

// Resolve implements Resolver.
func (r *HTTPResolver) Resolve(ctx context.Context, sentences [][]string) ([]Cluster, error) {
	if len(sentences) == 0 {
		return nil, nil
	}
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("coref rate limit: %w", err)
		}
	}
	body, err := json.Marshal(resolveRequest{Sentences: sentences})
	if err != nil {
		return nil, fmt.Errorf("encode coref request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("execute coref request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("coref service returned %d (latency=%v): %s", resp.StatusCode, latency, strings.TrimSpace(string(snippet)))
	}

	var payload resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode coref response: %w", err)
	}
	if len(payload.Offsets) != len(payload.Texts) {
		return nil, fmt.Errorf("coref response has %d offset clusters but %d text clusters", len(payload.Offsets), len(payload.Texts))
	}
	clusters := make([]Cluster, 0, len(payload.Offsets))
	for i, offsets := range payload.Offsets {
		texts := payload.Texts[i]
		if len(texts) != len(offsets) {
			return nil, fmt.Errorf("coref cluster %d has %d offsets but %d texts", i, len(offsets), len(texts))
		}
		c := Cluster{Spans: make([]Span, len(offsets))}
		for j, off := range offsets {
			c.Spans[j] = Span{Start: off[0], End: off[1], Text: texts[j]}
		}
		clusters = append(clusters, c)
	}
	return clusters, nil
}
