package cloudnl

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	language "cloud.google.com/go/language/apiv2"
	"cloud.google.com/go/language/apiv2/languagepb"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// API is the subset of the Natural Language service the adapters use.
type API interface {
	AnalyzeEntities(ctx context.Context, text string) (*languagepb.AnalyzeEntitiesResponse, error)
	AnalyzeSentiment(ctx context.Context, text string) (*languagepb.AnalyzeSentimentResponse, error)
}

// Client is a rate-limited API backed by the Cloud client library.
type Client struct {
	lc      *language.Client
	limiter *rate.Limiter
}

var _ API = (*Client)(nil)

// NewClient connects with credentials, which is either a path to a service
// account JSON file or the base64-encoded JSON itself. requestsPerSecond <= 0
// disables rate limiting.
func NewClient(ctx context.Context, credentials string, requestsPerSecond float64) (*Client, error) {
	opt, err := credentialOption(credentials)
	if err != nil {
		return nil, err
	}
	lc, err := language.NewClient(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("create language client: %w", err)
	}
	c := &Client{lc: lc}
	if requestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return c, nil
}

func credentialOption(credentials string) (option.ClientOption, error) {
	credentials = strings.TrimSpace(credentials)
	if credentials == "" {
		return nil, errors.New("cloudnl credentials required")
	}
	if info, err := os.Stat(credentials); err == nil && !info.IsDir() {
		return option.WithCredentialsFile(credentials), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(credentials)
	if err != nil {
		return nil, fmt.Errorf("decode cloudnl credentials: %w", err)
	}
	return option.WithCredentialsJSON(decoded), nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.lc == nil {
		return nil
	}
	return c.lc.Close()
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

func document(text string) *languagepb.Document {
	return &languagepb.Document{
		Source: &languagepb.Document_Content{Content: text},
		Type:   languagepb.Document_PLAIN_TEXT,
	}
}

// AnalyzeEntities implements API with UTF-8 byte offsets.
func (c *Client) AnalyzeEntities(ctx context.Context, text string) (*languagepb.AnalyzeEntitiesResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.lc.AnalyzeEntities(ctx, &languagepb.AnalyzeEntitiesRequest{
		Document:     document(text),
		EncodingType: languagepb.EncodingType_UTF8,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze entities: %w", err)
	}
	return resp, nil
}

// AnalyzeSentiment implements API.
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) (*languagepb.AnalyzeSentimentResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	resp, err := c.lc.AnalyzeSentiment(ctx, &languagepb.AnalyzeSentimentRequest{
		Document:     document(text),
		EncodingType: languagepb.EncodingType_UTF8,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze sentiment: %w", err)
	}
	return resp, nil
}
