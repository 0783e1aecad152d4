package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"critique/internal/cloudnl"
	"critique/internal/config"
	"critique/internal/coref"
	"critique/internal/polarity"
	"critique/internal/segment"
	"critique/internal/tagging"
)

// FromConfig builds Models with the backends cfg selects. The returned
// closer releases remote clients and must be called when done.
func FromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Models, io.Closer, error) {
	if cfg == nil {
		return nil, nil, errors.New("pipeline: config is nil")
	}
	opts := Options{
		UnicodeForm:       cfg.Pipeline.UnicodeForm,
		MaxSentenceLength: cfg.Pipeline.MaxSentenceLength,
		Logger:            logger,
	}
	switch cfg.Pipeline.Detector {
	case "rule":
		opts.Detector = segment.RuleDetector{}
	default:
		opts.Detector = segment.ProseDetector{}
	}

	var closer io.Closer = nopCloser{}
	var client *cloudnl.Client
	if cfg.UsesCloudNL() {
		c, err := cloudnl.NewClient(ctx, cfg.CloudNL.Credentials, cfg.CloudNL.RequestsPerSecond)
		if err != nil {
			return nil, nil, fmt.Errorf("cloud natural language: %w", err)
		}
		client, closer = c, c
	}

	switch cfg.Tagger.Backend {
	case "cloudnl":
		t, err := cloudnl.NewTagger(client, tagging.ProseTagger{})
		if err != nil {
			closer.Close()
			return nil, nil, err
		}
		opts.Tagger = t
	default:
		opts.Tagger = tagging.ProseTagger{}
	}

	if cfg.Coref.Backend == "http" {
		r, err := coref.NewHTTPResolver(cfg.Coref.URL,
			coref.WithTimeout(cfg.CorefTimeout()),
			coref.WithRateLimit(cfg.Coref.RequestsPerSecond),
		)
		if err != nil {
			closer.Close()
			return nil, nil, fmt.Errorf("coreference resolver: %w", err)
		}
		opts.Coref = r
	}

	switch cfg.Sentiment.Backend {
	case "cloudnl":
		opts.Scorer = cloudnl.NewScorer(client)
	default:
		fallback := polarity.NewLexiconScorer()
		if cfg.Sentiment.LexiconPath != "" {
			s, err := polarity.LoadLexiconScorer(cfg.Sentiment.LexiconPath)
			if err != nil {
				closer.Close()
				return nil, nil, err
			}
			fallback = s
		}
		opts.Scorer = polarity.NewVaderScorer(fallback)
	}
	return NewModels(opts), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
