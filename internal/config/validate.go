package config

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateBackends(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePipeline() error {
	switch c.Pipeline.UnicodeForm {
	case "NFC", "NFD", "NFKC", "NFKD":
	default:
		return fmt.Errorf("pipeline.unicode_form must be one of NFC, NFD, NFKC, NFKD (got %q)", c.Pipeline.UnicodeForm)
	}
	if c.Pipeline.MaxSentenceLength < minMaxSentenceLength {
		return fmt.Errorf("pipeline.max_sentence_length must be at least %d", minMaxSentenceLength)
	}
	switch c.Pipeline.Detector {
	case "prose", "rule":
	default:
		return fmt.Errorf("pipeline.detector must be prose or rule (got %q)", c.Pipeline.Detector)
	}
	return nil
}

func (c *Config) validateBackends() error {
	switch c.Tagger.Backend {
	case "prose", "cloudnl":
	default:
		return fmt.Errorf("tagger.backend must be prose or cloudnl (got %q)", c.Tagger.Backend)
	}
	switch c.Coref.Backend {
	case "none":
	case "http":
		if c.Coref.URL == "" {
			return errors.New("coref.url must be set when coref.backend is http (or set CRITIQUE_COREF_URL)")
		}
		if c.Coref.RequestsPerSecond < 0 {
			return errors.New("coref.requests_per_second must be zero or positive")
		}
	default:
		return fmt.Errorf("coref.backend must be none or http (got %q)", c.Coref.Backend)
	}
	switch c.Sentiment.Backend {
	case "lexicon", "cloudnl":
	default:
		return fmt.Errorf("sentiment.backend must be lexicon or cloudnl (got %q)", c.Sentiment.Backend)
	}
	if c.UsesCloudNL() && c.CloudNL.Credentials == "" {
		return errors.New("cloudnl.credentials must be set when a cloudnl backend is selected (or set NATURAL_LANGUAGE_CREDENTIALS)")
	}
	if c.CloudNL.RequestsPerSecond < 0 {
		return errors.New("cloudnl.requests_per_second must be zero or positive")
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Workers < 1 {
		return errors.New("batch.workers must be at least 1")
	}
	if c.Batch.ChunkSize < 1 {
		return errors.New("batch.chunk_size must be at least 1")
	}
	if _, err := cron.ParseStandard(c.Batch.Schedule); err != nil {
		return fmt.Errorf("batch.schedule must be a cron spec: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error (got %q)", c.Logging.Level)
	}
	return nil
}
