package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	envDatabase    = "CRITIQUE_DATABASE"
	envCredentials = "NATURAL_LANGUAGE_CREDENTIALS"
	envCorefURL    = "CRITIQUE_COREF_URL"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePipeline()
	c.normalizeBackends()
	c.normalizeBatch()
	c.normalizeLogging()
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	c.API.Token = strings.TrimSpace(c.API.Token)
	return nil
}

func envFallback(value, key string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	if env, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(env)
	}
	return ""
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.Database = envFallback(c.Paths.Database, envDatabase)
	if c.Paths.Database == "" {
		c.Paths.Database = filepath.Join(c.Paths.DataDir, defaultDatabaseName)
	}
	if c.Paths.Database, err = expandPath(c.Paths.Database); err != nil {
		return fmt.Errorf("paths.database: %w", err)
	}
	if c.Paths.Denylist, err = expandPath(strings.TrimSpace(c.Paths.Denylist)); err != nil {
		return fmt.Errorf("paths.denylist: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockPath) == "" {
		c.Paths.LockPath = filepath.Join(c.Paths.DataDir, defaultLockName)
	}
	if c.Paths.LockPath, err = expandPath(c.Paths.LockPath); err != nil {
		return fmt.Errorf("paths.lock_path: %w", err)
	}
	if c.Sentiment.LexiconPath, err = expandPath(strings.TrimSpace(c.Sentiment.LexiconPath)); err != nil {
		return fmt.Errorf("sentiment.lexicon_path: %w", err)
	}
	return nil
}

func (c *Config) normalizePipeline() {
	c.Pipeline.UnicodeForm = strings.ToUpper(strings.TrimSpace(c.Pipeline.UnicodeForm))
	if c.Pipeline.UnicodeForm == "" {
		c.Pipeline.UnicodeForm = defaultUnicodeForm
	}
	if c.Pipeline.MaxSentenceLength == 0 {
		c.Pipeline.MaxSentenceLength = defaultMaxSentenceLength
	}
	c.Pipeline.Detector = strings.ToLower(strings.TrimSpace(c.Pipeline.Detector))
	if c.Pipeline.Detector == "" {
		c.Pipeline.Detector = defaultDetector
	}
}

func (c *Config) normalizeBackends() {
	c.Tagger.Backend = strings.ToLower(strings.TrimSpace(c.Tagger.Backend))
	if c.Tagger.Backend == "" {
		c.Tagger.Backend = defaultTaggerBackend
	}
	c.Coref.Backend = strings.ToLower(strings.TrimSpace(c.Coref.Backend))
	c.Coref.URL = envFallback(c.Coref.URL, envCorefURL)
	if c.Coref.Backend == "" {
		c.Coref.Backend = defaultCorefBackend
		if c.Coref.URL != "" {
			c.Coref.Backend = "http"
		}
	}
	if c.Coref.TimeoutSeconds <= 0 {
		c.Coref.TimeoutSeconds = defaultCorefTimeout
	}
	c.Sentiment.Backend = strings.ToLower(strings.TrimSpace(c.Sentiment.Backend))
	if c.Sentiment.Backend == "" {
		c.Sentiment.Backend = defaultSentimentBackend
	}
	c.CloudNL.Credentials = envFallback(c.CloudNL.Credentials, envCredentials)
}

func (c *Config) normalizeBatch() {
	c.Batch.Schedule = strings.TrimSpace(c.Batch.Schedule)
	if c.Batch.Schedule == "" {
		c.Batch.Schedule = defaultBatchSchedule
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

// UsesCloudNL reports whether any backend needs Cloud Natural Language.
func (c *Config) UsesCloudNL() bool {
	return c.Tagger.Backend == "cloudnl" || c.Sentiment.Backend == "cloudnl"
}
