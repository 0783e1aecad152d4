package testsupport

import (
	"path/filepath"
	"testing"

	"critique/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The deterministic rule detector is selected so tests never load the
// prose model for segmentation.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.Database = filepath.Join(base, "data", "critique.db")
	cfgVal.Paths.LockPath = filepath.Join(base, "data", "preprocess.lock")
	cfgVal.Pipeline.Detector = "rule"
	cfgVal.Batch.Workers = 2
	cfgVal.API.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithWorkers overrides the batch worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Batch.Workers = n
	}
}

// WithAPIToken sets the bearer token required by the HTTP API.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.Token = token
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
