package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
	Database string `toml:"database"`
	Denylist string `toml:"denylist"`
	LockPath string `toml:"lock_path"`
}

// Pipeline contains text processing settings.
type Pipeline struct {
	UnicodeForm       string `toml:"unicode_form"`
	MaxSentenceLength int    `toml:"max_sentence_length"`
	IncludeFirstNames bool   `toml:"include_first_names"`
	Detector          string `toml:"detector"`
}

// Tagger selects the entity and part-of-speech tagger.
type Tagger struct {
	Backend string `toml:"backend"`
}

// Coref configures the coreference resolver.
type Coref struct {
	Backend           string  `toml:"backend"`
	URL               string  `toml:"url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Sentiment selects the polarity scorer.
type Sentiment struct {
	Backend     string `toml:"backend"`
	LexiconPath string `toml:"lexicon_path"`
}

// CloudNL contains Google Cloud Natural Language credentials.
type CloudNL struct {
	Credentials       string  `toml:"credentials"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Batch configures scheduled and manual preprocessing runs.
type Batch struct {
	Workers   int    `toml:"workers"`
	ChunkSize int    `toml:"chunk_size"`
	Schedule  string `toml:"schedule"`
}

// API configures the HTTP server.
type API struct {
	Bind  string `toml:"bind"`
	Token string `toml:"token"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for critique.
//
// Configuration sections by subsystem:
//   - Paths: database, data, log and lock locations
//   - Pipeline: unicode form, segmentation limits, metadata options
//   - Tagger, Coref, Sentiment: model backends
//   - CloudNL: credentials shared by cloud-backed models
//   - Batch: worker count, chunk size and daemon schedule
//   - API: HTTP bind address
//   - Logging: log format, level, and retention
type Config struct {
	Paths     Paths     `toml:"paths"`
	Pipeline  Pipeline  `toml:"pipeline"`
	Tagger    Tagger    `toml:"tagger"`
	Coref     Coref     `toml:"coref"`
	Sentiment Sentiment `toml:"sentiment"`
	CloudNL   CloudNL   `toml:"cloudnl"`
	Batch     Batch     `toml:"batch"`
	API       API       `toml:"api"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and environment fallbacks applied.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	loadDotEnv(resolvedPath)

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadDotEnv reads .env next to the config file, then from the working
// directory. Variables already set win and missing files are ignored.
func loadDotEnv(configPath string) {
	candidates := []string{".env"}
	if configPath != "" {
		candidates = append([]string{filepath.Join(filepath.Dir(configPath), ".env")}, candidates...)
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			_ = godotenv.Load(p)
		}
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("critique.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories and the parent of
// the database file.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.LogDir, filepath.Dir(c.Paths.Database)}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string { return sampleConfig }
