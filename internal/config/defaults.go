package config

import "time"

const (
	defaultConfigPath        = "~/.config/critique/config.toml"
	defaultDataDir           = "~/.local/share/critique"
	defaultLogDir            = "~/.local/share/critique/logs"
	defaultDatabaseName      = "critique.db"
	defaultLockName          = "preprocess.lock"
	defaultUnicodeForm       = "NFKC"
	defaultMaxSentenceLength = 1000
	minMaxSentenceLength     = 100
	defaultDetector          = "prose"
	defaultTaggerBackend     = "prose"
	defaultCorefBackend      = "none"
	defaultCorefTimeout      = 30
	defaultSentimentBackend  = "lexicon"
	defaultCloudNLRate       = 5
	defaultBatchWorkers      = 4
	defaultBatchChunkSize    = 500
	defaultBatchSchedule     = "@every 10m"
	defaultAPIBind           = "127.0.0.1:7488"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogRetentionDays  = 30
)

// Default returns a Config populated with repository defaults. Database and
// lock paths are derived from the data directory during normalization.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Pipeline: Pipeline{
			UnicodeForm:       defaultUnicodeForm,
			MaxSentenceLength: defaultMaxSentenceLength,
			Detector:          defaultDetector,
		},
		Tagger:    Tagger{Backend: defaultTaggerBackend},
		Coref:     Coref{Backend: defaultCorefBackend, TimeoutSeconds: defaultCorefTimeout},
		Sentiment: Sentiment{Backend: defaultSentimentBackend},
		CloudNL:   CloudNL{RequestsPerSecond: defaultCloudNLRate},
		Batch: Batch{
			Workers:   defaultBatchWorkers,
			ChunkSize: defaultBatchChunkSize,
			Schedule:  defaultBatchSchedule,
		},
		API: API{Bind: defaultAPIBind},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

// CorefTimeout returns the coreference request timeout.
func (c *Config) CorefTimeout() time.Duration {
	return time.Duration(c.Coref.TimeoutSeconds) * time.Second
}
