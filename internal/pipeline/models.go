package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"critique/internal/anonymize"
	"critique/internal/coref"
	"critique/internal/integrate"
	"critique/internal/logging"
	"critique/internal/metadata"
	"critique/internal/polarity"
	"critique/internal/segment"
	"critique/internal/tagging"
)

// Options selects the collaborators for NewModels. Tagger, Coref and
// Scorer may be nil; the pipeline then runs in degraded mode and reports a
// model_unavailable warning.
type Options struct {
	UnicodeForm       string
	MaxSentenceLength int
	Detector          segment.Detector
	Tagger            tagging.Tagger
	Coref             coref.Resolver
	Scorer            polarity.Scorer
	Logger            *slog.Logger
}

// Models is the immutable set of shared collaborators.
type Models struct {
	unicodeForm string
	segmenter   *segment.Segmenter
	integrator  *integrate.Integrator
	scorer      polarity.Scorer
	logger      *slog.Logger
}

// NewModels builds Models from opts.
func NewModels(opts Options) *Models {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Models{
		unicodeForm: strings.ToUpper(strings.TrimSpace(opts.UnicodeForm)),
		segmenter:   segment.New(opts.Detector, opts.MaxSentenceLength),
		integrator:  integrate.New(opts.Tagger, opts.Coref),
		scorer:      opts.Scorer,
		logger:      logging.NewComponentLogger(logger, "pipeline"),
	}
}

// HasTagger reports whether an entity tagger is configured.
func (m *Models) HasTagger() bool { return m.integrator.HasTagger() }

// HasScorer reports whether a polarity scorer is configured.
func (m *Models) HasScorer() bool { return m.scorer != nil }

// Polarity scores one sentence.
func (m *Models) Polarity(ctx context.Context, sentence string) (polarity.Score, error) {
	if m.scorer == nil {
		return polarity.Score{}, ErrModelUnavailable
	}
	score, err := m.scorer.Score(ctx, sentence)
	if err != nil {
		return polarity.Score{}, stageError("polarity", err)
	}
	return score, nil
}

// Work is the resolved metadata of one reviewed work with its compiled
// replacer. A zero Work means no metadata.
type Work struct {
	ID       string
	Entries  []metadata.Entry
	replacer *anonymize.Replacer
}

// NewWork compiles entries for id.
func NewWork(id string, entries []metadata.Entry) Work {
	w := Work{ID: id, Entries: entries}
	if len(entries) > 0 {
		w.replacer = anonymize.NewReplacer(entries)
	}
	return w
}

// Known reports whether the work has any metadata entries.
func (w Work) Known() bool { return len(w.Entries) > 0 }

// ResolveWork loads the entries for workID once so many reviews of the same
// work share them. An unknown work yields a Work without entries.
func ResolveWork(ctx context.Context, resolver *metadata.Resolver, workID string, opts metadata.Options) (Work, error) {
	entries, err := resolver.Resolve(ctx, workID, opts)
	if err != nil {
		return Work{ID: workID}, fmt.Errorf("resolve metadata: %w", err)
	}
	return NewWork(workID, entries), nil
}
