package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"critique/internal/logging"
	"critique/internal/polarity"
	"critique/internal/reconstruct"
	"critique/internal/textnorm"
)

// Sentence is one final sentence of a review.
type Sentence struct {
	Text     string         `json:"text"`
	Polarity polarity.Score `json:"polarity"`
	Words    []Word         `json:"words,omitempty"`
}

// Result is the outcome of processing one review.
type Result struct {
	NormalizedText string     `json:"normalized_text"`
	Sentences      []Sentence `json:"sentences"`
	Warnings       []Warning  `json:"warnings,omitempty"`
}

type warnings struct {
	seen map[string]struct{}
	list []Warning
}

// add records a warning once per distinct message.
func (w *warnings) add(kind, message string) bool {
	if w.seen == nil {
		w.seen = make(map[string]struct{})
	}
	if _, ok := w.seen[message]; ok {
		return false
	}
	w.seen[message] = struct{}{}
	w.list = append(w.list, Warning{Kind: kind, Message: message})
	return true
}

// Normalize runs the text normaliser with the configured unicode form.
func (m *Models) Normalize(text string) string {
	return textnorm.Normalize(text, m.unicodeForm)
}

// Process normalises text and analyses it against work.
func (m *Models) Process(ctx context.Context, text string, work Work) (Result, error) {
	return m.Analyze(ctx, m.Normalize(text), work)
}

// Analyze runs every stage after normalisation. normalized must already
// have gone through Normalize; batch callers persist it first.
func (m *Models) Analyze(ctx context.Context, normalized string, work Work) (Result, error) {
	res := Result{NormalizedText: normalized}
	if strings.TrimSpace(normalized) == "" {
		return res, nil
	}
	logger := logging.WithContext(ctx, m.logger)
	var warns warnings

	if work.ID != "" && !work.Known() {
		if warns.add(WarnMissingMetadata, fmt.Sprintf("no catalog metadata for work %s", work.ID)) {
			logging.WarnWithContext(logger, "work has no metadata", "missing_metadata",
				logging.String(logging.FieldWorkID, work.ID),
				logging.String(logging.FieldErrorHint, "import the work into the catalog"),
				logging.String(logging.FieldImpact, "titles and names are left unreplaced"),
			)
		}
	}
	if !m.HasTagger() {
		m.modelUnavailable(logger, &warns, "entity tagger", "tokens come from whitespace splitting")
	}

	text := normalized
	if work.Known() {
		text = work.replacer.Replace(text)
		logger.Debug("metadata replaced", logging.String(logging.FieldStage, "anonymize"), logging.Int("entries", len(work.Entries)))
	}

	split, err := m.segmenter.Segment(text)
	if err != nil {
		return res, stageError("segment", err)
	}
	logger.Debug("segmented", logging.String(logging.FieldStage, "segment"), logging.Int("sentences", len(split)))

	var sentences []string
	if work.Known() {
		tokens, err := m.integrator.Resolve(ctx, split, work.Entries)
		if err != nil {
			return res, stageError("integrate", err)
		}
		for _, t := range tokens {
			if s, ok := reconstruct.TokensToSentence(t); ok {
				sentences = append(sentences, s)
			}
		}
	} else {
		for _, s := range split {
			if s = strings.TrimSpace(s); s != "" {
				sentences = append(sentences, s)
			}
		}
	}

	for i := range sentences {
		sentences[i] = TagRating(sentences[i])
	}
	docs, err := m.integrator.Tag(ctx, sentences)
	if err != nil {
		return res, stageError("tag", err)
	}

	for i, s := range sentences {
		out := Sentence{Text: s, Words: Words(docs[i].Tokens)}
		score, err := m.Polarity(ctx, s)
		switch {
		case errors.Is(err, ErrModelUnavailable):
			m.modelUnavailable(logger, &warns, "polarity scorer", "sentences get zero scores")
		case err != nil:
			return res, err
		default:
			out.Polarity = score
		}
		res.Sentences = append(res.Sentences, out)
	}
	res.Warnings = warns.list
	return res, nil
}

func (m *Models) modelUnavailable(logger *slog.Logger, warns *warnings, model, impact string) {
	if !warns.add(WarnModelUnavailable, model+" not configured") {
		return
	}
	logging.WarnWithContext(logger, "model unavailable", "model_unavailable",
		logging.String("model", model),
		logging.String(logging.FieldErrorHint, "configure the "+model+" in the config file"),
		logging.String(logging.FieldImpact, impact),
	)
}
