package polarity

import (
	"context"

	"github.com/jonreiter/govader"
)

// VaderScorer scores sentences with the full VADER lexicon. Sentences that
// VADER finds no sentiment in are handed to a fallback, usually a
// LexiconScorer whose stemmed lookup catches inflected forms VADER misses.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
	fallback Scorer
}

// NewVaderScorer loads the VADER lexicon. fallback may be nil.
func NewVaderScorer(fallback Scorer) *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer(), fallback: fallback}
}

// Score implements Scorer.
func (v *VaderScorer) Score(ctx context.Context, sentence string) (Score, error) {
	if err := ctx.Err(); err != nil {
		return Score{}, err
	}
	s := v.analyzer.PolarityScores(sentence)
	if s.Positive == 0 && s.Negative == 0 && v.fallback != nil {
		return v.fallback.Score(ctx, sentence)
	}
	return Score{
		Negative: round(s.Negative, 3),
		Neutral:  round(s.Neutral, 3),
		Positive: round(s.Positive, 3),
		Compound: round(s.Compound, 4),
	}, nil
}
