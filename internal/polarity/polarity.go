package polarity

import (
	"context"
	"fmt"
	"math"
)

// Score is the polarity of one sentence. Negative, Neutral and Positive are
// proportions summing to roughly 1; Compound is the normalised total.
type Score struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
	Compound float64 `json:"compound"`
}

func (s Score) String() string {
	return fmt.Sprintf("neg=%.3f neu=%.3f pos=%.3f compound=%.4f", s.Negative, s.Neutral, s.Positive, s.Compound)
}

// Scorer estimates sentence polarity.
type Scorer interface {
	Score(ctx context.Context, sentence string) (Score, error)
}

// FromSigned maps a signed score in [-1, 1] onto the four components. Used by
// backends that only report a single document score.
func FromSigned(s float64) Score {
	s = math.Max(-1, math.Min(1, s))
	return Score{
		Negative: round(math.Max(-s, 0), 3),
		Neutral:  round(1-math.Abs(s), 3),
		Positive: round(math.Max(s, 0), 3),
		Compound: round(s, 4),
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
