package polarity

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

//go:embed lexicon.txt
var defaultLexicon string

const (
	boostIncr     = 0.293
	boostDecr     = -0.293
	capsIncr      = 0.733
	negScalar     = -0.74
	butBefore     = 0.5
	butAfter      = 1.5
	exclaimIncr   = 0.292
	maxExclaims   = 4
	questionIncr  = 0.18
	questionLimit = 0.96
	alpha         = 15
)

var boosters = map[string]float64{
	"absolutely": boostIncr, "amazingly": boostIncr, "completely": boostIncr,
	"considerably": boostIncr, "deeply": boostIncr, "enormously": boostIncr,
	"entirely": boostIncr, "especially": boostIncr, "exceptionally": boostIncr,
	"extremely": boostIncr, "highly": boostIncr, "hugely": boostIncr,
	"incredibly": boostIncr, "insanely": boostIncr, "intensely": boostIncr,
	"most": boostIncr, "really": boostIncr, "so": boostIncr,
	"thoroughly": boostIncr, "totally": boostIncr, "truly": boostIncr,
	"utterly": boostIncr, "very": boostIncr,
	"almost": boostDecr, "barely": boostDecr, "hardly": boostDecr,
	"kinda": boostDecr, "less": boostDecr, "little": boostDecr,
	"marginally": boostDecr, "occasionally": boostDecr, "partly": boostDecr,
	"scarcely": boostDecr, "slightly": boostDecr, "somewhat": boostDecr,
	"sorta": boostDecr,
}

var negations = map[string]struct{}{
	"aint": {}, "cannot": {}, "cant": {}, "couldnt": {}, "darent": {},
	"didnt": {}, "doesnt": {}, "dont": {}, "hadnt": {}, "hasnt": {},
	"havent": {}, "isnt": {}, "neither": {}, "never": {}, "no": {},
	"nobody": {}, "none": {}, "nope": {}, "nor": {}, "not": {},
	"nothing": {}, "nowhere": {}, "shouldnt": {}, "wasnt": {},
	"werent": {}, "without": {}, "wont": {}, "wouldnt": {},
}

// LexiconScorer scores sentences against a word valence lexicon.
type LexiconScorer struct {
	lexicon map[string]float64
}

// NewLexiconScorer returns a scorer over the embedded lexicon.
func NewLexiconScorer() *LexiconScorer {
	lex, _ := ParseLexicon(strings.NewReader(defaultLexicon))
	return &LexiconScorer{lexicon: lex}
}

// LoadLexiconScorer reads a tab-separated lexicon file and merges it over the
// embedded one.
func LoadLexiconScorer(path string) (*LexiconScorer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()
	extra, err := ParseLexicon(f)
	if err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	s := NewLexiconScorer()
	for w, v := range extra {
		s.lexicon[w] = v
	}
	return s, nil
}

// ParseLexicon reads "word<TAB>valence" lines. Blank lines and lines starting
// with # are skipped; extra columns are ignored.
func ParseLexicon(r io.Reader) (map[string]float64, error) {
	lex := make(map[string]float64, 256)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		parts := strings.Split(text, "\t")
		if len(parts) < 2 {
			return nil, fmt.Errorf("line %d: expected word and valence", line)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		lex[strings.ToLower(strings.TrimSpace(parts[0]))] = v
	}
	return lex, sc.Err()
}

// Score implements Scorer.
func (l *LexiconScorer) Score(_ context.Context, sentence string) (Score, error) {
	words := tokenize(sentence)
	if len(words) == 0 {
		return Score{}, nil
	}
	capDiff := capDifferential(words)
	valences := make([]float64, len(words))
	for i, w := range words {
		if _, ok := boosters[strings.ToLower(w)]; ok {
			continue
		}
		valences[i] = l.valence(words, i, capDiff)
	}
	butCheck(words, valences)
	return combine(sentence, valences), nil
}

// Len reports the number of lexicon entries.
func (l *LexiconScorer) Len() int { return len(l.lexicon) }

func (l *LexiconScorer) lookup(lower string) (float64, bool) {
	if v, ok := l.lexicon[lower]; ok {
		return v, true
	}
	stem, err := snowball.Stem(lower, "english", true)
	if err != nil || stem == lower {
		return 0, false
	}
	v, ok := l.lexicon[stem]
	return v, ok
}

func (l *LexiconScorer) valence(words []string, i int, capDiff bool) float64 {
	w := words[i]
	v, ok := l.lookup(strings.ToLower(w))
	if !ok {
		return 0
	}
	if capDiff && isUpper(w) {
		v += sign(v) * capsIncr
	}
	for start := 0; start < 3; start++ {
		j := i - start - 1
		if j < 0 {
			break
		}
		prev := strings.ToLower(words[j])
		if _, inLex := l.lexicon[prev]; inLex {
			continue
		}
		s := boost(words[j], v, capDiff)
		switch start {
		case 1:
			s *= 0.95
		case 2:
			s *= 0.9
		}
		v += s
		if negated(prev) {
			v *= negScalar
		}
	}
	return v
}

func boost(word string, v float64, capDiff bool) float64 {
	scalar, ok := boosters[strings.ToLower(word)]
	if !ok {
		return 0
	}
	if v < 0 {
		scalar = -scalar
	}
	if capDiff && isUpper(word) {
		scalar += sign(v) * capsIncr
	}
	return scalar
}

func negated(lower string) bool {
	if strings.Contains(lower, "n't") {
		return true
	}
	_, ok := negations[lower]
	return ok
}

// butCheck dampens valences before the first "but" and amplifies those after.
func butCheck(words []string, valences []float64) {
	at := -1
	for i, w := range words {
		if strings.EqualFold(w, "but") {
			at = i
			break
		}
	}
	if at < 0 {
		return
	}
	for i := range valences {
		switch {
		case i < at:
			valences[i] *= butBefore
		case i > at:
			valences[i] *= butAfter
		}
	}
}

func combine(sentence string, valences []float64) Score {
	punct := punctuationEmphasis(sentence)
	var sum float64
	for _, v := range valences {
		sum += v
	}
	switch {
	case sum > 0:
		sum += punct
	case sum < 0:
		sum -= punct
	}
	compound := sum / math.Sqrt(sum*sum+alpha)
	compound = math.Max(-1, math.Min(1, compound))

	var pos, neg, neu float64
	for _, v := range valences {
		switch {
		case v > 0:
			pos += v + 1
		case v < 0:
			neg += v - 1
		default:
			neu++
		}
	}
	switch {
	case pos > math.Abs(neg):
		pos += punct
	case pos < math.Abs(neg):
		neg -= punct
	}
	total := pos + math.Abs(neg) + neu
	if total == 0 {
		return Score{}
	}
	return Score{
		Negative: round(math.Abs(neg/total), 3),
		Neutral:  round(neu/total, 3),
		Positive: round(pos/total, 3),
		Compound: round(compound, 4),
	}
}

func punctuationEmphasis(sentence string) float64 {
	exclaims := min(strings.Count(sentence, "!"), maxExclaims)
	emphasis := float64(exclaims) * exclaimIncr
	if q := strings.Count(sentence, "?"); q > 1 {
		if q <= 3 {
			emphasis += float64(q) * questionIncr
		} else {
			emphasis += questionLimit
		}
	}
	return emphasis
}

// tokenize splits on whitespace and strips surrounding punctuation from words
// that stay longer than two characters. Single characters are dropped.
func tokenize(sentence string) []string {
	fields := strings.Fields(sentence)
	out := fields[:0]
	for _, f := range fields {
		stripped := strings.TrimFunc(f, unicode.IsPunct)
		if len([]rune(stripped)) > 2 {
			f = stripped
		}
		if len([]rune(f)) <= 1 {
			continue
		}
		out = append(out, f)
	}
	return out
}

func isUpper(w string) bool {
	letters := false
	for _, r := range w {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters = true
		}
	}
	return letters
}

// capDifferential reports whether some but not all words are upper case.
func capDifferential(words []string) bool {
	upper := 0
	for _, w := range words {
		if isUpper(w) {
			upper++
		}
	}
	return upper > 0 && upper < len(words)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
