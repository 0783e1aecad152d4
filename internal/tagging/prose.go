package tagging

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
)

// ProseTagger tags sentences with prose's averaged-perceptron POS tagger
// and its PERSON/GPE entity model.
type ProseTagger struct{}

// Tag implements Tagger.
func (ProseTagger) Tag(ctx context.Context, sentence string) (Doc, error) {
	if err := ctx.Err(); err != nil {
		return Doc{}, err
	}
	pd, err := prose.NewDocument(sentence, prose.WithSegmentation(false))
	if err != nil {
		return Doc{}, fmt.Errorf("prose tag: %w", err)
	}
	pt := pd.Tokens()
	texts := make([]string, len(pt))
	for i, t := range pt {
		texts[i] = t.Text
	}
	doc := Doc{Text: sentence, Tokens: Align(sentence, texts)}
	for i, t := range pt {
		doc.Tokens[i].POS = UniversalPOS(t.Tag)
	}
	pe := pd.Entities()
	spans := make([]Span, len(pe))
	for i, e := range pe {
		spans[i] = Span{Text: e.Text, Label: e.Label}
	}
	MarkEntities(doc.Tokens, spans)
	return FixEntitySpans(doc), nil
}

// Span is an entity reported by a chunker as space-joined token text.
type Span struct {
	Text  string
	Label string
}

// MarkEntities sets IOB tags from chunked entity spans. Each span is matched
// against the next run of tokens with the same texts, in order; spans that
// match nothing are skipped. Tokens outside every span are Outside.
func MarkEntities(tokens []Token, spans []Span) {
	for i := range tokens {
		clearEntity(&tokens[i])
	}
	cursor := 0
	for _, sp := range spans {
		words := strings.Fields(sp.Text)
		if len(words) == 0 {
			continue
		}
		at := findRun(tokens, words, cursor)
		if at < 0 {
			continue
		}
		kind := entityType(sp.Label)
		for j := range words {
			tokens[at+j].IOB = Inside
			tokens[at+j].Type = kind
		}
		tokens[at].IOB = Begin
		cursor = at + len(words)
	}
}

func findRun(tokens []Token, words []string, from int) int {
	for i := from; i+len(words) <= len(tokens); i++ {
		match := true
		for j, w := range words {
			if tokens[i+j].Text != w {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// Align locates each token text in sentence and recovers the whitespace
// that follows it. Tokens that cannot be found get Start -1 and a single
// space.
func Align(sentence string, texts []string) []Token {
	tokens := make([]Token, len(texts))
	cursor := 0
	for i, text := range texts {
		tokens[i] = Token{Text: text, Start: -1, IOB: Outside}
		if idx := strings.Index(sentence[cursor:], text); idx >= 0 && strings.TrimSpace(sentence[cursor:cursor+idx]) == "" {
			tokens[i].Start = cursor + idx
			cursor = tokens[i].Start + len(text)
		}
	}
	for i := range tokens {
		tokens[i].SentEnd = i == len(tokens)-1
		if tokens[i].Start < 0 {
			if !tokens[i].SentEnd {
				tokens[i].Whitespace = " "
			}
			continue
		}
		end := tokens[i].Start + len(tokens[i].Text)
		next := len(sentence)
		if i+1 < len(tokens) && tokens[i+1].Start >= 0 {
			next = tokens[i+1].Start
		}
		if gap := sentence[end:next]; gap != "" && strings.TrimFunc(gap, unicode.IsSpace) == "" {
			tokens[i].Whitespace = gap
		}
	}
	return tokens
}

func entityType(label string) EntityType {
	if _, kind, ok := strings.Cut(label, "-"); ok {
		label = kind
	}
	switch label {
	case "PERSON":
		return Person
	case "WORK_OF_ART":
		return WorkOfArt
	default:
		return Other
	}
}

// pennToUniversal maps Penn Treebank tags to universal part-of-speech tags.
var pennToUniversal = map[string]string{
	"CC": "CCONJ", "CD": "NUM", "DT": "DET", "EX": "PRON", "FW": "X", "IN": "ADP",
	"JJ": "ADJ", "JJR": "ADJ", "JJS": "ADJ", "LS": "X", "MD": "AUX",
	"NN": "NOUN", "NNS": "NOUN", "NNP": "PROPN", "NNPS": "PROPN",
	"PDT": "DET", "POS": "PART", "PRP": "PRON", "PRP$": "PRON",
	"RB": "ADV", "RBR": "ADV", "RBS": "ADV", "RP": "ADP", "SYM": "SYM", "TO": "PART", "UH": "INTJ",
	"VB": "VERB", "VBD": "VERB", "VBG": "VERB", "VBN": "VERB", "VBP": "VERB", "VBZ": "VERB",
	"WDT": "DET", "WP": "PRON", "WP$": "PRON", "WRB": "ADV",
	",": "PUNCT", ".": "PUNCT", ":": "PUNCT", "(": "PUNCT", ")": "PUNCT", "``": "PUNCT", "''": "PUNCT", "#": "SYM", "$": "SYM",
}

// UniversalPOS converts a Penn Treebank tag. Unknown tags pass through.
func UniversalPOS(tag string) string {
	if u, ok := pennToUniversal[tag]; ok {
		return u
	}
	return tag
}
