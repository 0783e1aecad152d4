package segment

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
)

// Detector produces the base sentence split that the cascade corrects.
type Detector interface {
	Split(text string) ([]string, error)
}

// ProseDetector splits with prose's punkt sentence tokenizer.
type ProseDetector struct{}

// Split implements Detector.
func (ProseDetector) Split(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("prose segment: %w", err)
	}
	sents := doc.Sentences()
	out := make([]string, 0, len(sents))
	for _, s := range sents {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

// RuleDetector splits after terminal punctuation followed by whitespace,
// except after single-letter initials and a few abbreviations. It is
// deterministic and has no model to load.
type RuleDetector struct{}

var ruleAbbreviations = map[string]struct{}{
	"e.g.": {}, "i.e.": {}, "etc.": {}, "vs.": {}, "approx.": {}, "no.": {}, "st.": {}, "jr.": {}, "sr.": {},
	"dr.": {}, "mr.": {}, "mrs.": {}, "ms.": {},
}

// Split implements Detector.
func (RuleDetector) Split(text string) ([]string, error) {
	runes := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		end := i + 1
		for end < len(runes) && (isTerminal(runes[end]) || isCloser(runes[end])) {
			end++
		}
		if end >= len(runes) || !unicode.IsSpace(runes[end]) {
			i = end - 1
			continue
		}
		if runes[i] == '.' && isAbbreviation(runes[start:end]) {
			i = end - 1
			continue
		}
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			out = append(out, s)
		}
		start = end
		i = end - 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out, nil
}

func isTerminal(r rune) bool { return r == '.' || r == '!' || r == '?' }

func isCloser(r rune) bool { return r == '"' || r == '\'' || r == ')' || r == ']' }

// isAbbreviation reports whether the last word of span is a run of
// initials ("J.", "J.R.R.") or a known abbreviation.
func isAbbreviation(span []rune) bool {
	fields := strings.Fields(string(span))
	if len(fields) == 0 {
		return false
	}
	word := strings.TrimLeft(fields[len(fields)-1], `("'`)
	if isInitials([]rune(word)) {
		return true
	}
	_, ok := ruleAbbreviations[strings.ToLower(word)]
	return ok
}

func isInitials(w []rune) bool {
	if len(w) == 0 || len(w)%2 != 0 {
		return false
	}
	for i := 0; i < len(w); i += 2 {
		if !unicode.IsUpper(w[i]) || w[i+1] != '.' {
			return false
		}
	}
	return true
}
