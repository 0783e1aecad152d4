package textnorm

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"critique/internal/rewrite"
)

// DefaultForm is the Unicode normal form applied when none is configured.
const DefaultForm = "NFKC"

// Stage is one named pass of the normalizer.
type Stage struct {
	Name  string
	apply func(string) string
}

// Apply runs the stage against text.
func (s Stage) Apply(text string) string {
	if s.apply == nil {
		return text
	}
	return s.apply(text)
}

var stages = []Stage{
	{Name: "initials", apply: collapseInitials},
	{Name: "canonical_tokens", apply: rewrite.MustTable(canonicalRules).Apply},
	{Name: "line_breaks", apply: rewrite.MustTable(lineBreakRules).Apply},
	{Name: "punctuation_runs", apply: rewrite.MustTable(punctuationRules).Apply},
	{Name: "glyphs", apply: rewrite.MustTable(glyphRules).Apply},
	{Name: "invisible", apply: rewrite.MustTable(invisibleRules).Apply},
	{Name: "annotations", apply: rewrite.MustTable(annotationRules).Apply},
	{Name: "spacing", apply: rewrite.MustTable(concatRules(spacingRules, MisspellingRules, AbbreviationRules)).Apply},
	{Name: "dashes", apply: rewrite.MustTable(dashRules).Apply},
}

// Stages returns the ordered rewrite passes that precede Unicode
// normalization.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// Normalize canonicalizes text. Unknown forms fall back to DefaultForm.
func Normalize(text, unicodeForm string) string {
	for _, stage := range stages {
		text = stage.Apply(text)
	}
	form, err := ParseForm(unicodeForm)
	if err != nil {
		form = norm.NFKC
	}
	return strings.TrimSpace(form.String(text))
}

// ParseForm maps a configured form name to its norm.Form. Empty selects
// DefaultForm.
func ParseForm(name string) (norm.Form, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", DefaultForm:
		return norm.NFKC, nil
	case "NFC":
		return norm.NFC, nil
	case "NFD":
		return norm.NFD, nil
	case "NFKD":
		return norm.NFKD, nil
	default:
		return norm.NFKC, fmt.Errorf("unknown unicode form %q", name)
	}
}

// collapseInitials joins spaced initials: "J. R. R." becomes "J.R.R.".
func collapseInitials(text string) string {
	return spacedInitials.ReplaceFunc(text, func(match string) string {
		return strings.ReplaceAll(match, " ", "")
	})
}
