package anonymize

import (
	"strings"

	"critique/internal/metadata"
	"critique/internal/rewrite"
)

// Abbreviation is a chat abbreviation expanded (or dropped, when Expansion
// is empty) unless a replaced name contains it.
type Abbreviation struct {
	Short     string
	Expansion string
}

// Abbreviations are applied after metadata replacement.
var Abbreviations = []Abbreviation{
	{Short: "OG", Expansion: "original"},
	{Short: "OMG", Expansion: ""},
	{Short: "LOL", Expansion: ""},
}

// substitution is one compiled search string with its three passes.
type substitution struct {
	quoted      *rewrite.Pattern
	parenthetic *rewrite.Pattern
	bounded     *rewrite.Pattern
	replacement string
}

func newSubstitution(escaped, replacement string, boundedFlags rewrite.Flags, removeParentheses bool) (substitution, error) {
	s := substitution{replacement: rewrite.LiteralReplacement(replacement)}
	var err error
	if s.quoted, err = rewrite.Compile(`['"]`+escaped+`['"]`, rewrite.IgnoreCase); err != nil {
		return s, err
	}
	if removeParentheses {
		if s.parenthetic, err = rewrite.Compile(`\( ?`+escaped+` ?\)`, rewrite.IgnoreCase); err != nil {
			return s, err
		}
	}
	if s.bounded, err = rewrite.Compile(escaped, boundedFlags|rewrite.Bounded); err != nil {
		return s, err
	}
	return s, nil
}

func (s substitution) apply(text string) string {
	text = s.quoted.Replace(text, s.replacement)
	if s.parenthetic != nil {
		text = s.parenthetic.Replace(text, "")
	}
	text = s.bounded.Replace(text, s.replacement)
	return collapseSpaces(text)
}

// CaseFlags returns the matching flags for a search text: multi-word
// strings match case-sensitively, single words ignore case.
func CaseFlags(search string) rewrite.Flags {
	if strings.Contains(search, " ") {
		return 0
	}
	return rewrite.IgnoreCase
}

// Replacer holds the compiled substitutions for one work. It is immutable
// and safe for concurrent use.
type Replacer struct {
	subs          []substitution
	abbreviations []substitution
}

// NewReplacer compiles entries in resolver order. Ambiguous and
// conflicting entries are skipped. Entries whose pattern cannot compile are
// skipped as well.
func NewReplacer(entries []metadata.Entry) *Replacer {
	r := &Replacer{}
	for _, e := range entries {
		if e.Deferred() {
			continue
		}
		escaped := e.EscapedSearch
		if escaped == "" {
			escaped = rewrite.Escape(e.SearchText)
		}
		sub, err := newSubstitution(escaped, e.Replacement, CaseFlags(e.SearchText), e.Category == metadata.Person)
		if err != nil {
			continue
		}
		r.subs = append(r.subs, sub)
	}
	protected := metadata.UpperWords(entries)
	for _, abb := range Abbreviations {
		if _, ok := protected[abb.Short]; ok {
			continue
		}
		sub, err := newSubstitution(rewrite.Escape(abb.Short), abb.Expansion, rewrite.IgnoreCase, true)
		if err != nil {
			continue
		}
		r.abbreviations = append(r.abbreviations, sub)
	}
	return r
}

// Replace applies every compiled entry, the repetition table and the
// abbreviation pass.
func (r *Replacer) Replace(text string) string {
	if r == nil {
		return text
	}
	for _, s := range r.subs {
		text = s.apply(text)
	}
	text = CleanRepetitions(text)
	for _, s := range r.abbreviations {
		text = s.apply(text)
	}
	return text
}

// ReplaceMetadata is NewReplacer(entries).Replace(text).
func ReplaceMetadata(text string, entries []metadata.Entry) string {
	return NewReplacer(entries).Replace(text)
}
