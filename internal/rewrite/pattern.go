package rewrite

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Flags modify how a pattern is compiled.
type Flags uint8

const (
	// IgnoreCase matches without regard to letter case.
	IgnoreCase Flags = 1 << iota
	// Bounded anchors the pattern between metadata word boundaries: start of
	// text or one of ` ('"/` before, and one of `.,;!?) '"/` or end of text after.
	Bounded
)

const (
	// BoundPrefix is the left boundary used by Bounded patterns.
	BoundPrefix = `(?:^|(?<=[ ('"/]))`
	// BoundSuffix is the right boundary used by Bounded patterns.
	BoundSuffix = `(?=[.,;!?) '"/]|$)`

	matchTimeout = 2 * time.Second
)

// Pattern is a compiled expression with total (never failing) helpers.
type Pattern struct {
	re  *regexp2.Regexp
	src string
}

// Compile builds a Pattern from expr honoring flags.
func Compile(expr string, flags Flags) (*Pattern, error) {
	source := expr
	if flags&Bounded != 0 {
		source = BoundPrefix + "(?:" + expr + ")" + BoundSuffix
	}
	opts := regexp2.None
	if flags&IgnoreCase != 0 {
		opts |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(source, opts)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, err)
	}
	re.MatchTimeout = matchTimeout
	return &Pattern{re: re, src: source}, nil
}

// MustCompile is Compile for package-level tables; it panics on a bad pattern.
func MustCompile(expr string, flags Flags) *Pattern {
	p, err := Compile(expr, flags)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the compiled source expression.
func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	return p.src
}

// Match reports whether the pattern matches anywhere in text.
func (p *Pattern) Match(text string) bool {
	if p == nil {
		return false
	}
	ok, err := p.re.MatchString(text)
	return err == nil && ok
}

// Replace substitutes every match with repl. Group references use $1 or ${1}.
func (p *Pattern) Replace(text, repl string) string {
	if p == nil || text == "" {
		return text
	}
	out, err := p.re.Replace(text, repl, -1, -1)
	if err != nil {
		return text
	}
	return out
}

// ReplaceFunc substitutes every match with the result of fn.
func (p *Pattern) ReplaceFunc(text string, fn func(match string) string) string {
	if p == nil || text == "" {
		return text
	}
	out, err := p.re.ReplaceFunc(text, func(m regexp2.Match) string {
		return fn(m.String())
	}, -1, -1)
	if err != nil {
		return text
	}
	return out
}

// Split slices text around every match, dropping the separators.
func (p *Pattern) Split(text string) []string {
	if p == nil {
		return []string{text}
	}
	runes := []rune(text)
	var parts []string
	last := 0
	m, err := p.re.FindRunesMatch(runes)
	for err == nil && m != nil {
		if m.Length == 0 {
			m, err = p.re.FindNextMatch(m)
			continue
		}
		parts = append(parts, string(runes[last:m.Index]))
		last = m.Index + m.Length
		m, err = p.re.FindNextMatch(m)
	}
	if err != nil {
		return []string{text}
	}
	return append(parts, string(runes[last:]))
}

// FindAll returns the text of every non-overlapping match.
func (p *Pattern) FindAll(text string) []string {
	if p == nil {
		return nil
	}
	var found []string
	m, err := p.re.FindStringMatch(text)
	for err == nil && m != nil {
		found = append(found, m.String())
		m, err = p.re.FindNextMatch(m)
	}
	return found
}

// Groups returns the capture groups of the first match, excluding the whole
// match, or nil when nothing matches.
func (p *Pattern) Groups(text string) []string {
	if p == nil {
		return nil
	}
	m, err := p.re.FindStringMatch(text)
	if err != nil || m == nil {
		return nil
	}
	groups := m.Groups()
	out := make([]string, 0, len(groups)-1)
	for _, g := range groups[1:] {
		out = append(out, g.String())
	}
	return out
}

// Escape quotes regex metacharacters so s matches literally.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '\\', '.', '+', '*', '?', '(', ')', '|', '[', ']', '{', '}', '^', '$', '#':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LiteralReplacement escapes $ so repl is inserted verbatim.
func LiteralReplacement(repl string) string {
	return strings.ReplaceAll(repl, "$", "$$")
}
