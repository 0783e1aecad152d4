package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"critique/internal/rewrite"
)

type namePattern struct {
	when    *rewrite.Pattern
	extract *rewrite.Pattern
	parts   []string
}

// namePatterns are tried in order; the first whose extracted last name is
// acceptable wins.
var namePatterns = []namePattern{
	{
		when:    rewrite.MustCompile(`^.* '.*' .*`, 0),
		extract: rewrite.MustCompile(`^(.+) '(.+)' (.+)$`, 0),
		parts:   []string{"first", "alias", "last"},
	},
	{
		when:    rewrite.MustCompile(`^.+ ([dD][eai] |[dD]el |[vV][ao]n )`, 0),
		extract: rewrite.MustCompile(`^(.+) ((?:[dD][eai] |[dD]el |[vV][ao]n ).*)$`, 0),
		parts:   []string{"first", "last"},
	},
	{
		when:    rewrite.MustCompile(`^.* .* .*\.`, 0),
		extract: rewrite.MustCompile(`^(.+) (.+ .+\.)`, 0),
		parts:   []string{"first", "last"},
	},
	{
		extract: rewrite.MustCompile(`^([^ ]+) ([^ ]+) ([^ ]+)$`, 0),
		parts:   []string{"first", "middle", "last"},
	},
	{
		extract: rewrite.MustCompile(`^([^ ]+) ([^ ]+)$`, 0),
		parts:   []string{"first", "last"},
	},
}

var (
	nameGlyphs     = rewrite.MustCompile(`[*()"’´¨]`, 0)
	titleCaser     = cases.Title(language.Und, cases.NoLower)
	characterRules = rewrite.MustTable([]rewrite.Rule{
		{Pattern: `[({\[].+[)}\]]`, Replacement: ""},
		{Pattern: ` - .+`, Replacement: ""},
		{Pattern: `[,:].+`, Replacement: ""},
		{Pattern: `_`, Replacement: " "},
		{Pattern: `¨`, Replacement: `"`},
		{Pattern: `[’´]`, Replacement: "'"},
		{Pattern: `[\\)(){}\[\]"*]`, Replacement: ""},
	})
	characterSkip = rewrite.MustCompile(`^(segment|\(segment|self)`, rewrite.IgnoreCase)
)

// CleanPrimaryName folds stray quote-like glyphs in a credited name to an
// apostrophe.
func CleanPrimaryName(name string) string {
	return strings.TrimSpace(nameGlyphs.Replace(name, "'"))
}

// CleanCharacter reduces a raw credited character string to a searchable
// name. It returns "" for self appearances and segment credits.
func CleanCharacter(category, character string) string {
	character = strings.Trim(character, `]["`)
	if strings.EqualFold(category, "self") || characterSkip.Match(character) {
		return ""
	}
	return strings.Trim(characterRules.Apply(character), "' ")
}

// ParseName decomposes a credited name into first, middle, last and alias
// parts. Names that match no pattern keep only PrimaryName.
func ParseName(id, primary string) Name {
	n := Name{ID: id, PrimaryName: CleanPrimaryName(primary)}
	for _, p := range namePatterns {
		if p.when != nil && !p.when.Match(n.PrimaryName) {
			continue
		}
		groups := p.extract.Groups(n.PrimaryName)
		if groups == nil {
			continue
		}
		parts := make(map[string]string, len(p.parts))
		for i, key := range p.parts {
			parts[key] = groups[i]
		}
		last := parts["last"]
		if len([]rune(last)) < 3 || strings.HasSuffix(strings.ToLower(last), "iii") {
			continue
		}
		n.FirstName = parts["first"]
		n.MiddleName = parts["middle"]
		n.AliasName = parts["alias"]
		n.LastName = normalizeLastName(last)
		if n.AliasName != "" && n.FirstName != "" && n.LastName != "" {
			n.NoAliasName = n.FirstName + " " + n.LastName
		}
		return n
	}
	return n
}

func normalizeLastName(last string) string {
	if strings.IndexFunc(last, unicode.IsDigit) >= 0 {
		return ""
	}
	last = strings.Trim(last, `-'/`)
	if last == "" {
		return ""
	}
	first := []rune(last)[0]
	if first >= 'a' && first <= 'z' && first != 'd' && !strings.ContainsAny(last, ` -'`) {
		return titleCaser.String(last)
	}
	return last
}
