package catalog

import (
	"strings"
	"unicode"
)

// CleanTitle removes glyphs that never survive review normalization.
func CleanTitle(title string) string {
	return strings.TrimSpace(strings.ReplaceAll(title, "¡", ""))
}

// DeriveSubtitle returns the part of a title after " - " or, failing that,
// after ": ". Short, non-alphabetic, lowercase-initial and generic
// subtitles ("Part 2", "The Movie") yield "".
func DeriveSubtitle(title string) string {
	var sub string
	switch {
	case strings.Contains(title, " - "):
		sub = title[strings.Index(title, " - ")+3:]
	case strings.Contains(title, ": "):
		sub = title[strings.Index(title, ": ")+2:]
	default:
		return ""
	}
	sub = strings.Trim(sub, `-'/#`)
	if len([]rune(sub)) < 4 || !hasASCIILetter(sub) {
		return ""
	}
	if first := []rune(sub)[0]; unicode.IsDigit(first) || (first >= 'a' && first <= 'z') {
		return ""
	}
	lower := strings.ToLower(sub)
	if lower == "the movie" || lower == "movie" {
		return ""
	}
	if strings.HasPrefix(lower, "part ") || strings.HasPrefix(lower, "vol. ") {
		return ""
	}
	return sub
}

// IsAmbiguousText reports whether s is too short or too symbolic to be
// matched on its own: fewer than three characters once spaces and periods
// are removed, or a single token with no letters.
func IsAmbiguousText(s string) bool {
	stripped := strings.NewReplacer(" ", "", ".", "").Replace(s)
	if len([]rune(stripped)) < 3 {
		return true
	}
	return !strings.Contains(s, " ") && !hasASCIILetter(s)
}

func hasASCIILetter(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}) >= 0
}

// FlagWork sets the work's derived subtitle and ambiguity flags.
func FlagWork(w Work, deny Denylist) Work {
	w.PrimaryTitle = CleanTitle(w.PrimaryTitle)
	w.Subtitle = DeriveSubtitle(w.PrimaryTitle)
	w.AmbiguousTitle = (!strings.Contains(w.PrimaryTitle, " ") && IsAmbiguousText(w.PrimaryTitle)) ||
		deny.Contains(w.PrimaryTitle)
	w.AmbiguousSubtitle = w.Subtitle != "" && (IsAmbiguousText(w.Subtitle) || deny.Contains(w.Subtitle))
	return w
}

// FlagName marks a name ambiguous when its alias is too short, or when its
// alias or last name (or its full name, lacking a last name) is a common
// word.
func FlagName(n Name, deny Denylist) Name {
	n.Ambiguous = (n.AliasName != "" && IsAmbiguousText(n.AliasName)) ||
		deny.Contains(n.LastName) ||
		deny.Contains(n.AliasName) ||
		(n.LastName == "" && deny.Contains(n.PrimaryName))
	return n
}

// FlagPrincipal marks a character name ambiguous by the same rules.
func FlagPrincipal(p Principal, deny Denylist) Principal {
	p.Ambiguous = p.Character != "" && (IsAmbiguousText(p.Character) || deny.Contains(p.Character))
	return p
}

// Prepare applies every import-time cleanup to a record.
func Prepare(r Record, deny Denylist) Record {
	out := Record{Work: FlagWork(r.Work, deny), Credits: make([]Credit, 0, len(r.Credits))}
	for _, c := range r.Credits {
		name := c.Name
		if name.FirstName == "" && name.LastName == "" {
			name = ParseName(name.ID, name.PrimaryName)
		}
		c.Name = FlagName(name, deny)
		c.Principal.Character = CleanCharacter(c.Category, c.Character)
		c.Principal = FlagPrincipal(c.Principal, deny)
		out.Credits = append(out.Credits, c)
	}
	return out
}
