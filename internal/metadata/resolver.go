package metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"critique/internal/catalog"
	"critique/internal/rewrite"
)

// Source loads catalog records. Implementations return an error wrapping
// catalog.ErrUnknownWork when the work does not exist.
type Source interface {
	WorkRecord(ctx context.Context, workID string) (catalog.Record, error)
}

// Options tune Resolve.
type Options struct {
	// IncludeFirstNames keeps firstName entries, which only serve
	// secondary disambiguation and are never replaced directly.
	IncludeFirstNames bool
}

// Resolver builds entry lists from a Source.
type Resolver struct {
	source Source
	deny   catalog.Denylist
}

// NewResolver returns a resolver over source. deny may be nil.
func NewResolver(source Source, deny catalog.Denylist) *Resolver {
	return &Resolver{source: source, deny: deny}
}

// Resolve returns the sorted entries for workID. An unknown work yields an
// empty list and no error.
func (r *Resolver) Resolve(ctx context.Context, workID string, opts Options) ([]Entry, error) {
	if r == nil || r.source == nil || strings.TrimSpace(workID) == "" {
		return nil, nil
	}
	rec, err := r.source.WorkRecord(ctx, workID)
	if errors.Is(err, catalog.ErrUnknownWork) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load work %s: %w", workID, err)
	}
	return Build(catalog.Prepare(rec, r.deny), opts), nil
}

// Build derives the sorted entry list from a prepared record.
func Build(rec catalog.Record, opts Options) []Entry {
	if rec.Work.ID == "" && rec.Work.PrimaryTitle == "" && len(rec.Credits) == 0 {
		return nil
	}
	b := &builder{seen: make(map[entryKey]struct{})}
	b.addTitles(rec.Work)
	for _, c := range rec.Credits {
		b.addCredit(c)
	}
	b.normalizeSearchTexts()
	b.splitParenthesized()
	b.stripLeadingThe()
	b.addCharacterWords()
	b.flagConflicts()

	out := make([]Entry, 0, len(b.entries))
	emitted := make(map[Entry]struct{}, len(b.entries))
	for _, e := range b.entries {
		if e.SearchText == "" {
			continue
		}
		if e.Subtype == SubtypeFirstName && !opts.IncludeFirstNames {
			continue
		}
		if _, dup := emitted[e]; dup {
			continue
		}
		emitted[e] = struct{}{}
		e.EscapedSearch = rewrite.Escape(e.SearchText)
		out = append(out, e)
	}
	Sort(out)
	return out
}

type entryKey struct {
	category    Category
	subtype     Subtype
	search      string
	replacement string
	ambiguous   bool
}

type builder struct {
	entries []Entry
	seen    map[entryKey]struct{}
}

func (b *builder) add(e Entry) {
	e.SearchText = strings.TrimSpace(e.SearchText)
	if e.SearchText == "" {
		return
	}
	key := entryKey{e.Category, e.Subtype, e.SearchText, e.Replacement, e.Ambiguous}
	if _, ok := b.seen[key]; ok {
		return
	}
	b.seen[key] = struct{}{}
	b.entries = append(b.entries, e)
}

func titleVariants(title string) []string {
	noColon := strings.ReplaceAll(title, ":", "")
	variants := []string{
		title,
		strings.ReplaceAll(title, "!", ""),
		strings.ReplaceAll(title, "?", ""),
		strings.ReplaceAll(title, " - ", "- "),
	}
	if strings.HasSuffix(title, ": The Movie") {
		variants = append(variants, strings.ReplaceAll(title, ": The Movie", ""))
	}
	return append(variants,
		noColon,
		strings.ReplaceAll(noColon, " - ", " "),
		strings.ReplaceAll(noColon, " - ", "- "),
	)
}

func (b *builder) addTitles(w catalog.Work) {
	for _, v := range titleVariants(w.PrimaryTitle) {
		b.add(Entry{Category: WorkOfArt, Subtype: SubtypeTitle, SearchText: v, Replacement: ThisMovie, Ambiguous: w.AmbiguousTitle})
	}
	if w.Subtitle != "" {
		b.add(Entry{Category: WorkOfArt, Subtype: SubtypeSubtitle, SearchText: w.Subtitle, Replacement: ThisMovie, Ambiguous: w.AmbiguousSubtitle})
	}
}

func (b *builder) addCredit(c catalog.Credit) {
	role, ok := catalog.RoleReplacement(c.Category)
	if !ok {
		return
	}
	n := c.Name
	if n.FirstName != "" {
		b.add(Entry{Category: Person, Subtype: SubtypeFirstName, SearchText: n.FirstName, Replacement: role})
	}
	if n.NoAliasName == "" {
		b.add(Entry{Category: Person, Subtype: SubtypeName, SearchText: n.PrimaryName, Replacement: role, Ambiguous: n.LastName == "" && n.Ambiguous})
	}
	if n.AliasName != "" {
		b.add(Entry{Category: Person, Subtype: SubtypeName, SearchText: n.AliasName, Replacement: role, Ambiguous: n.Ambiguous})
	}
	if n.NoAliasName != "" {
		b.add(Entry{Category: Person, Subtype: SubtypeName, SearchText: n.NoAliasName, Replacement: role})
	}
	if n.LastName != "" {
		b.add(Entry{Category: Person, Subtype: SubtypeName, SearchText: n.LastName, Replacement: role, Ambiguous: n.Ambiguous})
	}
	if c.Character != "" {
		b.add(Entry{Category: Person, Subtype: SubtypeCharacter, SearchText: c.Character, Replacement: TheCharacter, Ambiguous: c.Principal.Ambiguous})
	}
}

// searchRules mirror the review normalizer's abbreviation rewrites so
// catalog strings match normalized text.
var searchRules = rewrite.MustTable([]rewrite.Rule{
	{Pattern: `([a-z])\.([A-Z])`, Replacement: "$1. $2"},
	{Pattern: `[Mm]ake-[Uu]p`, Replacement: "makeup"},
	{Pattern: `[Cc]a?pt\.`, Replacement: "Captain"},
	{Pattern: `Dr\.`, Replacement: "Doctor"},
	{Pattern: `Mr\.`, Replacement: "Mister"},
	{Pattern: `Mr?s\.`, Replacement: "Lady"},
	{Pattern: `([ ('":])[Vv]ol\. ?`, Replacement: "${1}Volume "},
	{Pattern: ` [Vv]/?[Ss]\.? `, Replacement: " versus "},
	{Pattern: `[Nn][Oor]\.`, Replacement: "number"},
	{Pattern: `([a-zA-Z])\(([a-zA-Z])\)`, Replacement: "$1$2"},
	{Pattern: `\(([d-zD-Z])\)([a-zA-Z])`, Replacement: "$1$2"},
	{Pattern: `\(([a-zA-Z]{2})\)([a-zA-Z])`, Replacement: "$1$2"},
})

// NormalizeSearchText applies the abbreviation rewrites reviews receive.
func NormalizeSearchText(s string) string {
	return searchRules.Apply(s)
}

func (b *builder) normalizeSearchTexts() {
	for i := range b.entries {
		b.entries[i].SearchText = NormalizeSearchText(b.entries[i].SearchText)
	}
}

// splitParenthesized turns "Birdman (or The Unexpected Virtue of
// Ignorance)" into one entry per side of the parenthesis. Single-word
// halves are ambiguous.
func (b *builder) splitParenthesized() {
	var extra []Entry
	for _, e := range b.entries {
		if e.Subtype != SubtypeTitle || !strings.HasSuffix(e.SearchText, ")") {
			continue
		}
		halves := strings.Split(e.SearchText, "(")
		if len(halves) != 2 {
			continue
		}
		for _, h := range halves {
			h = strings.Trim(h, " )")
			h = strings.TrimPrefix(h, "or")
			h = strings.TrimSuffix(h, " or")
			h = strings.Trim(h, ", ")
			split := e
			split.SearchText = h
			split.Ambiguous = !strings.Contains(h, " ")
			extra = append(extra, split)
		}
	}
	b.entries = append(b.entries, extra...)
}

// stripLeadingThe adds "The Matrix" as "Matrix". Single-word remainders are
// ambiguous.
func (b *builder) stripLeadingThe() {
	var extra []Entry
	for _, e := range b.entries {
		if !strings.HasPrefix(e.SearchText, "The ") {
			continue
		}
		stripped := e
		stripped.SearchText = e.SearchText[4:]
		stripped.Ambiguous = !strings.Contains(stripped.SearchText, " ")
		extra = append(extra, stripped)
	}
	b.entries = append(b.entries, extra...)
}

func (b *builder) titleTexts() map[string]struct{} {
	titles := make(map[string]struct{})
	for _, e := range b.entries {
		if e.Category == WorkOfArt {
			titles[e.SearchText] = struct{}{}
		}
	}
	return titles
}

// addCharacterWords adds single words of multi-word character names that
// equal a title, so "Fargo" in "Marge Fargo" is seen as a conflict.
func (b *builder) addCharacterWords() {
	titles := b.titleTexts()
	var extra []Entry
	for _, e := range b.entries {
		if e.Subtype != SubtypeCharacter || !strings.Contains(e.SearchText, " ") {
			continue
		}
		for _, w := range strings.Split(e.SearchText, " ") {
			if _, ok := titles[w]; !ok {
				continue
			}
			word := e
			word.SearchText = w
			extra = append(extra, word)
		}
	}
	b.entries = append(b.entries, extra...)
}

// flagConflicts marks every entry whose text appears both as a title and
// as a non-title.
func (b *builder) flagConflicts() {
	titles := b.titleTexts()
	clashing := make(map[string]struct{})
	for _, e := range b.entries {
		if e.Category == WorkOfArt {
			continue
		}
		if _, ok := titles[e.SearchText]; ok {
			clashing[e.SearchText] = struct{}{}
		}
	}
	for i := range b.entries {
		_, ok := clashing[b.entries[i].SearchText]
		b.entries[i].Conflicts = ok
	}
}

// MemorySource serves records from a map keyed by work id.
type MemorySource map[string]catalog.Record

// WorkRecord implements Source.
func (m MemorySource) WorkRecord(_ context.Context, workID string) (catalog.Record, error) {
	rec, ok := m[workID]
	if !ok {
		return catalog.Record{}, fmt.Errorf("work %s: %w", workID, catalog.ErrUnknownWork)
	}
	return rec, nil
}
