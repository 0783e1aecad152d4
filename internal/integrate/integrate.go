package integrate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"critique/internal/anonymize"
	"critique/internal/coref"
	"critique/internal/metadata"
	"critique/internal/rewrite"
	"critique/internal/tagging"
)

// Exclusions are proper nouns the tagger often mislabels; single-token
// entities with exactly this text are left alone.
var Exclusions = map[string]struct{}{
	"Oscar": {}, "Oscars": {}, "Shakespeare": {}, "Rocks": {}, "Awards": {}, "WHILST": {}, "Story": {}, "Storyline": {},
}

type tokenKey struct {
	iob  tagging.IOB
	kind tagging.EntityType
	last bool
}

// tokenMapping replaces entity tokens by position: the last token of an
// entity carries the noun, a leading token of a multi-token entity becomes
// "another" and inner tokens vanish.
var tokenMapping = map[tokenKey]string{
	{tagging.Inside, tagging.Person, true}:     "person",
	{tagging.Inside, tagging.WorkOfArt, true}:  "feature",
	{tagging.Begin, tagging.Person, true}:      "another person",
	{tagging.Begin, tagging.WorkOfArt, true}:   "another feature",
	{tagging.Inside, tagging.Person, false}:    "",
	{tagging.Inside, tagging.WorkOfArt, false}: "",
	{tagging.Begin, tagging.Person, false}:     "another",
	{tagging.Begin, tagging.WorkOfArt, false}:  "another",
}

var quotedThisMovie = rewrite.MustCompile(`['"]this movie['"]`, 0)

// Integrator holds the shared, read-only models. Either may be nil.
type Integrator struct {
	tagger   tagging.Tagger
	resolver coref.Resolver
}

// New returns an Integrator.
func New(tagger tagging.Tagger, resolver coref.Resolver) *Integrator {
	return &Integrator{tagger: tagger, resolver: resolver}
}

// HasTagger reports whether a tagger is configured.
func (in *Integrator) HasTagger() bool { return in != nil && in.tagger != nil }

// Resolve runs Step A and Step B over a review's sentences and returns one
// token sequence per sentence.
func (in *Integrator) Resolve(ctx context.Context, sentences []string, entries []metadata.Entry) ([][]tagging.Token, error) {
	docs, err := in.resolveConflicts(ctx, sentences, deferred(entries))
	if err != nil {
		return nil, err
	}
	subs := map[int]string{}
	if in.resolver != nil && len(docs) > 0 {
		words := make([][]string, len(docs))
		for i, d := range docs {
			words[i] = d.Words()
		}
		clusters, err := in.resolver.Resolve(ctx, words)
		if err != nil {
			return nil, fmt.Errorf("coreference: %w", err)
		}
		subs = coref.Substitutions(clusters)
	}
	return ReplaceTokens(docs, subs), nil
}

// Tag tags every sentence without replacement, falling back to whitespace
// tokens when no tagger is configured.
func (in *Integrator) Tag(ctx context.Context, sentences []string) ([]tagging.Doc, error) {
	docs := make([]tagging.Doc, 0, len(sentences))
	for _, s := range sentences {
		d, err := in.tag(ctx, s)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func (in *Integrator) tag(ctx context.Context, sentence string) (tagging.Doc, error) {
	if in == nil || in.tagger == nil {
		return tagging.WhitespaceTokens(sentence), nil
	}
	d, err := in.tagger.Tag(ctx, sentence)
	if err != nil {
		return tagging.Doc{}, fmt.Errorf("tag sentence: %w", err)
	}
	return d, nil
}

func deferred(entries []metadata.Entry) []metadata.Entry {
	var out []metadata.Entry
	for _, e := range entries {
		if e.Deferred() {
			out = append(out, e)
		}
	}
	return out
}

// resolveConflicts is Step A.
func (in *Integrator) resolveConflicts(ctx context.Context, sentences []string, conflicts []metadata.Entry) ([]tagging.Doc, error) {
	docs, err := in.Tag(ctx, sentences)
	if err != nil || len(conflicts) == 0 || !in.HasTagger() {
		return docs, err
	}
	for i, d := range docs {
		updated := ReplaceConflicts(d, conflicts)
		if updated == d.Text {
			continue
		}
		updated = quotedThisMovie.Replace(updated, metadata.ThisMovie)
		updated = anonymize.CleanRepetitions(updated)
		if docs[i], err = in.tag(ctx, updated); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// searchGroup is every deferred entry sharing one search text, in resolver
// order.
type searchGroup struct {
	search  string
	entries []metadata.Entry
}

func groupBySearch(entries []metadata.Entry) []searchGroup {
	var groups []searchGroup
	index := make(map[string]int)
	for _, e := range entries {
		i, ok := index[e.SearchText]
		if !ok {
			i = len(groups)
			index[e.SearchText] = i
			groups = append(groups, searchGroup{search: e.SearchText})
		}
		groups[i].entries = append(groups[i].entries, e)
	}
	return groups
}

type edit struct {
	start, end  int
	replacement string
}

// ReplaceConflicts rewrites a tagged sentence for deferred entries. An
// entity whose text equals a search string (ignoring case) is replaced
// with the first entry of the entity's category; any remaining occurrence
// of an unambiguous search string is replaced literally.
func ReplaceConflicts(doc tagging.Doc, conflicts []metadata.Entry) string {
	groups := groupBySearch(conflicts)
	folded := strings.ToLower(doc.Text)
	var edits []edit
	for _, g := range groups {
		needle := strings.ToLower(g.search)
		if !strings.Contains(folded, needle) {
			continue
		}
		for _, ent := range doc.Entities() {
			if ent.StartChar < 0 || strings.ToLower(ent.Text) != needle {
				continue
			}
			for _, e := range g.entries {
				if string(e.Category) == ent.Label.String() {
					edits = append(edits, edit{ent.StartChar, ent.EndChar, e.Replacement})
					break
				}
			}
		}
	}
	text := applyEdits(doc.Text, edits)

	for _, g := range groups {
		first := g.entries[0]
		if first.Ambiguous {
			continue
		}
		flags := anonymize.CaseFlags(first.SearchText)
		p, err := rewrite.Compile(rewrite.Escape(first.SearchText), flags|rewrite.Bounded)
		if err != nil {
			continue
		}
		text = p.Replace(text, rewrite.LiteralReplacement(first.Replacement))
	}
	return text
}

func applyEdits(text string, edits []edit) string {
	if len(edits) == 0 {
		return text
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].start > edits[j].start })
	last := len(text) + 1
	for _, e := range edits {
		if e.end > last || e.start < 0 || e.end > len(text) {
			continue
		}
		text = text[:e.start] + e.replacement + text[e.end:]
		last = e.start
	}
	return text
}

// ReplaceTokens is Step B's token pass. subs maps document-global token
// offsets to coreference replacements; every other token goes through the
// entity mapping.
func ReplaceTokens(docs []tagging.Doc, subs map[int]string) [][]tagging.Token {
	out := make([][]tagging.Token, len(docs))
	offset := 0
	for i, d := range docs {
		tokens := make([]tagging.Token, len(d.Tokens))
		for j, tok := range d.Tokens {
			if sub, ok := subs[offset]; ok {
				tok.Text = sub
			} else {
				tok.Text = entityText(d.Tokens, j)
			}
			tokens[j] = tok
			offset++
		}
		out[i] = tokens
	}
	return out
}

func entityText(tokens []tagging.Token, j int) string {
	tok := tokens[j]
	last := tok.SentEnd || j+1 >= len(tokens) || tokens[j+1].IOB != tagging.Inside
	repl, ok := tokenMapping[tokenKey{tok.IOB, tok.Type, last}]
	if !ok {
		return tok.Text
	}
	if last && tok.IOB == tagging.Begin {
		if _, excluded := Exclusions[tok.Text]; excluded {
			return tok.Text
		}
	}
	if tok.SentEnd && strings.HasSuffix(tok.Text, ".") {
		return repl + "."
	}
	return repl
}
