package tagging

import (
	"context"
	"strings"
	"sync"
)

// StaticTagger returns pre-built docs keyed by sentence text and falls back
// to WhitespaceTokens for anything else. It records every sentence it was
// asked to tag.
type StaticTagger struct {
	Docs map[string]Doc

	mu   sync.Mutex
	seen []string
}

// Tag implements Tagger.
func (s *StaticTagger) Tag(_ context.Context, sentence string) (Doc, error) {
	s.mu.Lock()
	s.seen = append(s.seen, sentence)
	s.mu.Unlock()
	if doc, ok := s.Docs[sentence]; ok {
		return doc, nil
	}
	return WhitespaceTokens(sentence), nil
}

// Seen returns the sentences tagged so far.
func (s *StaticTagger) Seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.seen))
	copy(out, s.seen)
	return out
}

// Build tags words positionally for tests and replays. labels holds one
// IOB label per word ("O", "B-PERSON", "I-WORK_OF_ART", ...); words are
// joined by single spaces except before ".", ",", "!", "?" and "'s".
func Build(words []string, labels []string) Doc {
	var text string
	for i, w := range words {
		if i > 0 && !attaches(w) {
			text += " "
		}
		text += w
	}
	doc := Doc{Text: text, Tokens: Align(text, words)}
	for i := range doc.Tokens {
		if i < len(labels) {
			doc.Tokens[i].IOB, doc.Tokens[i].Type = parseLabel(labels[i])
		}
	}
	return doc
}

func attaches(w string) bool {
	switch w {
	case ".", ",", "!", "?", "'s", ";", ":":
		return true
	}
	return false
}

func parseLabel(label string) (IOB, EntityType) {
	prefix, _, ok := strings.Cut(label, "-")
	if !ok {
		return Outside, TypeNone
	}
	if prefix == "B" {
		return Begin, entityType(label)
	}
	return Inside, entityType(label)
}
