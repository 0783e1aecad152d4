package metadata

import (
	"sort"
	"strings"
)

// Category is the entity class an entry refers to.
type Category string

const (
	WorkOfArt Category = "WORK_OF_ART"
	Person    Category = "PERSON"
)

// Subtype records which catalog field produced an entry.
type Subtype string

const (
	SubtypeTitle     Subtype = "title"
	SubtypeSubtitle  Subtype = "subtitle"
	SubtypeName      Subtype = "name"
	SubtypeFirstName Subtype = "firstName"
	SubtypeCharacter Subtype = "character"
)

// Placeholder phrases.
const (
	ThisMovie    = "this movie"
	TheCharacter = "the character"
)

// Entry is one searchable string derived from a work's catalog record.
type Entry struct {
	Category      Category `json:"category"`
	Subtype       Subtype  `json:"subtype"`
	SearchText    string   `json:"search_text"`
	EscapedSearch string   `json:"-"`
	Replacement   string   `json:"replacement"`
	Ambiguous     bool     `json:"ambiguous"`
	Conflicts     bool     `json:"conflicts"`
}

// Deferred reports whether the entry must wait for entity recognition.
func (e Entry) Deferred() bool {
	return e.Ambiguous || e.Conflicts
}

// Sort orders entries longest search text first, WORK_OF_ART before PERSON
// on equal length. The sort is stable so equal keys keep resolver order.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		li, lj := len([]rune(entries[i].SearchText)), len([]rune(entries[j].SearchText))
		if li != lj {
			return li > lj
		}
		return entries[i].Category > entries[j].Category
	})
}

// UpperWords returns every whitespace-separated word of every entry's
// search text, upper-cased.
func UpperWords(entries []Entry) map[string]struct{} {
	words := make(map[string]struct{})
	for _, e := range entries {
		for _, w := range strings.Fields(strings.ToUpper(e.SearchText)) {
			words[w] = struct{}{}
		}
	}
	return words
}
