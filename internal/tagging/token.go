package tagging

import (
	"context"
	"strings"
)

// IOB is a token's position relative to a named entity.
type IOB uint8

const (
	IOBNone IOB = iota
	Inside
	Outside
	Begin
)

// EntityType is the class of a named entity.
type EntityType uint8

const (
	TypeNone EntityType = iota
	Person
	WorkOfArt
	Other
)

// String returns the label used by metadata categories.
func (t EntityType) String() string {
	switch t {
	case Person:
		return "PERSON"
	case WorkOfArt:
		return "WORK_OF_ART"
	case Other:
		return "OTHER"
	default:
		return ""
	}
}

// Token is one tagged word with the whitespace that followed it.
type Token struct {
	Text       string
	Whitespace string
	POS        string
	IOB        IOB
	Type       EntityType
	SentEnd    bool
	// Start is the byte offset in the tagged sentence, or -1 when the
	// tagger's token could not be aligned.
	Start int
}

// Entity is a contiguous run of tokens sharing one entity label. End is
// exclusive.
type Entity struct {
	Text      string
	Label     EntityType
	Start     int
	End       int
	StartChar int
	EndChar   int
}

// Doc is a tagged sentence.
type Doc struct {
	Text   string
	Tokens []Token
}

// Tagger tags one sentence.
type Tagger interface {
	Tag(ctx context.Context, sentence string) (Doc, error)
}

// Entities derives entity spans from the tokens' IOB tags.
func (d Doc) Entities() []Entity {
	var out []Entity
	for i := 0; i < len(d.Tokens); i++ {
		if d.Tokens[i].IOB != Begin {
			continue
		}
		end := i + 1
		for end < len(d.Tokens) && d.Tokens[end].IOB == Inside {
			end++
		}
		out = append(out, d.span(i, end))
		i = end - 1
	}
	return out
}

func (d Doc) span(start, end int) Entity {
	e := Entity{Label: d.Tokens[start].Type, Start: start, End: end, StartChar: -1, EndChar: -1}
	first, last := d.Tokens[start], d.Tokens[end-1]
	if first.Start >= 0 && last.Start >= 0 && last.Start+len(last.Text) <= len(d.Text) {
		e.StartChar = first.Start
		e.EndChar = last.Start + len(last.Text)
		e.Text = d.Text[e.StartChar:e.EndChar]
		return e
	}
	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(d.Tokens[i].Text)
		if i < end-1 {
			b.WriteString(d.Tokens[i].Whitespace)
		}
	}
	e.Text = b.String()
	return e
}

// Words returns the token texts.
func (d Doc) Words() []string {
	out := make([]string, len(d.Tokens))
	for i, t := range d.Tokens {
		out[i] = t.Text
	}
	return out
}

// WhitespaceTokens splits a sentence on spaces without tagging. It is the
// fallback when no tagger is configured.
func WhitespaceTokens(sentence string) Doc {
	doc := Doc{Text: sentence}
	offset := 0
	fields := strings.Fields(sentence)
	for i, f := range fields {
		idx := strings.Index(sentence[offset:], f)
		start := offset + idx
		offset = start + len(f)
		ws := ""
		if i < len(fields)-1 {
			ws = " "
		}
		doc.Tokens = append(doc.Tokens, Token{Text: f, Whitespace: ws, IOB: Outside, Start: start, SentEnd: i == len(fields)-1})
	}
	return doc
}
