package tagging

import (
	"context"
	"testing"
)

func TestAlignRecoversWhitespace(t *testing.T) {
	tokens := Align("Tom  Hanks isn't bad.", []string{"Tom", "Hanks", "is", "n't", "bad", "."})
	want := []struct {
		ws    string
		start int
	}{{"  ", 0}, {" ", 5}, {"", 11}, {" ", 13}, {"", 17}, {"", 20}}
	for i, w := range want {
		if tokens[i].Whitespace != w.ws || tokens[i].Start != w.start {
			t.Fatalf("token %d (%q): ws=%q start=%d, want ws=%q start=%d", i, tokens[i].Text, tokens[i].Whitespace, tokens[i].Start, w.ws, w.start)
		}
	}
	if !tokens[len(tokens)-1].SentEnd {
		t.Fatal("last token should end the sentence")
	}
}

func TestEntities(t *testing.T) {
	doc := Build([]string{"I", "met", "Tom", "Hanks", "in", "Paris", "."}, []string{"O", "O", "B-PERSON", "I-PERSON", "O", "B-GPE", "O"})
	ents := doc.Entities()
	if len(ents) != 2 {
		t.Fatalf("expected 2 entities, got %+v", ents)
	}
	if ents[0].Text != "Tom Hanks" || ents[0].Label != Person || ents[0].Start != 2 || ents[0].End != 4 {
		t.Fatalf("unexpected first entity %+v", ents[0])
	}
	if ents[1].Text != "Paris" || ents[1].Label != Other {
		t.Fatalf("unexpected second entity %+v", ents[1])
	}
}

func TestFixEntitySpans(t *testing.T) {
	tests := []struct {
		name   string
		words  []string
		labels []string
		want   string
	}{
		{"trailing possessive", []string{"Hanks", "'s", "role"}, []string{"B-PERSON", "I-PERSON", "O"}, "Hanks"},
		{"leading hyphen", []string{"-", "Hanks", "rules"}, []string{"B-PERSON", "I-PERSON", "O"}, "Hanks"},
		{"unmatched leading quote", []string{`"`, "Gump", "rules"}, []string{"B-WORK_OF_ART", "I-WORK_OF_ART", "O"}, "Gump"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ents := FixEntitySpans(Build(tt.words, tt.labels)).Entities()
			if len(ents) != 1 || ents[0].Text != tt.want {
				t.Fatalf("entities = %+v, want one %q", ents, tt.want)
			}
		})
	}
}

func TestStaticTaggerFallsBackToWhitespace(t *testing.T) {
	tagger := &StaticTagger{}
	doc, err := tagger.Tag(context.Background(), "plain words here")
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}
	if len(doc.Tokens) != 3 || doc.Tokens[0].Whitespace != " " || doc.Tokens[2].Whitespace != "" {
		t.Fatalf("unexpected tokens %+v", doc.Tokens)
	}
	if got := tagger.Seen(); len(got) != 1 {
		t.Fatalf("Seen = %v", got)
	}
}

func TestUniversalPOS(t *testing.T) {
	if UniversalPOS("NNP") != "PROPN" || UniversalPOS("VBZ") != "VERB" || UniversalPOS("XYZ") != "XYZ" {
		t.Fatal("unexpected POS mapping")
	}
}

func TestMarkEntities(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		spans []Span
		want  []string
	}{
		{"two token name", []string{"I", "met", "Steven", "Spielberg", "once", "."}, []Span{{"Steven Spielberg", "PERSON"}}, []string{"Steven Spielberg"}},
		{"adjacent names", []string{"Jennifer", "Lawrence", "and", "Bradley", "Cooper", "."},
			[]Span{{"Jennifer Lawrence", "PERSON"}, {"Bradley Cooper", "PERSON"}}, []string{"Jennifer Lawrence", "Bradley Cooper"}},
		{"repeated word matched in order", []string{"Cooper", "met", "Bradley", "Cooper"}, []Span{{"Bradley Cooper", "PERSON"}}, []string{"Bradley Cooper"}},
		{"unmatched span skipped", []string{"plain", "words"}, []Span{{"Nobody Here", "PERSON"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Build(tt.words, []string{"B-GPE", "B-GPE"})
			MarkEntities(doc.Tokens, tt.spans)
			var got []string
			for _, e := range doc.Entities() {
				if e.Label != Person {
					t.Fatalf("entity %q labelled %v", e.Text, e.Label)
				}
				got = append(got, e.Text)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("entities = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("entities = %q, want %q", got, tt.want)
				}
			}
		})
	}
}

func TestProseTaggerGroupsMultiTokenNames(t *testing.T) {
	doc, err := ProseTagger{}.Tag(context.Background(), "I met Steven Spielberg once.")
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}
	ents := doc.Entities()
	if len(ents) != 1 || ents[0].Text != "Steven Spielberg" || ents[0].Label != Person {
		t.Fatalf("entities = %+v, want one PERSON \"Steven Spielberg\"", ents)
	}
	if doc.Tokens[2].IOB != Begin || doc.Tokens[3].IOB != Inside {
		t.Fatalf("IOB = %v %v, want Begin Inside", doc.Tokens[2].IOB, doc.Tokens[3].IOB)
	}
}
