package textnorm

import (
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "spaced initials", in: "J. R. R. Tolkien wrote it.", want: "J.R.R. Tolkien wrote it."},
		{name: "url", in: "Check https://example.com/x for more", want: "Check website for more"},
		{name: "punctuation runs", in: "Great movie!!! Really???", want: "Great movie! Really?"},
		{name: "tldr", in: "TL;DR: loved it", want: "In summary, loved it"},
		{name: "year annotation", in: "I liked it (2019) a lot", want: "I liked it a lot"},
		{name: "honorifics", in: "Mr. Smith and Dr. Who", want: "Mister Smith and Doctor Who"},
		{name: "line break sentence", in: "It was good\nThe end", want: "It was good. The end"},
		{name: "curly quotes", in: "It’s “great”", want: `It's "great"`},
		{name: "censored word", in: "sh@t happens", want: "sh*t happens"},
		{name: "comma spacing", in: "Hello ,world", want: "Hello, world"},
		{name: "double dash", in: "wow -- that was it", want: "wow, that was it"},
		{name: "misspelling", in: "Honestly Im sure", want: "Honestly I'm sure"},
		{name: "surrounding whitespace", in: "  fine  ", want: "fine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in, "NFKC"); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"initials", "J. R. R. Tolkien wrote it."},
		{"clean", "Great movie! Really?"},
		{"url", "Check https://example.com/review for more!!!"},
		{"bare domain", "Visit www.imdb.com now"},
		{"emoji", "Loved it \U0001F600 so much"},
		{"emoticon", "Ending was sad :( but fine"},
		{"exclamation run", "Wow!!! Best film ever"},
		{"year annotation", "Great remake (2019) of a classic"},
		{"numbered lines", "My points:\n1. great cast\n2. weak plot"},
		{"spaced ellipsis", "It was . . . okay"},
		{"tldr", "TL;DR: skip it"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := Normalize(tt.in, "NFKC")
			if twice := Normalize(once, "NFKC"); twice != once {
				t.Fatalf("Normalize not stable for %q: %q then %q", tt.in, once, twice)
			}
		})
	}
}

func TestNormalizeUnicodeForm(t *testing.T) {
	if got := Normalize("ﬁne", "NFKC"); got != "fine" {
		t.Fatalf("NFKC ligature = %q, want fine", got)
	}
	if got := Normalize("ﬁne", "NFC"); got != "ﬁne" {
		t.Fatalf("NFC ligature = %q, want unchanged", got)
	}
	if got := Normalize("Café", "NFD"); !norm.NFD.IsNormalString(got) {
		t.Fatalf("NFD output %q not decomposed", got)
	}
	if got := Normalize("ﬁne", "bogus"); got != "fine" {
		t.Fatalf("unknown form should fall back to NFKC, got %q", got)
	}
}

func TestParseForm(t *testing.T) {
	valid := []string{"", "nfc", "NFD", "NFKC", " nfkd "}
	for _, name := range valid {
		if _, err := ParseForm(name); err != nil {
			t.Fatalf("ParseForm(%q) error: %v", name, err)
		}
	}
	if _, err := ParseForm("NFX"); err == nil {
		t.Fatal("expected error for unknown form")
	}
}

func TestStagesOrder(t *testing.T) {
	got := Stages()
	if len(got) != 9 {
		t.Fatalf("expected 9 rewrite stages, got %d", len(got))
	}
	if got[0].Name != "initials" || got[len(got)-1].Name != "dashes" {
		t.Fatalf("unexpected stage order: first=%s last=%s", got[0].Name, got[len(got)-1].Name)
	}
}
