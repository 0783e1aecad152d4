package rewrite

import (
	"reflect"
	"testing"
)

func TestPatternReplaceBounded(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		flags Flags
		input string
		repl  string
		want  string
	}{
		{"start of text", "Fargo", Bounded, "Fargo was great.", "this movie", "this movie was great."},
		{"inside word untouched", "Fargo", Bounded, "Fargos and Fargo.", "X", "Fargos and X."},
		{"quoted", "Fargo", Bounded, `I saw "Fargo" today`, "X", `I saw "X" today`},
		{"parenthesised", "Fargo", Bounded, "a (Fargo) b", "X", "a (X) b"},
		{"case sensitive", "Fargo", Bounded, "fargo", "X", "fargo"},
		{"ignore case", "fargo", Bounded | IgnoreCase, "FARGO!", "X", "X!"},
		{"group reference", `(Mister|Lady) the (actor|actress)`, Bounded | IgnoreCase, "Mister the actor said", "the $2", "the actor said"},
		{"lookbehind", `(?<!was )this movie another feature`, Bounded, "was this movie another feature", "X", "was this movie another feature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MustCompile(tt.expr, tt.flags)
			if got := p.Replace(tt.input, tt.repl); got != tt.want {
				t.Errorf("Replace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPatternSplit(t *testing.T) {
	p := MustCompile(` \d\) `, 0)
	got := p.Split("Pros 1) acting 2) music")
	want := []string{"Pros", "acting", "music"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Split = %q, want %q", got, want)
	}

	if got := p.Split("no markers"); !reflect.DeepEqual(got, []string{"no markers"}) {
		t.Fatalf("Split without match = %q", got)
	}
}

func TestPatternSplitCountsRunes(t *testing.T) {
	p := MustCompile(`; `, 0)
	got := p.Split("Amélie rocks; Zoë too")
	want := []string{"Amélie rocks", "Zoë too"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Split = %q, want %q", got, want)
	}
}

func TestTableAppliesInOrder(t *testing.T) {
	table := MustTable([]Rule{
		{Pattern: "a", Replacement: "b"},
		{Pattern: "b", Replacement: "c"},
	})
	if got := table.Apply("aab"); got != "ccc" {
		t.Fatalf("Apply = %q, want %q", got, "ccc")
	}
	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2", table.Len())
	}
}

func TestNewTableRejectsBadPattern(t *testing.T) {
	if _, err := NewTable([]Rule{{Pattern: "(unclosed"}}); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Mr. Smith", `Mr\. Smith`},
		{"What?!", `What\?!`},
		{"(500) Days", `\(500\) Days`},
		{"$9.99", `\$9\.99`},
	}
	for _, tt := range tests {
		if got := Escape(tt.input); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.input, got, tt.want)
		}
		p := MustCompile(Escape(tt.input), 0)
		if !p.Match(tt.input) {
			t.Errorf("escaped %q does not match itself", tt.input)
		}
	}
}

func TestLiteralReplacement(t *testing.T) {
	p := MustCompile("price", 0)
	if got := p.Replace("the price", LiteralReplacement("$5")); got != "the $5" {
		t.Fatalf("Replace = %q, want %q", got, "the $5")
	}
}
