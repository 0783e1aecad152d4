package metadata

import (
	"context"
	"testing"

	"critique/internal/catalog"
)

func credit(category, name, character string) catalog.Credit {
	return catalog.Credit{
		Principal: catalog.Principal{Category: category, Character: character},
		Name:      catalog.Name{PrimaryName: name},
	}
}

func resolve(t *testing.T, rec catalog.Record, opts Options) []Entry {
	t.Helper()
	src := MemorySource{rec.Work.ID: rec}
	entries, err := NewResolver(src, nil).Resolve(context.Background(), rec.Work.ID, opts)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return entries
}

func find(entries []Entry, subtype Subtype, search string) (Entry, bool) {
	for _, e := range entries {
		if e.Subtype == subtype && e.SearchText == search {
			return e, true
		}
	}
	return Entry{}, false
}

func TestResolveFlagsTitleCharacterConflict(t *testing.T) {
	entries := resolve(t, catalog.Record{
		Work:    catalog.Work{ID: "tt1", PrimaryTitle: "Fargo"},
		Credits: []catalog.Credit{credit("actress", "Frances McDormand", "Fargo")},
	}, Options{})

	title, ok := find(entries, SubtypeTitle, "Fargo")
	if !ok || !title.Conflicts {
		t.Fatalf("title entry missing or not conflicting: %+v", title)
	}
	char, ok := find(entries, SubtypeCharacter, "Fargo")
	if !ok || !char.Conflicts {
		t.Fatalf("character entry missing or not conflicting: %+v", char)
	}
	name, ok := find(entries, SubtypeName, "Frances McDormand")
	if !ok || name.Conflicts || name.Replacement != "the actress" {
		t.Fatalf("unexpected name entry %+v", name)
	}
}

func TestResolveDropsGenericSubtitles(t *testing.T) {
	for _, title := range []string{"Ready - Go", "Toy Story: Part 2"} {
		entries := resolve(t, catalog.Record{Work: catalog.Work{ID: "tt2", PrimaryTitle: title}}, Options{})
		for _, e := range entries {
			if e.Subtype == SubtypeSubtitle {
				t.Fatalf("%q produced subtitle %q", title, e.SearchText)
			}
		}
	}
}

func TestResolveAmbiguityThreshold(t *testing.T) {
	entries := resolve(t, catalog.Record{
		Work: catalog.Work{ID: "tt3", PrimaryTitle: "Some Movie"},
		Credits: []catalog.Credit{
			credit("actor", "John Doe", "Al"),
			credit("actress", "Jane Roe", "Ally"),
		},
	}, Options{})
	al, ok := find(entries, SubtypeCharacter, "Al")
	if !ok || !al.Ambiguous {
		t.Fatalf("Al should be ambiguous: %+v", al)
	}
	ally, ok := find(entries, SubtypeCharacter, "Ally")
	if !ok || ally.Ambiguous {
		t.Fatalf("Ally should not be ambiguous: %+v", ally)
	}
}

func TestResolveTitleVariants(t *testing.T) {
	entries := resolve(t, catalog.Record{Work: catalog.Work{ID: "tt4", PrimaryTitle: "Star Wars: Episode IV - A New Hope"}}, Options{})
	for _, want := range []string{
		"Star Wars: Episode IV - A New Hope",
		"Star Wars: Episode IV- A New Hope",
		"Star Wars Episode IV - A New Hope",
		"Star Wars Episode IV A New Hope",
		"Star Wars Episode IV- A New Hope",
	} {
		if _, ok := find(entries, SubtypeTitle, want); !ok {
			t.Errorf("missing title variant %q", want)
		}
	}
	if sub, ok := find(entries, SubtypeSubtitle, "A New Hope"); !ok || sub.Replacement != ThisMovie {
		t.Fatalf("missing subtitle entry: %+v", sub)
	}
}

func TestResolveSplitsParenthesizedTitle(t *testing.T) {
	entries := resolve(t, catalog.Record{Work: catalog.Work{ID: "tt5", PrimaryTitle: "Birdman (or The Unexpected Virtue of Ignorance)"}}, Options{})
	bird, ok := find(entries, SubtypeTitle, "Birdman")
	if !ok || !bird.Ambiguous {
		t.Fatalf("Birdman half missing or unambiguous: %+v", bird)
	}
	if e, ok := find(entries, SubtypeTitle, "The Unexpected Virtue of Ignorance"); !ok || e.Ambiguous {
		t.Fatalf("inner half missing or ambiguous: %+v", e)
	}
	if _, ok := find(entries, SubtypeTitle, "Unexpected Virtue of Ignorance"); !ok {
		t.Fatal("missing entry without leading The")
	}
}

func TestResolveOrdering(t *testing.T) {
	entries := resolve(t, catalog.Record{
		Work:    catalog.Work{ID: "tt6", PrimaryTitle: "Forrest Gump"},
		Credits: []catalog.Credit{credit("actor", "Tom Hanks", "Forrest")},
	}, Options{})
	for i := 1; i < len(entries); i++ {
		prev, cur := len([]rune(entries[i-1].SearchText)), len([]rune(entries[i].SearchText))
		if prev < cur {
			t.Fatalf("entries not sorted by length at %d: %q before %q", i, entries[i-1].SearchText, entries[i].SearchText)
		}
		if prev == cur && entries[i-1].Category == Person && entries[i].Category == WorkOfArt {
			t.Fatalf("PERSON sorted before WORK_OF_ART at %d", i)
		}
	}
	if entries[0].SearchText != "Forrest Gump" || entries[0].Category != WorkOfArt {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
}

func TestResolveFirstNamesOnRequest(t *testing.T) {
	rec := catalog.Record{
		Work:    catalog.Work{ID: "tt7", PrimaryTitle: "Cast Away"},
		Credits: []catalog.Credit{credit("actor", "Tom Hanks", "")},
	}
	if _, ok := find(resolve(t, rec, Options{}), SubtypeFirstName, "Tom"); ok {
		t.Fatal("first name returned without IncludeFirstNames")
	}
	if _, ok := find(resolve(t, rec, Options{IncludeFirstNames: true}), SubtypeFirstName, "Tom"); !ok {
		t.Fatal("first name missing with IncludeFirstNames")
	}
}

func TestResolveUnknownWork(t *testing.T) {
	entries, err := NewResolver(MemorySource{}, nil).Resolve(context.Background(), "tt404", Options{})
	if err != nil || len(entries) != 0 {
		t.Fatalf("unknown work: entries=%v err=%v", entries, err)
	}
}

func TestNormalizeSearchText(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Dr. Strangelove", "Doctor Strangelove"},
		{"Mr. Smith Goes to Washington", "Mister Smith Goes to Washington"},
		{"Kill Bill: Vol. 1", "Kill Bill: Volume 1"},
	}
	for _, tt := range tests {
		if got := NormalizeSearchText(tt.in); got != tt.want {
			t.Errorf("NormalizeSearchText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
