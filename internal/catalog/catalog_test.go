package catalog

import (
	"strings"
	"testing"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		in                         string
		first, middle, last, alias string
		noAlias                    string
	}{
		{in: "Tom Hanks", first: "Tom", last: "Hanks"},
		{in: "Philip Seymour Hoffman", first: "Philip", middle: "Seymour", last: "Hoffman"},
		{in: "Dwayne 'The Rock' Johnson", first: "Dwayne", alias: "The Rock", last: "Johnson", noAlias: "Dwayne Johnson"},
		{in: "Ana de Armas", first: "Ana", last: "de Armas"},
		{in: "Jean-Claude Van Damme", first: "Jean-Claude", last: "Van Damme"},
		{in: "Robert Downey Jr.", first: "Robert", last: "Downey Jr."},
		{in: "Mary mcdonald", first: "Mary", last: "Mcdonald"},
		{in: "Cher"},
		{in: "Bo Li"},
		{in: "Agent 47x", first: "Agent"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseName("nm1", tt.in)
			if got.FirstName != tt.first || got.MiddleName != tt.middle || got.LastName != tt.last ||
				got.AliasName != tt.alias || got.NoAliasName != tt.noAlias {
				t.Fatalf("ParseName(%q) = %+v", tt.in, got)
			}
			if got.PrimaryName != tt.in {
				t.Fatalf("primary name changed: %q", got.PrimaryName)
			}
		})
	}
}

func TestDeriveSubtitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Star Wars: Episode IV - A New Hope", "A New Hope"},
		{"Mission: Impossible", "Impossible"},
		{"Kill Bill: Vol. 1", ""},
		{"Toy Story: Part 2", ""},
		{"Pokemon: The Movie", ""},
		{"Ready - Go", ""},
		{"Alien: 2049", ""},
		{"Title: lowercase tail", ""},
		{"Fargo", ""},
	}
	for _, tt := range tests {
		if got := DeriveSubtitle(tt.title); got != tt.want {
			t.Errorf("DeriveSubtitle(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestIsAmbiguousText(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Al", true},
		{"Ally", false},
		{"J.J.", true},
		{"1984", true},
		{"M*A*S*H", false},
		{"9 1/2 Weeks", false},
	}
	for _, tt := range tests {
		if got := IsAmbiguousText(tt.in); got != tt.want {
			t.Errorf("IsAmbiguousText(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCleanCharacter(t *testing.T) {
	tests := []struct {
		category, in, want string
	}{
		{"actor", `["Forrest Gump"]`, "Forrest Gump"},
		{"actor", "Marge Gunderson (as Frances McDormand)", "Marge Gunderson"},
		{"actor", "Jerry Lundegaard - Car Salesman", "Jerry Lundegaard"},
		{"actor", "Carl_Showalter", "Carl Showalter"},
		{"self", "Himself", ""},
		{"actor", "Segment 'Intro'", ""},
	}
	for _, tt := range tests {
		if got := CleanCharacter(tt.category, tt.in); got != tt.want {
			t.Errorf("CleanCharacter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoleReplacement(t *testing.T) {
	if got, ok := RoleReplacement("director"); !ok || got != "the director" {
		t.Fatalf("director -> %q %v", got, ok)
	}
	if got, ok := RoleReplacement("self"); !ok || got != "the person" {
		t.Fatalf("self -> %q %v", got, ok)
	}
	if _, ok := RoleReplacement("archive_footage"); ok {
		t.Fatal("archive_footage should not be replaceable")
	}
}

func TestReadDenylist(t *testing.T) {
	d, err := ReadDenylist(strings.NewReader("name\nFargo\n\n# comment\n\"Hope\"\n"))
	if err != nil {
		t.Fatalf("ReadDenylist: %v", err)
	}
	if !d.Contains("Fargo") || !d.Contains("Hope") || d.Contains("name") || d.Contains("") {
		t.Fatalf("unexpected denylist %v", d.Names())
	}
}

func TestPrepareFlags(t *testing.T) {
	deny := NewDenylist("Hope", "Rock")
	rec := Prepare(Record{
		Work: Work{ID: "tt1", PrimaryTitle: "Star Wars: A New Hope"},
		Credits: []Credit{
			{Principal: Principal{Category: "actor", Character: "Han Solo"}, Name: Name{ID: "nm1", PrimaryName: "Harrison Ford"}},
			{Principal: Principal{Category: "actor", Character: "R2"}, Name: Name{ID: "nm2", PrimaryName: "Dwayne 'Rock' Johnson"}},
		},
	}, deny)
	if rec.Work.Subtitle != "A New Hope" || rec.Work.AmbiguousSubtitle || rec.Work.AmbiguousTitle {
		t.Fatalf("unexpected work flags %+v", rec.Work)
	}
	if rec.Credits[0].Name.LastName != "Ford" || rec.Credits[0].Name.Ambiguous {
		t.Fatalf("unexpected first credit %+v", rec.Credits[0].Name)
	}
	if !rec.Credits[1].Name.Ambiguous {
		t.Fatal("alias on denylist should flag the name ambiguous")
	}
	if !rec.Credits[1].Principal.Ambiguous {
		t.Fatal("two-letter character should be ambiguous")
	}
}

func TestDecodeFileRecords(t *testing.T) {
	doc := `
[[work]]
id = "tt0109830"
title = "Forrest Gump"
year = 1994
genres = ["Drama", "Romance"]

[[work]]
id = "tt0116282"
title = "Fargo"

[[name]]
id = "nm0000158"
name = "Tom Hanks"

[[principal]]
work_id = "tt0109830"
name_id = "nm0000158"
category = "actor"
character = '["Forrest Gump"]'
`
	f, err := DecodeFile(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	records, err := f.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	gump := records[0]
	if gump.Work.StartYear != 1994 || len(gump.Work.Genres) != 2 {
		t.Fatalf("work = %+v", gump.Work)
	}
	if len(gump.Credits) != 1 || gump.Credits[0].Name.PrimaryName != "Tom Hanks" || gump.Credits[0].Category != "actor" {
		t.Fatalf("credits = %+v", gump.Credits)
	}
	if len(records[1].Credits) != 0 {
		t.Fatalf("Fargo credits = %+v, want none", records[1].Credits)
	}
}

func TestRecordsRejectsDanglingPrincipal(t *testing.T) {
	f := File{
		Works:      []Work{{ID: "tt1", PrimaryTitle: "One"}},
		Principals: []Principal{{WorkID: "tt1", NameID: "nm404", Category: "actor"}},
	}
	if _, err := f.Records(); err == nil {
		t.Fatal("Records accepted a principal with an unknown name")
	}
	f = File{Principals: []Principal{{WorkID: "tt404", NameID: "nm1"}}}
	if _, err := f.Records(); err == nil {
		t.Fatal("Records accepted a principal with an unknown work")
	}
}
