package anonymize

import (
	"strings"
	"testing"

	"critique/internal/metadata"
)

func entry(cat metadata.Category, sub metadata.Subtype, search, repl string) metadata.Entry {
	return metadata.Entry{Category: cat, Subtype: sub, SearchText: search, Replacement: repl}
}

func TestReplaceMetadata(t *testing.T) {
	forrest := []metadata.Entry{
		entry(metadata.WorkOfArt, metadata.SubtypeTitle, "Forrest Gump", metadata.ThisMovie),
		entry(metadata.Person, metadata.SubtypeName, "Tom Hanks", "the actor"),
		entry(metadata.Person, metadata.SubtypeCharacter, "Forrest", metadata.TheCharacter),
		entry(metadata.Person, metadata.SubtypeName, "Hanks", "the actor"),
	}
	matrix := []metadata.Entry{
		entry(metadata.WorkOfArt, metadata.SubtypeTitle, "The Matrix", metadata.ThisMovie),
		entry(metadata.Person, metadata.SubtypeName, "Keanu Reeves", "the actor"),
		entry(metadata.Person, metadata.SubtypeCharacter, "Neo", metadata.TheCharacter),
	}
	conflicted := []metadata.Entry{
		entry(metadata.Person, metadata.SubtypeName, "Frances McDormand", "the actress"),
		{Category: metadata.WorkOfArt, Subtype: metadata.SubtypeTitle, SearchText: "Fargo", Replacement: metadata.ThisMovie, Conflicts: true},
		{Category: metadata.Person, Subtype: metadata.SubtypeCharacter, SearchText: "Fargo", Replacement: metadata.TheCharacter, Conflicts: true},
	}

	tests := []struct {
		name    string
		in      string
		entries []metadata.Entry
		want    string
	}{
		{
			name:    "person and parenthesised character",
			in:      "Great movie! Tom Hanks (Forrest) was amazing. He really carried this.",
			entries: forrest,
			want:    "Great movie! the actor was amazing. He really carried this.",
		},
		{
			name:    "quoted title",
			in:      `I watched "The Matrix" twice.`,
			entries: matrix,
			want:    "I watched this movie twice.",
		},
		{
			name:    "single word ignores case",
			in:      "neo was cool",
			entries: matrix,
			want:    "the character was cool",
		},
		{
			name:    "multi word keeps case",
			in:      "keanu reeves rocks",
			entries: matrix,
			want:    "keanu reeves rocks",
		},
		{
			name:    "conflicts deferred",
			in:      "Frances McDormand shines in Fargo.",
			entries: conflicted,
			want:    "the actress shines in Fargo.",
		},
		{
			name:    "possessive director folds into title",
			in:      "the director's The Matrix is great",
			entries: matrix,
			want:    "this movie is great",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReplaceMetadata(tt.in, tt.entries); got != tt.want {
				t.Fatalf("ReplaceMetadata(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanRepetitions(t *testing.T) {
	tests := []struct{ in, want string }{
		{"the director the director was great", "the director was great"},
		{"I loved this this movie", "I loved this movie"},
		{"Captain the director shouts", "the director shouts"},
		{"the movie this movie rocks", "this movie rocks"},
		{"she (played by the actress) wins", "she wins"},
	}
	for _, tt := range tests {
		if got := CleanRepetitions(tt.in); got != tt.want {
			t.Errorf("CleanRepetitions(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAbbreviations(t *testing.T) {
	got := strings.TrimSpace(ReplaceMetadata("OMG this was the OG version LOL", nil))
	if got != "this was the original version" {
		t.Fatalf("abbreviations = %q", got)
	}
	protected := []metadata.Entry{entry(metadata.WorkOfArt, metadata.SubtypeTitle, "OG Kush", metadata.ThisMovie)}
	got = strings.TrimSpace(ReplaceMetadata("the OG version", protected))
	if got != "the OG version" {
		t.Fatalf("protected abbreviation rewritten: %q", got)
	}
}
