package catalog

import (
	"errors"
	"strings"
)

// ErrUnknownWork reports a work id with no catalog record.
var ErrUnknownWork = errors.New("unknown work")

// Work is one reviewed title.
type Work struct {
	ID           string   `toml:"id"`
	PrimaryTitle string   `toml:"title"`
	Subtitle     string   `toml:"-"`
	StartYear    int      `toml:"year"`
	Genres       []string `toml:"genres"`

	AmbiguousTitle    bool `toml:"-"`
	AmbiguousSubtitle bool `toml:"-"`
}

// Name is a credited person with the decomposed parts used for matching.
type Name struct {
	ID          string `toml:"id"`
	PrimaryName string `toml:"name"`
	FirstName   string `toml:"-"`
	MiddleName  string `toml:"-"`
	LastName    string `toml:"-"`
	AliasName   string `toml:"-"`
	NoAliasName string `toml:"-"`
	Ambiguous   bool   `toml:"-"`
}

// Principal links a name to a work in a credited role.
type Principal struct {
	WorkID    string `toml:"work_id"`
	NameID    string `toml:"name_id"`
	Category  string `toml:"category"`
	Job       string `toml:"job"`
	Character string `toml:"character"`
	Ambiguous bool   `toml:"-"`
}

// Credit is a principal joined with its name.
type Credit struct {
	Principal
	Name Name
}

// Record is everything the resolver needs for one work.
type Record struct {
	Work    Work
	Credits []Credit
}

// RoleReplacement maps a principal category to its placeholder phrase.
// Categories containing "_" (archive footage, casting director) are not
// used for replacement and report false.
func RoleReplacement(category string) (string, bool) {
	category = strings.TrimSpace(strings.ToLower(category))
	if category == "" || strings.Contains(category, "_") {
		return "", false
	}
	if category == "self" {
		return "the person", true
	}
	return "the " + category, true
}
