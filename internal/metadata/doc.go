// Package metadata turns a work's catalog record into the ordered list of
// search strings used to anonymize reviews of that work.
//
// Every title variant, subtitle, credited name form and character name
// becomes an Entry tagged with its category, an ambiguity flag (too short
// or a common word) and a conflict flag (the same text appears under the
// other category). Entries are sorted longest first so that multi-word
// matches are replaced before their substrings.
package metadata
