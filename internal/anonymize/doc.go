// Package anonymize replaces references to a reviewed work's title, cast
// and characters with placeholder phrases.
//
// Only entries that are neither ambiguous nor conflicting are replaced
// here; the rest wait for entity recognition in package integrate. After
// all entries are applied a repetition table folds placeholder pile-ups
// ("the director's director", "this this") and a conditional pass expands
// or drops chat abbreviations that are not part of a replaced name.
package anonymize
