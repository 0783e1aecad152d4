// Package textnorm canonicalizes raw review text before any metadata or
// sentence work happens.
//
// Normalize runs ten ordered stages of regular-expression rules (spaced
// initials, URL and emoji canonicalization, line-break sentence repair,
// punctuation runs, glyph folding, invisible characters, bracketed
// annotations, spacing and abbreviations, dash and ellipsis cleanup) and
// finishes with Unicode normalization. Each stage completes over the whole
// text before the next begins, and every stage is a total function.
package textnorm
