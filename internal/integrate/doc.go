// Package integrate merges entity tagging and coreference output into one
// per-token replacement decision for a whole review.
//
// Step A resolves the metadata entries the plain replacer had to skip
// (ambiguous or conflicting strings) by trusting the tagger's entity label,
// with a bounded literal fallback for unambiguous strings. Step B rewrites
// coreference clusters about the work or a credited role and replaces any
// remaining PERSON and WORK_OF_ART tokens with generic placeholders.
package integrate
