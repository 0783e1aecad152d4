// Package coref resolves pronoun coreference across a review and decides
// which clusters may be rewritten to placeholder phrases.
//
// A Resolver returns clusters of document-global token spans. Classify
// sorts each cluster into a reference to the reviewed work, a reference to
// a credited role, or neither, and Substitutions turns the first two kinds
// into a token-offset replacement map.
package coref
