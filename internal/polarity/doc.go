// Package polarity scores the sentiment of a single sentence.
//
// VaderScorer wraps the full VADER lexicon and is the default. When VADER
// finds nothing to score it defers to LexiconScorer, a rule-based scorer in
// the same family over an embedded lexicon: booster words, negation,
// contrastive "but", capitalised emphasis and punctuation all adjust word
// valences before they are summed and squashed into a compound score in
// [-1, 1]. Unknown words are retried by their snowball stem. Scores carry no
// state between sentences and both scorers are safe for concurrent use.
package polarity
