// Package reconstruct turns replaced token sequences back into sentences
// and folds the placeholder pile-ups that token-level replacement leaves
// behind.
package reconstruct
