// Package store persists the catalog, reviews and preprocessed sentences in
// SQLite.
//
// The Store owns schema initialization, busy-retry handling and the review
// lifecycle: a review starts pending, becomes normalized once its
// normalized text is saved, and ends processed (sentences and words
// written in one transaction) or failed. Processed sentences are handed to
// downstream analysis in id-ordered chunks and marked analyzed afterwards.
//
// Schema changes bump the version in schema.go; users delete the database
// to adopt the new schema.
package store
