package store

import "errors"

// ErrNotFound reports a missing row.
var ErrNotFound = errors.New("not found")

// ErrorClassifier allows errors to declare their classification for status mapping.
type ErrorClassifier interface {
	// ErrorKind returns a string classification of the error. The kind
	// "canceled" keeps a review pending for the next run; every other
	// kind marks it failed.
	ErrorKind() string
}

// FailureStatus maps a preprocessing error to the review status to persist.
func FailureStatus(err error) Status {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) && classifier.ErrorKind() == "canceled" {
		return StatusPending
	}
	return StatusFailed
}
