package pipeline

import (
	"context"
	"errors"
	"fmt"
)

// ErrModelUnavailable reports an operation that needs a collaborator the
// Models value was built without.
var ErrModelUnavailable = errors.New("model unavailable")

// ErrorClassifier lets errors declare a classification for batch logging.
type ErrorClassifier interface {
	ErrorKind() string
}

// Error kinds reported by StageError.
const (
	KindExternal = "external"
	KindCanceled = "canceled"
)

// StageError wraps a collaborator failure with the stage that hit it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ErrorKind implements ErrorClassifier.
func (e *StageError) ErrorKind() string {
	if errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded) {
		return KindCanceled
	}
	return KindExternal
}

func stageError(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// ErrorKind returns the classification of err, or "" when nothing in its
// chain implements ErrorClassifier.
func ErrorKind(err error) string {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	return ""
}

// Warning kinds.
const (
	WarnMissingMetadata  = "missing_metadata"
	WarnModelUnavailable = "model_unavailable"
)

// Warning is a degraded-mode notice returned alongside a result.
type Warning struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
