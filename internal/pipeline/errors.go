package pipeline

import (
	"errors"
	"fmt"
)

// MissingInputError rejects a request before any model call: the item id or
// image URL is absent.
type MissingInputError struct {
	Field string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing required input: %s", e.Field)
}

// MalformedAnalysisError means extraction found no balanced JSON object in
// the reasoning output, or a required field was absent after parse. Fatal:
// defaulting category or fit would corrupt downstream search.
type MalformedAnalysisError struct {
	Reason string
}

func (e *MalformedAnalysisError) Error() string {
	return fmt.Sprintf("malformed analysis: %s", e.Reason)
}

// PersistenceError wraps a failed record-store write. Surfaced as-is, no
// retry.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist annotation: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsMalformedAnalysis reports whether err is (or wraps) an extraction
// failure.
func IsMalformedAnalysis(err error) bool {
	var ma *MalformedAnalysisError
	return errors.As(err, &ma)
}
