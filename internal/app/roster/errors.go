package roster

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrValidation matches every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence matches every PersistenceError.
	ErrPersistence = errors.New("persistence failure")
)

// Subjects name which id of a request failed to resolve.
const (
	SubjectPlayer  = "player"
	SubjectDragged = "dragged"
	SubjectTarget  = "target"
)

// NotFoundError reports a player id that does not exist in the catalog.
type NotFoundError struct {
	Subject string
	ID      int64
}

func (e *NotFoundError) Error() string {
	subject := e.Subject
	if subject == "" {
		subject = SubjectPlayer
	}
	if subject == SubjectPlayer {
		return fmt.Sprintf("player %d not found", e.ID)
	}
	return fmt.Sprintf("%s player %d not found", subject, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports malformed input rejected before any write.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// PersistenceError wraps a catalog failure. Nothing from the failed batch is visible.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: persistence failure: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// AsNotFound attempts to unwrap an error into a NotFoundError.
func AsNotFound(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}

// AsValidation attempts to unwrap an error into a ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
