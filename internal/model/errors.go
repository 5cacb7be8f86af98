package model

import "fmt"

// ValidationError marks a raw item (or a batch precondition) that failed
// structural validation. Per-item occurrences are recorded, never fatal.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError marks a referenced row that does not exist for the owner.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// ConflictError marks an unexpected uniqueness violation at the storage
// layer. Sequential processing should prevent it; when it shows up anyway it
// is surfaced as a per-item failure.
type ConflictError struct {
	Kind string
	Key  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict on %s", e.Kind, e.Key)
}

// AuthorizationError marks a delete targeting a row the caller does not own.
type AuthorizationError struct {
	Kind string
	ID   string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not authorized to delete %s %q", e.Kind, e.ID)
}

// UpstreamError marks an unreachable backing store. Fatal to the whole call;
// retry policy belongs to the caller.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
