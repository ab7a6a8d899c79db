package diffmerge

import "fmt"

// NotFoundError indicates a referenced branch or key does not exist.
type NotFoundError struct {
	// Resource is the kind of entity that was not found (branch, space, key).
	Resource string
	// ID is the identifier that failed to resolve.
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ValidationError indicates malformed or incomplete conflict resolutions.
type ValidationError struct {
	// Key is the offending translation key, if any.
	Key string
	// Language is the offending language code, if any.
	Language string
	// Reason describes the validation failure.
	Reason string
	// Unresolved is true when the failure is a conflict left without a
	// resolution, as opposed to a malformed resolution. The merge engine
	// reports this case as a blocked merge rather than a fault.
	Unresolved bool
}

func (e *ValidationError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("invalid resolution for (%s, %s): %s", e.Key, e.Language, e.Reason)
	}
	return "invalid resolutions: " + e.Reason
}

// ConflictError indicates a merge is blocked by unresolved conflicts.
// It carries the full conflict list so callers can render a resolution UI
// or retry with resolutions. A blocked merge is the normal path when
// branches diverge, not a fault.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("merge blocked by %d unresolved conflict(s)", len(e.Conflicts))
}

// ConcurrencyError indicates the target branch changed after the diff was
// computed. The merge is aborted rather than silently overwriting
// concurrent work.
type ConcurrencyError struct {
	BranchID string
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("branch %s changed since the diff was computed", e.BranchID)
}

// TransactionError indicates an unexpected failure while applying changes.
// The apply transaction is always rolled back in full before this is returned.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("merge transaction failed: %v", e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
