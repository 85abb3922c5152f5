package lifecycle

import "errors"

// Every failure crossing the lifecycle boundary is one of these typed
// results, wrapped with context where useful. Nothing is retried internally;
// retry policy belongs to the caller.
var (
	// ErrNotFound reports an item id that resolves to nothing.
	ErrNotFound = errors.New("item not found")

	// ErrPermissionDenied reports insufficient capability for the operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrLockConflict reports an edit or acquire attempt while the advisory
	// lock is held by another user. The holder's identity is not disclosed.
	ErrLockConflict = errors.New("item is locked by another user")

	// ErrNotLockHolder reports a release attempted by a non-holder.
	ErrNotLockHolder = errors.New("lock is held by another user")

	// ErrInvalidState reports an operation unreachable from the item's
	// current lifecycle state, e.g. purging an item that is not in the trash.
	ErrInvalidState = errors.New("operation not valid in current item state")

	// ErrValidation reports a malformed request, e.g. a missing title.
	ErrValidation = errors.New("validation error")
)
