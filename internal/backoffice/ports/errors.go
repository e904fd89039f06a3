package ports

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an identifier is absent from a store or
	// from the local cache.
	ErrNotFound = errors.New("record not found")

	// ErrNoOrderSelected is returned by status updates issued without an
	// active order selection. Checked locally, never sent to the backend.
	ErrNoOrderSelected = errors.New("no order selected")

	// ErrOrderMissingID is returned when the selected order context carries
	// no identifier.
	ErrOrderMissingID = errors.New("selected order has no identifier")

	// ErrDuplicateCategoryKey rejects a category creation reusing a key.
	ErrDuplicateCategoryKey = errors.New("category key already exists")

	// ErrCategoryInUse rejects deleting a category still referenced by
	// at least one product.
	ErrCategoryInUse = errors.New("category is referenced by products")
)

// AuthError is a failed authentication attempt. Reason carries the backend's
// message verbatim for classification.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// GatewayError wraps a failed backend read, write or storage call.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
