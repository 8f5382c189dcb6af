package domain

import (
	"errors"
	"strings"
)

// Sentinel errors for the inventory domain. Use errors.Is() to check these.
var (
	// ErrItemNotFound indicates no item has the requested id.
	ErrItemNotFound = errors.New("item not found")

	// ErrUserNotFound indicates no user has the requested id.
	ErrUserNotFound = errors.New("user not found")

	// ErrNoItems indicates the items collection is empty.
	ErrNoItems = errors.New("no items found")

	// ErrNoUsers indicates the users collection is empty.
	ErrNoUsers = errors.New("no users found")

	// ErrMissingRequiredFields indicates a required field is absent or empty.
	ErrMissingRequiredFields = errors.New("missing required fields")

	// ErrItemAlreadyExists indicates an item with the same id is already stored.
	ErrItemAlreadyExists = errors.New("item already exists")

	// ErrUserAlreadyExists indicates a user with the same id is already stored.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidItems indicates a user references item ids that do not exist.
	// The concrete error is *InvalidItemsError.
	ErrInvalidItems = errors.New("invalid items")

	// ErrIDImmutable indicates a patch tried to change an entity's id.
	ErrIDImmutable = errors.New("id cannot be changed")

	// ErrMalformedField indicates a field holds a JSON type it cannot take,
	// such as a non-array "items".
	ErrMalformedField = errors.New("malformed field")
)

// InvalidItemsError carries the referenced item ids that do not exist,
// in the order they appeared in the request.
type InvalidItemsError struct {
	IDs []string
}

func (e *InvalidItemsError) Error() string {
	return "invalid items: " + strings.Join(e.IDs, ", ")
}

// Is makes errors.Is(err, ErrInvalidItems) match.
func (e *InvalidItemsError) Is(target error) bool {
	return target == ErrInvalidItems
}

// Message is the caller-facing text, e.g. "Invalid items: item9, item10".
func (e *InvalidItemsError) Message() string {
	return "Invalid items: " + strings.Join(e.IDs, ", ")
}
