package profile

import "errors"

var (
	// ErrStorage indicates the profile store could not be read or written.
	ErrStorage = errors.New("profile store error")
	// ErrDuplicateAlias indicates an add with an alias that is already taken.
	ErrDuplicateAlias = errors.New("alias already exists")
	// ErrNotFound indicates an operation referencing an unknown alias.
	ErrNotFound = errors.New("profile not found")
	// ErrInvalidIdentity indicates identity fields failing validation.
	ErrInvalidIdentity = errors.New("invalid identity")
)
