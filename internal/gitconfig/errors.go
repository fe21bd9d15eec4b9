package gitconfig

import "errors"

var (
	// ErrInvalidKey indicates a config key missing section or key name.
	ErrInvalidKey = errors.New("invalid key")
	// ErrApply indicates the git configuration could not be read or written.
	ErrApply = errors.New("failed to update git config")
)
