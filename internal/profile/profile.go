// Package profile implements the persisted collection of named git identity
// profiles. Each profile maps a unique alias to a git username and email.
// The whole collection lives in a single JSON document that is read into
// memory at the start of an invocation and fully rewritten on any change.
package profile

import (
	"fmt"
	"net/mail"
)

// Field limits, matching what fits comfortably in a one-line listing.
const (
	MaxUsernameLen = 30
	MaxEmailLen    = 100
	MaxAliasLen    = 30
)

// Identity is one stored git author identity, addressable by its alias.
type Identity struct {
	Alias string `json:"alias"`
	Name  string `json:"username"`
	Email string `json:"email"`
}

// String implements fmt.Stringer in the usual git author format.
func (id Identity) String() string {
	return fmt.Sprintf("%s <%s>", id.Name, id.Email)
}

// ValidateUsername checks a git username before it is stored. It must be
// non-empty, within the length limit and not used by another profile.
func ValidateUsername(name string, existing []Identity) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: username must not be empty", ErrInvalidIdentity)
	case len(name) > MaxUsernameLen:
		return fmt.Errorf("%w: username too long (max %d characters)", ErrInvalidIdentity, MaxUsernameLen)
	}

	for _, id := range existing {
		if id.Name == name {
			return fmt.Errorf("%w: username %q is already used by profile %q", ErrInvalidIdentity, name, id.Alias)
		}
	}

	return nil
}

// ValidateEmail checks an email before it is stored. Only basic
// well-formedness is enforced, anything net/mail parses as an address
// is accepted.
func ValidateEmail(email string, existing []Identity) error {
	switch {
	case email == "":
		return fmt.Errorf("%w: email must not be empty", ErrInvalidIdentity)
	case len(email) > MaxEmailLen:
		return fmt.Errorf("%w: email too long (max %d characters)", ErrInvalidIdentity, MaxEmailLen)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: malformed email %q", ErrInvalidIdentity, email)
	}

	for _, id := range existing {
		if id.Email == email {
			return fmt.Errorf("%w: email %q is already used by profile %q", ErrInvalidIdentity, email, id.Alias)
		}
	}

	return nil
}

// ValidateAlias checks an alias before it is stored. Aliases are
// case-sensitive and must be unique within the store.
func ValidateAlias(alias string, existing []Identity) error {
	switch {
	case alias == "":
		return fmt.Errorf("%w: alias must not be empty", ErrInvalidIdentity)
	case len(alias) > MaxAliasLen:
		return fmt.Errorf("%w: alias too long (max %d characters)", ErrInvalidIdentity, MaxAliasLen)
	}

	for _, id := range existing {
		if id.Alias == alias {
			return fmt.Errorf("%w: %q", ErrDuplicateAlias, alias)
		}
	}

	return nil
}
