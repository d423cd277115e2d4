package secrets

import (
	"errors"
	"fmt"
)

// NotSignedInError is a fatal precondition failure: the store session is
// missing or expired. The engine never auto-retries it.
type NotSignedInError struct {
	Provider string
	Account  string
	Err      error
}

func (e NotSignedInError) Error() string {
	msg := fmt.Sprintf("%s: not signed in", e.Provider)
	if e.Account != "" {
		msg += fmt.Sprintf(" (account %s)", e.Account)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e NotSignedInError) Unwrap() error {
	return e.Err
}

// IsNotSignedIn reports whether err is a NotSignedInError.
func IsNotSignedIn(err error) bool {
	var target NotSignedInError
	return errors.As(err, &target)
}

// NotFoundError indicates the identifier does not exist in the vault.
// Recoverable through GetOrDefault or the allow-missing policy.
type NotFoundError struct {
	Provider string
	Name     string
	Vault    string
}

func (e NotFoundError) Error() string {
	msg := fmt.Sprintf("secret not found: %s", e.Name)
	if e.Vault != "" {
		msg += " in vault " + e.Vault
	}
	if e.Provider != "" {
		msg += " (" + e.Provider + ")"
	}
	return msg
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

// ErrListUnsupported is returned by adapters whose backing store cannot
// enumerate secrets.
var ErrListUnsupported = errors.New("provider does not support listing secrets")
