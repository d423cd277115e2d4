// Package secrets defines the boundary to external secret stores.
//
// The engine never talks to a store directly; it goes through the Provider
// interface. Production adapters shell out to the 1Password CLI or use the
// OS keyring, and an in-memory fake backs the resolver and processor tests.
package secrets

import "context"

// Reference identifies a secret within a store: an identifier, an optional
// field selector, and the vault namespace to look it up in.
type Reference struct {
	Name  string
	Field string
	Vault string
}

// Item is the payload for create-or-update operations.
type Item struct {
	Name     string
	Value    string
	Vault    string
	Category string
	Field    string
}

// Outcome reports whether an Upsert created a new secret or updated an
// existing one. The distinction is part of the adapter contract.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeUpdated
)

func (o Outcome) String() string {
	if o == OutcomeCreated {
		return "created"
	}
	return "updated"
}

// Provider is the external-collaborator boundary to a secret store.
//
// Implementations must never log secret values and must honor context
// cancellation; store calls are blocking subprocess or API I/O and callers
// wrap them in bounded timeouts.
type Provider interface {
	// Name returns the stable, lowercase adapter identifier used in
	// configuration, logging, and cache key derivation.
	Name() string

	// EnsureSignedIn verifies the session for the given backend account ID.
	// It fails fast with NotSignedInError instead of triggering an
	// interactive sign-in.
	EnsureSignedIn(ctx context.Context, account string) error

	// Fetch resolves a reference to its raw value. Returns NotFoundError
	// when the identifier does not exist in the vault.
	Fetch(ctx context.Context, ref Reference) (string, error)

	// List enumerates the secret identifiers in a vault. Adapters that
	// cannot enumerate return ErrListUnsupported.
	List(ctx context.Context, vault string) ([]string, error)

	// Upsert creates or updates a secret, reporting which one happened.
	Upsert(ctx context.Context, item Item) (Outcome, error)
}
