package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Keychain adapts the OS keyring (macOS Keychain, Linux Secret Service,
// Windows Credential Manager) to the Provider interface. The vault maps to
// the keyring service name, prefixed so seam's entries stay in their own
// namespace. Keyring entries hold a single value, so field selectors other
// than the default are rejected as not found, and enumeration is
// unsupported.
type Keychain struct {
	servicePrefix string
}

// NewKeychain creates the adapter. An empty prefix defaults to "seam/".
func NewKeychain(servicePrefix string) *Keychain {
	if servicePrefix == "" {
		servicePrefix = "seam/"
	}
	return &Keychain{servicePrefix: servicePrefix}
}

// Name returns the adapter identifier.
func (kc *Keychain) Name() string {
	return "keychain"
}

// EnsureSignedIn is a no-op: keyring access rides on the OS session.
func (kc *Keychain) EnsureSignedIn(ctx context.Context, account string) error {
	return ctx.Err()
}

// Fetch retrieves a secret from the OS keyring.
func (kc *Keychain) Fetch(ctx context.Context, ref Reference) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if ref.Field != "" && ref.Field != DefaultField {
		return "", NotFoundError{Provider: kc.Name(), Name: ref.Name + ":" + ref.Field, Vault: ref.Vault}
	}

	value, err := keyring.Get(kc.service(ref.Vault), ref.Name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", NotFoundError{Provider: kc.Name(), Name: ref.Name, Vault: ref.Vault}
		}
		return "", fmt.Errorf("keyring query failed for %s: %w", ref.Name, err)
	}
	return value, nil
}

// List is unsupported: OS keyrings cannot enumerate entries portably.
func (kc *Keychain) List(ctx context.Context, vault string) ([]string, error) {
	return nil, ErrListUnsupported
}

// Upsert writes a secret into the keyring, probing first so the outcome
// distinguishes created from updated.
func (kc *Keychain) Upsert(ctx context.Context, item Item) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return OutcomeCreated, err
	}

	service := kc.service(item.Vault)
	outcome := OutcomeCreated
	if _, err := keyring.Get(service, item.Name); err == nil {
		outcome = OutcomeUpdated
	}

	if err := keyring.Set(service, item.Name, item.Value); err != nil {
		return outcome, fmt.Errorf("keyring write failed for %s: %w", item.Name, err)
	}
	return outcome, nil
}

func (kc *Keychain) service(vault string) string {
	if vault == "" {
		vault = "default"
	}
	return kc.servicePrefix + vault
}
