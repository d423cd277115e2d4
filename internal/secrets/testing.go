package secrets

import (
	"context"
	"sort"
	"sync"
)

// FakeProvider is an in-memory Provider for tests. It records call counts
// so tests can assert how many external fetches a scenario issued, and it
// can be primed to fail sign-in or individual operations.
type FakeProvider struct {
	mu sync.Mutex

	values map[Reference]string

	// FailSignIn makes EnsureSignedIn return NotSignedInError.
	FailSignIn bool
	// FetchErr, when set, is returned by every Fetch.
	FetchErr error
	// ListErr, when set, is returned by every List.
	ListErr error

	SignInCalls int
	FetchCalls  int
	ListCalls   int
	UpsertCalls int
}

// NewFakeProvider creates an empty fake.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{values: make(map[Reference]string)}
}

// Add primes a secret. An empty field stores under the default field.
func (f *FakeProvider) Add(vault, name, field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[f.normalize(Reference{Name: name, Field: field, Vault: vault})] = value
}

// Name returns the fake's identifier.
func (f *FakeProvider) Name() string {
	return "fake"
}

// EnsureSignedIn succeeds unless FailSignIn is set.
func (f *FakeProvider) EnsureSignedIn(ctx context.Context, account string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignInCalls++
	if f.FailSignIn {
		return NotSignedInError{Provider: f.Name(), Account: account}
	}
	return ctx.Err()
}

// Fetch returns a primed value or NotFoundError.
func (f *FakeProvider) Fetch(ctx context.Context, ref Reference) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FetchCalls++
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.FetchErr != nil {
		return "", f.FetchErr
	}
	if v, ok := f.values[f.normalize(ref)]; ok {
		return v, nil
	}
	return "", NotFoundError{Provider: f.Name(), Name: ref.Name, Vault: ref.Vault}
}

// List enumerates the primed identifiers in a vault, sorted for
// deterministic tests.
func (f *FakeProvider) List(ctx context.Context, vault string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.ListErr != nil {
		return nil, f.ListErr
	}

	seen := make(map[string]struct{})
	var names []string
	for ref := range f.values {
		if ref.Vault != vault {
			continue
		}
		if _, dup := seen[ref.Name]; dup {
			continue
		}
		seen[ref.Name] = struct{}{}
		names = append(names, ref.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Upsert stores the item, reporting created or updated.
func (f *FakeProvider) Upsert(ctx context.Context, item Item) (Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpsertCalls++
	if err := ctx.Err(); err != nil {
		return OutcomeCreated, err
	}

	ref := f.normalize(Reference{Name: item.Name, Field: item.Field, Vault: item.Vault})
	outcome := OutcomeCreated
	if _, exists := f.values[ref]; exists {
		outcome = OutcomeUpdated
	}
	f.values[ref] = item.Value
	return outcome, nil
}

func (f *FakeProvider) normalize(ref Reference) Reference {
	if ref.Field == "" {
		ref.Field = DefaultField
	}
	return ref
}
