// Package resolve turns placeholder tokens into secret values by combining
// the provider boundary with the TTL cache.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getseam/seam/internal/cache"
	seamerrors "github.com/getseam/seam/internal/errors"
	"github.com/getseam/seam/internal/logging"
	"github.com/getseam/seam/internal/secrets"
	"github.com/getseam/seam/internal/template"
)

const fetchOperation = "fetch"

// DefaultTimeout bounds each provider call. Store CLIs may block on
// interactive re-authentication; the timeout converts a hang into an error.
const DefaultTimeout = 30 * time.Second

// Resolver resolves identifiers against the provider, reading through the
// cache. The cache is passed in explicitly; there is no ambient global
// state. Cache keys always include the provider name, account, and vault,
// so two accounts or vaults with same-named identifiers never share
// entries.
type Resolver struct {
	provider secrets.Provider
	cache    *cache.Cache
	logger   *logging.Logger
	account  string
	timeout  time.Duration

	signedIn bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout overrides the per-call provider timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.timeout = d }
}

// New creates a resolver. account is the backend account ID the cache keys
// and sign-in checks are scoped to.
func New(p secrets.Provider, c *cache.Cache, logger *logging.Logger, account string, opts ...Option) *Resolver {
	r := &Resolver{
		provider: p,
		cache:    c,
		logger:   logger,
		account:  account,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the value for an identifier. A cache hit returns
// immediately without touching the provider; a miss fetches, writes
// through on success, and propagates NotFoundError otherwise.
func (r *Resolver) Resolve(ctx context.Context, name, field, vault string) (string, error) {
	if field == "" {
		field = secrets.DefaultField
	}

	if value, ok := r.cache.Get(fetchOperation, r.provider.Name(), r.account, vault, name, field); ok {
		r.logger.Debug("cache hit for %s", name)
		return value, nil
	}

	if err := r.ensureSignedIn(ctx); err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	value, err := r.provider.Fetch(callCtx, secrets.Reference{Name: name, Field: field, Vault: vault})
	if err != nil {
		return "", r.wrapTimeout(err, "fetch")
	}

	r.cache.Set(value, fetchOperation, r.provider.Name(), r.account, vault, name, field)
	r.logger.Debug("fetched %s from %s", name, r.provider.Name())
	return value, nil
}

// GetOrDefault resolves an identifier and substitutes the default on any
// resolution error. It never fails.
func (r *Resolver) GetOrDefault(ctx context.Context, name, defaultValue, field, vault string) string {
	value, err := r.Resolve(ctx, name, field, vault)
	if err != nil {
		r.logger.Debug("using default for %s: %v", name, err)
		return defaultValue
	}
	return value
}

// Exists reports whether an identifier resolves. Implemented as
// resolve-and-discard: the cardinality is small and a hit leaves the value
// cached for the resolve that usually follows.
func (r *Resolver) Exists(ctx context.Context, name, vault string) bool {
	_, err := r.Resolve(ctx, name, "", vault)
	return err == nil
}

// BatchResult carries the outcome for one token of a batch: either a value
// or the error that prevented one. Callers can distinguish partial from
// total failure without the batch aborting on the first miss.
type BatchResult struct {
	Value string
	Err   error
}

// BatchResolve resolves a set of tokens against a vault, continuing past
// individual failures. Tokens carrying their own vault qualifier keep it;
// the vault argument fills in the rest. The result maps every input token
// to its outcome.
func (r *Resolver) BatchResolve(ctx context.Context, vault string, tokens []template.Token) map[template.Token]BatchResult {
	results := make(map[template.Token]BatchResult, len(tokens))
	for _, tok := range tokens {
		effectiveVault := tok.Vault
		if effectiveVault == "" {
			effectiveVault = vault
		}
		value, err := r.Resolve(ctx, tok.Name, tok.Field, effectiveVault)
		results[tok] = BatchResult{Value: value, Err: err}
	}
	return results
}

// WarmCache enumerates the vault and resolves every identifier so later
// bulk processing runs against a hot cache. Individual failures are logged
// and skipped; the count of cached identifiers is returned.
func (r *Resolver) WarmCache(ctx context.Context, vault string) (int, error) {
	if err := r.ensureSignedIn(ctx); err != nil {
		return 0, err
	}

	listCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	names, err := r.provider.List(listCtx, vault)
	if err != nil {
		if errors.Is(err, secrets.ErrListUnsupported) {
			return 0, seamerrors.ProviderError(r.provider.Name(), "listing", err)
		}
		return 0, r.wrapTimeout(err, "list")
	}

	warmed := 0
	for _, name := range names {
		if _, err := r.Resolve(ctx, name, "", vault); err != nil {
			r.logger.Warn("warm-cache skipped %s: %v", name, err)
			continue
		}
		warmed++
	}
	return warmed, nil
}

// ensureSignedIn runs the provider sign-in check once per resolver.
func (r *Resolver) ensureSignedIn(ctx context.Context) error {
	if r.signedIn {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.provider.EnsureSignedIn(callCtx, r.account); err != nil {
		return err
	}
	r.signedIn = true
	return nil
}

func (r *Resolver) wrapTimeout(err error, operation string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return seamerrors.UserError{
			Message:    fmt.Sprintf("%s provider timed out during %s", r.provider.Name(), operation),
			Details:    fmt.Sprintf("operation exceeded %s", r.timeout),
			Suggestion: "Check connectivity and authentication, or raise timeout_ms in seam.yaml",
			Err:        err,
		}
	}
	return err
}
