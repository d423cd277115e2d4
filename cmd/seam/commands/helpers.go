package commands

import (
	"fmt"

	"github.com/getseam/seam/internal/cache"
	"github.com/getseam/seam/internal/config"
	"github.com/getseam/seam/internal/resolve"
	"github.com/getseam/seam/internal/secrets"
	"github.com/getseam/seam/pkg/exec"
)

// buildProvider constructs the configured secret store adapter. account is
// already alias-resolved.
func buildProvider(cfg *config.Config, account string) (secrets.Provider, error) {
	switch cfg.ProviderType() {
	case "onepassword":
		return secrets.NewOnePassword(account, exec.DefaultExecutor(), cfg.Logger), nil
	case "keychain":
		return secrets.NewKeychain(cfg.ServicePrefix()), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q (expected onepassword or keychain)", cfg.ProviderType())
	}
}

// buildCache constructs the resolved-secret cache from configuration.
func buildCache(cfg *config.Config) (*cache.Cache, error) {
	ttl, err := cfg.CacheTTL()
	if err != nil {
		return nil, err
	}
	var opts []cache.Option
	if cfg.CacheDisabled() {
		opts = append(opts, cache.Disabled())
	}
	return cache.New(cfg.CacheDir(), ttl, cfg.Logger, opts...)
}

// buildResolver loads configuration and wires provider, cache, and
// resolver together. accountFlag is the raw --account value (alias or ID).
func buildResolver(cfg *config.Config, accountFlag string) (*resolve.Resolver, error) {
	if err := cfg.Load(); err != nil {
		return nil, err
	}

	account := cfg.ResolveAccount(accountFlag)
	provider, err := buildProvider(cfg, account)
	if err != nil {
		return nil, err
	}
	c, err := buildCache(cfg)
	if err != nil {
		return nil, err
	}

	return resolve.New(provider, c, cfg.Logger, account,
		resolve.WithTimeout(cfg.ProviderTimeout())), nil
}

// effectiveVault applies the configured default when the flag is empty.
func effectiveVault(cfg *config.Config, vaultFlag string) string {
	if vaultFlag != "" {
		return vaultFlag
	}
	return cfg.DefaultVault()
}
