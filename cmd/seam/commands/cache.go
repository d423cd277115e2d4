package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/getseam/seam/internal/config"
)

// NewWarmCacheCommand builds the warm-cache command: enumerate a vault and
// resolve every identifier so bulk processing starts against a hot cache.
func NewWarmCacheCommand(cfg *config.Config) *cobra.Command {
	var (
		account string
		vault   string
	)

	cmd := &cobra.Command{
		Use:   "warm-cache --vault <name>",
		Short: "Pre-resolve and cache every secret in a vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := buildResolver(cfg, account)
			if err != nil {
				return err
			}

			warmed, err := resolver.WarmCache(context.Background(), effectiveVault(cfg, vault))
			if err != nil {
				return err
			}
			cfg.Logger.Info("cached %d secret(s)", warmed)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account alias or ID")
	cmd.Flags().StringVar(&vault, "vault", "", "Vault to enumerate")
	_ = cmd.MarkFlagRequired("vault")

	return cmd
}

// NewClearCacheCommand builds the clear-cache command. By default it
// removes the whole cache directory; --expired sweeps only entries past
// their TTL.
func NewClearCacheCommand(cfg *config.Config) *cobra.Command {
	var expiredOnly bool

	cmd := &cobra.Command{
		Use:   "clear-cache",
		Short: "Remove cached secrets",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			c, err := buildCache(cfg)
			if err != nil {
				return err
			}

			if expiredOnly {
				removed, err := c.Sweep()
				if err != nil {
					return err
				}
				cfg.Logger.Info("removed %d expired entr(ies)", removed)
				return nil
			}

			if err := c.Clear(); err != nil {
				return err
			}
			cfg.Logger.Info("cache cleared: %s", c.Dir())
			return nil
		},
	}

	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "Remove only expired entries")

	return cmd
}
