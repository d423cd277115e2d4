package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/getseam/seam/internal/config"
	"github.com/getseam/seam/internal/secrets"
)

// NewSetCommand builds the set command: create or update a secret in the
// store, reporting which of the two happened.
func NewSetCommand(cfg *config.Config) *cobra.Command {
	var (
		account  string
		vault    string
		field    string
		category string
	)

	cmd := &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Create or update a secret in the store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			provider, err := buildProvider(cfg, cfg.ResolveAccount(account))
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), cfg.ProviderTimeout())
			defer cancel()

			outcome, err := provider.Upsert(ctx, secrets.Item{
				Name:     args[0],
				Value:    args[1],
				Vault:    effectiveVault(cfg, vault),
				Category: category,
				Field:    field,
			})
			if err != nil {
				return err
			}
			cfg.Logger.Info("%s: %s", args[0], outcome)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account alias or ID")
	cmd.Flags().StringVar(&vault, "vault", "", "Vault to write into")
	cmd.Flags().StringVar(&field, "field", "", "Field to set (default: password)")
	cmd.Flags().StringVar(&category, "category", "", "Item category for newly created secrets")

	return cmd
}
