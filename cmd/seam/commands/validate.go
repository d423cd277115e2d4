package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getseam/seam/internal/config"
	"github.com/getseam/seam/internal/process"
	"github.com/getseam/seam/internal/template"
)

// NewValidateCommand builds the validate command: read-only inspection of a
// template's format, tokens, and resolvability.
func NewValidateCommand(cfg *config.Config) *cobra.Command {
	var (
		account string
		vault   string
	)

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Inspect a template's format and token resolvability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := buildResolver(cfg, account)
			if err != nil {
				return err
			}

			processor := process.New(resolver, cfg.Logger, process.Options{
				Vault: effectiveVault(cfg, vault),
			})

			v, err := processor.Validate(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("file:   %s\n", v.Path)
			fmt.Printf("format: %s\n", v.Format)
			if v.Format == template.FormatNone {
				return nil
			}
			fmt.Printf("tokens: %d\n", len(v.Tokens))
			unresolvable := 0
			for _, tok := range v.Tokens {
				status := "resolvable"
				if !v.Resolvable[tok.String()] {
					status = "NOT resolvable"
					unresolvable++
				}
				fmt.Printf("  %-40s %s\n", tok, status)
			}
			if unresolvable > 0 {
				return fmt.Errorf("%d token(s) cannot be resolved", unresolvable)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account alias or ID")
	cmd.Flags().StringVar(&vault, "vault", "", "Default vault for unqualified tokens")

	return cmd
}
