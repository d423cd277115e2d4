package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getseam/seam/internal/config"
	"github.com/getseam/seam/internal/process"
)

// NewDiffCommand builds the diff command: a unified diff between a template
// and its would-be resolved content. Output contains real secret values;
// nothing is written to disk.
func NewDiffCommand(cfg *config.Config) *cobra.Command {
	var (
		account string
		vault   string
	)

	cmd := &cobra.Command{
		Use:   "diff <file>",
		Short: "Show a unified diff of original vs resolved content",
		Long: `Print a unified diff between the template and what processing would
produce. Unresolved tokens stay literal. The diff contains resolved secret
values; pipe through a redaction filter if that matters where you run it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := buildResolver(cfg, account)
			if err != nil {
				return err
			}

			processor := process.New(resolver, cfg.Logger, process.Options{
				AllowMissing: true,
				Vault:        effectiveVault(cfg, vault),
			})

			diff, err := processor.Diff(context.Background(), args[0])
			if err != nil {
				return err
			}
			if diff == "" {
				cfg.Logger.Info("%s: no changes", args[0])
				return nil
			}
			fmt.Print(diff)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account alias or ID")
	cmd.Flags().StringVar(&vault, "vault", "", "Default vault for unqualified tokens")

	return cmd
}
