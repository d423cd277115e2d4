package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getseam/seam/internal/config"
	"github.com/getseam/seam/internal/process"
	"github.com/getseam/seam/internal/secrets"
)

// NewProcessCommand builds the process command: resolve and substitute
// placeholders in one or more template files.
func NewProcessCommand(cfg *config.Config) *cobra.Command {
	var (
		outputPath   string
		dryRun       bool
		allowMissing bool
		account      string
		vault        string
	)

	cmd := &cobra.Command{
		Use:   "process <file>...",
		Short: "Resolve placeholders in template files",
		Long: `Detect the placeholder grammar of each file, resolve every token against
the secret store, and write the substituted content back (or to --out).

By default a file with any unresolved token is aborted with no output
written. Use --allow-missing to keep unresolved placeholders literal and
continue. Dry-run prints a redacted preview without writing; combine with
--debug to see real values and per-token traces.

Examples:
  seam process .env.tmpl --out .env
  seam process dotfiles/*.tmpl --vault Employee
  seam process config.yaml --dry-run
  seam process netrc.tmpl --account work --allow-missing`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath != "" && len(args) > 1 {
				return fmt.Errorf("--out is only valid with a single input file")
			}

			resolver, err := buildResolver(cfg, account)
			if err != nil {
				return err
			}

			processor := process.New(resolver, cfg.Logger, process.Options{
				DryRun:       dryRun,
				Debug:        cfg.Logger.DebugEnabled(),
				AllowMissing: allowMissing,
				Vault:        effectiveVault(cfg, vault),
			})

			ctx := context.Background()
			failed := 0
			for _, path := range args {
				result, err := processor.ProcessFile(ctx, path, outputPath)
				if err != nil {
					// Sign-in is a run-level precondition: once it fails,
					// every remaining file would fail the same way.
					if secrets.IsNotSignedIn(err) {
						return err
					}
					var binErr process.BinaryFileError
					if errors.As(err, &binErr) {
						cfg.Logger.Error("%s: skipped binary file", path)
					} else {
						cfg.Logger.Error("%v", err)
					}
					failed++
					continue
				}
				switch {
				case result.Written:
					cfg.Logger.Info("%s: resolved (%s)", path, result.Format)
				case dryRun:
					cfg.Logger.Info("%s: dry-run, nothing written", path)
				default:
					cfg.Logger.Info("%s: no placeholders, unchanged", path)
				}
			}

			succeeded := len(args) - failed
			if failed > 0 {
				return fmt.Errorf("%d file(s) processed, %d failed", succeeded, failed)
			}
			if len(args) > 1 {
				cfg.Logger.Info("%d file(s) processed", succeeded)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputPath, "out", "", "Output path (single file only; default: in place)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview output without writing")
	cmd.Flags().BoolVar(&allowMissing, "allow-missing", false, "Keep unresolved placeholders instead of aborting the file")
	cmd.Flags().StringVar(&account, "account", "", "Account alias or ID (see 'accounts' in seam.yaml)")
	cmd.Flags().StringVar(&vault, "vault", "", "Default vault for unqualified tokens")

	return cmd
}
