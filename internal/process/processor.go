// Package process orchestrates per-file template processing:
// detect, extract, resolve, replace, emit.
package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	seamerrors "github.com/getseam/seam/internal/errors"
	"github.com/getseam/seam/internal/logging"
	"github.com/getseam/seam/internal/resolve"
	"github.com/getseam/seam/internal/secrets"
	"github.com/getseam/seam/internal/template"
)

// Options controls per-file processing behavior.
type Options struct {
	// DryRun prints a preview instead of writing output.
	DryRun bool
	// Debug emits per-token traces and disables preview redaction.
	Debug bool
	// AllowMissing leaves unresolved placeholders in place instead of
	// aborting the file.
	AllowMissing bool
	// Vault is the default vault for tokens that carry no vault qualifier.
	Vault string
}

// Processor runs the per-file pipeline against a resolver. Previews go to
// Stdout; every diagnostic goes to the logger's stream, so the two can
// never interleave.
type Processor struct {
	resolver *resolve.Resolver
	logger   *logging.Logger
	opts     Options

	// Stdout receives dry-run previews. Defaults to os.Stdout.
	Stdout io.Writer
}

// New creates a processor.
func New(r *resolve.Resolver, logger *logging.Logger, opts Options) *Processor {
	return &Processor{
		resolver: r,
		logger:   logger,
		opts:     opts,
		Stdout:   os.Stdout,
	}
}

// Result describes the outcome for one file.
type Result struct {
	Path       string
	Format     template.Format
	Content    string
	Unresolved []template.Token
	Written    bool
}

// ProcessFile runs the pipeline for a single file. The outcome order is
// terminal-on-first-hit: binary guard, then format detection (None means
// pass through unchanged), then resolution under the missing-secret
// policy, then emit. outPath may equal path for in-place processing.
//
// Under the strict policy (allow-missing off) a file with any unresolved
// token produces no output write at all.
func (p *Processor) ProcessFile(ctx context.Context, path, outPath string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, seamerrors.UserError{
			Message:    fmt.Sprintf("Cannot read template %s", path),
			Details:    err.Error(),
			Suggestion: "Verify the path exists and is readable",
			Err:        err,
		}
	}

	if isBinary(data) {
		return nil, BinaryFileError{Path: path}
	}

	result, values, err := p.render(ctx, string(data))
	result.Path = path
	if err != nil {
		return result, err
	}

	if result.Format == template.FormatNone {
		p.logger.Debug("%s: no placeholder grammar detected, passing through", path)
		return result, nil
	}

	if len(result.Unresolved) > 0 {
		if !p.opts.AllowMissing {
			return result, seamerrors.UserError{
				Message:    fmt.Sprintf("%s: %d unresolved token(s), output not written", path, len(result.Unresolved)),
				Details:    tokenNames(result.Unresolved),
				Suggestion: "Create the missing secrets, or rerun with --allow-missing to keep placeholders",
			}
		}
		for _, tok := range result.Unresolved {
			p.logger.Warn("%s: leaving unresolved placeholder %s", path, tok)
		}
	}

	if p.opts.DryRun {
		p.preview(result, values)
		return result, nil
	}

	if outPath == "" {
		outPath = path
	}
	mode := os.FileMode(0o600)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := atomicWrite(outPath, result.Content, mode); err != nil {
		return result, seamerrors.UserError{
			Message:    fmt.Sprintf("Failed to write %s", outPath),
			Details:    err.Error(),
			Suggestion: "Check directory permissions and free disk space",
			Err:        err,
		}
	}
	result.Written = true
	return result, nil
}

// render runs detect → extract → resolve → replace on content and returns
// the result plus the resolved values (for preview redaction).
func (p *Processor) render(ctx context.Context, content string) (*Result, []string, error) {
	format := template.Detect(content)
	result := &Result{Format: format, Content: content}
	if format == template.FormatNone {
		return result, nil, nil
	}

	tokens, err := template.Extract(content, format)
	if err != nil {
		// UnsupportedFormatError here means the format enum drifted.
		return result, nil, err
	}
	p.logger.Debug("detected %s format, %d token(s)", format, len(tokens))

	resolved := p.resolver.BatchResolve(ctx, p.opts.Vault, tokens)

	values := make(map[template.Token]string, len(resolved))
	var plainValues []string
	for _, tok := range tokens {
		outcome := resolved[tok]
		if outcome.Err != nil {
			p.trace(tok, format, fmt.Sprintf("unresolved: %v", outcome.Err))
			// Anything other than a missing secret (sign-in failure,
			// timeout) is not recoverable by the missing-secret policy.
			if !secrets.IsNotFound(outcome.Err) {
				return result, nil, outcome.Err
			}
			result.Unresolved = append(result.Unresolved, tok)
			continue
		}
		p.trace(tok, format, "resolved")
		values[tok] = outcome.Value
		plainValues = append(plainValues, outcome.Value)
	}

	replaced, err := template.ReplaceAll(content, values, format)
	if err != nil {
		return result, nil, err
	}
	result.Content = replaced
	return result, plainValues, nil
}

// trace emits the per-token debug line: format, token, outcome. Values are
// never part of a trace.
func (p *Processor) trace(tok template.Token, format template.Format, outcome string) {
	p.logger.Debug("token %s [%s]: %s", tok, format, outcome)
}

// preview prints the would-be output to the content stream. Values are
// redacted unless debug mode asked for the real rendering.
func (p *Processor) preview(result *Result, values []string) {
	content := result.Content
	if !p.opts.Debug {
		content = logging.Redact(content, values)
	}
	fmt.Fprintf(p.Stdout, "--- %s (%s, dry-run) ---\n%s", result.Path, result.Format, content)
	if !strings.HasSuffix(content, "\n") {
		fmt.Fprintln(p.Stdout)
	}
}

// atomicWrite writes content via a temp file in the target directory and
// renames it into place, carrying the given permission bits.
func atomicWrite(path, content string, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".seam-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.WriteString(content); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func tokenNames(tokens []template.Token) string {
	names := make([]string, len(tokens))
	for i, tok := range tokens {
		names[i] = tok.String()
	}
	return strings.Join(names, ", ")
}
