package process

import (
	"context"
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"

	seamerrors "github.com/getseam/seam/internal/errors"
	"github.com/getseam/seam/internal/secrets"
	"github.com/getseam/seam/internal/template"
)

// Validation is the read-only inspection report for one template.
// Resolvable is keyed by the token's display form. Neither Validate nor
// Diff redacts secret values; callers that need redaction post-filter.
type Validation struct {
	Path       string
	Format     template.Format
	Tokens     []template.Token
	Resolvable map[string]bool
}

// Validate reports the detected format, the token set, and whether each
// token currently resolves. It never writes output.
func (p *Processor) Validate(ctx context.Context, path string) (*Validation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, seamerrors.UserError{
			Message: fmt.Sprintf("Cannot read template %s", path),
			Details: err.Error(),
			Err:     err,
		}
	}
	if isBinary(data) {
		return nil, BinaryFileError{Path: path}
	}

	content := string(data)
	format := template.Detect(content)
	v := &Validation{
		Path:       path,
		Format:     format,
		Resolvable: make(map[string]bool),
	}
	if format == template.FormatNone {
		return v, nil
	}

	tokens, err := template.Extract(content, format)
	if err != nil {
		return nil, err
	}
	v.Tokens = tokens

	for tok, outcome := range p.resolver.BatchResolve(ctx, p.opts.Vault, tokens) {
		if outcome.Err != nil && !secrets.IsNotFound(outcome.Err) {
			return nil, outcome.Err
		}
		v.Resolvable[tok.String()] = outcome.Err == nil
	}
	return v, nil
}

// Diff returns a unified diff between the original file and its would-be
// resolved content. Unresolved tokens stay literal in the right-hand side.
// Read-only: nothing is written, and values are not redacted by design.
func (p *Processor) Diff(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", seamerrors.UserError{
			Message: fmt.Sprintf("Cannot read template %s", path),
			Details: err.Error(),
			Err:     err,
		}
	}
	if isBinary(data) {
		return "", BinaryFileError{Path: path}
	}

	original := string(data)
	result, _, err := p.render(ctx, original)
	if err != nil {
		return "", err
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(result.Content),
		FromFile: path,
		ToFile:   path + " (resolved)",
		Context:  3,
	})
}
