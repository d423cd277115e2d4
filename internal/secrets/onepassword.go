package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getseam/seam/internal/logging"
	"github.com/getseam/seam/pkg/exec"
)

// DefaultField is the field fetched when a placeholder names no field.
const DefaultField = "password"

// OnePassword adapts the 1Password CLI (`op`) to the Provider interface.
//
// The CLI contract: metadata calls return JSON, field fetches print the raw
// value on stdout, and failures exit non-zero with a message on stderr
// ("not signed in", "isn't an item", ...) which this adapter classifies
// into the engine's error types.
type OnePassword struct {
	account  string
	executor exec.CommandExecutor
	logger   *logging.Logger
}

// NewOnePassword creates the adapter. account is the backend account ID
// (already resolved from any alias); empty means the CLI's default account.
func NewOnePassword(account string, executor exec.CommandExecutor, logger *logging.Logger) *OnePassword {
	if executor == nil {
		executor = exec.DefaultExecutor()
	}
	return &OnePassword{
		account:  account,
		executor: executor,
		logger:   logger,
	}
}

// Name returns the adapter identifier.
func (op *OnePassword) Name() string {
	return "onepassword"
}

// EnsureSignedIn verifies the CLI session for the account. Any failure maps
// to NotSignedInError; interactive re-authentication is never attempted.
func (op *OnePassword) EnsureSignedIn(ctx context.Context, account string) error {
	if account == "" {
		account = op.account
	}

	args := []string{"account", "get"}
	if account != "" {
		args = append(args, "--account", account)
	}

	_, stderr, err := op.executor.Execute(ctx, "op", args...)
	if err != nil {
		op.logger.Debug("op account get failed: %s", strings.TrimSpace(string(stderr)))
		return NotSignedInError{Provider: op.Name(), Account: account, Err: err}
	}
	return nil
}

// Fetch retrieves a single field value. The value arrives raw on stdout
// with a trailing newline, which is stripped.
func (op *OnePassword) Fetch(ctx context.Context, ref Reference) (string, error) {
	field := ref.Field
	if field == "" {
		field = DefaultField
	}

	args := []string{"item", "get", ref.Name, "--fields", "label=" + field, "--reveal"}
	args = op.withScope(args, ref.Vault)

	stdout, stderr, err := op.executor.Execute(ctx, "op", args...)
	if err != nil {
		return "", op.classify(err, stderr, ref)
	}
	return strings.TrimRight(string(stdout), "\r\n"), nil
}

// List enumerates item titles in a vault via `op item list --format json`.
func (op *OnePassword) List(ctx context.Context, vault string) ([]string, error) {
	args := []string{"item", "list", "--format", "json"}
	args = op.withScope(args, vault)

	stdout, stderr, err := op.executor.Execute(ctx, "op", args...)
	if err != nil {
		return nil, op.classify(err, stderr, Reference{Vault: vault})
	}

	var items []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal(stdout, &items); err != nil {
		return nil, fmt.Errorf("failed to parse op item list output: %w", err)
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Title)
	}
	return names, nil
}

// Upsert edits the item when it exists, otherwise creates it. The two
// paths report distinct outcomes.
func (op *OnePassword) Upsert(ctx context.Context, item Item) (Outcome, error) {
	field := item.Field
	if field == "" {
		field = DefaultField
	}
	assignment := fmt.Sprintf("%s=%s", field, item.Value)

	exists, err := op.itemExists(ctx, item.Name, item.Vault)
	if err != nil {
		return OutcomeCreated, err
	}

	if exists {
		args := op.withScope([]string{"item", "edit", item.Name, assignment}, item.Vault)
		if _, stderr, err := op.executor.Execute(ctx, "op", args...); err != nil {
			return OutcomeUpdated, op.classify(err, stderr, Reference{Name: item.Name, Vault: item.Vault})
		}
		return OutcomeUpdated, nil
	}

	category := item.Category
	if category == "" {
		category = "Password"
	}
	args := []string{"item", "create", "--category", category, "--title", item.Name, assignment}
	args = op.withScope(args, item.Vault)
	if _, stderr, err := op.executor.Execute(ctx, "op", args...); err != nil {
		return OutcomeCreated, op.classify(err, stderr, Reference{Name: item.Name, Vault: item.Vault})
	}
	return OutcomeCreated, nil
}

func (op *OnePassword) itemExists(ctx context.Context, name, vault string) (bool, error) {
	args := op.withScope([]string{"item", "get", name, "--format", "json"}, vault)
	_, stderr, err := op.executor.Execute(ctx, "op", args...)
	if err == nil {
		return true, nil
	}
	classified := op.classify(err, stderr, Reference{Name: name, Vault: vault})
	if IsNotFound(classified) {
		return false, nil
	}
	return false, classified
}

// withScope appends --vault and --account flags where set.
func (op *OnePassword) withScope(args []string, vault string) []string {
	if vault != "" {
		args = append(args, "--vault", vault)
	}
	if op.account != "" {
		args = append(args, "--account", op.account)
	}
	return args
}

// classify maps op CLI stderr output onto the engine's error types.
func (op *OnePassword) classify(err error, stderr []byte, ref Reference) error {
	msg := strings.TrimSpace(string(stderr))
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "not signed in"),
		strings.Contains(lower, "session expired"),
		strings.Contains(lower, "no account found"):
		return NotSignedInError{Provider: op.Name(), Account: op.account, Err: fmt.Errorf("%s", msg)}
	case strings.Contains(lower, "isn't an item"),
		strings.Contains(lower, "not found"),
		strings.Contains(lower, "no item matched"):
		return NotFoundError{Provider: op.Name(), Name: ref.Name, Vault: ref.Vault}
	case msg != "":
		return fmt.Errorf("1Password CLI error: %s", msg)
	default:
		return fmt.Errorf("failed to execute 1Password CLI: %w", err)
	}
}
