// Package config loads and validates seam.yaml.
package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/getseam/seam/internal/cache"
	seamerrors "github.com/getseam/seam/internal/errors"
	"github.com/getseam/seam/internal/logging"
)

// Config holds the runtime configuration.
type Config struct {
	Path           string
	Logger         *logging.Logger
	NonInteractive bool
	Definition     *Definition
}

// Definition represents the seam.yaml structure.
type Definition struct {
	Version  int               `yaml:"version"`
	Accounts map[string]string `yaml:"accounts,omitempty"`
	Defaults Defaults          `yaml:"defaults,omitempty"`
	Cache    CacheConfig       `yaml:"cache,omitempty"`
	Provider ProviderConfig    `yaml:"provider,omitempty"`
}

// Defaults supplies the account alias and vault used when flags omit them.
type Defaults struct {
	Account string `yaml:"account,omitempty"`
	Vault   string `yaml:"vault,omitempty"`
}

// CacheConfig controls the resolved-secret cache.
type CacheConfig struct {
	Dir      string `yaml:"dir,omitempty"`
	TTL      string `yaml:"ttl,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// ProviderConfig selects and configures the secret store adapter.
type ProviderConfig struct {
	Type      string `yaml:"type,omitempty"`
	TimeoutMs int    `yaml:"timeout_ms,omitempty"`
	// ServicePrefix namespaces keyring entries (keychain provider only).
	ServicePrefix string `yaml:"service_prefix,omitempty"`
}

// DefaultTTL applies when seam.yaml sets no cache TTL.
const DefaultTTL = 24 * time.Hour

// Load reads and validates seam.yaml. A missing file is not an error: the
// built-in defaults (onepassword provider, XDG cache dir, 24h TTL) apply.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			c.Definition = &Definition{}
			return nil
		}
		return seamerrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return seamerrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters",
		}
	}

	if err := validateSchema(data); err != nil {
		return err
	}

	if def.Version != 0 {
		return seamerrors.ConfigError{
			Field:      "version",
			Value:      def.Version,
			Message:    "unsupported configuration version",
			Suggestion: "Set 'version: 0' at the top of your seam.yaml file",
		}
	}

	c.Definition = &def
	return nil
}

// ResolveAccount maps an account alias (e.g. "work") to its backend
// account ID. An unmapped alias passes through unchanged so raw account
// IDs work on the command line; empty falls back to the configured default.
func (c *Config) ResolveAccount(alias string) string {
	def := c.definition()
	if alias == "" {
		alias = def.Defaults.Account
	}
	if alias == "" {
		return ""
	}
	if id, ok := def.Accounts[alias]; ok {
		return id
	}
	return alias
}

// DefaultVault returns the configured default vault.
func (c *Config) DefaultVault() string {
	return c.definition().Defaults.Vault
}

// CacheDir returns the configured cache directory, defaulting to the XDG
// cache home.
func (c *Config) CacheDir() string {
	if dir := c.definition().Cache.Dir; dir != "" {
		return dir
	}
	return cache.DefaultDir()
}

// CacheTTL parses the configured TTL. "0" is valid and means entries are
// immediately expired.
func (c *Config) CacheTTL() (time.Duration, error) {
	raw := c.definition().Cache.TTL
	if raw == "" {
		return DefaultTTL, nil
	}
	if raw == "0" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil {
		return 0, seamerrors.ConfigError{
			Field:      "cache.ttl",
			Value:      raw,
			Message:    "invalid duration",
			Suggestion: "Use Go duration syntax like '300s', '15m', or '24h'",
		}
	}
	return ttl, nil
}

// CacheDisabled reports whether caching is switched off.
func (c *Config) CacheDisabled() bool {
	return c.definition().Cache.Disabled
}

// ProviderType returns the configured adapter type, defaulting to
// onepassword.
func (c *Config) ProviderType() string {
	if t := c.definition().Provider.Type; t != "" {
		return t
	}
	return "onepassword"
}

// ProviderTimeout returns the per-call provider timeout.
func (c *Config) ProviderTimeout() time.Duration {
	if ms := c.definition().Provider.TimeoutMs; ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return 30 * time.Second
}

// ServicePrefix returns the keyring namespace prefix.
func (c *Config) ServicePrefix() string {
	return c.definition().Provider.ServicePrefix
}

func (c *Config) definition() *Definition {
	if c.Definition == nil {
		return &Definition{}
	}
	return c.Definition
}

// configSchema constrains seam.yaml shape beyond what yaml.Unmarshal
// checks: unknown top-level keys and wrongly typed fields fail load with a
// pointer to the offending field.
const configSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "version": {"type": "integer"},
    "accounts": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "defaults": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "account": {"type": "string"},
        "vault": {"type": "string"}
      }
    },
    "cache": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "dir": {"type": "string"},
        "ttl": {"type": "string"},
        "disabled": {"type": "boolean"}
      }
    },
    "provider": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "type": {"type": "string", "enum": ["onepassword", "keychain"]},
        "timeout_ms": {"type": "integer", "minimum": 1},
        "service_prefix": {"type": "string"}
      }
    }
  }
}`

// validateSchema checks the YAML document against the embedded JSON schema.
// The YAML is round-tripped through generic unmarshalling to JSON first.
func validateSchema(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return seamerrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters",
		}
	}
	if doc == nil {
		return nil
	}

	jsonData, err := json.Marshal(normalizeYAML(doc))
	if err != nil {
		return seamerrors.ConfigError{Message: "configuration could not be normalized: " + err.Error()}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return seamerrors.ConfigError{Message: "schema validation failed: " + err.Error()}
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return seamerrors.ConfigError{
			Field:      first.Field(),
			Message:    first.Description(),
			Suggestion: "Compare your seam.yaml against the documented fields",
		}
	}
	return nil
}

// normalizeYAML converts yaml.v3 map[string]interface{} trees into
// json-marshalable values. yaml.v3 already decodes mappings with string
// keys, but nested interface keys can appear in hand-edited files.
func normalizeYAML(v interface{}) interface{} {
	switch value := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(value))
		for k, item := range value {
			out[k] = normalizeYAML(item)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(value))
		for k, item := range value {
			if key, ok := k.(string); ok {
				out[key] = normalizeYAML(item)
			}
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(value))
		for i, item := range value {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}
