// Package cache implements the file-backed TTL cache for resolved secrets.
//
// Every entry lives in its own file under an owner-only directory, keyed by
// a content-addressed hash of the operation and its arguments. Keys are
// deterministic and always include the provider, account, and vault passed
// by the caller, so same-named identifiers in two vaults can never collide.
// Concurrent tool invocations are not coordinated; a lost update costs one
// extra fetch, never wrong data.
//
// Cache I/O failures (disk full, permissions, corrupt entries) degrade to a
// miss and are logged. They are never surfaced to callers.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/getseam/seam/internal/logging"
)

// Cache is a TTL-based, file-backed store for resolved secret values.
// A ttl of zero means every entry is treated as immediately expired; Get
// always misses and Sweep removes everything. That is the documented
// opt-out shorthand, used both by tests and by genuine no-cache policies.
type Cache struct {
	dir      string
	ttl      time.Duration
	disabled bool
	logger   *logging.Logger
	now      func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// Disabled turns the cache into a no-op: Set succeeds without writing and
// Get always misses.
func Disabled() Option {
	return func(c *Cache) { c.disabled = true }
}

// WithClock overrides the time source. Tests use this to simulate expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates the cache directory with owner-only permissions and returns
// the cache handle.
func New(dir string, ttl time.Duration, logger *logging.Logger, opts ...Option) (*Cache, error) {
	c := &Cache{
		dir:    dir,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !c.disabled {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// DefaultDir returns the XDG cache directory for seam.
func DefaultDir() string {
	return filepath.Join(xdg.CacheHome, "seam")
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// entry is the on-disk representation of one cached value.
type entry struct {
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// Key derives the deterministic cache key for an operation and its
// canonicalized arguments. Arguments are length-prefixed before hashing so
// ("ab","c") and ("a","bc") produce different keys.
func (c *Cache) Key(operation string, args ...string) string {
	h := sha256.New()
	writeFrame := func(s string) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}
	writeFrame(operation)
	for _, a := range args {
		writeFrame(a)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached value for the operation and arguments. A hit
// requires the entry to be younger than the TTL; with ttl == 0 every entry
// is already expired. Unreadable or corrupt entries count as misses.
func (c *Cache) Get(operation string, args ...string) (string, bool) {
	if c.disabled || c.ttl <= 0 {
		return "", false
	}

	path := c.entryPath(operation, args...)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Debug("cache read failed for %s: %v", filepath.Base(path), err)
		}
		return "", false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Warn("discarding corrupt cache entry %s: %v", filepath.Base(path), err)
		_ = os.Remove(path)
		return "", false
	}

	if c.now().Sub(e.CreatedAt) >= c.ttl {
		return "", false
	}
	return e.Value, true
}

// Set stores a value under the derived key with the current timestamp.
// When the cache is disabled this is a successful no-op. Write failures are
// logged and swallowed; the caller already holds the value.
func (c *Cache) Set(value string, operation string, args ...string) {
	if c.disabled {
		return
	}

	data, err := json.Marshal(entry{Value: value, CreatedAt: c.now()})
	if err != nil {
		c.logger.Warn("cache encode failed: %v", err)
		return
	}
	if err := os.WriteFile(c.entryPath(operation, args...), data, 0o600); err != nil {
		c.logger.Warn("cache write failed: %v", err)
	}
}

// Clear removes the whole cache directory and recreates it empty.
func (c *Cache) Clear() error {
	if c.disabled {
		return nil
	}
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o700)
}

// Sweep removes only the individually expired entries and returns how many
// were removed. Entries that cannot be parsed are removed as well.
func (c *Cache) Sweep() (int, error) {
	if c.disabled {
		return 0, nil
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, de := range entries {
		if de.IsDir() {
			continue
		}
		path := filepath.Join(c.dir, de.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			c.logger.Debug("cache sweep skipped %s: %v", de.Name(), err)
			continue
		}

		var e entry
		expired := json.Unmarshal(data, &e) != nil ||
			c.ttl <= 0 ||
			c.now().Sub(e.CreatedAt) >= c.ttl

		if !expired {
			continue
		}
		if err := os.Remove(path); err != nil {
			c.logger.Debug("cache sweep could not remove %s: %v", de.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}

func (c *Cache) entryPath(operation string, args ...string) string {
	return filepath.Join(c.dir, c.Key(operation, args...)+".json")
}
