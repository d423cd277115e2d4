package cache_test

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getseam/seam/internal/cache"
	"github.com/getseam/seam/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.NewWithWriter(false, true, io.Discard)
}

func TestSetGetRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := cache.New(t.TempDir(), 300*time.Second, testLogger())
	require.NoError(t, err)

	c.Set("v1", "secret", "acct", "vault", "X")

	got, ok := c.Get("secret", "acct", "vault", "X")
	require.True(t, ok)
	assert.Equal(t, "v1", got)
}

func TestGetMissesOnUnknownKey(t *testing.T) {
	t.Parallel()

	c, err := cache.New(t.TempDir(), time.Minute, testLogger())
	require.NoError(t, err)

	_, ok := c.Get("secret", "acct", "vault", "NOPE")
	assert.False(t, ok)
}

func TestZeroTTLAlwaysMisses(t *testing.T) {
	t.Parallel()

	c, err := cache.New(t.TempDir(), 0, testLogger())
	require.NoError(t, err)

	c.Set("v1", "secret", "X")
	_, ok := c.Get("secret", "X")
	assert.False(t, ok)
}

func TestEntryExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	current := time.Now()
	c, err := cache.New(t.TempDir(), 300*time.Second, testLogger(),
		cache.WithClock(func() time.Time { return current }))
	require.NoError(t, err)

	c.Set("v1", "secret", "X")

	got, ok := c.Get("secret", "X")
	require.True(t, ok)
	assert.Equal(t, "v1", got)

	current = current.Add(301 * time.Second)
	_, ok = c.Get("secret", "X")
	assert.False(t, ok)
}

func TestKeyIsDeterministicAndNamespaced(t *testing.T) {
	t.Parallel()

	c, err := cache.New(t.TempDir(), time.Minute, testLogger())
	require.NoError(t, err)

	assert.Equal(t,
		c.Key("fetch", "acct", "vault-a", "NAME"),
		c.Key("fetch", "acct", "vault-a", "NAME"))

	// Same identifier under two vaults or accounts must never share a key.
	assert.NotEqual(t,
		c.Key("fetch", "acct", "vault-a", "NAME"),
		c.Key("fetch", "acct", "vault-b", "NAME"))
	assert.NotEqual(t,
		c.Key("fetch", "acct-1", "vault-a", "NAME"),
		c.Key("fetch", "acct-2", "vault-a", "NAME"))

	// Length prefixing keeps adjacent args from bleeding into each other.
	assert.NotEqual(t,
		c.Key("fetch", "ab", "c"),
		c.Key("fetch", "a", "bc"))
}

func TestVaultsDoNotShareEntries(t *testing.T) {
	t.Parallel()

	c, err := cache.New(t.TempDir(), time.Minute, testLogger())
	require.NoError(t, err)

	c.Set("work-value", "fetch", "acct", "Work", "API_KEY")
	c.Set("home-value", "fetch", "acct", "Home", "API_KEY")

	got, ok := c.Get("fetch", "acct", "Work", "API_KEY")
	require.True(t, ok)
	assert.Equal(t, "work-value", got)

	got, ok = c.Get("fetch", "acct", "Home", "API_KEY")
	require.True(t, ok)
	assert.Equal(t, "home-value", got)
}

func TestDisabledCacheIsANoOp(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "never-created")
	c, err := cache.New(dir, time.Minute, testLogger(), cache.Disabled())
	require.NoError(t, err)

	c.Set("v1", "secret", "X") // must succeed silently
	_, ok := c.Get("secret", "X")
	assert.False(t, ok)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestClearRemovesEverything(t *testing.T) {
	t.Parallel()

	c, err := cache.New(t.TempDir(), time.Minute, testLogger())
	require.NoError(t, err)

	c.Set("v1", "secret", "A")
	c.Set("v2", "secret", "B")

	require.NoError(t, c.Clear())

	_, ok := c.Get("secret", "A")
	assert.False(t, ok)
	_, ok = c.Get("secret", "B")
	assert.False(t, ok)

	// Directory is recreated empty, ready for the next run.
	entries, err := os.ReadDir(c.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSweepRemovesOnlyExpiredEntries(t *testing.T) {
	t.Parallel()

	current := time.Now()
	c, err := cache.New(t.TempDir(), 300*time.Second, testLogger(),
		cache.WithClock(func() time.Time { return current }))
	require.NoError(t, err)

	c.Set("old", "secret", "OLD")
	current = current.Add(301 * time.Second)
	c.Set("fresh", "secret", "FRESH")

	removed, err := c.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, ok := c.Get("secret", "OLD")
	assert.False(t, ok)
	got, ok := c.Get("secret", "FRESH")
	require.True(t, ok)
	assert.Equal(t, "fresh", got)
}

func TestCorruptEntryDegradesToMiss(t *testing.T) {
	t.Parallel()

	c, err := cache.New(t.TempDir(), time.Minute, testLogger())
	require.NoError(t, err)

	c.Set("v1", "secret", "X")
	path := filepath.Join(c.Dir(), c.Key("secret", "X")+".json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, ok := c.Get("secret", "X")
	assert.False(t, ok)
}

func TestCacheDirectoryIsOwnerOnly(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}

	dir := filepath.Join(t.TempDir(), "cache")
	_, err := cache.New(dir, time.Minute, testLogger())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}
