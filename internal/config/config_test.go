package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, DefaultSyncInterval, cfg.SyncInterval)
	assert.Empty(t, cfg.Guilds)
}

func TestLoadConfig_GuildDefaultsApplied(t *testing.T) {
	dir := t.TempDir()
	content := `
token: from-file
guilds:
  - id: "123"
  - id: "456"
    categoryPrefix: Langs
    inactivityDays: 30
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Len(t, cfg.Guilds, 2)

	first := cfg.Guilds[0]
	assert.Equal(t, DefaultCategoryPrefix, first.CategoryPrefix)
	assert.Equal(t, DefaultArchiveCategory, first.ArchiveCategory)
	assert.Equal(t, DefaultLogChannel, first.LogChannel)
	assert.Equal(t, DefaultOwnerRolePrefix, first.OwnerRolePrefix)
	assert.Equal(t, 90*24*time.Hour, first.InactivityThreshold())

	second := cfg.Guilds[1]
	assert.Equal(t, "Langs", second.CategoryPrefix)
	assert.Equal(t, 30*24*time.Hour, second.InactivityThreshold())
}

func TestLoadConfig_TokenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	content := "token: from-file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0644))

	t.Setenv(tokenEnvVar, "from-env")
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Token)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("guilds: {broken"), 0644))

	_, err := LoadConfig(dir)
	require.Error(t, err)
}

func TestCategoryStore_RoundTrip(t *testing.T) {
	store := NewCategoryStore(t.TempDir())

	// Empty store: no file yet.
	ids, err := store.Get("g1")
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.Set("g1", []string{"cat-a", "cat-b"}))
	require.NoError(t, store.Set("g2", []string{"cat-x"}))

	ids, err = store.Get("g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat-a", "cat-b"}, ids)

	// Order must survive a rewrite of another guild's list.
	require.NoError(t, store.Set("g1", []string{"cat-b", "cat-a"}))
	ids, err = store.Get("g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat-b", "cat-a"}, ids)

	ids, err = store.Get("g2")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat-x"}, ids)
}

func TestStoreWatcher_SignalsOnStoreChange(t *testing.T) {
	dir := t.TempDir()
	store := NewCategoryStore(dir)
	require.NoError(t, store.Set("g1", []string{"cat-a"}))

	watcher := NewStoreWatcher(store.Path(), 20*time.Millisecond)
	changes := make(chan struct{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx, changes))
	defer watcher.Stop()

	// A write to an unrelated file in the directory must not signal.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0644))

	require.NoError(t, store.Set("g1", []string{"cat-b"}))

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal after the store was rewritten")
	}
}
