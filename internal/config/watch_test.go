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

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, DefaultConfig().SaveToFile(path))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan *Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, func(c *Config) {
			select {
			case changed <- c:
			default:
			}
		})
	}()

	// give the watcher a moment to register
	time.Sleep(200 * time.Millisecond)

	cfg := DefaultConfig()
	cfg.Theme = ThemeLight
	require.NoError(t, cfg.SaveToFile(path))

	select {
	case got := <-changed:
		assert.Equal(t, ThemeLight, got.Theme)
	case <-ctx.Done():
		t.Fatal("no reload observed before timeout")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchSkipsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, DefaultConfig().SaveToFile(path))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	changed := make(chan *Config, 1)
	go func() {
		Watch(ctx, path, nil, func(c *Config) {
			select {
			case changed <- c:
			default:
			}
		})
	}()

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("theme: {broken\n"), 0o644))

	select {
	case got := <-changed:
		t.Fatalf("invalid config delivered: %+v", got)
	case <-time.After(700 * time.Millisecond):
		// debounce plus margin elapsed with no callback
	}
}
