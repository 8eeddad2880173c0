package config_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/markstyle/internal/config"
	"github.com/dshills/markstyle/internal/markdown"
)

type reloads struct {
	mu   sync.Mutex
	cfgs []*config.Config
	errs []error
}

func (r *reloads) record(cfg *config.Config, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.errs = append(r.errs, err)
		return
	}
	r.cfgs = append(r.cfgs, cfg)
}

func (r *reloads) last() (*config.Config, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cfgs) == 0 {
		return nil, len(r.errs)
	}
	return r.cfgs[len(r.cfgs)-1], len(r.errs)
}

func noEnv(string) (string, bool) { return "", false }

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "[markdown]\nselection_policy = \"primary-empty\"\n")

	w, err := config.NewWatcher(path, config.WithDebounce(10*time.Millisecond), config.WithLookup(noEnv))
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, markdown.PolicyPrimaryEmpty, w.Current().SelectionPolicy())

	var got reloads
	w.Subscribe(got.record)

	require.NoError(t, os.WriteFile(path, []byte("[markdown]\nselection_policy = \"always\"\n"), 0o644))

	require.Eventually(t, func() bool {
		cfg, _ := got.last()
		return cfg != nil && cfg.SelectionPolicy() == markdown.PolicyAlways
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, markdown.PolicyAlways, w.Current().SelectionPolicy())
}

func TestWatcherKeepsPreviousOnInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "[logging]\nlevel = \"debug\"\n")

	w, err := config.NewWatcher(path, config.WithDebounce(10*time.Millisecond), config.WithLookup(noEnv))
	require.NoError(t, err)
	defer w.Close()

	var got reloads
	w.Subscribe(got.record)

	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"loud\"\n"), 0o644))

	require.Eventually(t, func() bool {
		_, errs := got.last()
		return errs > 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "debug", w.Current().Logging.Level)
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", "")

	w, err := config.NewWatcher(path, config.WithDebounce(10*time.Millisecond), config.WithLookup(noEnv))
	require.NoError(t, err)
	defer w.Close()

	var got reloads
	w.Subscribe(got.record)

	writeFile(t, dir, "other.toml", "garbage")
	time.Sleep(100 * time.Millisecond)

	cfg, errs := got.last()
	assert.Nil(t, cfg)
	assert.Zero(t, errs)
}

func TestWatcherUnsubscribeAndClose(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "logging:\n  level: info\n")

	w, err := config.NewWatcher(path, config.WithLookup(noEnv))
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(path), w.Path())

	var got reloads
	unsubscribe := w.Subscribe(got.record)

	_, err = w.Reload()
	require.NoError(t, err)
	cfg, _ := got.last()
	require.NotNil(t, cfg)

	unsubscribe()
	w.Subscribe(func(*config.Config, error) { panic("subscriber bug") })
	_, err = w.Reload()
	require.NoError(t, err)

	got.mu.Lock()
	assert.Len(t, got.cfgs, 1)
	got.mu.Unlock()

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	_, err = w.Reload()
	assert.ErrorIs(t, err, config.ErrWatcherClosed)
}

func TestWatcherAppliesEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "")
	w, err := config.NewWatcher(path, config.WithLookup(func(k string) (string, bool) {
		if k == config.EnvSelectionPolicy {
			return "always", true
		}
		return "", false
	}))
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, markdown.PolicyAlways, w.Current().SelectionPolicy())
}

func TestNewWatcherRejectsInvalidFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "[markdown]\nselection_policy = \"never\"\n")
	_, err := config.NewWatcher(path, config.WithLookup(noEnv))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
