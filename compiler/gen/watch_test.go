package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsTrackedChanges(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(model, []byte("package: api\n"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))

	changed := make(chan string, 1)
	w, err := NewWatcher(func(path string) {
		select {
		case changed <- path:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(model))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// Untracked sibling files never fire.
	require.NoError(t, os.WriteFile(other, []byte("y"), 0o644))
	require.NoError(t, os.WriteFile(model, []byte("package: api2\n"), 0o644))

	select {
	case path := <-changed:
		abs, _ := filepath.Abs(model)
		assert.Equal(t, abs, filepath.Clean(path))
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_AddMissingDir(t *testing.T) {
	w, err := NewWatcher(func(string) {})
	require.NoError(t, err)
	defer w.Close()

	err = w.Add(filepath.Join(t.TempDir(), "nope", "model.yaml"))
	assert.Error(t, err)
}
