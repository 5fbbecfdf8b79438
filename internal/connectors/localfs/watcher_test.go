package localfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForEvent reads events until cond matches, failing after a
// generous timeout. Filesystems may deliver extra intermediate
// events, so matching is by predicate rather than a single receive.
func waitForEvent(t *testing.T, events <-chan Event, cond func(Event) bool) Event {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event channel closed before a matching event")
			if cond(ev) {
				return ev
			}
		case <-deadline:
			t.Fatal("timeout waiting for file change event")
		}
	}
}

func TestWatch_Create(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher(root, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := w.Watch(ctx)
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		os.WriteFile(filepath.Join(root, "new-file.md"), []byte("content"), 0o644)
	}()

	ev := waitForEvent(t, events, func(ev Event) bool { return ev.Path == "new-file.md" })
	assert.False(t, ev.Removed)
}

func TestWatch_Remove(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "to-delete.md")
	require.NoError(t, os.WriteFile(target, []byte("delete me"), 0o644))

	w, err := NewWatcher(root, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := w.Watch(ctx)
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		os.Remove(target)
	}()

	ev := waitForEvent(t, events, func(ev Event) bool { return ev.Removed })
	assert.Equal(t, "to-delete.md", ev.Path)
}

func TestWatch_SubdirectoryCoverage(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "docs")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	w, err := NewWatcher(root, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := w.Watch(ctx)
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		os.WriteFile(filepath.Join(sub, "inner.md"), []byte("x"), 0o644)
	}()

	ev := waitForEvent(t, events, func(ev Event) bool { return ev.Path == "docs/inner.md" })
	assert.False(t, ev.Removed)
}

func TestWatch_CancelClosesChannel(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	events, err := w.Watch(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok, "channel should close after cancellation")
	case <-time.After(3 * time.Second):
		t.Fatal("channel did not close after cancellation")
	}
}

func TestTranslate(t *testing.T) {
	root := t.TempDir()
	w, err := NewWatcher(root, nil)
	require.NoError(t, err)
	defer w.Close()

	tests := []struct {
		name        string
		file        string
		op          fsnotify.Op
		wantEmit    bool
		wantRemoved bool
	}{
		{"create", "a.md", fsnotify.Create, true, false},
		{"write", "a.md", fsnotify.Write, true, false},
		{"write with chmod", "a.md", fsnotify.Write | fsnotify.Chmod, true, false},
		{"remove", "a.md", fsnotify.Remove, true, true},
		{"rename", "a.md", fsnotify.Rename, true, true},
		{"chmod only", "a.md", fsnotify.Chmod, false, false},
		{"hidden file", ".env", fsnotify.Write, false, false},
		{"file in hidden dir", ".git/HEAD", fsnotify.Write, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := w.translate(fsnotify.Event{
				Name: filepath.Join(root, filepath.FromSlash(tt.file)),
				Op:   tt.op,
			})

			assert.Equal(t, tt.wantEmit, ok)
			if tt.wantEmit {
				assert.Equal(t, tt.file, ev.Path)
				assert.Equal(t, tt.wantRemoved, ev.Removed)
			}
		})
	}
}
