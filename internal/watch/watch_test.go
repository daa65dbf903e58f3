// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package watch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for use from the Run goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestIsSchemaFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"EquipmentProfile.rdf", true},
		{"core.TTL", true},
		{"notes.md", false},
		{"context.jsonld", false},
		{"rdf", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSchemaFile(tt.name))
		})
	}
}

func TestRelevant(t *testing.T) {
	assert.True(t, Relevant(fsnotify.Event{Name: "/s/a.ttl", Op: fsnotify.Write}))
	assert.True(t, Relevant(fsnotify.Event{Name: "/s/a.rdf", Op: fsnotify.Remove}))
	assert.False(t, Relevant(fsnotify.Event{Name: "/s/a.ttl", Op: fsnotify.Chmod}))
	assert.False(t, Relevant(fsnotify.Event{Name: "/s/a.txt", Op: fsnotify.Create}))
}

func TestRunTriggersOnSchemaChange(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, 50*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 10)
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, out, func(context.Context) error {
			calls <- struct{}{}
			return errors.New("boom")
		})
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.ttl"), []byte("# empty"), 0o644))

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("conversion was not rerun after schema change")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.Contains(t, out.String(), "schema change detected: core.ttl")
	assert.Contains(t, out.String(), "conversion failed: boom")
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"), time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching schema directory")
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a.ttl", "b.rdf"}, dedupe([]string{"a.ttl", "b.rdf", "a.ttl"}))
}
