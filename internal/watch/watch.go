// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch reruns a conversion whenever schema files change.
package watch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches one schema directory for .rdf and .ttl changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration

	mu      sync.Mutex
	running bool
}

// New starts watching dir. Events are only acted on once Run is called,
// but changes made after New returns are not missed.
func New(dir string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching schema directory %s: %w", dir, err)
	}
	return &Watcher{
		watcher:  fw,
		dir:      dir,
		debounce: debounce,
	}, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run calls fn once per burst of schema changes, after debounce has passed
// with no further change. A failing fn is reported on out and the loop keeps
// going. Run returns nil when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, out io.Writer, fn func(context.Context) error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	fmt.Fprintf(out, "Watching %s for schema changes (Ctrl-C to stop)\n", w.dir)

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending []string
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !Relevant(event) {
				continue
			}
			pending = append(pending, filepath.Base(event.Name))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			fmt.Fprintf(out, "\nschema change detected: %s\n", strings.Join(dedupe(pending), ", "))
			pending = nil
			if err := fn(ctx); err != nil {
				fmt.Fprintf(out, "conversion failed: %v\n", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "warning: watch error: %v\n", err)
		}
	}
}

// IsSchemaFile reports whether name has a schema extension.
func IsSchemaFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".rdf", ".ttl":
		return true
	}
	return false
}

// Relevant reports whether event changes the set or content of schema files.
func Relevant(event fsnotify.Event) bool {
	if !IsSchemaFile(event.Name) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
