// Package watcher monitors a trace path and signals when profile data
// changes, so watch mode can re-ingest and republish reports.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/makegrind/makegrind/pkg/logging"
)

// ReloadEvent is a debounced batch of profile-file changes.
type ReloadEvent struct {
	Paths     []string
	Timestamp time.Time
}

// TraceWatcher watches a trace file, or a build tree containing
// per-process profile files, for changes.
type TraceWatcher struct {
	watcher     *fsnotify.Watcher
	path        string
	profileName string
	quietPeriod time.Duration
	events      chan ReloadEvent
}

// NewTraceWatcher creates a watcher over the given trace path.
// profileName is the per-process profile filename matched when the path
// is a directory.
func NewTraceWatcher(path, profileName string) (*TraceWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &TraceWatcher{
		watcher:     fsw,
		path:        path,
		profileName: profileName,
		quietPeriod: 250 * time.Millisecond,
		events:      make(chan ReloadEvent, 10),
	}, nil
}

// Start begins watching and processing events.
func (tw *TraceWatcher) Start(ctx context.Context) error {
	stat, err := os.Stat(tw.path)
	if err != nil {
		return fmt.Errorf("stat trace path: %w", err)
	}

	if stat.IsDir() {
		if err := tw.watchTree(); err != nil {
			return err
		}
	} else {
		// Watch the containing directory; editors replace files rather
		// than writing them in place.
		if err := tw.watcher.Add(filepath.Dir(tw.path)); err != nil {
			return fmt.Errorf("failed to watch %q: %w", tw.path, err)
		}
	}

	logging.Info("watching trace path", "path", tw.path)
	go tw.processEvents(ctx)
	return nil
}

// watchTree adds every directory under the trace root that holds a
// profile file.
func (tw *TraceWatcher) watchTree() error {
	dirs := make(map[string]bool)

	err := filepath.Walk(tw.path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip files we can't access
		}
		if info.IsDir() {
			if info.Name() == ".git" || strings.HasPrefix(info.Name(), "bazel-") {
				return filepath.SkipDir
			}
			return nil
		}
		if tw.matches(path) {
			dirs[filepath.Dir(path)] = true
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk trace tree: %w", err)
	}

	for dir := range dirs {
		if err := tw.watcher.Add(dir); err != nil {
			logging.Warn("failed to watch directory", "path", dir, "error", err)
		}
	}

	logging.Info("monitoring directories for profile files", "count", len(dirs))
	return nil
}

func (tw *TraceWatcher) matches(path string) bool {
	name := filepath.Base(path)
	if name == tw.profileName || strings.HasSuffix(name, tw.profileName) {
		return true
	}
	// Single-file mode: only the named trace matters.
	abs1, _ := filepath.Abs(path)
	abs2, _ := filepath.Abs(tw.path)
	return abs1 == abs2
}

// processEvents batches rapid events behind a quiet period so one build
// writing dozens of profiles triggers one reload.
func (tw *TraceWatcher) processEvents(ctx context.Context) {
	var pending []string
	flushTimer := time.NewTimer(tw.quietPeriod)
	flushTimer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		tw.events <- ReloadEvent{Paths: pending, Timestamp: time.Now()}
		pending = nil
	}

	for {
		select {
		case <-ctx.Done():
			tw.watcher.Close()
			close(tw.events)
			return

		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if !tw.matches(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = append(pending, event.Name)
			flushTimer.Reset(tw.quietPeriod)

		case <-flushTimer.C:
			flush()

		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of debounced reload events.
func (tw *TraceWatcher) Events() <-chan ReloadEvent {
	return tw.events
}

// Stop stops the watcher.
func (tw *TraceWatcher) Stop() error {
	return tw.watcher.Close()
}
