package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMatches(t *testing.T) {
	tw, err := NewTraceWatcher("/build/trace.json", ".makegrind.json")
	if err != nil {
		t.Fatalf("NewTraceWatcher() failed: %v", err)
	}
	defer tw.Stop()

	tests := []struct {
		path string
		want bool
	}{
		{"/build/sub/.makegrind.json", true},
		{"/build/100.makegrind.json", true},
		{"/build/trace.json", true},
		{"/build/Makefile", false},
		{"/build/notes.txt", false},
	}
	for _, tt := range tests {
		if got := tw.matches(tt.path); got != tt.want {
			t.Errorf("matches(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatchDetectsProfileWrite(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, ".makegrind.json")
	if err := os.WriteFile(profile, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	tw, err := NewTraceWatcher(dir, ".makegrind.json")
	if err != nil {
		t.Fatalf("NewTraceWatcher() failed: %v", err)
	}
	tw.quietPeriod = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := tw.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if err := os.WriteFile(profile, []byte(`{"pid": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case event := <-tw.Events():
		if len(event.Paths) == 0 {
			t.Error("reload event carried no paths")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload event")
	}
}

func TestWatchIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".makegrind.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	tw, err := NewTraceWatcher(dir, ".makegrind.json")
	if err != nil {
		t.Fatalf("NewTraceWatcher() failed: %v", err)
	}
	tw.quietPeriod = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := tw.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case event := <-tw.Events():
		t.Errorf("unexpected reload event for %v", event.Paths)
	case <-time.After(300 * time.Millisecond):
	}
}
