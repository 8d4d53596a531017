package node

import (
	"testing"
	"time"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func TestProcessKey(t *testing.T) {
	if got := ProcessKey(1234); got != "1234" {
		t.Errorf("ProcessKey(1234) = %q, want \"1234\"", got)
	}
}

func TestTargetKey(t *testing.T) {
	if got := TargetKey(1234, "all"); got != "1234:all" {
		t.Errorf("TargetKey(1234, all) = %q, want \"1234:all\"", got)
	}
}

func TestProcessElapsed(t *testing.T) {
	n := NewProcessNode(100)
	n.Update(ProcessRecord{Pid: 100, Directory: "/build", Start: fp(1000.0), End: fp(1005.5)})

	if got := n.Elapsed(); got != 5500*time.Millisecond {
		t.Errorf("Elapsed() = %v, want 5.5s", got)
	}
}

func TestProcessElapsedMissingTimestamps(t *testing.T) {
	n := NewProcessNode(100)
	n.Update(ProcessRecord{Pid: 100, Directory: "/build", Start: fp(1000.0)})

	if got := n.Elapsed(); got != 0 {
		t.Errorf("Elapsed() without end = %v, want 0", got)
	}
	if !n.End().IsZero() {
		t.Errorf("End() without end timestamp = %v, want zero time", n.End())
	}
}

func TestProcessUpdateMerge(t *testing.T) {
	n := NewProcessNode(100)
	n.Update(ProcessRecord{Pid: 100, Start: fp(1000.0)})
	n.Update(ProcessRecord{Pid: 100, Directory: "/build", End: fp(1010.0)})

	if got := n.Elapsed(); got != 10*time.Second {
		t.Errorf("Elapsed() after merged updates = %v, want 10s", got)
	}
	if n.Directory() != "/build" {
		t.Errorf("Directory() = %q, want /build", n.Directory())
	}
}

func TestProcessUpdateInvalidatesDerived(t *testing.T) {
	n := NewProcessNode(100)
	n.Update(ProcessRecord{Pid: 100, Start: fp(1000.0), End: fp(1010.0)})

	// Read once to populate the cache, then correct the end timestamp.
	if got := n.Elapsed(); got != 10*time.Second {
		t.Fatalf("Elapsed() = %v, want 10s", got)
	}
	n.Update(ProcessRecord{Pid: 100, End: fp(1020.0)})
	if got := n.Elapsed(); got != 20*time.Second {
		t.Errorf("Elapsed() after correction = %v, want 20s", got)
	}
}

func TestProcessValid(t *testing.T) {
	n := NewProcessNode(100)
	if n.Valid() {
		t.Error("node without directory should not be valid")
	}
	n.Update(ProcessRecord{Pid: 100, Directory: "/build"})
	if !n.Valid() {
		t.Error("node with pid and directory should be valid")
	}
}

func TestProcessJobs(t *testing.T) {
	tests := []struct {
		name string
		jobs *int
		want Parallelism
	}{
		{"absent", nil, Parallelism{}},
		{"undeclared", ip(-1), Parallelism{}},
		{"unlimited", ip(0), Parallelism{Declared: true, Unlimited: true}},
		{"finite", ip(4), Parallelism{Declared: true, Jobs: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewProcessNode(100)
			n.Update(ProcessRecord{Pid: 100, Jobs: tt.jobs})
			if got := n.Jobs(); got != tt.want {
				t.Errorf("Jobs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProcessEntryKeys(t *testing.T) {
	n := NewProcessNode(100)
	n.Update(ProcessRecord{Pid: 100, Entry: []string{"all", "install"}})

	keys := n.EntryKeys()
	if len(keys) != 2 || keys[0] != "100:all" || keys[1] != "100:install" {
		t.Errorf("EntryKeys() = %v, want [100:all 100:install]", keys)
	}
}

func TestTargetElapsedRecipe(t *testing.T) {
	n := NewTargetNode(100, "all")
	n.Update(TargetRecord{Name: "all", Start: fp(1000.0), Recipe: fp(1004.0), End: fp(1010.0)}, "/build")

	if got := n.Elapsed(); got != 10*time.Second {
		t.Errorf("Elapsed() = %v, want 10s", got)
	}
	if got := n.ElapsedRecipe(); got != 6*time.Second {
		t.Errorf("ElapsedRecipe() = %v, want 6s", got)
	}
}

func TestTargetNoRecipe(t *testing.T) {
	n := NewTargetNode(100, "all")
	n.Update(TargetRecord{Name: "all", Start: fp(1000.0), End: fp(1010.0)}, "/build")

	if got := n.ElapsedRecipe(); got != 0 {
		t.Errorf("ElapsedRecipe() without recipe timestamp = %v, want 0", got)
	}
}

func TestTargetSetRecursive(t *testing.T) {
	n := NewTargetNode(100, "subdir")
	if n.Recursive() {
		t.Error("fresh target should not be recursive")
	}
	n.SetRecursive()
	if !n.Recursive() {
		t.Error("SetRecursive() should mark the target")
	}
}

func TestTargetPath(t *testing.T) {
	tests := []struct {
		name, file, dir, want string
	}{
		{"relative", "Makefile", "/build/sub", "/build/sub/Makefile"},
		{"absolute", "/src/Makefile", "/build/sub", "/src/Makefile"},
		{"no file", "", "/build/sub", ""},
		{"no directory", "Makefile", "", "Makefile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewTargetNode(100, "all")
			n.Update(TargetRecord{Name: "all", File: tt.file}, tt.dir)
			if got := n.Path(); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}
