package query

import (
	"errors"
	"slices"
	"testing"

	"github.com/makegrind/makegrind/pkg/graph"
	"github.com/makegrind/makegrind/pkg/node"
)

func fp(v float64) *float64 { return &v }

// testGraph builds a two-process trace: pid 100 runs all/app/util.o and
// recurses into pid 200 through the "sub" target.
func testGraph(t *testing.T) *graph.BuildGraph {
	t.Helper()

	root := node.ProcessRecord{
		Pid:       100,
		Directory: "/build",
		Start:     fp(1000),
		End:       fp(1010),
		Entry:     []string{"all"},
		Targets: []node.TargetRecord{
			{Name: "all", File: "Makefile", Line: 1, Start: fp(1000), End: fp(1010), Depends: []string{"app", "sub"}},
			{Name: "app", File: "Makefile", Line: 5, Start: fp(1000), Recipe: fp(1004), End: fp(1009), Depends: []string{"util.o"}},
			{Name: "util.o", File: "Makefile", Line: 9, Start: fp(1000), Recipe: fp(1001), End: fp(1004)},
			{Name: "sub", File: "Makefile", Line: 12, Start: fp(1000), Recipe: fp(1001), End: fp(1008)},
		},
	}
	sub := node.ProcessRecord{
		Pid:       200,
		Directory: "/build/sub",
		Start:     fp(1001),
		End:       fp(1008),
		Entry:     []string{"all"},
		Parent:    &node.ParentRef{Pid: 100, Target: "sub"},
		Targets: []node.TargetRecord{
			{Name: "all", File: "Makefile", Line: 1, Start: fp(1001), End: fp(1008), Depends: []string{"lib.o"}},
			{Name: "lib.o", File: "Makefile", Line: 4, Start: fp(1001), Recipe: fp(1002), End: fp(1008)},
		},
	}

	bg := graph.NewBuildGraph()
	if err := bg.AddBuild(root); err != nil {
		t.Fatalf("AddBuild(root) failed: %v", err)
	}
	if err := bg.AddBuild(sub); err != nil {
		t.Fatalf("AddBuild(sub) failed: %v", err)
	}
	return bg
}

func TestFindTargetByName(t *testing.T) {
	bg := testGraph(t)

	keys, err := FindTarget(bg, Filter{Target: "all"})
	if err != nil {
		t.Fatalf("FindTarget() failed: %v", err)
	}

	// Both processes have an "all" target; the slower one comes first.
	want := []string{"100:all", "200:all"}
	if !slices.Equal(keys, want) {
		t.Errorf("FindTarget(all) = %v, want %v", keys, want)
	}
}

func TestFindTargetByMakefile(t *testing.T) {
	bg := testGraph(t)

	keys, err := FindTarget(bg, Filter{Makefile: "sub/Makefile"})
	if err != nil {
		t.Fatalf("FindTarget() failed: %v", err)
	}
	for _, key := range keys {
		info, ok := bg.TargetInfo(key)
		if !ok {
			t.Fatalf("result %s missing from graph", key)
		}
		if info.Pid() != 200 {
			t.Errorf("FindTarget(sub/Makefile) returned %s from pid %d", key, info.Pid())
		}
	}
	if len(keys) != 2 {
		t.Errorf("FindTarget(sub/Makefile) = %v, want 2 results", keys)
	}
}

func TestFindTargetSortedByElapsed(t *testing.T) {
	bg := testGraph(t)

	keys, err := FindTarget(bg, Filter{Makefile: "Makefile"})
	if err != nil {
		t.Fatalf("FindTarget() failed: %v", err)
	}

	// all 10s, app 9s, sub 8s, util.o 4s.
	want := []string{"100:all", "100:app", "100:sub", "100:util.o"}
	if !slices.Equal(keys, want) {
		t.Errorf("FindTarget(Makefile) = %v, want %v", keys, want)
	}
}

func TestFindTargetByPid(t *testing.T) {
	bg := testGraph(t)

	keys, err := FindTarget(bg, Filter{Pid: 200, Target: "lib.o"})
	if err != nil {
		t.Fatalf("FindTarget() failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "200:lib.o" {
		t.Errorf("FindTarget(pid=200, lib.o) = %v, want [200:lib.o]", keys)
	}
}

func TestFindTargetNoCriteria(t *testing.T) {
	bg := testGraph(t)

	_, err := FindTarget(bg, Filter{})
	var noCriteria *NoFilterCriteriaError
	if !errors.As(err, &noCriteria) {
		t.Fatalf("FindTarget(empty filter) = %v, want NoFilterCriteriaError", err)
	}
}

func TestFindTargetNotFound(t *testing.T) {
	bg := testGraph(t)

	_, err := FindTarget(bg, Filter{Target: "missing"})
	var notFound *TargetNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("FindTarget(missing) = %v, want TargetNotFoundError", err)
	}
	if notFound.Target != "missing" {
		t.Errorf("error target = %q, want missing", notFound.Target)
	}
}
