package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/makegrind/makegrind/pkg/graph"
	"github.com/makegrind/makegrind/pkg/node"
)

func fp(v float64) *float64 { return &v }

func testGraph(t *testing.T) *graph.BuildGraph {
	t.Helper()

	bg := graph.NewBuildGraph()
	err := bg.AddBuild(node.ProcessRecord{
		Pid:       100,
		Directory: "/build",
		Start:     fp(1000),
		End:       fp(1010),
		Creator:   "remake 4.3",
		Argv:      []string{"remake", "all"},
		Entry:     []string{"all"},
		Targets: []node.TargetRecord{
			{Name: "all", File: "Makefile", Line: 1, Start: fp(1000), End: fp(1010), Depends: []string{"app"}},
			{Name: "app", File: "Makefile", Line: 5, Start: fp(1000), Recipe: fp(1004), End: fp(1009)},
		},
	})
	if err != nil {
		t.Fatalf("AddBuild() failed: %v", err)
	}
	return bg
}

func TestCallgrind(t *testing.T) {
	var buf bytes.Buffer
	if err := Callgrind(testGraph(t), &buf); err != nil {
		t.Fatalf("Callgrind() failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"creator: remake 4.3\n",
		"cmd: remake all\n",
		"events: Wt Rt\n",
		"fl=Makefile\n",
		"fn=all\n",
		"fn=app\n",
		// app: line 5, 9s wall, 5s recipe.
		"5 9000000 5000000\n",
		// The dependency call from "all" to "app".
		"cfn=app\n",
		"calls=1 5\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	// "all" never ran a recipe, so its cost line has no recipe column.
	if !strings.Contains(out, "1 10000000\n") {
		t.Errorf("output missing the recipe-less cost line for all\n%s", out)
	}
}

func TestCallgrindNoEntry(t *testing.T) {
	var buf bytes.Buffer
	if err := Callgrind(graph.NewBuildGraph(), &buf); err == nil {
		t.Error("Callgrind() on an empty graph should fail")
	}
}

func TestChromeTracing(t *testing.T) {
	var buf bytes.Buffer
	if err := ChromeTracing(testGraph(t), &buf); err != nil {
		t.Fatalf("ChromeTracing() failed: %v", err)
	}

	var events []traceEvent
	if err := json.Unmarshal(buf.Bytes(), &events); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	// B(all), B(app), E(app), E(all): children close before their parent.
	phases := make([]string, 0, len(events))
	names := make([]string, 0, len(events))
	for _, e := range events {
		phases = append(phases, e.Phase)
		names = append(names, e.Name)
	}
	wantNames := []string{"all", "app", "app", "all"}
	wantPhases := []string{"B", "B", "E", "E"}
	for i := range wantNames {
		if i >= len(events) || names[i] != wantNames[i] || phases[i] != wantPhases[i] {
			t.Fatalf("events = %v/%v, want %v/%v", names, phases, wantNames, wantPhases)
		}
	}

	if events[0].Category != "target" {
		t.Errorf("all category = %q, want target", events[0].Category)
	}
	if events[1].Category != "target,recipe" {
		t.Errorf("app category = %q, want target,recipe", events[1].Category)
	}
	if events[0].Timestamp != 1000_000000 {
		t.Errorf("start ts = %d, want 1000000000", events[0].Timestamp)
	}
}
