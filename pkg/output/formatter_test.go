package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/makegrind/makegrind/pkg/graph"
	"github.com/makegrind/makegrind/pkg/node"
	"github.com/makegrind/makegrind/pkg/report"
)

func fp(v float64) *float64 { return &v }

func testReports(t *testing.T) []report.Report {
	t.Helper()

	bg := graph.NewBuildGraph()
	err := bg.AddBuild(node.ProcessRecord{
		Pid:       100,
		Directory: "/build",
		Start:     fp(1000),
		End:       fp(1010),
		Entry:     []string{"all"},
		Targets: []node.TargetRecord{
			{Name: "all", File: "Makefile", Line: 1, Start: fp(1000), End: fp(1010), Depends: []string{"app"}},
			{Name: "app", File: "Makefile", Line: 5, Start: fp(1000), Recipe: fp(1004), End: fp(1009)},
		},
	})
	if err != nil {
		t.Fatalf("AddBuild() failed: %v", err)
	}

	return []report.Report{
		report.NewSummary(bg),
		report.NewTopRecipes(bg, 0),
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, testReports(t)...); err != nil {
		t.Fatalf("WriteYAML() failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "key: remake.summary.build\n") {
		t.Errorf("output missing summary key:\n%s", out)
	}
	if !strings.Contains(out, "key: remake.top.recipes\n") {
		t.Errorf("output missing recipes key:\n%s", out)
	}
	if strings.Count(out, "---\n") != 1 {
		t.Errorf("two reports should be separated by one document marker:\n%s", out)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testReports(t)...); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}

	var docs []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0]["key"] != "remake.summary.build" || docs[1]["key"] != "remake.top.recipes" {
		t.Errorf("document keys = %v, %v", docs[0]["key"], docs[1]["key"])
	}
}

func TestPrintReports(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	var buf bytes.Buffer
	if err := PrintReports(&buf, testReports(t)...); err != nil {
		t.Fatalf("PrintReports() failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Summary\n") {
		t.Errorf("output missing report name:\n%s", out)
	}
	// The header fields are printed in the banner, not the YAML body.
	if strings.Contains(out, "key: remake.summary.build") {
		t.Errorf("body should not repeat the key field:\n%s", out)
	}
	if !strings.Contains(out, "remake.summary.build generated ") {
		t.Errorf("output missing the banner line:\n%s", out)
	}
}
