package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/makegrind/makegrind/pkg/graph"
	"github.com/makegrind/makegrind/pkg/node"
)

func fp(v float64) *float64 { return &v }

func testServer(t *testing.T) *Server {
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

	s := NewServer()
	s.SetGraph(bg)
	return s
}

func get(t *testing.T, s *Server, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestStatusEndpoint(t *testing.T) {
	rec := get(t, testServer(t), "/api/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var status struct {
		State     string `json:"state"`
		Processes int    `json:"processes"`
		Targets   int    `json:"targets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if status.State != "ready" || status.Processes != 1 || status.Targets != 2 {
		t.Errorf("status = %+v, want ready/1/2", status)
	}
}

func TestStatusNoTrace(t *testing.T) {
	rec := get(t, NewServer(), "/api/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var status struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if status.State != "loading" {
		t.Errorf("state = %q, want loading", status.State)
	}
}

func TestReportEndpoint(t *testing.T) {
	rec := get(t, testServer(t), "/api/reports/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["key"] != "remake.summary.build" {
		t.Errorf("key = %v, want remake.summary.build", body["key"])
	}
	if body["total"] != "10 s" {
		t.Errorf("total = %v, want \"10 s\"", body["total"])
	}
}

func TestReportEndpointUnknown(t *testing.T) {
	rec := get(t, testServer(t), "/api/reports/bogus")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestTargetsEndpoint(t *testing.T) {
	rec := get(t, testServer(t), "/api/targets?name=app")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Targets []string `json:"targets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if len(body.Targets) != 1 || body.Targets[0] != "100:app" {
		t.Errorf("targets = %v, want [100:app]", body.Targets)
	}
}

func TestTargetsEndpointErrors(t *testing.T) {
	s := testServer(t)

	if rec := get(t, s, "/api/targets"); rec.Code != http.StatusBadRequest {
		t.Errorf("no criteria: status = %d, want 400", rec.Code)
	}
	if rec := get(t, s, "/api/targets?name=missing"); rec.Code != http.StatusNotFound {
		t.Errorf("missing target: status = %d, want 404", rec.Code)
	}
}

func TestPathEndpoint(t *testing.T) {
	rec := get(t, testServer(t), "/api/path")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Path []string `json:"path"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	want := []string{"100:all", "100:app"}
	if len(body.Path) != len(want) || body.Path[0] != want[0] || body.Path[1] != want[1] {
		t.Errorf("path = %v, want %v", body.Path, want)
	}
}
