// Package trace loads remake profile output into the build graph. A
// trace is one or more JSON process records: a single file may hold one
// record (optionally with recursive invocations nested under children),
// a list of records, or a build tree may be scattered across per-process
// profile files discovered by walking the build directory.
package trace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/makegrind/makegrind/pkg/graph"
	"github.com/makegrind/makegrind/pkg/logging"
	"github.com/makegrind/makegrind/pkg/node"
)

// Parse decodes trace JSON into process records. Both a single record
// object and a list of records are accepted.
func Parse(data []byte) ([]node.ProcessRecord, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty trace document")
	}

	if trimmed[0] == '[' {
		var records []node.ProcessRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decoding trace records: %w", err)
		}
		return records, nil
	}

	var record node.ProcessRecord
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return nil, fmt.Errorf("decoding trace record: %w", err)
	}
	return []node.ProcessRecord{record}, nil
}

// ParseFile decodes one trace file.
func ParseFile(path string) ([]node.ProcessRecord, error) {
	logging.Debug("loading trace data", "path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trace %q: %w", path, err)
	}
	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing trace %q: %w", path, err)
	}
	return records, nil
}

// Load builds and validates a graph from a trace path. A directory is
// searched for per-process profile files; a file is read directly.
func Load(path string) (*graph.BuildGraph, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace %q: %w", path, err)
	}

	files := []string{path}
	if stat.IsDir() {
		files, err = FindTraceFiles(path)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no %s files under %q", ProfileName, path)
		}
	}

	bg := graph.NewBuildGraph()
	for _, file := range files {
		records, err := ParseFile(file)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			if err := bg.AddBuild(rec); err != nil {
				return nil, fmt.Errorf("ingesting %q: %w", file, err)
			}
		}
	}

	if err := bg.Validate(); err != nil {
		return nil, err
	}

	logging.Info("trace loaded",
		"files", len(files),
		"processes", bg.Processes(),
		"targets", bg.Targets().Targets(),
		"dependencies", bg.Targets().Dependencies(),
	)
	return bg, nil
}
