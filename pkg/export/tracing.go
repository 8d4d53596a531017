package export

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/makegrind/makegrind/pkg/graph"
)

// traceEvent is one entry of the Chrome trace-event format.
type traceEvent struct {
	Name      string `json:"name"`
	Phase     string `json:"ph"`
	Category  string `json:"cat,omitempty"`
	Timestamp int64  `json:"ts"`
	Pid       int    `json:"pid"`
}

// ChromeTracing writes a timeline trace: paired begin/end events per
// target in microsecond timestamps, walking the dependency graph from
// the build's entry targets. Category tags distinguish file-less targets
// from plain and recipe-bearing ones.
func ChromeTracing(bg *graph.BuildGraph, w io.Writer) error {
	entry, err := bg.Entry()
	if err != nil {
		return err
	}

	var events []traceEvent
	seen := make(map[string]bool)

	var walk func(info *graph.TargetInfo)
	walk = func(info *graph.TargetInfo) {
		if seen[info.Key()] {
			return
		}
		seen[info.Key()] = true

		var categories []string
		if info.File() == "" {
			categories = append(categories, "file")
		} else {
			categories = append(categories, "target")
			if !info.RecipeStart().IsZero() {
				categories = append(categories, "recipe")
			}
		}

		events = append(events, traceEvent{
			Name:      info.Name(),
			Phase:     "B",
			Category:  strings.Join(categories, ","),
			Timestamp: info.Start().UnixMicro(),
			Pid:       info.Pid(),
		})

		for _, child := range info.Successors() {
			walk(child)
		}

		events = append(events, traceEvent{
			Name:      info.Name(),
			Phase:     "E",
			Timestamp: info.End().UnixMicro(),
			Pid:       info.Pid(),
		})
	}

	for _, key := range entry.EntryKeys() {
		if info, ok := bg.TargetInfo(key); ok {
			walk(info)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(events)
}
