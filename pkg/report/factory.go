package report

import (
	"fmt"

	"github.com/makegrind/makegrind/pkg/graph"
	"github.com/makegrind/makegrind/pkg/query"
)

// Options carries the knobs shared by the report types.
type Options struct {
	MaxEntries int
	Children   int
	Prefix     string
	// Targets are waypoint names for the path report, each resolved to
	// its heaviest matching target.
	Targets []string
}

// Names returns the selector names accepted by New.
func Names() []string {
	return []string{"summary", "recipes", "path", "toppath", "makefile"}
}

// New builds a report by selector name. The path selector resolves its
// waypoint names and computes the stitched path eagerly, so resolution
// errors surface here.
func New(name string, bg *graph.BuildGraph, opts Options) (Report, error) {
	switch name {
	case "summary":
		return NewSummary(bg), nil
	case "recipes":
		return NewTopRecipes(bg, opts.MaxEntries), nil
	case "toppath":
		return NewTopPath(bg, opts.Children), nil
	case "makefile":
		return NewTopMakefile(bg, opts.MaxEntries, opts.Prefix), nil
	case "path":
		keys := make([]string, 0, len(opts.Targets))
		for _, target := range opts.Targets {
			found, err := query.FindTarget(bg, query.Filter{Target: target})
			if err != nil {
				return nil, err
			}
			keys = append(keys, found[0])
		}
		path, err := query.FindPath(bg, keys)
		if err != nil {
			return nil, err
		}
		return NewPath(bg, path, opts.Children), nil
	default:
		return nil, fmt.Errorf("unknown report %q (expected one of %v)", name, Names())
	}
}
