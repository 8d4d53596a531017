package report

import (
	"fmt"
	"time"

	"github.com/makegrind/makegrind/pkg/graph"
	"github.com/makegrind/makegrind/pkg/query"
)

// Path renders an explicit ordered sequence of target keys, each with an
// optional breakdown of its direct children.
type Path struct {
	base
	path        []string
	maxChildren int
}

// NewPath creates a path report over the given target keys. maxChildren
// caps each children breakdown; 0 leaves it uncapped.
func NewPath(bg *graph.BuildGraph, path []string, maxChildren int) *Path {
	return &Path{base: newBase(bg), path: path, maxChildren: maxChildren}
}

func (r *Path) Key() string { return "remake.summary.path" }
func (r *Path) Name() string { return "Path" }

func (r *Path) Generate(force bool) (Fields, error) {
	if r.data != nil && !force {
		return r.data, nil
	}
	return r.generate(r.path)
}

func (r *Path) generate(path []string) (Fields, error) {
	data := Fields{{Key: "length", Value: len(path)}}

	var head *graph.TargetInfo
	if len(path) > 0 {
		info, ok := r.graph.TargetInfo(path[0])
		if !ok {
			return nil, fmt.Errorf("rendering path: %w", &query.TargetNotFoundError{Target: path[0]})
		}
		head = info
	}

	var totalElapsed time.Duration
	if head != nil {
		totalElapsed = head.Elapsed()
	}
	data = append(data, Field{Key: "total", Value: r.duration(totalElapsed)})

	rows := make([]Fields, 0, len(path))
	for _, key := range path {
		info, ok := r.graph.TargetInfo(key)
		if !ok {
			return nil, fmt.Errorf("rendering path: %w", &query.TargetNotFoundError{Target: key})
		}
		row := r.targetReport(info, totalElapsed, info.ElapsedRecipe())
		children := r.childrenReport(info, r.maxChildren)
		if count, _ := children.Get("count"); count.(int) > 0 {
			row = append(row, Field{Key: "children", Value: children})
		}
		rows = append(rows, row)
	}
	data = append(data, Field{Key: "targets", Value: rows})

	r.data = data
	return r.data, nil
}

// TopPath is the Path report over the build's global critical path, as
// computed by FindPath with no waypoints.
type TopPath struct {
	Path
}

// NewTopPath creates the report; the path itself is resolved lazily at
// generation time so lookup errors surface through Generate.
func NewTopPath(bg *graph.BuildGraph, maxChildren int) *TopPath {
	return &TopPath{Path: *NewPath(bg, nil, maxChildren)}
}

func (r *TopPath) Key() string { return "remake.top.path" }
func (r *TopPath) Name() string { return "Top Path" }

func (r *TopPath) Generate(force bool) (Fields, error) {
	if r.data != nil && !force {
		return r.data, nil
	}
	path, err := query.FindPath(r.graph, nil)
	if err != nil {
		return nil, err
	}
	return r.generate(path)
}
