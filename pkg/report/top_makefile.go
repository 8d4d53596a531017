package report

import (
	"sort"
	"strings"
	"time"

	"github.com/makegrind/makegrind/pkg/graph"
)

// TopMakefile aggregates elapsed time by source directory, optionally
// filtered to a path prefix.
type TopMakefile struct {
	base
	maxEntries int
	prefix     string
}

// NewTopMakefile creates the report. prefix filters directories to those
// under the given path (resolved relative to the build root); maxEntries
// <= 0 selects the default cap.
func NewTopMakefile(bg *graph.BuildGraph, maxEntries int, prefix string) *TopMakefile {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if prefix != "" {
		prefix = bg.RelPath(prefix)
	}
	return &TopMakefile{base: newBase(bg), maxEntries: maxEntries, prefix: prefix}
}

func (r *TopMakefile) Key() string { return "remake.top.makefile" }
func (r *TopMakefile) Name() string { return "Top Makefile Summary" }

func (r *TopMakefile) Generate(force bool) (Fields, error) {
	if r.data != nil && !force {
		return r.data, nil
	}
	if _, err := r.graph.Entry(); err != nil {
		return nil, err
	}

	type rollup struct {
		dir     string
		elapsed time.Duration
		count   int
	}

	byDir := make(map[string]*rollup)
	var order []string
	for _, build := range r.graph.ProcessInfos() {
		dir := build.Directory()
		if r.prefix != "" && !strings.HasPrefix(dir, r.prefix) {
			continue
		}
		agg, ok := byDir[dir]
		if !ok {
			agg = &rollup{dir: dir}
			byDir[dir] = agg
			order = append(order, dir)
		}
		agg.elapsed += build.Elapsed()
		agg.count++
	}

	sort.SliceStable(order, func(a, b int) bool {
		return byDir[order[a]].elapsed > byDir[order[b]].elapsed
	})
	if len(order) > r.maxEntries {
		order = order[:r.maxEntries]
	}

	total := r.graph.Elapsed()
	dirs := Fields{}
	for _, dir := range order {
		agg := byDir[dir]
		dirs = append(dirs, Field{Key: dir, Value: Fields{
			{Key: "elapsed", Value: r.duration(agg.elapsed)},
			{Key: "percent", Value: r.percent(agg.elapsed, total)},
			{Key: "count", Value: agg.count},
		}})
	}

	r.data = Fields{{Key: "directories", Value: dirs}}
	return r.data, nil
}
