package query

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/makegrind/makegrind/pkg/graph"
	"github.com/makegrind/makegrind/pkg/logging"
)

// Filter selects targets by exact name, makefile path, or process id.
// Zero values mean "not filtered on".
type Filter struct {
	Target   string
	Makefile string
	Pid      int
}

func (f Filter) empty() bool {
	return f.Target == "" && f.Makefile == "" && f.Pid == 0
}

// resolvePath translates a makefile path into the graph's relative form.
// The input may be absolute, relative to the current working directory,
// or already relative to the build root.
func resolvePath(bg *graph.BuildGraph, path string) string {
	prefix, err := bg.Prefix()
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil && strings.HasPrefix(abs, prefix+string(filepath.Separator)) {
		path = abs
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(prefix, path)
	}
	return bg.RelPath(path)
}

// FindTarget returns the keys of every target matching the filter,
// ordered by greatest elapsed time first. At least one criterion must be
// set.
func FindTarget(bg *graph.BuildGraph, f Filter) ([]string, error) {
	if f.empty() {
		return nil, &NoFilterCriteriaError{}
	}

	logging.Debug("finding target", "name", f.Target, "makefile", f.Makefile, "pid", f.Pid)

	makefile := f.Makefile
	if makefile != "" {
		makefile = resolvePath(bg, makefile)
	}

	var matches []*graph.TargetInfo
	for _, info := range bg.TargetInfos() {
		if f.Target != "" && info.Node().Name() != f.Target {
			continue
		}
		if makefile != "" && info.File() != makefile && info.Directory() != makefile {
			continue
		}
		if f.Pid != 0 && info.Pid() != f.Pid {
			continue
		}
		matches = append(matches, info)
	}

	if len(matches) == 0 {
		return nil, &TargetNotFoundError{Target: f.Target, Makefile: makefile, Pid: f.Pid}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Elapsed() > matches[b].Elapsed()
	})

	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, m.Key())
	}
	logging.Debug("found targets", "count", len(keys))
	return keys, nil
}
