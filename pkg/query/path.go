package query

import (
	"github.com/makegrind/makegrind/pkg/graph"
)

// allSimplePaths enumerates every simple path from source to target in
// the full dependency graph. Depth-first with the current path as the
// visited set; exponential in the worst case, which matches what the
// report sizes here can tolerate.
func allSimplePaths(tg *graph.TargetGraph, source, target string) [][]string {
	if source == target {
		return nil
	}
	var (
		paths   [][]string
		current []string
		onPath  = make(map[string]bool)
		walk    func(key string)
	)
	walk = func(key string) {
		current = append(current, key)
		onPath[key] = true
		if key == target {
			p := make([]string, len(current))
			copy(p, current)
			paths = append(paths, p)
		} else {
			for _, succ := range tg.Successors(key) {
				if !onPath[succ] {
					walk(succ)
				}
			}
		}
		onPath[key] = false
		current = current[:len(current)-1]
	}
	walk(source)
	return paths
}

// elapsedOf returns the elapsed time of a key, zero for unknown keys.
func elapsedOf(bg *graph.BuildGraph, key string) (d int64) {
	if info, ok := bg.TargetInfo(key); ok {
		return int64(info.Elapsed())
	}
	return 0
}

// bestSegment selects, among candidate simple paths, the one whose first
// real step away from the source has the greatest elapsed time. This is a
// one-hop lookahead, not a maximum-weight path search; exhaustive path
// weighting is deliberately not attempted.
func bestSegment(bg *graph.BuildGraph, segments [][]string) []string {
	var best []string
	for _, seg := range segments {
		if len(seg) < 2 {
			continue
		}
		if best == nil || elapsedOf(bg, best[1]) < elapsedOf(bg, seg[1]) {
			best = seg
		}
	}
	return best
}

// FindPath returns a dependency chain through the requested waypoint
// keys. With no waypoints it returns the build's critical path, starting
// from whichever entry target has the greatest elapsed time. With
// waypoints, consecutive pairs are connected by the best simple path and
// the critical-path suffix from the last waypoint is appended.
func FindPath(bg *graph.BuildGraph, targets []string) ([]string, error) {
	entry, err := bg.Entry()
	if err != nil {
		return nil, err
	}

	if len(targets) == 0 {
		var start string
		for _, key := range entry.EntryKeys() {
			if start == "" || elapsedOf(bg, start) < elapsedOf(bg, key) {
				start = key
			}
		}
		if start == "" {
			return nil, &graph.EntryPointNotFoundError{Graph: "target"}
		}
		var path []string
		for key := range bg.Targets().HeaviestPath(start) {
			path = append(path, key)
		}
		return path, nil
	}

	// Connect each of the build's entry targets to the first waypoint and
	// keep the best segment.
	var path []string
	for _, entryKey := range entry.EntryKeys() {
		if seg := bestSegment(bg, allSimplePaths(bg.Targets(), entryKey, targets[0])); seg != nil {
			if path == nil || elapsedOf(bg, path[1]) < elapsedOf(bg, seg[1]) {
				path = seg
			}
		}
	}
	if path == nil {
		return nil, &DependencyChainNotFoundError{To: targets[0]}
	}

	// Then connect each consecutive waypoint pair.
	for _, target := range targets[1:] {
		seg := bestSegment(bg, allSimplePaths(bg.Targets(), path[len(path)-1], target))
		if seg == nil {
			return nil, &DependencyChainNotFoundError{From: path[len(path)-1], To: target}
		}
		path = append(path, seg[1:]...)
	}

	// Finish with the critical path from the final waypoint.
	first := true
	for key := range bg.Targets().HeaviestPath(path[len(path)-1]) {
		if first {
			first = false
			continue
		}
		path = append(path, key)
	}
	return path, nil
}
