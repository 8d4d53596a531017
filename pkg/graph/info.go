package graph

import (
	"time"

	"github.com/makegrind/makegrind/pkg/node"
)

// TargetInfo is the read-adjusted projection over a target node. It nets
// out recursion double-counting and normalizes displayed paths to the
// build root. Reports and exporters consume these instead of raw nodes;
// Successors re-wraps dependencies so the correction layer cannot be
// bypassed by walking the graph.
type TargetInfo struct {
	node  *node.TargetNode
	graph *BuildGraph
}

// TargetInfo wraps the target with the given key, or reports false when
// the key is unknown.
func (bg *BuildGraph) TargetInfo(key string) (*TargetInfo, bool) {
	n, ok := bg.targets.Node(key)
	if !ok {
		return nil, false
	}
	return &TargetInfo{node: n, graph: bg}, true
}

// TargetInfos wraps every target in the graph, in insertion order.
func (bg *BuildGraph) TargetInfos() []*TargetInfo {
	keys := bg.targets.Keys()
	out := make([]*TargetInfo, 0, len(keys))
	for _, key := range keys {
		info, _ := bg.TargetInfo(key)
		out = append(out, info)
	}
	return out
}

// Node exposes the underlying raw node.
func (i *TargetInfo) Node() *node.TargetNode { return i.node }

func (i *TargetInfo) Key() string { return i.node.Key() }
func (i *TargetInfo) Pid() int { return i.node.Pid() }
func (i *TargetInfo) Line() int { return i.node.Line() }
func (i *TargetInfo) Recursive() bool { return i.node.Recursive() }

func (i *TargetInfo) Start() time.Time { return i.node.Start() }
func (i *TargetInfo) End() time.Time { return i.node.End() }
func (i *TargetInfo) Elapsed() time.Duration { return i.node.Elapsed() }
func (i *TargetInfo) RecipeStart() time.Time { return i.node.RecipeStart() }

// Name returns the target name, relativized when the name is itself an
// absolute path (targets built outside the source tree).
func (i *TargetInfo) Name() string {
	return i.graph.RelPath(i.node.Name())
}

// File returns the makefile path relative to the build root, empty when
// the trace recorded no source location.
func (i *TargetInfo) File() string {
	return i.graph.RelPath(i.node.Path())
}

// Directory returns the target's source directory relative to the build
// root.
func (i *TargetInfo) Directory() string {
	return i.graph.RelPath(i.node.Directory())
}

// ElapsedRecipe returns the target's recipe time, read as zero for
// recursive targets: their real cost is attributed to the child
// process's own targets.
func (i *TargetInfo) ElapsedRecipe() time.Duration {
	if i.node.Recursive() {
		return 0
	}
	return i.node.ElapsedRecipe()
}

// Successors returns the target's direct dependencies, each wrapped in
// the same view.
func (i *TargetInfo) Successors() []*TargetInfo {
	succs := i.graph.targets.successors(i.node.Key())
	out := make([]*TargetInfo, 0, len(succs))
	for _, key := range succs {
		if info, ok := i.graph.TargetInfo(key); ok {
			out = append(out, info)
		}
	}
	return out
}

// ProcessInfo is the read-adjusted projection over a process node, with
// correction semantics analogous to TargetInfo.
type ProcessInfo struct {
	node  *node.ProcessNode
	graph *BuildGraph
}

// ProcessInfo wraps the process with the given key, or reports false when
// the key is unknown.
func (bg *BuildGraph) ProcessInfo(key string) (*ProcessInfo, bool) {
	n, ok := bg.Node(key)
	if !ok {
		return nil, false
	}
	return &ProcessInfo{node: n, graph: bg}, true
}

// ProcessInfos wraps every process in the graph, in insertion order.
func (bg *BuildGraph) ProcessInfos() []*ProcessInfo {
	keys := bg.Keys()
	out := make([]*ProcessInfo, 0, len(keys))
	for _, key := range keys {
		info, _ := bg.ProcessInfo(key)
		out = append(out, info)
	}
	return out
}

// Node exposes the underlying raw node.
func (i *ProcessInfo) Node() *node.ProcessNode { return i.node }

func (i *ProcessInfo) Key() string { return i.node.Key() }
func (i *ProcessInfo) Pid() int { return i.node.Pid() }
func (i *ProcessInfo) Elapsed() time.Duration { return i.node.Elapsed() }
func (i *ProcessInfo) Jobs() node.Parallelism { return i.node.Jobs() }

// Directory returns the working directory relative to the build root.
func (i *ProcessInfo) Directory() string {
	return i.graph.RelPath(i.node.Directory())
}

// RecursiveElapsed returns the time this process spent inside nested
// child invocations.
func (i *ProcessInfo) RecursiveElapsed() time.Duration {
	var total time.Duration
	for _, key := range i.graph.successors(i.node.Key()) {
		if child, ok := i.graph.Node(key); ok {
			total += child.Elapsed()
		}
	}
	return total
}

// Successors returns the processes spawned by this one, each wrapped in
// the same view.
func (i *ProcessInfo) Successors() []*ProcessInfo {
	succs := i.graph.successors(i.node.Key())
	out := make([]*ProcessInfo, 0, len(succs))
	for _, key := range succs {
		if info, ok := i.graph.ProcessInfo(key); ok {
			out = append(out, info)
		}
	}
	return out
}
