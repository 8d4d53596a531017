package graph

import (
	"path/filepath"
	"time"

	"github.com/makegrind/makegrind/pkg/logging"
	"github.com/makegrind/makegrind/pkg/node"
)

// BuildGraph is the directed graph of build-process invocations, with an
// edge from each process to every nested invocation it spawned. It owns
// the single TargetGraph shared across all processes and keeps the two in
// step: adding a process also ingests its targets and wires the
// cross-graph recursion edges.
type BuildGraph struct {
	*keyed
	nodes   map[string]*node.ProcessNode
	targets *TargetGraph

	entry   string
	entryOK bool
}

// NewBuildGraph creates an empty build graph with an empty target graph.
func NewBuildGraph() *BuildGraph {
	return &BuildGraph{
		keyed:   newKeyed(),
		nodes:   make(map[string]*node.ProcessNode),
		targets: NewTargetGraph(),
	}
}

// Targets returns the shared target graph.
func (bg *BuildGraph) Targets() *TargetGraph { return bg.targets }

func (bg *BuildGraph) clearCache() {
	bg.entry = ""
	bg.entryOK = false
}

// AddBuild ingests one process record: the process node, its targets with
// their dependency edges, the parent spawn edge, and the recursive edges
// from the invoking target to the child's entry targets. Nested child
// records are expanded recursively, so a deeply nested root record and a
// flat stream of records produce the same graph.
func (bg *BuildGraph) AddBuild(rec node.ProcessRecord) error {
	logging.Debug("adding build", "pid", rec.Pid, "targets", len(rec.Targets))
	bg.clearCache()

	key := node.ProcessKey(rec.Pid)
	bg.ensure(key)
	pn, ok := bg.nodes[key]
	if !ok {
		pn = node.NewProcessNode(rec.Pid)
		bg.nodes[key] = pn
	}
	pn.Update(rec)

	for _, t := range rec.Targets {
		bg.targets.AddTarget(rec.Pid, rec.Directory, t)
	}

	if rec.Parent != nil {
		parentKey := node.ProcessKey(rec.Parent.Pid)
		if _, ok := bg.nodes[parentKey]; !ok {
			// Placeholder until the parent's own record arrives.
			bg.nodes[parentKey] = node.NewProcessNode(rec.Parent.Pid)
		}
		bg.addEdge(parentKey, key)
		bg.targets.addParentEdges(pn, *rec.Parent)
	}

	for _, child := range rec.Children {
		if child.Parent == nil {
			return &IntegrityError{
				Graph:  "process",
				Detail: "nested child record missing parent reference",
			}
		}
		if err := bg.AddBuild(child); err != nil {
			return err
		}
	}
	return nil
}

// Node returns the raw process node for a key.
func (bg *BuildGraph) Node(key string) (*node.ProcessNode, bool) {
	n, ok := bg.nodes[key]
	return n, ok
}

// Keys returns all process keys in insertion order.
func (bg *BuildGraph) Keys() []string {
	out := make([]string, len(bg.order))
	copy(out, bg.order)
	return out
}

// Processes returns the number of process nodes, the trace's submake
// count.
func (bg *BuildGraph) Processes() int { return bg.nodeCount() }

// Entry returns the build's root process: the first structurally valid
// node in topological order.
func (bg *BuildGraph) Entry() (*node.ProcessNode, error) {
	if !bg.entryOK {
		keys, err := bg.topoKeys()
		if err != nil {
			return nil, &IntegrityError{Graph: "process", Cycles: bg.findCycles()}
		}
		for _, key := range keys {
			if bg.nodes[key].Valid() {
				bg.entry = key
				bg.entryOK = true
				break
			}
		}
		if !bg.entryOK {
			return nil, &EntryPointNotFoundError{Graph: "process"}
		}
	}
	return bg.nodes[bg.entry], nil
}

// Prefix returns the working directory of the entry process, the root all
// displayed paths are made relative to.
func (bg *BuildGraph) Prefix() (string, error) {
	entry, err := bg.Entry()
	if err != nil {
		return "", err
	}
	return entry.Directory(), nil
}

// RelPath normalizes an absolute path to be relative to the build root.
// A path that resolves to "." becomes the root directory's base name so
// relative display never shows a bare dot. Paths that are already
// relative, or when no entry process exists, pass through unchanged.
func (bg *BuildGraph) RelPath(path string) string {
	if path == "" {
		return path
	}
	prefix, err := bg.Prefix()
	if err != nil {
		return path
	}
	if filepath.IsAbs(path) {
		if rel, err := filepath.Rel(prefix, path); err == nil {
			path = rel
		}
	}
	if path == "." {
		path = filepath.Base(prefix)
	}
	return path
}

// Elapsed returns the wall time of the whole build.
func (bg *BuildGraph) Elapsed() time.Duration {
	entry, err := bg.Entry()
	if err != nil {
		return 0
	}
	return entry.Elapsed()
}

// Jobs returns the declared parallelism of the entry process.
func (bg *BuildGraph) Jobs() node.Parallelism {
	entry, err := bg.Entry()
	if err != nil {
		return node.Parallelism{}
	}
	return entry.Jobs()
}

// RecipeElapsed returns the build-wide recipe time aggregate.
func (bg *BuildGraph) RecipeElapsed() time.Duration {
	return bg.targets.RecipeElapsed()
}

// Validate checks both graphs for structural integrity. Process spawning
// cannot cycle and target dependencies must be acyclic; a trace violating
// either is rejected rather than queried inconsistently.
func (bg *BuildGraph) Validate() error {
	if cycles := bg.findCycles(); len(cycles) > 0 {
		return &IntegrityError{Graph: "process", Cycles: cycles}
	}
	return bg.targets.Validate()
}
