package graph

import (
	"iter"
	"time"

	"github.com/makegrind/makegrind/pkg/logging"
	"github.com/makegrind/makegrind/pkg/node"
)

// TargetGraph is the dependency graph over every target of the trace. A
// single instance spans all processes; recursive invocations contribute
// cross-process edges from the invoking target to the child's entry
// targets.
type TargetGraph struct {
	*keyed
	nodes map[string]*node.TargetNode

	reduced *keyed
	entry   string
	entryOK bool
}

// NewTargetGraph creates an empty target graph.
func NewTargetGraph() *TargetGraph {
	return &TargetGraph{
		keyed: newKeyed(),
		nodes: make(map[string]*node.TargetNode),
	}
}

// clearCache drops derived graph state. Called on every mutation so a
// query can never observe a reduction or entry point computed against an
// older shape of the graph.
func (tg *TargetGraph) clearCache() {
	tg.reduced = nil
	tg.entry = ""
	tg.entryOK = false
}

// AddTarget upserts the node keyed by pid:name and wires one dependency
// edge per listed dependency, resolved within the same process.
func (tg *TargetGraph) AddTarget(pid int, directory string, rec node.TargetRecord) *node.TargetNode {
	tg.clearCache()

	key := node.TargetKey(pid, rec.Name)
	tg.ensure(key)
	tn, ok := tg.nodes[key]
	if !ok {
		tn = node.NewTargetNode(pid, rec.Name)
		tg.nodes[key] = tn
	}
	tn.Update(rec, directory)

	for _, dep := range rec.Depends {
		dkey := node.TargetKey(pid, dep)
		tg.addEdge(key, dkey)
		if _, ok := tg.nodes[dkey]; !ok {
			// Placeholder until the dependency's own record arrives.
			tg.nodes[dkey] = node.NewTargetNode(pid, dep)
		}
	}
	return tn
}

// addParentEdges links the invoking target of a parent process to each
// entry target of the spawned child, and flags the invoker recursive so
// its recipe time is not double-counted against the child's targets.
func (tg *TargetGraph) addParentEdges(child *node.ProcessNode, parent node.ParentRef) {
	if parent.Target == "" {
		logging.Debug("parent reference without target, skipping recursive edges", "childPid", child.Pid())
		return
	}
	pkey := node.TargetKey(parent.Pid, parent.Target)
	tg.clearCache()
	tg.ensure(pkey)
	pn, ok := tg.nodes[pkey]
	if !ok {
		pn = node.NewTargetNode(parent.Pid, parent.Target)
		tg.nodes[pkey] = pn
	}
	pn.SetRecursive()
	for _, name := range child.EntryNames() {
		entry := node.TargetKey(child.Pid(), name)
		tg.addEdge(pkey, entry)
		if _, ok := tg.nodes[entry]; !ok {
			tg.nodes[entry] = node.NewTargetNode(child.Pid(), name)
		}
	}
}

// Node returns the raw target node for a key.
func (tg *TargetGraph) Node(key string) (*node.TargetNode, bool) {
	n, ok := tg.nodes[key]
	return n, ok
}

// Keys returns all target keys in insertion order.
func (tg *TargetGraph) Keys() []string {
	out := make([]string, len(tg.order))
	copy(out, tg.order)
	return out
}

// Successors returns the dependency keys directly reachable from key in
// the full (unreduced) graph.
func (tg *TargetGraph) Successors(key string) []string {
	return tg.successors(key)
}

// Targets returns the number of target nodes.
func (tg *TargetGraph) Targets() int { return tg.nodeCount() }

// Dependencies returns the number of dependency edges.
func (tg *TargetGraph) Dependencies() int { return tg.edgeCount() }

// Entry returns the first structurally valid target in topological order.
func (tg *TargetGraph) Entry() (*node.TargetNode, error) {
	if !tg.entryOK {
		keys, err := tg.topoKeys()
		if err != nil {
			return nil, &IntegrityError{Graph: "target", Cycles: tg.findCycles()}
		}
		for _, key := range keys {
			if tg.nodes[key].Valid() {
				tg.entry = key
				tg.entryOK = true
				break
			}
		}
		if !tg.entryOK {
			return nil, &EntryPointNotFoundError{Graph: "target"}
		}
	}
	return tg.nodes[tg.entry], nil
}

// Reduced returns the transitive reduction of the dependency graph,
// computed once and reused until the graph mutates. Heaviest-child
// selection runs against the reduction so redundant shortcut edges cannot
// shadow the true critical dependency.
func (tg *TargetGraph) Reduced() *TargetGraph {
	if tg.reduced == nil {
		tg.reduced = tg.keyed.transitiveReduction()
	}
	return &TargetGraph{keyed: tg.reduced, nodes: tg.nodes}
}

// HeaviestChild returns the direct successor of key in the reduced graph
// with the greatest elapsed time. Ties break on the first maximal value
// encountered; the ordering between true ties is not defined.
func (tg *TargetGraph) HeaviestChild(key string) (string, bool) {
	var (
		best    string
		bestDur time.Duration
		found   bool
	)
	for _, succ := range tg.Reduced().successors(key) {
		n, ok := tg.nodes[succ]
		if !ok {
			continue
		}
		if !found || n.Elapsed() > bestDur {
			best = succ
			bestDur = n.Elapsed()
			found = true
		}
	}
	return best, found
}

// HeaviestPath yields the chain of target keys that starts at start and
// repeatedly follows the heaviest child until no successor remains. This
// is the build's critical path. The sequence is finite on an acyclic
// graph and can be ranged over more than once.
func (tg *TargetGraph) HeaviestPath(start string) iter.Seq[string] {
	return func(yield func(string) bool) {
		cur := start
		for cur != "" {
			if !yield(cur) {
				return
			}
			next, ok := tg.HeaviestChild(cur)
			if !ok {
				return
			}
			cur = next
		}
	}
}

// HeaviestPathFromEntry is HeaviestPath starting at the graph's entry
// point.
func (tg *TargetGraph) HeaviestPathFromEntry() (iter.Seq[string], error) {
	entry, err := tg.Entry()
	if err != nil {
		return nil, err
	}
	return tg.HeaviestPath(entry.Key()), nil
}

// RecipeElapsed sums recipe time across every non-recursive target.
// Recursive targets are excluded because their cost is attributed to the
// child process's own targets.
func (tg *TargetGraph) RecipeElapsed() time.Duration {
	var total time.Duration
	for _, key := range tg.order {
		n := tg.nodes[key]
		if n.Recursive() {
			continue
		}
		total += n.ElapsedRecipe()
	}
	return total
}

// Validate fails when the dependency graph contains cycles.
func (tg *TargetGraph) Validate() error {
	if cycles := tg.findCycles(); len(cycles) > 0 {
		return &IntegrityError{Graph: "target", Cycles: cycles}
	}
	return nil
}
