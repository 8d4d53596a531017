// Package graph builds the queryable model of a build trace: a directed
// graph of build processes, a directed graph of targets with dependency
// edges (including cross-process edges for recursive invocations), and
// the read-adjusted info views consumed by reports and exporters.
package graph

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// keyed wraps a gonum directed graph with a string-key to id mapping.
// All graphs in this package address nodes by keys derived from trace
// attributes (pid, pid:name), never by raw gonum ids.
type keyed struct {
	g      *simple.DirectedGraph
	ids    map[string]int64
	keys   map[int64]string
	order  []string
	nextID int64
}

func newKeyed() *keyed {
	return &keyed{
		g:    simple.NewDirectedGraph(),
		ids:  make(map[string]int64),
		keys: make(map[int64]string),
	}
}

// ensure adds the key if missing and returns its id.
func (k *keyed) ensure(key string) int64 {
	if id, ok := k.ids[key]; ok {
		return id
	}
	id := k.nextID
	k.nextID++
	k.ids[key] = id
	k.keys[id] = key
	k.order = append(k.order, key)
	k.g.AddNode(simple.Node(id))
	return id
}

func (k *keyed) has(key string) bool {
	_, ok := k.ids[key]
	return ok
}

// addEdge wires from->to, creating missing endpoints. Self edges are
// dropped; a target listing itself as a dependency carries no information.
func (k *keyed) addEdge(from, to string) {
	if from == to {
		return
	}
	fid := k.ensure(from)
	tid := k.ensure(to)
	if !k.g.HasEdgeFromTo(fid, tid) {
		k.g.SetEdge(k.g.NewEdge(k.g.Node(fid), k.g.Node(tid)))
	}
}

func (k *keyed) hasEdge(from, to string) bool {
	fid, ok := k.ids[from]
	if !ok {
		return false
	}
	tid, ok := k.ids[to]
	if !ok {
		return false
	}
	return k.g.HasEdgeFromTo(fid, tid)
}

// successors returns the keys directly reachable from key.
func (k *keyed) successors(key string) []string {
	id, ok := k.ids[key]
	if !ok {
		return nil
	}
	var out []string
	it := k.g.From(id)
	for it.Next() {
		out = append(out, k.keys[it.Node().ID()])
	}
	return out
}

func (k *keyed) nodeCount() int { return len(k.ids) }

func (k *keyed) edgeCount() int {
	n := 0
	it := k.g.Edges()
	for it.Next() {
		n++
	}
	return n
}

// topoKeys returns all keys in topological order. Ties between
// independent nodes break by insertion id, keeping the ordering stable
// across runs. The error reports an unorderable (cyclic) graph.
func (k *keyed) topoKeys() ([]string, error) {
	sorted, err := topo.SortStabilized(k.g, nil)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(sorted))
	for _, n := range sorted {
		out = append(out, k.keys[n.ID()])
	}
	return out, nil
}

// reachable reports whether to can be reached from from by following one
// or more edges.
func (k *keyed) reachable(from, to string) bool {
	fid, ok := k.ids[from]
	if !ok {
		return false
	}
	tid, ok := k.ids[to]
	if !ok {
		return false
	}
	seen := map[int64]bool{fid: true}
	stack := []int64{fid}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		it := k.g.From(cur)
		for it.Next() {
			id := it.Node().ID()
			if id == tid {
				return true
			}
			if !seen[id] {
				seen[id] = true
				stack = append(stack, id)
			}
		}
	}
	return false
}

// transitiveReduction returns a copy of the graph with every edge removed
// that is implied by a longer path. Node keys and ids are preserved.
// Assumes the graph is acyclic.
func (k *keyed) transitiveReduction() *keyed {
	red := newKeyed()
	for _, key := range k.order {
		red.ensure(key)
	}
	for _, u := range k.order {
		succs := k.successors(u)
		for _, v := range succs {
			implied := false
			for _, w := range succs {
				if w == v {
					continue
				}
				if k.reachable(w, v) {
					implied = true
					break
				}
			}
			if !implied {
				red.addEdge(u, v)
			}
		}
	}
	return red
}
