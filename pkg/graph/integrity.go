package graph

// cycle detection via Tarjan's strongly connected components. A build
// dependency graph must be acyclic; any SCC with more than one member is
// reported as an integrity violation.

type tarjan struct {
	k       *keyed
	index   int
	stack   []int64
	onStack map[int64]bool
	indices map[int64]int
	lowLink map[int64]int
	cycles  [][]string
}

// findCycles returns every dependency cycle in the graph, each as the
// list of node keys involved.
func (k *keyed) findCycles() [][]string {
	t := &tarjan{
		k:       k,
		onStack: make(map[int64]bool),
		indices: make(map[int64]int),
		lowLink: make(map[int64]int),
	}
	for _, key := range k.order {
		id := k.ids[key]
		if _, visited := t.indices[id]; !visited {
			t.strongConnect(id)
		}
	}
	return t.cycles
}

func (t *tarjan) strongConnect(id int64) {
	t.indices[id] = t.index
	t.lowLink[id] = t.index
	t.index++

	t.stack = append(t.stack, id)
	t.onStack[id] = true

	it := t.k.g.From(id)
	for it.Next() {
		succ := it.Node().ID()
		if _, visited := t.indices[succ]; !visited {
			t.strongConnect(succ)
			t.lowLink[id] = min(t.lowLink[id], t.lowLink[succ])
		} else if t.onStack[succ] {
			t.lowLink[id] = min(t.lowLink[id], t.indices[succ])
		}
	}

	if t.lowLink[id] == t.indices[id] {
		var scc []string
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			scc = append(scc, t.k.keys[w])
			if w == id {
				break
			}
		}
		if len(scc) > 1 {
			t.cycles = append(t.cycles, scc)
		}
	}
}
