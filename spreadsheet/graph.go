package spreadsheet

import "sort"

// depGraph tracks which cells a formula reads (out-edges) and, transposed,
// which cells read a given cell (in-edges). Both directions are kept so
// that edits can rebuild one cell's reads and walk its readers cheaply.
type depGraph struct {
	reads   map[CellAddress]map[CellAddress]struct{} // cell -> cells its formula reads
	readers map[CellAddress]map[CellAddress]struct{} // cell -> cells whose formulas read it
}

func newDepGraph() *depGraph {
	return &depGraph{
		reads:   make(map[CellAddress]map[CellAddress]struct{}),
		readers: make(map[CellAddress]map[CellAddress]struct{}),
	}
}

// setReads replaces the out-edges of addr with refs and keeps the
// transposed map consistent.
func (g *depGraph) setReads(addr CellAddress, refs []CellAddress) {
	for old := range g.reads[addr] {
		delete(g.readers[old], addr)
		if len(g.readers[old]) == 0 {
			delete(g.readers, old)
		}
	}
	delete(g.reads, addr)

	if len(refs) == 0 {
		return
	}
	out := make(map[CellAddress]struct{}, len(refs))
	for _, ref := range refs {
		out[ref] = struct{}{}
		in := g.readers[ref]
		if in == nil {
			in = make(map[CellAddress]struct{})
			g.readers[ref] = in
		}
		in[addr] = struct{}{}
	}
	g.reads[addr] = out
}

// dirtyClosure returns the edited cell plus every cell that transitively
// reads it.
func (g *depGraph) dirtyClosure(edited CellAddress) map[CellAddress]struct{} {
	dirty := map[CellAddress]struct{}{edited: {}}
	stack := []CellAddress{edited}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for reader := range g.readers[cur] {
			if _, seen := dirty[reader]; seen {
				continue
			}
			dirty[reader] = struct{}{}
			stack = append(stack, reader)
		}
	}
	return dirty
}

// cycleMembers finds every cell within scope that sits on a reference
// cycle: iterative Tarjan SCC over read edges restricted to scope.
// Components of more than one cell are cycles, as is a single cell that
// reads itself.
func (g *depGraph) cycleMembers(scope map[CellAddress]struct{}) map[CellAddress]struct{} {
	type frame struct {
		addr    CellAddress
		edges   []CellAddress
		edgeIdx int
	}

	index := make(map[CellAddress]int, len(scope))
	low := make(map[CellAddress]int, len(scope))
	onStack := make(map[CellAddress]bool, len(scope))
	var sccStack []CellAddress
	nextIndex := 0

	cyclic := make(map[CellAddress]struct{})

	scopedEdges := func(addr CellAddress) []CellAddress {
		var edges []CellAddress
		for ref := range g.reads[addr] {
			if _, ok := scope[ref]; ok {
				edges = append(edges, ref)
			}
		}
		sort.Slice(edges, func(i, j int) bool { return edges[i].Less(edges[j]) })
		return edges
	}

	visit := func(root CellAddress) {
		stack := []frame{{addr: root, edges: scopedEdges(root)}}
		index[root] = nextIndex
		low[root] = nextIndex
		nextIndex++
		sccStack = append(sccStack, root)
		onStack[root] = true

		for len(stack) > 0 {
			f := &stack[len(stack)-1]

			if f.edgeIdx < len(f.edges) {
				next := f.edges[f.edgeIdx]
				f.edgeIdx++
				if _, visited := index[next]; !visited {
					index[next] = nextIndex
					low[next] = nextIndex
					nextIndex++
					sccStack = append(sccStack, next)
					onStack[next] = true
					stack = append(stack, frame{addr: next, edges: scopedEdges(next)})
				} else if onStack[next] {
					if index[next] < low[f.addr] {
						low[f.addr] = index[next]
					}
				}
				continue
			}

			// all edges explored: pop the frame, maybe emit a component
			if low[f.addr] == index[f.addr] {
				var component []CellAddress
				for {
					top := sccStack[len(sccStack)-1]
					sccStack = sccStack[:len(sccStack)-1]
					onStack[top] = false
					component = append(component, top)
					if top == f.addr {
						break
					}
				}
				if len(component) > 1 {
					for _, member := range component {
						cyclic[member] = struct{}{}
					}
				} else if _, self := g.reads[component[0]][component[0]]; self {
					cyclic[component[0]] = struct{}{}
				}
			}

			done := f.addr
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				parent := &stack[len(stack)-1]
				if low[done] < low[parent.addr] {
					low[parent.addr] = low[done]
				}
			}
		}
	}

	for _, addr := range sortedAddresses(scope) {
		if _, visited := index[addr]; !visited {
			visit(addr)
		}
	}
	return cyclic
}

// evalOrder produces a topological order of scope minus the cyclic cells,
// breaking ties by address so recomputation is deterministic. Dependencies
// outside scope are already up to date and impose no ordering.
func (g *depGraph) evalOrder(scope, cyclic map[CellAddress]struct{}) []CellAddress {
	pending := make(map[CellAddress]struct{}, len(scope))
	for addr := range scope {
		if _, isCyclic := cyclic[addr]; !isCyclic {
			pending[addr] = struct{}{}
		}
	}

	inDegree := make(map[CellAddress]int, len(pending))
	for addr := range pending {
		degree := 0
		for ref := range g.reads[addr] {
			if _, ok := pending[ref]; ok {
				degree++
			}
		}
		inDegree[addr] = degree
	}

	var ready []CellAddress
	for addr, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, addr)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i].Less(ready[j]) })

	order := make([]CellAddress, 0, len(pending))
	for len(ready) > 0 {
		cur := ready[0]
		ready = ready[1:]
		order = append(order, cur)

		released := false
		for reader := range g.readers[cur] {
			if _, ok := inDegree[reader]; !ok {
				continue
			}
			inDegree[reader]--
			if inDegree[reader] == 0 {
				ready = append(ready, reader)
				released = true
			}
		}
		if released {
			sort.Slice(ready, func(i, j int) bool { return ready[i].Less(ready[j]) })
		}
	}
	return order
}

func sortedAddresses(set map[CellAddress]struct{}) []CellAddress {
	addrs := make([]CellAddress, 0, len(set))
	for addr := range set {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Less(addrs[j]) })
	return addrs
}
