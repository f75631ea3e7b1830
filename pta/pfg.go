package pta

// pfg is the pointer-flow graph of §4.5: nodes are Pointers (already
// canonicalized by Manager, so pointer identity is map-key identity),
// edges denote unconditional points-to flow. Kept as a plain adjacency
// map rather than routed through github.com/zboralski/lattice.Graph:
// that dependency's Graph type keys nodes by string name (built for named
// call-graph nodes, see callgraph.Graph.ToLattice), which would lose
// Pointer's structural identity (e.g. two InstanceFields over different
// CSObjs stringifying alike). See DESIGN.md.
type pfg struct {
	succs map[Pointer]map[Pointer]bool
}

func newPFG() *pfg {
	return &pfg{succs: make(map[Pointer]map[Pointer]bool)}
}

// addEdge implements §4.5's addEdge(s, t): returns true on first
// insertion.
func (g *pfg) addEdge(s, t Pointer) bool {
	m, ok := g.succs[s]
	if !ok {
		m = make(map[Pointer]bool)
		g.succs[s] = m
	}
	if m[t] {
		return false
	}
	m[t] = true
	return true
}

func (g *pfg) successors(p Pointer) []Pointer {
	out := make([]Pointer, 0, len(g.succs[p]))
	for t := range g.succs[p] {
		out = append(out, t)
	}
	return out
}
