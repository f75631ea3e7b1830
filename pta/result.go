package pta

import (
	"github.com/taie-go/taie/fact"
	"github.com/taie-go/taie/ir"
	"github.com/taie-go/taie/pta/context"
)

// Result is the solved state of a Solver.Solve run: points-to sets, the
// resolved context-sensitive call graph, and the reachable-method set.
type Result struct {
	pts       map[Pointer]*fact.SetFact[*CSObj]
	edges     []CSEdge
	reachable map[methodCtx]bool
}

// PointsTo returns p's points-to set, or nil if p was never reached.
func (r *Result) PointsTo(p Pointer) []*CSObj {
	s, ok := r.pts[p]
	if !ok {
		return nil
	}
	return s.Elements()
}

// CallGraph returns every resolved context-sensitive call edge.
func (r *Result) CallGraph() []CSEdge { return r.edges }

// Pointers returns every pointer the solver ever computed a (possibly
// empty) points-to set for, in unspecified order — for driver/reporting
// code that wants to dump the whole solved state rather than query one
// pointer at a time.
func (r *Result) Pointers() []Pointer {
	out := make([]Pointer, 0, len(r.pts))
	for p := range r.pts {
		out = append(out, p)
	}
	return out
}

// ReachableMethods returns every (method, context) pair the solver
// proved reachable, deduplicated by method.
func (r *Result) ReachableMethods() []*ir.Method {
	seen := make(map[*ir.Method]bool)
	var out []*ir.Method
	for mc := range r.reachable {
		if !seen[mc.m] {
			seen[mc.m] = true
			out = append(out, mc.m)
		}
	}
	return out
}

// ContextsOf returns every context under which m was proved reachable —
// used by overlays (taint) that need to seed a points-to fact at a
// variable of m regardless of which calling context reached it.
func (r *Result) ContextsOf(m *ir.Method) []context.Context {
	var out []context.Context
	for mc := range r.reachable {
		if mc.m == m {
			out = append(out, mc.ctx)
		}
	}
	return out
}
