// Package callgraph builds a class-hierarchy-based call graph (§4.8): a
// worklist over reachable methods, each invoke statement resolved to zero
// or more concrete targets through classes.Hierarchy.
package callgraph

import (
	"github.com/taie-go/taie/classes"
	"github.com/taie-go/taie/internal/diag"
	"github.com/taie-go/taie/ir"
	"github.com/zboralski/lattice"
)

// Edge is one resolved call: stmt, in method Caller, dispatches to Callee.
type Edge struct {
	Caller *ir.Method
	Stmt   *ir.Invoke
	Callee *ir.Method
}

// Graph is the resolved call graph over a reachable-methods closure.
type Graph struct {
	Reachable map[*ir.Method]bool
	Edges     []Edge

	callees map[*ir.Method][]*ir.Method
	callers map[*ir.Method][]*ir.Method
}

func newGraph() *Graph {
	return &Graph{
		Reachable: make(map[*ir.Method]bool),
		callees:   make(map[*ir.Method][]*ir.Method),
		callers:   make(map[*ir.Method][]*ir.Method),
	}
}

func (g *Graph) CalleesOf(m *ir.Method) []*ir.Method { return g.callees[m] }
func (g *Graph) CallersOf(m *ir.Method) []*ir.Method { return g.callers[m] }

// ToLattice renders g as a github.com/zboralski/lattice Graph — named
// nodes plus Caller/Callee string edges, deduplicated via lattice.Graph's
// own Dedup() — following the same BuildCallGraph pattern the
// zboralski/unflutter pack repo uses for its (disassembly-derived) call
// graph.
func (g *Graph) ToLattice() *lattice.Graph {
	lg := &lattice.Graph{}
	for m := range g.Reachable {
		lg.Nodes = append(lg.Nodes, m.String())
	}
	for _, e := range g.Edges {
		lg.Edges = append(lg.Edges, lattice.Edge{Caller: e.Caller.String(), Callee: e.Callee.String()})
	}
	lg.Dedup()
	return lg
}

func (g *Graph) addEdge(caller *ir.Method, stmt *ir.Invoke, callee *ir.Method) {
	g.Edges = append(g.Edges, Edge{Caller: caller, Stmt: stmt, Callee: callee})
	g.callees[caller] = append(g.callees[caller], callee)
	g.callers[callee] = append(g.callers[callee], caller)
}

// BuildCHA computes the reachable-methods closure from entry, resolving
// every invoke statement per §4.8's per-CallKind dispatch rule. log may be
// nil; when non-nil it records a warning for every call site that resolves
// to zero targets (§7 "unresolvable dispatch... flagged with a warning;
// the offending call is skipped"), excluding DynamicCall which is always
// out of scope rather than a resolution failure.
func BuildCHA(entry *ir.Method, h *classes.Hierarchy, log *diag.Log) *Graph {
	g := newGraph()
	if entry == nil {
		return g
	}
	worklist := []*ir.Method{entry}
	g.Reachable[entry] = true

	enqueue := func(m *ir.Method) {
		if m != nil && !g.Reachable[m] {
			g.Reachable[m] = true
			worklist = append(worklist, m)
		}
	}

	for len(worklist) > 0 {
		m := worklist[0]
		worklist = worklist[1:]
		for _, stmt := range m.Stmts {
			inv, ok := stmt.(*ir.Invoke)
			if !ok {
				continue
			}
			targets := resolveTargets(h, inv)
			if len(targets) == 0 && log != nil && inv.Exp.Kind != ir.DynamicCall {
				log.Warnf(m.String(), "unresolved dispatch to %s", inv.Exp.Method)
			}
			for _, callee := range targets {
				g.addEdge(m, inv, callee)
				enqueue(callee)
			}
		}
	}
	return g
}

// resolveTargets implements §4.8's dispatch table: STATIC resolves to the
// statically declared method; SPECIAL ascends the superclass chain from
// the declaring class; VIRTUAL/INTERFACE dispatch from every class in the
// subclass/subinterface/implementor closure. Nulls (abstract with no
// concrete override) are discarded, per §4.8.
func resolveTargets(h *classes.Hierarchy, inv *ir.Invoke) []*ir.Method {
	ref := inv.Exp.Method
	switch inv.Exp.Kind {
	case ir.StaticCall:
		if m := h.DeclaredMethod(ref.ClassName, ref.Subsignature); m != nil {
			return []*ir.Method{m}
		}
		return nil
	case ir.SpecialCall:
		if m := h.Resolve(ref.ClassName, ref.Subsignature); m != nil {
			return []*ir.Method{m}
		}
		return nil
	case ir.VirtualCall, ir.InterfaceCall:
		var out []*ir.Method
		for _, c := range h.SubclassClosure(ref.ClassName) {
			if m := h.Resolve(c.Name, ref.Subsignature); m != nil {
				out = append(out, m)
			}
		}
		return out
	default:
		// DynamicCall: resolvable only by a reflection-aware front end,
		// out of scope (§9 "Opaque methods").
		return nil
	}
}
