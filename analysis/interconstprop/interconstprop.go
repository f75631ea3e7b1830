// Package interconstprop implements interprocedural constant propagation
// (§4.4): the same three-point lattice as analysis/constprop, lifted over
// an icfg.ICFG via four edge-transfer functions (Normal, CallToReturn,
// Call, Return) plus a node transfer that is identity at call sites and
// delegates to the intra-procedural transfer everywhere else.
package interconstprop

import (
	"github.com/taie-go/taie/analysis/constprop"
	"github.com/taie-go/taie/fact"
	"github.com/taie-go/taie/icfg"
	"github.com/taie-go/taie/ir"
	"github.com/taie-go/taie/pta"
	"github.com/taie-go/taie/value"
)

// Fact is the constant-propagation fact at an ICFG node.
type Fact = *fact.CPFact

// Result is the solved per-node in/out facts.
type Result struct {
	In, Out map[icfg.Node]Fact
}

func (r *Result) InFact(n icfg.Node) Fact  { return r.In[n] }
func (r *Result) OutFact(n icfg.Node) Fact { return r.Out[n] }

// Solve runs §4.4's fixpoint over g, with params of every reachable
// method's entry... no: only the global entry's boundary binds params to
// NAC, per the intra-procedural boundary carried over (§4.3); every other
// method's parameters are bound exclusively via Call-edge transfer.
func Solve(g *icfg.ICFG) *Result {
	res := &Result{In: make(map[icfg.Node]Fact), Out: make(map[icfg.Node]Fact)}
	for _, n := range g.Nodes() {
		res.In[n] = fact.NewCPFact()
		res.Out[n] = fact.NewCPFact()
	}

	boundary := make(map[icfg.Node]bool)
	for _, em := range g.EntryMethods() {
		entry := g.EntryNode(em)
		res.Out[entry] = boundaryFact(em)
		boundary[entry] = true
	}

	wl := newQueue()
	for _, n := range g.StmtNodes() {
		wl.push(n)
	}
	for _, em := range g.EntryMethods() {
		for _, e := range g.Succs(g.EntryNode(em)) {
			wl.push(e.To)
		}
	}

	for !wl.empty() {
		n := wl.pop()
		if boundary[n] {
			continue
		}

		in := fact.NewCPFact()
		for _, e := range g.Preds(n) {
			in.MeetInto(transferEdge(g, e, res.Out[e.From]))
		}
		res.In[n] = in

		out := res.Out[n]
		changed := transferNode(g, n, in, out)
		if changed {
			for _, e := range g.Succs(n) {
				wl.push(e.To)
			}
		}
	}
	return res
}

func boundaryFact(m *ir.Method) Fact {
	f := fact.NewCPFact()
	for _, p := range m.Params {
		if p.IntLike() {
			f.Update(p, value.NotAConst())
		}
	}
	return f
}

// transferEdge implements §4.4's four edge-transfer functions.
func transferEdge(g *icfg.ICFG, e icfg.Edge, src Fact) Fact {
	switch e.Kind {
	case icfg.Normal:
		return src.Copy()
	case icfg.CallToReturn:
		out := src.Copy()
		if e.Call.Lhs != nil {
			if g.HasResolvedCallee(e.From) {
				// A real Return edge supplies the actual value via meet;
				// start from bottom so it doesn't win against it.
				out.Update(e.Call.Lhs, value.Undef())
			} else {
				// Unresolvable dispatch (§7's unresolved-dispatch
				// warning): no Return edge will ever refine this, so the
				// call's result is unknown rather than never-assigned.
				out.Update(e.Call.Lhs, value.NotAConst())
			}
		}
		return out
	case icfg.Call:
		callee := e.To.Method
		f := fact.NewCPFact()
		for i, a := range e.Call.Exp.Args {
			if i >= len(callee.Params) {
				break
			}
			p := callee.Params[i]
			if p.IntLike() {
				f.Update(p, src.Get(a))
			}
		}
		return f
	case icfg.Return:
		f := fact.NewCPFact()
		if e.Call.Lhs != nil {
			acc := value.Undef()
			if pta.IsOpaque(e.From.Method) {
				// An opaque callee (§4's opaque-method policy) has no
				// return variable to read, so its result is unknown.
				acc = value.NotAConst()
			}
			for _, ret := range e.From.Method.ReturnVars() {
				acc = value.Meet(acc, src.Get(ret))
			}
			f.Update(e.Call.Lhs, acc)
		}
		return f
	default:
		return fact.NewCPFact()
	}
}

// transferNode is identity at call nodes; elsewhere it's the
// intra-procedural constant-propagation transfer (constprop.Evaluate over
// the node's own statement).
func transferNode(g *icfg.ICFG, n icfg.Node, in, out Fact) bool {
	stmt := g.Stmt(n)
	if _, isCall := stmt.(*ir.Invoke); isCall {
		return out.CopyFrom(in)
	}
	lhs, rhs, ok := constpropAssignment(stmt)
	if !ok || !lhs.IntLike() {
		return out.CopyFrom(in)
	}
	next := in.Copy()
	next.Update(lhs, constprop.Evaluate(rhs, in))
	return out.CopyFrom(next)
}

// constpropAssignment mirrors constprop's unexported assignment() helper;
// duplicated rather than exported across packages since the ICFG node
// transfer needs it and constprop's is deliberately unexported (it's an
// internal extraction detail of the intra-procedural analysis).
func constpropAssignment(stmt ir.Stmt) (ir.Var, ir.Exp, bool) {
	switch s := stmt.(type) {
	case *ir.AssignExp:
		return s.Lhs, s.Rhs, true
	case *ir.Copy:
		return s.Lhs, ir.VarRef{V: s.Rhs}, true
	case *ir.New:
		return s.Lhs, nil, true
	case *ir.LoadField:
		return s.Lhs, nil, true
	case *ir.LoadArray:
		return s.Lhs, nil, true
	case *ir.Cast:
		return s.Lhs, nil, true
	default:
		return nil, nil, false
	}
}

// queue is a FIFO worklist with a set-backed in-queue check (§5), over
// icfg.Node instead of cfg.Node.
type queue struct {
	items  []icfg.Node
	queued map[icfg.Node]bool
}

func newQueue() *queue { return &queue{queued: make(map[icfg.Node]bool)} }

func (q *queue) push(n icfg.Node) {
	if q.queued[n] {
		return
	}
	q.queued[n] = true
	q.items = append(q.items, n)
}

func (q *queue) pop() icfg.Node {
	n := q.items[0]
	q.items = q.items[1:]
	delete(q.queued, n)
	return n
}

func (q *queue) empty() bool { return len(q.items) == 0 }
