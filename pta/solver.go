package pta

import (
	"io"

	"github.com/taie-go/taie/classes"
	"github.com/taie-go/taie/fact"
	"github.com/taie-go/taie/internal/diag"
	"github.com/taie-go/taie/ir"
	"github.com/taie-go/taie/pta/context"
	"github.com/taie-go/taie/pta/heap"
)

// Solver is the Andersen-style pointer analysis of §4.6, generalized to
// §4.7 by a context.Selector: running with context.Insensitive{} makes
// every Context Empty, which is exactly §4.6's degenerate case.
type Solver struct {
	hierarchy *classes.Hierarchy
	heapModel heap.Model
	selector  context.Selector
	mgr       *Manager

	pfg       *pfg
	pts       map[Pointer]*fact.SetFact[*CSObj]
	reachable map[methodCtx]bool
	callEdges map[callEdgeKey]bool

	queue []workItem
	edges []CSEdge

	log  io.Writer
	diag *diag.Log
}

type methodCtx struct {
	m   *ir.Method
	ctx context.Context
}

type callEdgeKey struct {
	caller    *ir.Method
	callerCtx context.Context
	stmt      *ir.Invoke
	callee    *ir.Method
	calleeCtx context.Context
}

// CSEdge is one resolved context-sensitive call-graph edge (§4.7
// "Call-graph edges are built over CSCallSite → CSMethod").
type CSEdge struct {
	Caller    *ir.Method
	CallerCtx context.Context
	Stmt      *ir.Invoke
	Callee    *ir.Method
	CalleeCtx context.Context
}

type workItem struct {
	p     Pointer
	delta *fact.SetFact[*CSObj]
}

// NewSolver builds a solver over class hierarchy h using heap model model
// and context selector sel.
func NewSolver(h *classes.Hierarchy, model heap.Model, sel context.Selector) *Solver {
	return &Solver{
		hierarchy: h,
		heapModel: model,
		selector:  sel,
		mgr:       NewManager(model),
		pfg:       newPFG(),
		pts:       make(map[Pointer]*fact.SetFact[*CSObj]),
		reachable: make(map[methodCtx]bool),
		callEdges: make(map[callEdgeKey]bool),
	}
}

// NewInsensitiveSolver is §4.6's context-insensitive variant.
func NewInsensitiveSolver(h *classes.Hierarchy) *Solver {
	return NewSolver(h, heap.AllocationSite{}, context.Insensitive{})
}

// SetLog enables a.log-style tracing on both the solver and its Manager.
func (s *Solver) SetLog(w io.Writer) {
	s.log = w
	s.mgr.SetLog(w)
}

// Manager exposes the node arena, e.g. for taint's pointer lookups.
func (s *Solver) Manager() *Manager { return s.mgr }

// SetDiag attaches a diagnostic log that unresolved-dispatch warnings are
// recorded to (§7). Nil by default, which silently skips such calls.
func (s *Solver) SetDiag(l *diag.Log) { s.diag = l }

func (s *Solver) warnUnresolved(caller *ir.Method, inv *ir.Invoke) {
	if s.diag != nil {
		s.diag.Warnf(caller.String(), "unresolved dispatch to %s", inv.Exp.Method)
	}
}

// Solve runs the analysis to a fixpoint starting from entry under the
// empty context, and returns the points-to sets and resolved call graph.
func (s *Solver) Solve(entry *ir.Method) *Result {
	s.addReachable(entry, context.Empty)
	s.Drain()
	return s.Result()
}

// Seed injects obj into p's points-to set and resumes propagation on the
// next Drain call. Exposed for overlays (§4.10's taint analysis) that
// inject fabricated objects after the base fixpoint and need "another
// work-list iteration" to propagate them.
func (s *Solver) Seed(p Pointer, obj *CSObj) {
	delta := fact.NewSetFact[*CSObj]()
	delta.Add(obj)
	s.enqueue(p, delta)
}

// Drain runs the work-list loop of §4.6 item 3 to completion.
func (s *Solver) Drain() {
	for len(s.queue) > 0 {
		item := s.queue[0]
		s.queue = s.queue[1:]
		s.step(item.p, item.delta)
	}
}

// Result snapshots the solver's current state. Safe to call repeatedly
// (e.g. between overlay iterations); the snapshot aliases the solver's
// live maps, so it reflects the state as of the most recent Drain.
func (s *Solver) Result() *Result {
	return &Result{pts: s.pts, edges: s.edges, reachable: s.reachable}
}

func (s *Solver) enqueue(p Pointer, delta *fact.SetFact[*CSObj]) {
	if delta.Len() == 0 {
		return
	}
	s.queue = append(s.queue, workItem{p: p, delta: delta})
}

func (s *Solver) ptsOf(p Pointer) *fact.SetFact[*CSObj] {
	cur, ok := s.pts[p]
	if !ok {
		cur = fact.NewSetFact[*CSObj]()
		s.pts[p] = cur
	}
	return cur
}

func (s *Solver) addPFGEdge(from, to Pointer) {
	if !s.pfg.addEdge(from, to) {
		return
	}
	if cur := s.ptsOf(from); cur.Len() > 0 {
		s.enqueue(to, cur.Copy())
	}
}

// step is the work-list loop body of §4.6 item 3.
func (s *Solver) step(p Pointer, delta *fact.SetFact[*CSObj]) {
	fresh := s.propagate(p, delta)
	if fresh.Len() == 0 {
		return
	}
	for _, succ := range s.pfg.successors(p) {
		s.enqueue(succ, fresh.Copy())
	}
	vp, ok := p.(*VarPtr)
	if !ok {
		return
	}
	fresh.ForEach(func(o *CSObj) {
		s.growVarPtr(vp, o)
	})
}

// propagate computes Δ' = Δ \ pts(p) and merges it into pts(p).
func (s *Solver) propagate(p Pointer, delta *fact.SetFact[*CSObj]) *fact.SetFact[*CSObj] {
	cur := s.ptsOf(p)
	fresh := fact.NewSetFact[*CSObj]()
	delta.ForEach(func(o *CSObj) {
		if !cur.Contains(o) {
			fresh.Add(o)
		}
	})
	cur.Union(fresh)
	return fresh
}

// addReachable implements §4.6 item 2: the addReachable(m) statement
// visitor, restricted to the five cases it specifies (New, Copy, static
// load/store, static invoke). Instance loads/stores/invokes are wired
// later in growVarPtr, once a concrete receiver object is known.
func (s *Solver) addReachable(m *ir.Method, ctx context.Context) {
	key := methodCtx{m, ctx}
	if s.reachable[key] {
		return
	}
	s.reachable[key] = true

	for _, stmt := range m.Stmts {
		switch st := stmt.(type) {
		case *ir.New:
			obj := s.mgr.ObjOf(st)
			hctx := s.selector.SelectHeapContext(ctx)
			cs := s.mgr.CSObjOf(obj, hctx)
			delta := fact.NewSetFact[*CSObj]()
			delta.Add(cs)
			s.enqueue(s.mgr.VarPtrOf(st.Lhs, ctx), delta)
		case *ir.Copy:
			s.addPFGEdge(s.mgr.VarPtrOf(st.Rhs, ctx), s.mgr.VarPtrOf(st.Lhs, ctx))
		case *ir.LoadField:
			if st.Static {
				s.addPFGEdge(s.mgr.StaticFieldOf(st.Field), s.mgr.VarPtrOf(st.Lhs, ctx))
			}
		case *ir.StoreField:
			if st.Static {
				s.addPFGEdge(s.mgr.VarPtrOf(st.Rhs, ctx), s.mgr.StaticFieldOf(st.Field))
			}
		case *ir.Invoke:
			if st.Static {
				s.resolveStatic(m, ctx, st)
			}
		}
	}
}

func (s *Solver) resolveStatic(caller *ir.Method, callerCtx context.Context, inv *ir.Invoke) {
	ref := inv.Exp.Method
	callee := s.hierarchy.DeclaredMethod(ref.ClassName, ref.Subsignature)
	if callee == nil {
		s.warnUnresolved(caller, inv)
		return
	}
	calleeCtx := s.selector.SelectContext(callerCtx, inv, nil, callee)
	if s.addCallEdge(caller, callerCtx, inv, callee, calleeCtx) {
		s.addReachable(callee, calleeCtx)
		s.wireParamsReturn(inv, callerCtx, callee, calleeCtx)
	}
}

// growVarPtr implements §4.6 item 3's "for each new object o" bullets:
// wiring instance field/array accesses and virtual/interface/special
// calls whose receiver is vp, now that o is known to reach it.
func (s *Solver) growVarPtr(vp *VarPtr, o *CSObj) {
	v := vp.Var
	m := v.Method
	for _, lf := range m.LoadFieldsOf(v) {
		if !lf.Static {
			s.addPFGEdge(s.mgr.InstanceFieldOf(o, lf.Field), s.mgr.VarPtrOf(lf.Lhs, vp.Ctx))
		}
	}
	for _, sf := range m.StoreFieldsOf(v) {
		if !sf.Static {
			s.addPFGEdge(s.mgr.VarPtrOf(sf.Rhs, vp.Ctx), s.mgr.InstanceFieldOf(o, sf.Field))
		}
	}
	for _, la := range m.LoadArraysOf(v) {
		s.addPFGEdge(s.mgr.ArrayIndexOf(o), s.mgr.VarPtrOf(la.Lhs, vp.Ctx))
	}
	for _, sa := range m.StoreArraysOf(v) {
		s.addPFGEdge(s.mgr.VarPtrOf(sa.Rhs, vp.Ctx), s.mgr.ArrayIndexOf(o))
	}
	for _, inv := range m.InvokesWithReceiver(v) {
		s.resolveInstance(m, vp.Ctx, inv, o)
	}
}

func (s *Solver) resolveInstance(caller *ir.Method, callerCtx context.Context, inv *ir.Invoke, recv *CSObj) {
	ref := inv.Exp.Method
	var callee *ir.Method
	if inv.Exp.Kind == ir.SpecialCall {
		callee = s.hierarchy.Resolve(ref.ClassName, ref.Subsignature)
	} else {
		callee = s.hierarchy.Resolve(recv.Obj.Type.String(), ref.Subsignature)
	}
	if callee == nil {
		s.warnUnresolved(caller, inv)
		return
	}
	calleeCtx := s.selector.SelectContext(callerCtx, inv, recv, callee)

	// "let this of the callee receive {o}" happens unconditionally, even
	// when the call edge already existed: a later object reaching the
	// same receiver var still needs to flow into this.
	thisDelta := fact.NewSetFact[*CSObj]()
	thisDelta.Add(recv)
	if callee.This != nil {
		s.enqueue(s.mgr.VarPtrOf(callee.This, calleeCtx), thisDelta)
	}

	if s.addCallEdge(caller, callerCtx, inv, callee, calleeCtx) {
		s.addReachable(callee, calleeCtx)
		s.wireParamsReturn(inv, callerCtx, callee, calleeCtx)
	}
}

// wireParamsReturn implements §4.6's "Parameter/return wiring".
func (s *Solver) wireParamsReturn(inv *ir.Invoke, callerCtx context.Context, callee *ir.Method, calleeCtx context.Context) {
	args := inv.Exp.Args
	for i, a := range args {
		if i >= len(callee.Params) {
			break
		}
		s.addPFGEdge(s.mgr.VarPtrOf(a, callerCtx), s.mgr.VarPtrOf(callee.Params[i], calleeCtx))
	}
	if inv.Lhs != nil {
		for _, ret := range callee.ReturnVars() {
			s.addPFGEdge(s.mgr.VarPtrOf(ret, calleeCtx), s.mgr.VarPtrOf(inv.Lhs, callerCtx))
		}
	}
}

func (s *Solver) addCallEdge(caller *ir.Method, callerCtx context.Context, stmt *ir.Invoke, callee *ir.Method, calleeCtx context.Context) bool {
	key := callEdgeKey{caller, callerCtx, stmt, callee, calleeCtx}
	if s.callEdges[key] {
		return false
	}
	s.callEdges[key] = true
	s.edges = append(s.edges, CSEdge{Caller: caller, CallerCtx: callerCtx, Stmt: stmt, Callee: callee, CalleeCtx: calleeCtx})
	return true
}
