// Package taint implements §4.10's taint-tracking overlay: it runs on top
// of an already-solved context-sensitive pointer analysis, fabricating a
// distinguished object at every call matching a configured source and
// letting the base solver's pointer-flow graph carry it around exactly
// like a real heap object, then reports every configured sink whose
// matching argument's points-to set contains one.
package taint

import (
	"sort"

	"github.com/taie-go/taie/config"
	"github.com/taie-go/taie/ir"
	"github.com/taie-go/taie/pta"
	"github.com/taie-go/taie/pta/context"
)

// Flow is one source-reaches-sink finding. ParamIdx mirrors the matching
// config.Sink's Param (-1 for the receiver).
type Flow struct {
	Source   *ir.Invoke
	Sink     *ir.Invoke
	ParamIdx int
}

func less(a, b Flow) bool {
	if a.Source.Index() != b.Source.Index() {
		return a.Source.Index() < b.Source.Index()
	}
	if a.Sink.Index() != b.Sink.Index() {
		return a.Sink.Index() < b.Sink.Index()
	}
	return a.ParamIdx < b.ParamIdx
}

// tag records which source call produced a fabricated object and what
// declared type it currently carries (transfers can retype it in flight).
type tag struct {
	source *ir.Invoke
	typ    string
}

// seenKey is the "contextless flow map" key §4.10 describes: a transfer
// target is keyed by the plain variable it lands in plus the tag being
// transferred, ignoring Context — once a (var, tag) pair has been seeded
// once, re-seeding it on every later Drain would just loop forever for no
// new information.
type seenKey struct {
	v   ir.Var
	tag tag
}

// Overlay holds the bookkeeping an Overlay.Run needs across its seed /
// transfer / collect passes.
type Overlay struct {
	solver *pta.Solver
	result *pta.Result
	cfg    *config.TaintConfig

	tags map[*pta.Obj]tag
	seen map[seenKey]bool
}

// NewOverlay builds an overlay over solver's already-Solve'd result,
// using cfg's sources/sinks/transfers.
func NewOverlay(solver *pta.Solver, result *pta.Result, cfg *config.TaintConfig) *Overlay {
	return &Overlay{
		solver: solver,
		result: result,
		cfg:    cfg,
		tags:   make(map[*pta.Obj]tag),
		seen:   make(map[seenKey]bool),
	}
}

// Run executes §4.10 end to end: seed every source, thread transfers to a
// fixpoint (each round re-draining the base solver so transferred objects
// finish propagating before the next round reads points-to sets), then
// collect and return the sorted, deduplicated flows reaching a sink.
func (o *Overlay) Run() []Flow {
	o.seedSources()
	o.solver.Drain()

	for {
		if !o.applyTransfers() {
			break
		}
		o.solver.Drain()
	}

	return o.collectFlows()
}

// reachableInvokes walks every reachable method's statements, calling fn
// for each Invoke whose callee signature equals sig.
func (o *Overlay) reachableInvokes(sig string, fn func(m *ir.Method, inv *ir.Invoke)) {
	for _, m := range o.result.ReachableMethods() {
		for _, stmt := range m.Stmts {
			inv, ok := stmt.(*ir.Invoke)
			if !ok || inv.Exp.Method.String() != sig {
				continue
			}
			fn(m, inv)
		}
	}
}

func (o *Overlay) seedSources() {
	mgr := o.solver.Manager()
	for _, src := range o.cfg.Sources {
		src := src
		o.reachableInvokes(src.Method, func(m *ir.Method, inv *ir.Invoke) {
			if inv.Lhs == nil {
				return
			}
			obj := mgr.TaintObjOf(inv, src.ReturnType)
			o.tags[obj] = tag{source: inv, typ: src.ReturnType}
			for _, ctx := range o.result.ContextsOf(m) {
				cs := mgr.CSObjOf(obj, context.Empty)
				o.solver.Seed(mgr.VarPtrOf(inv.Lhs, ctx), cs)
			}
		})
	}
}

// applyTransfers scans every configured transfer's call sites for a
// tagged object reaching the "from" endpoint and, if not already
// transferred there, seeds a retagged object at the "to" endpoint.
// Returns whether it made any new progress.
func (o *Overlay) applyTransfers() bool {
	mgr := o.solver.Manager()
	progress := false
	for _, tr := range o.cfg.Transfers {
		tr := tr
		o.reachableInvokes(tr.Method, func(m *ir.Method, inv *ir.Invoke) {
			to := endpointVar(inv, tr.To)
			if to == nil {
				return
			}
			from := endpointVar(inv, tr.From)
			if from == nil {
				return
			}
			for _, ctx := range o.result.ContextsOf(m) {
				fromPts := o.result.PointsTo(mgr.VarPtrOf(from, ctx))
				for _, cs := range fromPts {
					srcTag, tagged := o.tags[cs.Obj]
					if !tagged {
						continue
					}
					newTag := tag{source: srcTag.source, typ: tr.Type}
					key := seenKey{to, newTag}
					if o.seen[key] {
						continue
					}
					o.seen[key] = true
					obj := mgr.TaintObjOf(inv, tr.Type)
					o.tags[obj] = newTag
					o.solver.Seed(mgr.VarPtrOf(to, ctx), mgr.CSObjOf(obj, context.Empty))
					progress = true
				}
			}
		})
	}
	return progress
}

func (o *Overlay) collectFlows() []Flow {
	mgr := o.solver.Manager()
	found := make(map[Flow]bool)
	for _, sink := range o.cfg.Sinks {
		sink := sink
		o.reachableInvokes(sink.Method, func(m *ir.Method, inv *ir.Invoke) {
			v := sinkVar(inv, sink.Param)
			if v == nil {
				return
			}
			for _, ctx := range o.result.ContextsOf(m) {
				for _, cs := range o.result.PointsTo(mgr.VarPtrOf(v, ctx)) {
					srcTag, tagged := o.tags[cs.Obj]
					if !tagged {
						continue
					}
					found[Flow{Source: srcTag.source, Sink: inv, ParamIdx: sink.Param}] = true
				}
			}
		})
	}

	flows := make([]Flow, 0, len(found))
	for f := range found {
		flows = append(flows, f)
	}
	sort.Slice(flows, func(i, j int) bool { return less(flows[i], flows[j]) })
	return flows
}

// endpointVar resolves a config.Endpoint against a call's actual
// arguments/receiver/result.
func endpointVar(inv *ir.Invoke, e config.Endpoint) ir.Var {
	switch e.Kind {
	case config.BaseEndpoint:
		return inv.Base
	case config.ResultEndpoint:
		return inv.Lhs
	default:
		if e.Arg < len(inv.Exp.Args) {
			return inv.Exp.Args[e.Arg]
		}
		return nil
	}
}

// sinkVar resolves a config.Sink's Param (-1 denotes the receiver).
func sinkVar(inv *ir.Invoke, param int) ir.Var {
	if param < 0 {
		return inv.Base
	}
	if param < len(inv.Exp.Args) {
		return inv.Exp.Args[param]
	}
	return nil
}
