// Package solver implements the generic monotone worklist driver of §4.1:
// polymorphic over {Node, Fact} via a small capability contract (§9
// "Generic analyses"), so that live-variable analysis, constant
// propagation and any future CFG client share one fixpoint engine.
package solver

import (
	"github.com/taie-go/taie/cfg"
)

// Fact is the capability contract a lattice fact type must supply: a
// change-detecting meet (join, for may-analyses; used generically as
// "meet" per spec terminology) and a deep copy. Facts are otherwise opaque
// to the solver (§9 "Mutable fact sharing" / "Generic analyses").
type Fact[F any] interface {
	// MeetInto merges src into the receiver, returning whether the
	// receiver changed.
	MeetInto(src F) bool
	// Copy returns an independent copy of the receiver.
	Copy() F
}

// Analysis is the client contract §4.1 drives: boundary/initial facts and
// a per-node transfer function. TransferNode mutates out in place and
// reports whether it changed, per §9 "Mutable fact sharing".
type Analysis[F Fact[F]] interface {
	IsForward() bool
	NewInitialFact() F
	NewBoundaryFact(g *cfg.CFG) F
	TransferNode(g *cfg.CFG, n cfg.Node, in, out F) bool
}

// Result is the solved {in, out} fact pair for every CFG node.
type Result[F Fact[F]] struct {
	In, Out map[cfg.Node]F
}

func (r *Result[F]) InFact(n cfg.Node) F  { return r.In[n] }
func (r *Result[F]) OutFact(n cfg.Node) F { return r.Out[n] }

// Solve runs the fixpoint computation of §4.1 to completion and returns
// the per-node in/out facts.
//
// Direction is handled by relabeling: for a forward analysis, TransferNode
// computes out(n) from in(n) := meet of predecessors' out; for a backward
// analysis it computes in(n) from out(n) := meet of successors' in — the
// "swap in/out and predecessors/successors" §4.1 describes. result(n) is
// whichever of {in, out} TransferNode produces; input(n) is the other.
func Solve[F Fact[F]](g *cfg.CFG, a Analysis[F]) *Result[F] {
	res := &Result[F]{In: make(map[cfg.Node]F), Out: make(map[cfg.Node]F)}
	forward := a.IsForward()

	result := func(n cfg.Node) F {
		if forward {
			return res.Out[n]
		}
		return res.In[n]
	}
	setResult := func(n cfg.Node, f F) {
		if forward {
			res.Out[n] = f
		} else {
			res.In[n] = f
		}
	}
	input := func(n cfg.Node) F {
		if forward {
			return res.In[n]
		}
		return res.Out[n]
	}
	setInput := func(n cfg.Node, f F) {
		if forward {
			res.In[n] = f
		} else {
			res.Out[n] = f
		}
	}
	// upstream(n) yields the nodes whose result feeds n's input.
	upstream := func(n cfg.Node) []cfg.Node {
		var out []cfg.Node
		if forward {
			for _, e := range g.Preds(n) {
				out = append(out, e.From)
			}
		} else {
			for _, e := range g.Succs(n) {
				out = append(out, e.To)
			}
		}
		return out
	}
	// downstream(n) yields the nodes to re-enqueue when n's result
	// changes.
	downstream := func(n cfg.Node) []cfg.Node {
		var out []cfg.Node
		if forward {
			for _, e := range g.Succs(n) {
				out = append(out, e.To)
			}
		} else {
			for _, e := range g.Preds(n) {
				out = append(out, e.From)
			}
		}
		return out
	}

	boundary := g.Entry()
	if !forward {
		boundary = g.Exit()
	}

	for _, n := range g.Nodes() {
		res.In[n] = a.NewInitialFact()
		res.Out[n] = a.NewInitialFact()
	}
	bf := a.NewBoundaryFact(g)
	setResult(boundary, bf)
	setInput(boundary, bf.Copy())

	wl := newWorklist()
	for _, n := range g.StmtNodes() {
		wl.push(n)
	}

	for !wl.empty() {
		n := wl.pop()
		if n == boundary {
			continue
		}

		in := a.NewInitialFact()
		for _, from := range upstream(n) {
			in.MeetInto(result(from))
		}
		setInput(n, in)

		out := result(n)
		changed := a.TransferNode(g, n, in, out)
		setResult(n, out)
		if changed {
			for _, to := range downstream(n) {
				wl.push(to)
			}
		}
	}
	return res
}
