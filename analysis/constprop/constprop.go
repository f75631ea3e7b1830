// Package constprop implements intra-procedural constant propagation
// (§4.3): a forward analysis over the three-point value lattice, with
// parameters starting at NAC (unknown caller values).
package constprop

import (
	"github.com/taie-go/taie/cfg"
	"github.com/taie-go/taie/fact"
	"github.com/taie-go/taie/ir"
	"github.com/taie-go/taie/value"
)

// Fact is the constant-propagation fact at a CFG node.
type Fact = *fact.CPFact

// Analysis implements solver.Analysis[Fact].
type Analysis struct{}

func New() *Analysis { return &Analysis{} }

func (*Analysis) IsForward() bool { return true }

func (*Analysis) NewInitialFact() Fact { return fact.NewCPFact() }

// NewBoundaryFact binds every integer-capable parameter to NAC: the
// method's caller is unknown at the intra-procedural boundary (§4.3,
// §8 "An integer-typed parameter with no caller info... starts at NAC").
func (*Analysis) NewBoundaryFact(g *cfg.CFG) Fact {
	f := fact.NewCPFact()
	for _, p := range g.Method.Params {
		if p.IntLike() {
			f.Update(p, value.NotAConst())
		}
	}
	return f
}

// TransferNode implements §4.3's node transfer: an assignment to an
// integer-capable variable evaluates its right-hand side; everything else
// (including assignments to non-integer variables) passes `in` through
// unchanged.
func (*Analysis) TransferNode(g *cfg.CFG, n cfg.Node, in, out Fact) bool {
	stmt := g.Stmt(n)
	lhs, rhs, ok := assignment(stmt)
	if !ok || !lhs.IntLike() {
		return out.CopyFrom(in)
	}
	next := in.Copy()
	next.Update(lhs, Evaluate(rhs, in))
	return out.CopyFrom(next)
}

// assignment extracts the (lhs, rhs-kind) pair TransferNode folds, if
// stmt is one of the statement kinds that can define an integer value.
// New/LoadField/LoadArray/Invoke/Cast have no Exp to fold — Evaluate
// treats their absence (nil) as NAC directly, per §4.3's "Field access,
// array access, method invocation, instance creation, cast: NAC".
func assignment(stmt ir.Stmt) (ir.Var, ir.Exp, bool) {
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
	case *ir.Invoke:
		if s.Lhs == nil {
			return nil, nil, false
		}
		return s.Lhs, nil, true
	case *ir.Cast:
		return s.Lhs, nil, true
	default:
		return nil, nil, false
	}
}

// Evaluate folds exp under fact in, per §4.3's "evaluate(exp, fact)".
// A nil exp denotes one of the analytically-opaque RHS kinds (field/array
// access, invocation, instance creation, cast) and always folds to NAC.
func Evaluate(exp ir.Exp, in Fact) value.Value {
	switch e := exp.(type) {
	case nil:
		return value.NotAConst()
	case ir.IntLit:
		return value.ConstOf(e.Value)
	case ir.VarRef:
		return in.Get(e.V)
	case ir.BinExp:
		return value.Fold(e.Op, Evaluate(e.X, in), Evaluate(e.Y, in))
	default:
		return value.NotAConst()
	}
}
