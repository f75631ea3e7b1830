// Package livevar implements live-variable analysis (§4.2): a backward,
// may-analysis over the set lattice of variables.
package livevar

import (
	"github.com/taie-go/taie/cfg"
	"github.com/taie-go/taie/fact"
	"github.com/taie-go/taie/ir"
)

// Fact is the live-variable set at a CFG node.
type Fact = *fact.SetFact[ir.Var]

// Analysis implements solver.Analysis[Fact].
type Analysis struct{}

func New() *Analysis { return &Analysis{} }

func (*Analysis) IsForward() bool { return false }

func (*Analysis) NewInitialFact() Fact { return fact.NewSetFact[ir.Var]() }

// NewBoundaryFact is the empty set, per §4.2 ("boundary = ∅").
func (*Analysis) NewBoundaryFact(*cfg.CFG) Fact { return fact.NewSetFact[ir.Var]() }

// TransferNode implements `in = (out \ def(stmt)) ∪ use(stmt)`, considering
// only variable-typed defs/uses (§4.2). Per the solver's calling
// convention (§4.1), `in` already holds the freshly computed meet over
// successors (this node's live-out); the result is written into `out`.
func (*Analysis) TransferNode(g *cfg.CFG, n cfg.Node, in, out Fact) bool {
	next := in.Copy()
	if def, ok := defOf(g.Stmt(n)); ok {
		next.Remove(def)
	}
	for _, v := range usesOf(g.Stmt(n)) {
		next.Add(v)
	}
	return out.CopyFrom(next)
}

func defOf(s ir.Stmt) (ir.Var, bool) {
	if d, ok := s.(ir.DefinitionStmt); ok {
		if v := d.LHS(); v != nil {
			return v, true
		}
	}
	return nil, false
}

// usesOf returns the variables read by s.
func usesOf(s ir.Stmt) []ir.Var {
	switch s := s.(type) {
	case *ir.Copy:
		return []ir.Var{s.Rhs}
	case *ir.LoadField:
		if !s.Static && s.Base != nil {
			return []ir.Var{s.Base}
		}
	case *ir.StoreField:
		var out []ir.Var
		if !s.Static && s.Base != nil {
			out = append(out, s.Base)
		}
		return append(out, s.Rhs)
	case *ir.LoadArray:
		return []ir.Var{s.Base, s.Index}
	case *ir.StoreArray:
		return []ir.Var{s.Base, s.Index, s.Rhs}
	case *ir.Invoke:
		var out []ir.Var
		if !s.Static && s.Base != nil {
			out = append(out, s.Base)
		}
		out = append(out, s.Exp.Args...)
		return out
	case *ir.Cast:
		return []ir.Var{s.Rhs}
	case *ir.AssignExp:
		return expVars(s.Rhs)
	case *ir.If:
		return expVars(s.Cond)
	case *ir.Switch:
		return []ir.Var{s.Var}
	case *ir.Return:
		return s.Vars
	}
	return nil
}

func expVars(e ir.Exp) []ir.Var {
	switch e := e.(type) {
	case ir.VarRef:
		return []ir.Var{e.V}
	case ir.BinExp:
		return append(expVars(e.X), expVars(e.Y)...)
	default:
		return nil
	}
}
