// Package deadcode implements dead-code detection (§4.9): unreachable
// statements found by traversing the CFG with branch folding, plus dead
// assignments whose target is not live on exit and whose right-hand side
// cannot have a side effect.
package deadcode

import (
	"sort"

	"github.com/taie-go/taie/analysis/constprop"
	"github.com/taie-go/taie/analysis/livevar"
	"github.com/taie-go/taie/cfg"
	"github.com/taie-go/taie/ir"
	"github.com/taie-go/taie/solver"
	"github.com/taie-go/taie/value"
)

// Detect runs constant propagation and live-variable analysis over g and
// returns the dead statements, ordered by program index.
func Detect(g *cfg.CFG) []ir.Stmt {
	cp := solver.Solve[constprop.Fact](g, constprop.New())
	lv := solver.Solve[livevar.Fact](g, livevar.New())

	live := make(map[cfg.Node]bool)
	reachable(g, cp, cfg.Entry, live)

	var dead []ir.Stmt
	for _, n := range g.StmtNodes() {
		stmt := g.Stmt(n)
		if !live[n] {
			dead = append(dead, stmt)
			continue
		}
		if isDeadAssignment(stmt, lv.OutFact(n)) {
			dead = append(dead, stmt)
		}
	}
	sort.Slice(dead, func(i, j int) bool { return dead[i].Index() < dead[j].Index() })
	return dead
}

// reachable performs the forward traversal §4.9 describes, following only
// the branch that a folded If/Switch guard selects and marking every node
// it visits in visited.
func reachable(g *cfg.CFG, cp *solver.Result[constprop.Fact], n cfg.Node, visited map[cfg.Node]bool) {
	if visited[n] {
		return
	}
	visited[n] = true

	stmt := g.Stmt(n)
	switch s := stmt.(type) {
	case *ir.If:
		switch cond := constprop.Evaluate(s.Cond, cp.OutFact(n)); {
		case cond.IsConst() && cond.Int() != 0:
			followKind(g, n, cfg.IfTrue, cp, visited)
		case cond.IsConst() && cond.Int() == 0:
			followKind(g, n, cfg.IfFalse, cp, visited)
		default:
			followAll(g, n, cp, visited)
		}
	case *ir.Switch:
		val := cp.OutFact(n).Get(s.Var)
		if val.IsConst() {
			matched := false
			for _, e := range g.Succs(n) {
				if e.Kind == cfg.SwitchCase && e.CaseValue == val.Int() {
					reachable(g, cp, e.To, visited)
					matched = true
				}
			}
			if !matched {
				followKind(g, n, cfg.SwitchDefault, cp, visited)
			}
		} else {
			followAll(g, n, cp, visited)
		}
	default:
		followAll(g, n, cp, visited)
	}
}

func followKind(g *cfg.CFG, n cfg.Node, kind cfg.Kind, cp *solver.Result[constprop.Fact], visited map[cfg.Node]bool) {
	for _, e := range g.Succs(n) {
		if e.Kind == kind {
			reachable(g, cp, e.To, visited)
		}
	}
}

func followAll(g *cfg.CFG, n cfg.Node, cp *solver.Result[constprop.Fact], visited map[cfg.Node]bool) {
	for _, e := range g.Succs(n) {
		reachable(g, cp, e.To, visited)
	}
}

// isDeadAssignment reports whether stmt assigns a variable that is not
// live immediately after it, with a right-hand side that cannot have a
// side effect (§4.9's "New/Cast/field/array access/div/rem excluded").
func isDeadAssignment(stmt ir.Stmt, outLive livevar.Fact) bool {
	d, ok := stmt.(ir.DefinitionStmt)
	if !ok {
		return false
	}
	lhs := d.LHS()
	if lhs == nil || outLive.Contains(lhs) {
		return false
	}
	switch s := stmt.(type) {
	case *ir.Copy:
		return true
	case *ir.AssignExp:
		return sideEffectFree(s.Rhs)
	default:
		// New, LoadField, LoadArray, Invoke, Cast are never side-effect-free.
		return false
	}
}

func sideEffectFree(e ir.Exp) bool {
	switch e := e.(type) {
	case ir.IntLit, ir.VarRef:
		return true
	case ir.BinExp:
		if e.Op == value.DIV || e.Op == value.REM {
			return false
		}
		return sideEffectFree(e.X) && sideEffectFree(e.Y)
	default:
		return false
	}
}
