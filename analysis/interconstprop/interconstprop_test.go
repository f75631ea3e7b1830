package interconstprop_test

import (
	"testing"

	"github.com/taie-go/taie/analysis/interconstprop"
	"github.com/taie-go/taie/classes"
	"github.com/taie-go/taie/icfg"
	"github.com/taie-go/taie/ir"
	"github.com/taie-go/taie/value"
)

// buildAddProgram builds:
//
//	Add.add(int,int) { r := x + y; return r }
//	Main.main() { a := 5; b := 3; c := Add.add(a, b); return c }
func buildAddProgram() (*classes.Hierarchy, *ir.Method, ir.Var) {
	ab := ir.NewBuilder("Add", "add(int,int)", ir.TInt, true)
	x := ab.Param("x", ir.TInt)
	y := ab.Param("y", ir.TInt)
	r := ab.Var("r", ir.TInt)
	ab.Add(&ir.AssignExp{Lhs: r, Rhs: ir.BinExp{Op: value.ADD, X: ir.VarRef{V: x}, Y: ir.VarRef{V: y}}})
	ab.Add(&ir.Return{Vars: []ir.Var{r}})
	addMethod := ab.Finish()

	mb := ir.NewBuilder("Main", "main()", ir.TInt, true)
	a := mb.Var("a", ir.TInt)
	bv := mb.Var("b", ir.TInt)
	c := mb.Var("c", ir.TInt)
	mb.Add(&ir.AssignExp{Lhs: a, Rhs: ir.IntLit{Value: 5}})
	mb.Add(&ir.AssignExp{Lhs: bv, Rhs: ir.IntLit{Value: 3}})
	mb.Add(&ir.Invoke{
		Lhs:    c,
		Exp:    &ir.InvokeExp{Method: &ir.MethodRef{ClassName: "Add", Subsignature: "add(int,int)"}, Args: []ir.Var{a, bv}, Kind: ir.StaticCall},
		Static: true,
	})
	mb.Add(&ir.Return{Vars: []ir.Var{c}})
	main := mb.Finish()

	h := classes.NewHierarchy([]*classes.Class{
		{Name: "Add", Methods: map[string]*ir.Method{"add(int,int)": addMethod}},
		{Name: "Main", Methods: map[string]*ir.Method{"main()": main}},
	})
	return h, main, c
}

func TestInterconstpropFoldsAcrossCall(t *testing.T) {
	h, main, c := buildAddProgram()
	g := icfg.Build(main, h, nil)
	res := interconstprop.Solve(g)

	exit := icfg.Node{Method: main, CFG: g.CFGOf(main).Exit()}
	got := res.OutFact(exit).Get(c)
	if !got.Equal(value.ConstOf(8)) {
		t.Errorf("c at exit of main = %v, want 8", got)
	}
}

// buildUnresolvedCallProgram builds a call whose callee is never declared:
// Main.main() { x := Missing.absent(); return x }
func buildUnresolvedCallProgram() (*classes.Hierarchy, *ir.Method, ir.Var) {
	mb := ir.NewBuilder("Main", "main()", ir.TInt, true)
	x := mb.Var("x", ir.TInt)
	mb.Add(&ir.Invoke{
		Lhs:    x,
		Exp:    &ir.InvokeExp{Method: &ir.MethodRef{ClassName: "Missing", Subsignature: "absent()"}, Kind: ir.StaticCall},
		Static: true,
	})
	mb.Add(&ir.Return{Vars: []ir.Var{x}})
	main := mb.Finish()

	h := classes.NewHierarchy([]*classes.Class{
		{Name: "Main", Methods: map[string]*ir.Method{"main()": main}},
	})
	return h, main, x
}

func TestInterconstpropUnresolvedCallIsNACNotUndef(t *testing.T) {
	h, main, x := buildUnresolvedCallProgram()
	g := icfg.Build(main, h, nil)
	res := interconstprop.Solve(g)

	exit := icfg.Node{Method: main, CFG: g.CFGOf(main).Exit()}
	got := res.OutFact(exit).Get(x)
	if !got.IsNAC() {
		t.Errorf("an unresolved call's result should be NAC (no Return edge will ever refine it), got %v", got)
	}
}
