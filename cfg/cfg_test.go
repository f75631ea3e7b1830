package cfg_test

import (
	"testing"

	"github.com/taie-go/taie/cfg"
	"github.com/taie-go/taie/ir"
	"github.com/zboralski/lattice"
)

func hasEdge(edges []cfg.Edge, to cfg.Node, kind cfg.Kind) bool {
	for _, e := range edges {
		if e.To == to && e.Kind == kind {
			return true
		}
	}
	return false
}

func TestBuildIfEdges(t *testing.T) {
	b := ir.NewBuilder("C", "run(int)", ir.TInt, true)
	x := b.Param("x", ir.TInt)
	b.Add(&ir.If{Cond: ir.VarRef{V: x}, Target: 2}) // 0
	b.Add(&ir.Return{})                             // 1 (false branch)
	b.Add(&ir.Return{})                             // 2 (true target)
	m := b.Finish()

	g := cfg.Build(m)
	succs := g.Succs(0)
	if !hasEdge(succs, 2, cfg.IfTrue) {
		t.Errorf("missing IF_TRUE edge to 2, got %+v", succs)
	}
	if !hasEdge(succs, 1, cfg.IfFalse) {
		t.Errorf("missing IF_FALSE fallthrough edge to 1, got %+v", succs)
	}
}

func TestBuildSwitchEdges(t *testing.T) {
	b := ir.NewBuilder("C", "run(int)", ir.TInt, true)
	_ = b.Param("x", ir.TInt)
	b.Add(&ir.Switch{Cases: []int32{1, 2}, Targets: []int{2, 3}, Default: 4}) // 0
	b.Add(&ir.Return{})                                                      // 1 unreachable filler
	b.Add(&ir.Return{})                                                      // 2 case 1
	b.Add(&ir.Return{})                                                      // 3 case 2
	b.Add(&ir.Return{})                                                      // 4 default
	m := b.Finish()

	g := cfg.Build(m)
	succs := g.Succs(0)
	if !hasEdge(succs, 2, cfg.SwitchCase) || !hasEdge(succs, 3, cfg.SwitchCase) {
		t.Errorf("missing SWITCH_CASE edges, got %+v", succs)
	}
	if !hasEdge(succs, 4, cfg.SwitchDefault) {
		t.Errorf("missing SWITCH_DEFAULT edge, got %+v", succs)
	}
}

func TestBuildGotoAndReturnEdges(t *testing.T) {
	b := ir.NewBuilder("C", "run()", ir.TInt, true)
	b.Add(&ir.Goto{Target: 2}) // 0
	b.Add(&ir.Return{})        // 1 unreachable filler
	b.Add(&ir.Return{})        // 2
	m := b.Finish()

	g := cfg.Build(m)
	if !hasEdge(g.Succs(0), 2, cfg.FallThrough) {
		t.Errorf("goto should produce a FALL_THROUGH edge to its target, got %+v", g.Succs(0))
	}
	if !hasEdge(g.Succs(2), g.Exit(), cfg.FallThrough) {
		t.Errorf("return should produce a FALL_THROUGH edge to exit, got %+v", g.Succs(2))
	}
}

func TestBuildDefaultFallsThroughToNextStmt(t *testing.T) {
	b := ir.NewBuilder("C", "run()", ir.TInt, true)
	v := b.Var("v", ir.TInt)
	b.Add(&ir.AssignExp{Lhs: v, Rhs: ir.IntLit{Value: 1}}) // 0
	b.Add(&ir.Return{})                                    // 1
	m := b.Finish()

	g := cfg.Build(m)
	if !hasEdge(g.Succs(0), 1, cfg.FallThrough) {
		t.Errorf("a plain statement should fall through to the next index, got %+v", g.Succs(0))
	}
}

func TestEntryFallsThroughToFirstStmt(t *testing.T) {
	b := ir.NewBuilder("C", "run()", ir.TInt, true)
	b.Add(&ir.Return{})
	m := b.Finish()

	g := cfg.Build(m)
	if !hasEdge(g.Succs(g.Entry()), 0, cfg.FallThrough) {
		t.Errorf("entry should fall through to statement 0, got %+v", g.Succs(g.Entry()))
	}
}

func TestEmptyMethodEntryFallsThroughToExit(t *testing.T) {
	b := ir.NewBuilder("C", "run()", ir.TInt, true)
	m := b.Finish()

	g := cfg.Build(m)
	if !hasEdge(g.Succs(g.Entry()), g.Exit(), cfg.FallThrough) {
		t.Errorf("an empty method's entry should fall through directly to exit, got %+v", g.Succs(g.Entry()))
	}
}

func TestStmtNilAtEntryAndExit(t *testing.T) {
	b := ir.NewBuilder("C", "run()", ir.TInt, true)
	b.Add(&ir.Return{})
	m := b.Finish()

	g := cfg.Build(m)
	if g.Stmt(g.Entry()) != nil {
		t.Error("Stmt(Entry) should be nil")
	}
	if g.Stmt(g.Exit()) != nil {
		t.Error("Stmt(Exit) should be nil")
	}
	if g.Stmt(0) == nil {
		t.Error("Stmt(0) should return the statement")
	}
}

func TestNodesIncludesEntryAndExitInOrder(t *testing.T) {
	b := ir.NewBuilder("C", "run()", ir.TInt, true)
	b.Add(&ir.Return{})
	b.Add(&ir.Return{})
	m := b.Finish()

	g := cfg.Build(m)
	nodes := g.Nodes()
	want := []cfg.Node{g.Entry(), 0, 1, g.Exit()}
	if len(nodes) != len(want) {
		t.Fatalf("Nodes() = %v, want %v", nodes, want)
	}
	for i := range want {
		if nodes[i] != want[i] {
			t.Errorf("Nodes()[%d] = %v, want %v", i, nodes[i], want[i])
		}
	}
}

func TestStmtNodesExcludesEntryAndExit(t *testing.T) {
	b := ir.NewBuilder("C", "run()", ir.TInt, true)
	b.Add(&ir.Return{})
	b.Add(&ir.Return{})
	m := b.Finish()

	g := cfg.Build(m)
	nodes := g.StmtNodes()
	if len(nodes) != 2 || nodes[0] != 0 || nodes[1] != 1 {
		t.Errorf("StmtNodes() = %v, want [0 1]", nodes)
	}
}

func TestToLatticeRendersOneBlockPerNode(t *testing.T) {
	b := ir.NewBuilder("C", "run(int)", ir.TInt, true)
	x := b.Param("x", ir.TInt)
	b.Add(&ir.If{Cond: ir.VarRef{V: x}, Target: 2}) // 0
	b.Add(&ir.Return{})                             // 1
	b.Add(&ir.Return{})                             // 2
	m := b.Finish()

	g := cfg.Build(m)
	lcfg := g.ToLattice()

	if lcfg.Name != m.String() {
		t.Errorf("lattice func name = %q, want %q", lcfg.Name, m.String())
	}
	if len(lcfg.Blocks) != len(g.Nodes()) {
		t.Fatalf("lattice block count = %d, want %d (one per CFG node, including entry/exit)", len(lcfg.Blocks), len(g.Nodes()))
	}

	var ifBlock *lattice.BasicBlock
	for _, blk := range lcfg.Blocks {
		if blk.Start == 0 {
			ifBlock = blk
		}
	}
	if ifBlock == nil {
		t.Fatal("no block found for statement 0")
	}
	var sawTrue, sawFalse bool
	for _, s := range ifBlock.Succs {
		switch s.Cond {
		case cfg.IfTrue.String():
			sawTrue = true
		case cfg.IfFalse.String():
			sawFalse = true
		}
	}
	if !sawTrue || !sawFalse {
		t.Errorf("if-block successors should carry IF_TRUE and IF_FALSE conditions, got %+v", ifBlock.Succs)
	}
}
