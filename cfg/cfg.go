// Package cfg builds the intra-procedural control-flow graph façade §3/§6
// specify: one node per IR statement (Tai-e-style, not basic-block-style),
// entry/exit nodes, and in/out edges labeled with a kind.
package cfg

import (
	"github.com/taie-go/taie/ir"
	"github.com/zboralski/lattice"
)

// Node identifies a CFG node: either a statement index in [0, len(Stmts))
// or one of the two synthetic nodes below.
type Node int

const (
	Entry Node = -1
	// Exit is assigned once the method's statement count is known; see
	// CFG.Exit().
)

// Kind labels a CFG edge, per §3.
type Kind uint8

const (
	FallThrough Kind = iota
	IfTrue
	IfFalse
	SwitchCase
	SwitchDefault
	Exceptional
)

func (k Kind) String() string {
	switch k {
	case IfTrue:
		return "IF_TRUE"
	case IfFalse:
		return "IF_FALSE"
	case SwitchCase:
		return "SWITCH_CASE"
	case SwitchDefault:
		return "SWITCH_DEFAULT"
	case Exceptional:
		return "EXCEPTIONAL"
	default:
		return "FALL_THROUGH"
	}
}

// Edge is a directed CFG edge; CaseValue is meaningful only when
// Kind == SwitchCase.
type Edge struct {
	From, To  Node
	Kind      Kind
	CaseValue int32
}

// CFG is the intra-procedural control-flow graph of one method.
type CFG struct {
	Method *ir.Method
	exit   Node

	succs map[Node][]Edge
	preds map[Node][]Edge
}

func (g *CFG) Entry() Node { return Entry }
func (g *CFG) Exit() Node  { return g.exit }

// Nodes returns every node (entry, every statement, exit) in program
// order.
func (g *CFG) Nodes() []Node {
	nodes := make([]Node, 0, len(g.Method.Stmts)+2)
	nodes = append(nodes, Entry)
	for i := range g.Method.Stmts {
		nodes = append(nodes, Node(i))
	}
	nodes = append(nodes, g.exit)
	return nodes
}

// StmtNodes returns only the statement nodes, in program order — the
// worklist's initial contents (§4.1: "Worklist = all non-entry nodes").
func (g *CFG) StmtNodes() []Node {
	nodes := make([]Node, len(g.Method.Stmts))
	for i := range g.Method.Stmts {
		nodes[i] = Node(i)
	}
	return nodes
}

// Stmt returns the statement a node denotes, or nil for Entry/Exit.
func (g *CFG) Stmt(n Node) ir.Stmt {
	if n < 0 || int(n) >= len(g.Method.Stmts) {
		return nil
	}
	return g.Method.Stmts[n]
}

func (g *CFG) Succs(n Node) []Edge { return g.succs[n] }
func (g *CFG) Preds(n Node) []Edge { return g.preds[n] }

func (g *CFG) addEdge(e Edge) {
	g.succs[e.From] = append(g.succs[e.From], e)
	g.preds[e.To] = append(g.preds[e.To], e)
}

// Build constructs the CFG of m by scanning its (already flat,
// index-addressed) statement list for control transfers.
func Build(m *ir.Method) *CFG {
	exit := Node(len(m.Stmts))
	g := &CFG{
		Method: m,
		exit:   exit,
		succs:  make(map[Node][]Edge),
		preds:  make(map[Node][]Edge),
	}

	if len(m.Stmts) == 0 {
		g.addEdge(Edge{From: Entry, To: exit, Kind: FallThrough})
		return g
	}
	g.addEdge(Edge{From: Entry, To: 0, Kind: FallThrough})

	for i, s := range m.Stmts {
		n := Node(i)
		switch s := s.(type) {
		case *ir.If:
			g.addEdge(Edge{From: n, To: Node(s.Target), Kind: IfTrue})
			g.addEdge(Edge{From: n, To: fallthroughTarget(n, exit), Kind: IfFalse})
		case *ir.Switch:
			for k, target := range s.Targets {
				g.addEdge(Edge{From: n, To: Node(target), Kind: SwitchCase, CaseValue: s.Cases[k]})
			}
			g.addEdge(Edge{From: n, To: Node(s.Default), Kind: SwitchDefault})
		case *ir.Goto:
			g.addEdge(Edge{From: n, To: Node(s.Target), Kind: FallThrough})
		case *ir.Return:
			g.addEdge(Edge{From: n, To: exit, Kind: FallThrough})
		default:
			g.addEdge(Edge{From: n, To: fallthroughTarget(n, exit), Kind: FallThrough})
		}
	}
	return g
}

func fallthroughTarget(n, exit Node) Node {
	if n+1 >= exit {
		return exit
	}
	return n + 1
}

// ToLattice renders g as a github.com/zboralski/lattice FuncCFG for
// deduplicated storage and optional dot/html rendering, following the
// build-domain-blocks/hand-to-lattice pipeline internal/callgraph uses in
// the zboralski/unflutter pack repo this dependency is drawn from.
func (g *CFG) ToLattice() *lattice.FuncCFG {
	lcfg := &lattice.FuncCFG{Name: g.Method.String()}
	for _, n := range g.Nodes() {
		term := len(g.succs[n]) == 0
		lb := &lattice.BasicBlock{ID: int(n) + 1, Start: int(n), End: int(n) + 1, Term: term}
		for _, e := range g.succs[n] {
			lb.Succs = append(lb.Succs, lattice.Successor{BlockID: int(e.To) + 1, Cond: e.Kind.String()})
		}
		lcfg.Blocks = append(lcfg.Blocks, lb)
	}
	return lcfg
}
