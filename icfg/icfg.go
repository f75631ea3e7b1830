// Package icfg builds the interprocedural CFG façade §6 specifies: a
// reachable-methods closure (via callgraph's CHA), each method's own CFG,
// and edges linking call-site statements to callee entries and callee
// exits back to call-site return sites, labeled per §4.4's four edge
// kinds.
package icfg

import (
	"github.com/taie-go/taie/callgraph"
	"github.com/taie-go/taie/cfg"
	"github.com/taie-go/taie/classes"
	"github.com/taie-go/taie/internal/diag"
	"github.com/taie-go/taie/ir"
)

// EdgeKind labels an ICFG edge, per §4.4.
type EdgeKind uint8

const (
	Normal EdgeKind = iota
	CallToReturn
	Call
	Return
)

// Node identifies a statement (or entry/exit) within a specific method.
type Node struct {
	Method *ir.Method
	CFG    cfg.Node
}

// Edge is a directed, kind-labeled ICFG edge. Call carries the originating
// invoke statement for Call/Return/CallToReturn edges (nil for Normal),
// so edge-transfer functions don't need to re-derive it from endpoints.
type Edge struct {
	From, To Node
	Kind     EdgeKind
	Call     *ir.Invoke
}

// ICFG is the interprocedural CFG over every method the CHA call graph
// reaches from a given entry method.
type ICFG struct {
	entry *ir.Method
	cfgs  map[*ir.Method]*cfg.CFG
	callG *callgraph.Graph

	succs map[Node][]Edge
	preds map[Node][]Edge
}

// Build constructs the ICFG reachable from entry, per §6's "entry node
// per method... containingMethodOf(node), entryMethods()" contract. log
// may be nil; when non-nil it receives BuildCHA's unresolved-dispatch
// warnings (§7).
func Build(entry *ir.Method, h *classes.Hierarchy, log *diag.Log) *ICFG {
	g := &ICFG{
		entry: entry,
		cfgs:  make(map[*ir.Method]*cfg.CFG),
		succs: make(map[Node][]Edge),
		preds: make(map[Node][]Edge),
	}
	if entry == nil {
		return g
	}
	g.callG = callgraph.BuildCHA(entry, h, log)
	for m := range g.callG.Reachable {
		g.cfgs[m] = cfg.Build(m)
	}

	// Index call-graph edges by their originating invoke statement, so
	// each call node can look up its resolved targets.
	targetsOf := make(map[*ir.Invoke][]*ir.Method)
	for _, e := range g.callG.Edges {
		targetsOf[e.Stmt] = append(targetsOf[e.Stmt], e.Callee)
	}

	for m, mcfg := range g.cfgs {
		for _, n := range mcfg.Nodes() {
			from := Node{Method: m, CFG: n}
			stmt := mcfg.Stmt(n)
			inv, isCall := stmt.(*ir.Invoke)
			if !isCall {
				for _, e := range mcfg.Succs(n) {
					g.addEdge(Edge{From: from, To: Node{Method: m, CFG: e.To}, Kind: Normal})
				}
				continue
			}
			for _, e := range mcfg.Succs(n) {
				returnSite := Node{Method: m, CFG: e.To}
				g.addEdge(Edge{From: from, To: returnSite, Kind: CallToReturn, Call: inv})
				for _, callee := range targetsOf[inv] {
					calleeCFG := g.cfgs[callee]
					if calleeCFG == nil {
						continue
					}
					g.addEdge(Edge{From: from, To: Node{Method: callee, CFG: calleeCFG.Entry()}, Kind: Call, Call: inv})
					g.addEdge(Edge{From: Node{Method: callee, CFG: calleeCFG.Exit()}, To: returnSite, Kind: Return, Call: inv})
				}
			}
		}
	}
	return g
}

func (g *ICFG) addEdge(e Edge) {
	g.succs[e.From] = append(g.succs[e.From], e)
	g.preds[e.To] = append(g.preds[e.To], e)
}

func (g *ICFG) Succs(n Node) []Edge { return g.succs[n] }
func (g *ICFG) Preds(n Node) []Edge { return g.preds[n] }

// HasResolvedCallee reports whether the call node from has at least one
// resolved Call edge, as opposed to an unresolvable dispatch whose only
// outgoing edge is CallToReturn. A resolved callee with no body still
// gets Call and Return edges, so it counts as resolved here.
func (g *ICFG) HasResolvedCallee(from Node) bool {
	for _, e := range g.succs[from] {
		if e.Kind == Call {
			return true
		}
	}
	return false
}

// CFGOf returns the intra-procedural CFG backing m, or nil if m was never
// reached.
func (g *ICFG) CFGOf(m *ir.Method) *cfg.CFG { return g.cfgs[m] }

// CallGraph exposes the CHA call graph the ICFG was built over, so
// callers that need a call-graph-level view (e.g. rendering) don't have
// to rebuild it.
func (g *ICFG) CallGraph() *callgraph.Graph { return g.callG }

// ContainingMethodOf is §6's "containingMethodOf(node)".
func (g *ICFG) ContainingMethodOf(n Node) *ir.Method { return n.Method }

// EntryMethods is §6's "entryMethods()": the methods with no caller in
// the reachable closure, i.e. just the analysis entry point here (CHA
// from a single root).
func (g *ICFG) EntryMethods() []*ir.Method {
	if g.entry == nil {
		return nil
	}
	return []*ir.Method{g.entry}
}

// EntryNode and ExitNode locate m's synthetic CFG boundary nodes in the
// ICFG.
func (g *ICFG) EntryNode(m *ir.Method) Node {
	return Node{Method: m, CFG: g.cfgs[m].Entry()}
}

func (g *ICFG) ExitNode(m *ir.Method) Node {
	return Node{Method: m, CFG: g.cfgs[m].Exit()}
}

// Nodes returns every ICFG node across every reachable method.
func (g *ICFG) Nodes() []Node {
	var out []Node
	for m, mcfg := range g.cfgs {
		for _, n := range mcfg.Nodes() {
			out = append(out, Node{Method: m, CFG: n})
		}
	}
	return out
}

// StmtNodes returns every statement (non entry/exit) ICFG node.
func (g *ICFG) StmtNodes() []Node {
	var out []Node
	for m, mcfg := range g.cfgs {
		for _, n := range mcfg.StmtNodes() {
			out = append(out, Node{Method: m, CFG: n})
		}
	}
	return out
}

// Stmt returns the IR statement a node denotes, or nil for an entry/exit
// node.
func (g *ICFG) Stmt(n Node) ir.Stmt { return g.cfgs[n.Method].Stmt(n.CFG) }
