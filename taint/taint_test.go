package taint_test

import (
	"testing"

	"github.com/taie-go/taie/classes"
	"github.com/taie-go/taie/config"
	"github.com/taie-go/taie/ir"
	"github.com/taie-go/taie/pta"
	"github.com/taie-go/taie/pta/context"
	"github.com/taie-go/taie/pta/heap"
	"github.com/taie-go/taie/taint"
)

// buildTaintProgram builds:
//
//	Env.getenv() {}                  (opaque source)
//	Wrap.wrap(String) {}              (opaque; a transfer may carry arg 0 to RESULT)
//	Sink.exec(String) {}              (opaque sink)
//	Main.main() {
//	  t := Env.getenv()
//	  w := Wrap.wrap(t)
//	  Sink.exec(w)
//	  return
//	}
func buildTaintProgram() (*classes.Hierarchy, *ir.Method, []*ir.Invoke) {
	envGetenv := ir.NewBuilder("Env", "getenv()", ir.ClassType{Name: "String"}, true).Finish()
	wrapWrap := ir.NewBuilder("Wrap", "wrap(String)", ir.ClassType{Name: "String"}, true).Finish()
	sinkExec := ir.NewBuilder("Sink", "exec(String)", ir.TInt, true).Finish()

	mb := ir.NewBuilder("Main", "main()", ir.TInt, true)
	tVar := mb.Var("t", ir.ClassType{Name: "String"})
	wVar := mb.Var("w", ir.ClassType{Name: "String"})

	getCall := &ir.Invoke{
		Lhs:    tVar,
		Exp:    &ir.InvokeExp{Method: &ir.MethodRef{ClassName: "Env", Subsignature: "getenv()"}, Kind: ir.StaticCall},
		Static: true,
	}
	wrapCall := &ir.Invoke{
		Lhs:    wVar,
		Exp:    &ir.InvokeExp{Method: &ir.MethodRef{ClassName: "Wrap", Subsignature: "wrap(String)"}, Args: []ir.Var{tVar}, Kind: ir.StaticCall},
		Static: true,
	}
	sinkCall := &ir.Invoke{
		Exp:    &ir.InvokeExp{Method: &ir.MethodRef{ClassName: "Sink", Subsignature: "exec(String)"}, Args: []ir.Var{wVar}, Kind: ir.StaticCall},
		Static: true,
	}
	mb.Add(getCall)
	mb.Add(wrapCall)
	mb.Add(sinkCall)
	mb.Add(&ir.Return{})
	main := mb.Finish()

	h := classes.NewHierarchy([]*classes.Class{
		{Name: "Env", Methods: map[string]*ir.Method{"getenv()": envGetenv}},
		{Name: "Wrap", Methods: map[string]*ir.Method{"wrap(String)": wrapWrap}},
		{Name: "Sink", Methods: map[string]*ir.Method{"exec(String)": sinkExec}},
		{Name: "Main", Methods: map[string]*ir.Method{"main()": main}},
	})
	return h, main, []*ir.Invoke{getCall, wrapCall, sinkCall}
}

func TestTaintNoFlowWithoutTransfer(t *testing.T) {
	h, main, _ := buildTaintProgram()
	s := pta.NewSolver(h, heap.AllocationSite{}, context.Insensitive{})
	res := s.Solve(main)

	tc := &config.TaintConfig{
		Sources: []config.Source{{Method: "Env.getenv()", ReturnType: "Tainted"}},
		Sinks:   []config.Sink{{Method: "Sink.exec(String)", Param: 0}},
	}
	overlay := taint.NewOverlay(s, res, tc)
	flows := overlay.Run()

	if len(flows) != 0 {
		t.Fatalf("without a transfer rule, the wrapped value should not be recognized as tainted at the sink, got %d flows", len(flows))
	}
}

func TestTaintFlowThroughTransfer(t *testing.T) {
	h, main, invokes := buildTaintProgram()
	getCall, sinkCall := invokes[0], invokes[2]

	s := pta.NewSolver(h, heap.AllocationSite{}, context.Insensitive{})
	res := s.Solve(main)

	tc := &config.TaintConfig{
		Sources: []config.Source{{Method: "Env.getenv()", ReturnType: "Tainted"}},
		Sinks:   []config.Sink{{Method: "Sink.exec(String)", Param: 0}},
		Transfers: []config.Transfer{
			{Method: "Wrap.wrap(String)", From: config.Endpoint{Kind: config.ArgEndpoint, Arg: 0}, To: config.Endpoint{Kind: config.ResultEndpoint}, Type: "Tainted"},
		},
	}
	overlay := taint.NewOverlay(s, res, tc)
	flows := overlay.Run()

	if len(flows) != 1 {
		t.Fatalf("expected exactly one flow through the transfer, got %d", len(flows))
	}
	f := flows[0]
	if f.Source != getCall {
		t.Error("flow's source should be the Env.getenv() call")
	}
	if f.Sink != sinkCall {
		t.Error("flow's sink should be the Sink.exec(String) call")
	}
	if f.ParamIdx != 0 {
		t.Errorf("flow's param index = %d, want 0", f.ParamIdx)
	}
}
