package fact

import (
	"testing"

	"github.com/taie-go/taie/ir"
	"github.com/taie-go/taie/value"
)

func testVar(name string) ir.Var {
	return &ir.VarDef{Name: name, Type: ir.TInt}
}

func TestCPFactGetMissingIsUndef(t *testing.T) {
	f := NewCPFact()
	if got := f.Get(testVar("x")); !got.IsUndef() {
		t.Errorf("Get(unbound) = %v, want UNDEF", got)
	}
}

func TestCPFactUpdateAndGet(t *testing.T) {
	f := NewCPFact()
	x := testVar("x")
	if changed := f.Update(x, value.ConstOf(3)); !changed {
		t.Error("Update to a new value should report changed")
	}
	if got := f.Get(x); !got.Equal(value.ConstOf(3)) {
		t.Errorf("Get(x) = %v, want 3", got)
	}
	if changed := f.Update(x, value.ConstOf(3)); changed {
		t.Error("Update with the same value should report unchanged")
	}
}

func TestCPFactUpdateToUndefRemoves(t *testing.T) {
	f := NewCPFact()
	x := testVar("x")
	f.Update(x, value.ConstOf(3))
	if changed := f.Update(x, value.Undef()); !changed {
		t.Error("Update to UNDEF after a bound value should report changed")
	}
	if got := f.Get(x); !got.IsUndef() {
		t.Errorf("Get(x) after UNDEF update = %v, want UNDEF", got)
	}
	seen := false
	f.ForEach(func(ir.Var, value.Value) { seen = true })
	if seen {
		t.Error("ForEach should skip a variable bound back to UNDEF")
	}
}

func TestCPFactCopyIsIndependent(t *testing.T) {
	f := NewCPFact()
	x := testVar("x")
	f.Update(x, value.ConstOf(1))
	cp := f.Copy()
	cp.Update(x, value.ConstOf(2))
	if got := f.Get(x); !got.Equal(value.ConstOf(1)) {
		t.Errorf("original changed after mutating copy: Get(x) = %v", got)
	}
}

func TestCPFactEqual(t *testing.T) {
	x, y := testVar("x"), testVar("y")
	a := NewCPFact()
	a.Update(x, value.ConstOf(1))
	b := NewCPFact()
	b.Update(x, value.ConstOf(1))
	if !a.Equal(b) {
		t.Error("facts with identical bindings should be equal")
	}
	b.Update(y, value.ConstOf(2))
	if a.Equal(b) {
		t.Error("facts with different bindings should not be equal")
	}
}

func TestCPFactMeetInto(t *testing.T) {
	x := testVar("x")
	a := NewCPFact()
	a.Update(x, value.ConstOf(1))
	b := NewCPFact()
	b.Update(x, value.ConstOf(2))

	if changed := a.MeetInto(b); !changed {
		t.Error("meeting unequal constants should change the fact")
	}
	if got := a.Get(x); !got.IsNAC() {
		t.Errorf("meet(1, 2) = %v, want NAC", got)
	}
}

func TestCPFactMeetIntoUndefIsIdentity(t *testing.T) {
	x := testVar("x")
	a := NewCPFact()
	a.Update(x, value.ConstOf(5))
	b := NewCPFact() // x unbound == UNDEF in b

	if changed := a.MeetInto(b); changed {
		t.Error("meeting with UNDEF should not change the fact")
	}
	if got := a.Get(x); !got.Equal(value.ConstOf(5)) {
		t.Errorf("meet(5, UNDEF) = %v, want 5", got)
	}
}
