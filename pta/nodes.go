// Package pta implements the Andersen-style pointer analysis of §4.6/§4.7:
// a single solver parameterized by a context.Selector, since the two
// sections are "structurally identical" (§4.7) — the context-insensitive
// variant is just this solver run with context.Insensitive{}.
package pta

import (
	"fmt"

	"github.com/taie-go/taie/ir"
	"github.com/taie-go/taie/pta/context"
)

// Obj is an abstract heap object: identity = the allocation site under
// the configured heap.Model (§3 "Obj... identity = the New statement it
// originates from"). Alloc is nil for taint's fabricated objects (§4.10),
// whose identity is a call site rather than a New statement.
type Obj struct {
	Alloc    *ir.New
	Identity any
	Type     ir.Type
}

func (o *Obj) String() string {
	if o.Alloc == nil {
		return fmt.Sprintf("taint:%s", o.Type)
	}
	return fmt.Sprintf("new %s@%d", o.Type, o.Alloc.Index())
}

// CSObj pairs an Obj with the heap context it was allocated under — the
// unit points-to sets actually hold (§4.7: "every pointer and object is
// paired with a Context/heap-context").
type CSObj struct {
	Obj  *Obj
	HCtx context.Context
}

func (o *CSObj) String() string { return fmt.Sprintf("%s[%v]", o.Obj, o.HCtx) }

// Alloc and HeapCtx satisfy context.CSObjLike, letting ObjectSelector
// compute "append recv.object to recv.context" without pta↔context
// forming an import cycle.
func (o *CSObj) Alloc() any                    { return o.Obj.Identity }
func (o *CSObj) HeapCtx() context.Context      { return o.HCtx }

// Pointer is the closed set of pointer-flow-graph node kinds §3/§4.5
// enumerate: a context-sensitive local variable, a static field, an
// instance field of a specific CSObj, or an array index of a specific
// CSObj.
type Pointer interface {
	isPointer()
	String() string
}

// VarPtr is a method-local variable under a calling context.
type VarPtr struct {
	Var ir.Var
	Ctx context.Context
}

func (*VarPtr) isPointer()      {}
func (p *VarPtr) String() string { return fmt.Sprintf("%s[%v]", p.Var, p.Ctx) }

// StaticField is a static field `C.f`; statics have no context of their
// own (there is exactly one C.f regardless of who reads/writes it).
type StaticField struct{ Field *ir.FieldRef }

func (*StaticField) isPointer()      {}
func (p *StaticField) String() string { return p.Field.String() }

// InstanceField is `o.f` for a specific heap object o.
type InstanceField struct {
	Base  *CSObj
	Field *ir.FieldRef
}

func (*InstanceField) isPointer() {}
func (p *InstanceField) String() string {
	return fmt.Sprintf("%s.%s", p.Base, p.Field.Name)
}

// ArrayIndex is "some element of array object o", the standard
// must-merge-all-indices array abstraction (§3).
type ArrayIndex struct{ Base *CSObj }

func (*ArrayIndex) isPointer()      {}
func (p *ArrayIndex) String() string { return fmt.Sprintf("%s[*]", p.Base) }
