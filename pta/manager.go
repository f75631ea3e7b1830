package pta

import (
	"fmt"
	"io"

	"github.com/taie-go/taie/ir"
	"github.com/taie-go/taie/pta/context"
	"github.com/taie-go/taie/pta/heap"
)

// Manager is the CSManager of §3/§5: the single arena that canonicalizes
// every Obj, CSObj and Pointer so that "the same" (var, context) pair is
// always the same *VarPtr, the way pointer/gen.go's analysis canonicalizes
// nodeids through a.nodes/a.setValueNode. Built once per Solver and never
// shared across runs (§5 "Memory management is arena-style").
type Manager struct {
	heapModel heap.Model
	log       io.Writer

	objs           map[any]*Obj
	csObjs         map[csObjKey]*CSObj
	varPtrs        map[varPtrKey]*VarPtr
	staticFields   map[*ir.FieldRef]*StaticField
	instanceFields map[instFieldKey]*InstanceField
	arrayIndices   map[*CSObj]*ArrayIndex
}

type csObjKey struct {
	obj *Obj
	ctx context.Context
}

type varPtrKey struct {
	v   ir.Var
	ctx context.Context
}

type instFieldKey struct {
	base  *CSObj
	field *ir.FieldRef
}

// NewManager returns an empty arena using model to abstract allocation
// sites.
func NewManager(model heap.Model) *Manager {
	return &Manager{
		heapModel:      model,
		objs:           make(map[any]*Obj),
		csObjs:         make(map[csObjKey]*CSObj),
		varPtrs:        make(map[varPtrKey]*VarPtr),
		staticFields:   make(map[*ir.FieldRef]*StaticField),
		instanceFields: make(map[instFieldKey]*InstanceField),
		arrayIndices:   make(map[*CSObj]*ArrayIndex),
	}
}

// SetLog enables a.log-style tracing of node creation, mirroring
// pointer/gen.go's `if a.log != nil { fmt.Fprintf(a.log, ...) }` idiom.
func (m *Manager) SetLog(w io.Writer) { m.log = w }

func (m *Manager) trace(format string, args ...any) {
	if m.log != nil {
		fmt.Fprintf(m.log, format, args...)
	}
}

// ObjOf canonicalizes the abstract object allocated at site.
func (m *Manager) ObjOf(site *ir.New) *Obj {
	id := m.heapModel.Abstract(site)
	if o, ok := m.objs[id]; ok {
		return o
	}
	o := &Obj{Alloc: site, Identity: id, Type: site.Type}
	m.objs[id] = o
	m.trace("\tnew obj %s\n", o)
	return o
}

// taintObjKey identifies a fabricated taint object by its originating
// call site and declared type label (§4.10: "a distinguished Obj whose
// allocation site is the fabricating call site").
type taintObjKey struct {
	site *ir.Invoke
	typ  string
}

// TaintObjOf canonicalizes the taint object fabricated at site with
// declared type typ.
func (m *Manager) TaintObjOf(site *ir.Invoke, typ string) *Obj {
	key := taintObjKey{site, typ}
	if o, ok := m.objs[key]; ok {
		return o
	}
	o := &Obj{Identity: key, Type: ir.ClassType{Name: typ}}
	m.objs[key] = o
	m.trace("\tnew taint obj %s\n", o)
	return o
}

// CSObjOf canonicalizes (o, ctx).
func (m *Manager) CSObjOf(o *Obj, ctx context.Context) *CSObj {
	key := csObjKey{o, ctx}
	if cs, ok := m.csObjs[key]; ok {
		return cs
	}
	cs := &CSObj{Obj: o, HCtx: ctx}
	m.csObjs[key] = cs
	return cs
}

// VarPtrOf canonicalizes (v, ctx). v may be nil (e.g. a void Invoke's
// Lhs); callers must guard against that before calling in.
func (m *Manager) VarPtrOf(v ir.Var, ctx context.Context) *VarPtr {
	key := varPtrKey{v, ctx}
	if p, ok := m.varPtrs[key]; ok {
		return p
	}
	p := &VarPtr{Var: v, Ctx: ctx}
	m.varPtrs[key] = p
	m.trace("\tn%p = VarPtr(%s)\n", p, p)
	return p
}

func (m *Manager) StaticFieldOf(f *ir.FieldRef) *StaticField {
	if p, ok := m.staticFields[f]; ok {
		return p
	}
	p := &StaticField{Field: f}
	m.staticFields[f] = p
	return p
}

func (m *Manager) InstanceFieldOf(base *CSObj, f *ir.FieldRef) *InstanceField {
	key := instFieldKey{base, f}
	if p, ok := m.instanceFields[key]; ok {
		return p
	}
	p := &InstanceField{Base: base, Field: f}
	m.instanceFields[key] = p
	return p
}

func (m *Manager) ArrayIndexOf(base *CSObj) *ArrayIndex {
	if p, ok := m.arrayIndices[base]; ok {
		return p
	}
	p := &ArrayIndex{Base: base}
	m.arrayIndices[base] = p
	return p
}
