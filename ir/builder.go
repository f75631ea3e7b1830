package ir

import "strconv"

// Builder constructs a Method by hand, the way the teacher's own tests
// build ssa.Function values programmatically rather than through a parser
// (§"front-end... external collaborator" — we only need *a* producer of
// valid IR, not a source-language compiler).
type Builder struct {
	m       *Method
	nameSeq int
}

// NewBuilder starts building a method with the given class/subsignature.
func NewBuilder(class, subsig string, retType Type, static bool) *Builder {
	m := &Method{Class: class, Subsignature: subsig, RetType: retType, Static: static}
	b := &Builder{m: m}
	if !static {
		b.m.This = b.newVar("this", ClassType{Name: class})
	}
	return b
}

func (b *Builder) newVar(name string, t Type) Var {
	if name == "" {
		b.nameSeq++
		name = "%tmp" + strconv.Itoa(b.nameSeq)
	}
	v := &VarDef{Name: name, Type: t, Method: b.m, Index: len(b.m.Vars)}
	b.m.Vars = append(b.m.Vars, v)
	return v
}

// Param declares the next formal parameter.
func (b *Builder) Param(name string, t Type) Var {
	v := b.newVar(name, t)
	b.m.Params = append(b.m.Params, v)
	b.m.ParamTypes = append(b.m.ParamTypes, t)
	return v
}

// Var declares an ordinary local variable.
func (b *Builder) Var(name string, t Type) Var { return b.newVar(name, t) }

// This returns the receiver variable, or nil for a static method.
func (b *Builder) This() Var { return b.m.This }

// Add appends stmt, assigning it the next statement index.
func (b *Builder) Add(stmt Stmt) Stmt {
	stmt.setIndex(len(b.m.Stmts))
	b.m.Stmts = append(b.m.Stmts, stmt)
	return stmt
}

// Finish populates the per-variable accessor indices and returns the
// completed method.
func (b *Builder) Finish() *Method {
	m := b.m
	m.loadFields = make(map[Var][]*LoadField)
	m.storeFields = make(map[Var][]*StoreField)
	m.loadArrays = make(map[Var][]*LoadArray)
	m.storeArrays = make(map[Var][]*StoreArray)
	m.asReceiver = make(map[Var][]*Invoke)
	for _, s := range m.Stmts {
		switch s := s.(type) {
		case *LoadField:
			if !s.Static && s.Base != nil {
				m.loadFields[s.Base] = append(m.loadFields[s.Base], s)
			}
		case *StoreField:
			if !s.Static && s.Base != nil {
				m.storeFields[s.Base] = append(m.storeFields[s.Base], s)
			}
		case *LoadArray:
			m.loadArrays[s.Base] = append(m.loadArrays[s.Base], s)
		case *StoreArray:
			m.storeArrays[s.Base] = append(m.storeArrays[s.Base], s)
		case *Invoke:
			if !s.Static && s.Base != nil {
				m.asReceiver[s.Base] = append(m.asReceiver[s.Base], s)
			}
		}
	}
	return m
}
