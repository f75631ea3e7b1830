package ir

// Method is one method body: an ordered statement list plus the
// bookkeeping §6 requires of an IR front end (parameters, return
// variables, `this`, and per-variable load/store/invoke indices).
type Method struct {
	Class        string
	Subsignature string
	ParamTypes   []Type
	RetType      Type
	Abstract     bool
	Static       bool

	This   Var // nil for static methods
	Params []Var
	Vars   []Var // all locals, including This and Params, in declaration order
	Stmts  []Stmt

	// Per-variable accessor indices, populated by Builder.Finish.
	loadFields  map[Var][]*LoadField
	storeFields map[Var][]*StoreField
	loadArrays  map[Var][]*LoadArray
	storeArrays map[Var][]*StoreArray
	asReceiver  map[Var][]*Invoke
}

func (m *Method) String() string { return m.Class + "." + m.Subsignature }

// Ref returns the MethodRef other methods use to call m statically.
func (m *Method) Ref() *MethodRef {
	return &MethodRef{ClassName: m.Class, Subsignature: m.Subsignature, ParamTypes: m.ParamTypes, RetType: m.RetType}
}

// LoadFieldsOf returns the LoadField statements whose base is v.
func (m *Method) LoadFieldsOf(v Var) []*LoadField { return m.loadFields[v] }

// StoreFieldsOf returns the StoreField statements whose base is v.
func (m *Method) StoreFieldsOf(v Var) []*StoreField { return m.storeFields[v] }

// LoadArraysOf returns the LoadArray statements whose base is v.
func (m *Method) LoadArraysOf(v Var) []*LoadArray { return m.loadArrays[v] }

// StoreArraysOf returns the StoreArray statements whose base is v.
func (m *Method) StoreArraysOf(v Var) []*StoreArray { return m.storeArrays[v] }

// InvokesWithReceiver returns the Invoke statements where v is the
// receiver (virtual/interface/special dispatch candidates).
func (m *Method) InvokesWithReceiver(v Var) []*Invoke { return m.asReceiver[v] }

// ReturnVars returns every variable appearing in a Return statement,
// deduplicated, in first-seen order — the candidates §4.4's Return-edge
// transfer joins over.
func (m *Method) ReturnVars() []Var {
	seen := make(map[Var]bool)
	var out []Var
	for _, s := range m.Stmts {
		if r, ok := s.(*Return); ok {
			for _, v := range r.Vars {
				if v != nil && !seen[v] {
					seen[v] = true
					out = append(out, v)
				}
			}
		}
	}
	return out
}
